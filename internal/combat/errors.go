package combat

import "errors"

// Participant-caused errors returned by intent validation and state
// mutation. All are recoverable: a failed call leaves session state exactly
// as it was, and the error is reported to the originating caller only.
var (
	ErrFightNotFound      = errors.New("fight not found")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrUnknownCard        = errors.New("unknown card")
	ErrInsufficientEnergy = errors.New("insufficient energy")
	ErrAlreadyInFight     = errors.New("entity already in a fight")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrUnauthorized       = errors.New("unauthorized mutation")
)
