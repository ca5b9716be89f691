package combat

import (
	"sync"

	"github.com/google/uuid"
)

// TurnState is the per-fight turn state machine.
type TurnState int

const (
	// TurnNone means the fight is waiting for the next round to start, or
	// has finished its turns for the current round.
	TurnNone TurnState = iota
	TurnInitiator
	TurnResponder
	// TurnConcluded is terminal: one side's health reached zero.
	TurnConcluded
)

var turnStateNames = map[TurnState]string{
	TurnNone:      "NONE",
	TurnInitiator: "INITIATOR_TURN",
	TurnResponder: "RESPONDER_TURN",
	TurnConcluded: "CONCLUDED",
}

func (s TurnState) String() string {
	if name, ok := turnStateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Outcome records how a concluded fight ended.
type Outcome struct {
	WinnerID string
	LoserID  string
}

// Fight pairs exactly two entities: the initiator (conventionally the
// human-controlled side) and the responder (the automated side). All turn
// processing for one fight is serialized through its mutex; independent
// fights progress concurrently.
type Fight struct {
	ID string

	// Initiator and Responder are fixed at creation and safe to read without
	// the lock. Their internal state is guarded by the entities themselves.
	Initiator *Entity
	Responder *Entity

	// ConnID is the connection handle owning the initiating side.
	ConnID string

	mu    sync.Mutex
	state TurnState
}

// NewFight pairs two entities. connID addresses the initiator's remote
// connection; automated-only fights may pass an empty handle.
func NewFight(initiator, responder *Entity, connID string) *Fight {
	return &Fight{
		ID:        uuid.New().String(),
		Initiator: initiator,
		Responder: responder,
		ConnID:    connID,
		state:     TurnNone,
	}
}

// State returns the current turn state.
func (f *Fight) State() TurnState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// setState transitions the fight. Concluded is terminal: once reached, no
// further transition is applied.
func (f *Fight) setState(state TurnState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == TurnConcluded {
		return
	}
	f.state = state
}

// Concluded reports whether the fight reached its terminal state.
func (f *Fight) Concluded() bool {
	return f.State() == TurnConcluded
}

// Opponent returns the entity paired against entityID, or nil if the ID is
// not part of this fight.
func (f *Fight) Opponent(entityID string) *Entity {
	switch entityID {
	case f.Initiator.ID:
		return f.Responder
	case f.Responder.ID:
		return f.Initiator
	default:
		return nil
	}
}

// Contains reports whether entityID is one of the fight's two sides.
func (f *Fight) Contains(entityID string) bool {
	return entityID == f.Initiator.ID || entityID == f.Responder.ID
}
