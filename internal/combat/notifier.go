package combat

import "go.uber.org/zap"

// Notifier receives push notifications about successful state transitions.
// Delivery is fire-and-forget: observers must tolerate missed intermediate
// states and resync from the authoritative views. Implementations must not
// block; the session calls these while fights are progressing.
type Notifier interface {
	RoundStarted(round int)
	TurnChanged(fightID, entityID string, state TurnState)
	CardPlayed(fightID, casterID, targetID, cardID string)
	FightEnded(fightID string, outcome Outcome)
	Message(connID, text string)
}

// NullNotifier is a Notifier that only logs. It backs tests and headless
// sessions where no observer transport is attached.
type NullNotifier struct {
	logger *zap.Logger
}

// NewNullNotifier creates a logging-only notifier.
func NewNullNotifier(logger *zap.Logger) *NullNotifier {
	return &NullNotifier{logger: logger}
}

func (n *NullNotifier) RoundStarted(round int) {
	if n.logger != nil {
		n.logger.Debug("round started", zap.Int("round", round))
	}
}

func (n *NullNotifier) TurnChanged(fightID, entityID string, state TurnState) {
	if n.logger != nil {
		n.logger.Debug("turn changed",
			zap.String("fight_id", fightID),
			zap.String("entity_id", entityID),
			zap.String("state", state.String()),
		)
	}
}

func (n *NullNotifier) CardPlayed(fightID, casterID, targetID, cardID string) {
	if n.logger != nil {
		n.logger.Debug("card played",
			zap.String("fight_id", fightID),
			zap.String("caster_id", casterID),
			zap.String("target_id", targetID),
			zap.String("card_id", cardID),
		)
	}
}

func (n *NullNotifier) FightEnded(fightID string, outcome Outcome) {
	if n.logger != nil {
		n.logger.Debug("fight ended",
			zap.String("fight_id", fightID),
			zap.String("winner_id", outcome.WinnerID),
			zap.String("loser_id", outcome.LoserID),
		)
	}
}

func (n *NullNotifier) Message(connID, text string) {
	if n.logger != nil {
		n.logger.Debug("message",
			zap.String("conn_id", connID),
			zap.String("text", text),
		)
	}
}
