package combat

// EntityView is a consistent read-only snapshot of one entity for observers.
// Opposing hands are exposed as counts only; the hand list is filled for the
// entity's own side by the transport layer.
type EntityView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Role        string         `json:"role"`
	Health      int            `json:"health"`
	MaxHealth   int            `json:"max_health"`
	Energy      int            `json:"energy"`
	MaxEnergy   int            `json:"max_energy"`
	Statuses    map[string]int `json:"statuses,omitempty"`
	DeckCount   int            `json:"deck_count"`
	HandCount   int            `json:"hand_count"`
	Hand        []string       `json:"hand,omitempty"`
	DiscardPile []string       `json:"discard,omitempty"`
}

// FightView is a snapshot of one fight's authoritative state.
type FightView struct {
	FightID   string     `json:"fight_id"`
	State     string     `json:"state"`
	Round     int        `json:"round"`
	Initiator EntityView `json:"initiator"`
	Responder EntityView `json:"responder"`
}

// Snapshot captures the entity's current state. includeHand controls whether
// the hand contents (vs just the count) are exposed.
func (e *Entity) Snapshot(includeHand bool) EntityView {
	e.mu.RLock()
	defer e.mu.RUnlock()

	statuses := make(map[string]int, len(e.statuses))
	for name, potency := range e.statuses {
		statuses[name] = potency
	}

	view := EntityView{
		ID:        e.ID,
		Name:      e.Name,
		Role:      e.Role.String(),
		Health:    e.health,
		MaxHealth: e.maxHealth,
		Energy:    e.energy,
		MaxEnergy: e.maxEnergy,
		Statuses:  statuses,
		DeckCount: len(e.deck),
		HandCount: len(e.hand),
	}
	if includeHand {
		view.Hand = append([]string(nil), e.hand...)
		view.DiscardPile = append([]string(nil), e.discard...)
	}
	return view
}

// Snapshot captures the fight's state with full hand visibility for the
// initiating side only.
func (f *Fight) Snapshot(round int) FightView {
	return FightView{
		FightID:   f.ID,
		State:     f.State().String(),
		Round:     round,
		Initiator: f.Initiator.Snapshot(true),
		Responder: f.Responder.Snapshot(false),
	}
}
