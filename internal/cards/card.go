package cards

import "fmt"

// EffectType enumerates the effects a card can have when played.
type EffectType int

const (
	EffectDamage EffectType = iota
	EffectHeal
	EffectDrawCard
	EffectBuffStats
	EffectDebuffStats
	EffectApplyStatus
)

var effectTypeNames = map[EffectType]string{
	EffectDamage:      "DAMAGE",
	EffectHeal:        "HEAL",
	EffectDrawCard:    "DRAW_CARD",
	EffectBuffStats:   "BUFF_STATS",
	EffectDebuffStats: "DEBUFF_STATS",
	EffectApplyStatus: "APPLY_STATUS",
}

func (t EffectType) String() string {
	if name, ok := effectTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EFFECT_%d", int(t))
}

// ParseEffectType converts a stored effect type name back to its enum value.
func ParseEffectType(name string) (EffectType, error) {
	for t, n := range effectTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown effect type %q", name)
}

// Definition is the immutable static description of a card. The combat core
// looks definitions up by ID and never mutates them.
type Definition struct {
	ID          string
	Name        string
	Description string
	Effect      EffectType
	// Amount is the effect magnitude: damage dealt, health restored, cards
	// drawn, or status potency, depending on Effect.
	Amount int
	// Status names the status marker applied by BuffStats, DebuffStats and
	// ApplyStatus cards. Empty for other effect types.
	Status string
	// Cost is the energy deducted from the caster when the card is played.
	Cost int
}
