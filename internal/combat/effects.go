package combat

import (
	"fmt"
	"math"

	"github.com/duelworks/duel-server-go/internal/cards"
	"go.uber.org/zap"
)

// Status names recognized by the damage pipeline. Any other status is
// recorded on the entity but has no mechanical effect yet.
const (
	StatusStrength = "strength"
	StatusWeakened = "weakened"
	StatusArmor    = "armor"
)

// Resolver computes and applies card effects to entities. Turn validation
// (ownership, catalog lookup, energy affordability) happens before it is
// invoked; the resolver receives the definition directly and only guards
// against absent references.
type Resolver struct {
	rng            Rand
	critChance     float64
	critMultiplier float64
	logger         *zap.Logger
}

// NewResolver creates an effect resolver.
func NewResolver(rng Rand, critChance, critMultiplier float64, logger *zap.Logger) *Resolver {
	return &Resolver{
		rng:            rng,
		critChance:     critChance,
		critMultiplier: critMultiplier,
		logger:         logger,
	}
}

// ApplyEffect resolves def cast by caster against target. The mutation is
// all-or-nothing: the effect is fully computed before any entity is touched,
// so a failed step leaves both entities unchanged.
func (r *Resolver) ApplyEffect(auth Authority, caster, target *Entity, def *cards.Definition) error {
	if caster == nil || target == nil || def == nil {
		return ErrInvalidReference
	}

	switch def.Effect {
	case cards.EffectDamage:
		damage, crit := r.computeDamage(caster, target, def.Amount)
		defeated, err := target.TakeDamage(auth, damage)
		if err != nil {
			return fmt.Errorf("applying %s: %w", def.ID, err)
		}
		if r.logger != nil {
			r.logger.Debug("damage resolved",
				zap.String("caster_id", caster.ID),
				zap.String("target_id", target.ID),
				zap.String("card_id", def.ID),
				zap.Int("damage", damage),
				zap.Bool("critical", crit),
				zap.Bool("defeated", defeated),
			)
		}
		return nil

	case cards.EffectHeal:
		if err := target.Heal(auth, def.Amount); err != nil {
			return fmt.Errorf("applying %s: %w", def.ID, err)
		}
		return nil

	case cards.EffectDrawCard:
		drawn := caster.DrawN(r.rng, def.Amount)
		if drawn < def.Amount && r.logger != nil {
			r.logger.Debug("draw effect exhausted deck",
				zap.String("caster_id", caster.ID),
				zap.Int("requested", def.Amount),
				zap.Int("drawn", drawn),
			)
		}
		return nil

	case cards.EffectBuffStats, cards.EffectDebuffStats, cards.EffectApplyStatus:
		status := def.Status
		if status == "" {
			status = def.Name
		}
		// Same-name statuses replace rather than stack; no decay is tracked.
		if err := target.SetStatus(auth, status, def.Amount); err != nil {
			return fmt.Errorf("applying %s: %w", def.ID, err)
		}
		return nil

	default:
		return fmt.Errorf("%w: effect type %s", ErrInvalidReference, def.Effect)
	}
}

// computeDamage runs the modifier pipeline: caster-side modifiers first
// (strength adds flat, weakened halves), then target-side modifiers (armor
// subtracts flat with a floor of 1), then the critical-hit roll.
func (r *Resolver) computeDamage(caster, target *Entity, base int) (damage int, crit bool) {
	value := float64(base)

	if strength := caster.StatusPotency(StatusStrength); strength > 0 {
		value += float64(strength)
	}
	if caster.StatusPotency(StatusWeakened) > 0 {
		value *= 0.5
	}

	if armor := target.StatusPotency(StatusArmor); armor > 0 {
		value -= float64(armor)
		if value < 1 {
			value = 1
		}
	}

	if r.critChance > 0 && r.rng.Float64() < r.critChance {
		value *= r.critMultiplier
		crit = true
	}

	return int(math.Round(value)), crit
}
