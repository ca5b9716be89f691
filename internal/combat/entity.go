package combat

import (
	"sync"

	"github.com/google/uuid"
)

// Role tags which side of a fight an entity plays.
type Role int

const (
	RolePlayer Role = iota
	RoleOpponent
)

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "PLAYER"
	case RoleOpponent:
		return "OPPONENT"
	default:
		return "UNKNOWN"
	}
}

// Authority proves that a mutation originates from server-side combat logic.
// The zero value carries no authority; only ServerAuthority produces a valid
// token, and it is held by the session orchestrator.
type Authority struct {
	valid bool
}

// ServerAuthority mints the server-side mutation token. Remote intents never
// carry one; they go through the session, which validates them first.
func ServerAuthority() Authority {
	return Authority{valid: true}
}

// Entity is a combat participant: a player- or opponent-controlled side of a
// fight, owning its vitals, status markers, and the three card zones.
type Entity struct {
	ID   string
	Name string
	Role Role

	mu        sync.RWMutex
	health    int
	maxHealth int
	energy    int
	maxEnergy int
	statuses  map[string]int
	deck      []string
	hand      []string
	discard   []string
}

// NewEntity creates an entity with full health, empty energy, and the given
// deck contents (card IDs, duplicates allowed; index 0 is the top of deck).
func NewEntity(name string, role Role, maxHealth, maxEnergy int, deck []string) *Entity {
	return &Entity{
		ID:        uuid.New().String(),
		Name:      name,
		Role:      role,
		health:    maxHealth,
		maxHealth: maxHealth,
		maxEnergy: maxEnergy,
		statuses:  make(map[string]int),
		deck:      append([]string(nil), deck...),
		hand:      make([]string, 0),
		discard:   make([]string, 0),
	}
}

// TakeDamage reduces health by amount, clamped to zero. Returns whether the
// entity is defeated after the hit.
func (e *Entity) TakeDamage(auth Authority, amount int) (defeated bool, err error) {
	if !auth.valid {
		return false, ErrUnauthorized
	}
	if amount < 0 {
		amount = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.health -= amount
	if e.health < 0 {
		e.health = 0
	}
	return e.health == 0, nil
}

// Heal restores health by amount, clamped to the maximum.
func (e *Entity) Heal(auth Authority, amount int) error {
	if !auth.valid {
		return ErrUnauthorized
	}
	if amount < 0 {
		amount = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.health += amount
	if e.health > e.maxHealth {
		e.health = e.maxHealth
	}
	return nil
}

// ChangeEnergy adjusts energy by delta, clamped to [0, max].
func (e *Entity) ChangeEnergy(auth Authority, delta int) error {
	if !auth.valid {
		return ErrUnauthorized
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.energy += delta
	if e.energy < 0 {
		e.energy = 0
	}
	if e.energy > e.maxEnergy {
		e.energy = e.maxEnergy
	}
	return nil
}

// ReplenishEnergy sets energy back to the maximum.
func (e *Entity) ReplenishEnergy(auth Authority) error {
	if !auth.valid {
		return ErrUnauthorized
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.energy = e.maxEnergy
	return nil
}

// SetStatus records a status marker on the entity, replacing any existing
// potency for the same status name. A potency of zero clears the marker.
func (e *Entity) SetStatus(auth Authority, name string, potency int) error {
	if !auth.valid {
		return ErrUnauthorized
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if potency == 0 {
		delete(e.statuses, name)
		return nil
	}
	e.statuses[name] = potency
	return nil
}

// StatusPotency returns the potency of the named status, or zero if absent.
func (e *Entity) StatusPotency(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.statuses[name]
}

// Health returns current health.
func (e *Entity) Health() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.health
}

// MaxHealth returns maximum health.
func (e *Entity) MaxHealth() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.maxHealth
}

// Energy returns current energy.
func (e *Entity) Energy() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.energy
}

// MaxEnergy returns maximum energy.
func (e *Entity) MaxEnergy() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.maxEnergy
}

// Defeated reports whether the entity's health has reached zero.
func (e *Entity) Defeated() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.health == 0
}
