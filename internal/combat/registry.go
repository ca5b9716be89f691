package combat

import (
	"sync"

	"go.uber.org/zap"
)

// Registry tracks the active fight pairings of one combat session. The
// pairing relation is symmetric and exclusive: an entity belongs to at most
// one active fight, and both directions of a pairing resolve to the same
// Fight record.
type Registry struct {
	mu       sync.RWMutex
	fights   map[string]*Fight // fight ID -> fight
	byEntity map[string]*Fight // entity ID -> fight
	byConn   map[string]*Fight // connection handle -> fight (lookup cache)
	logger   *zap.Logger
}

// NewRegistry creates an empty fight registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		fights:   make(map[string]*Fight),
		byEntity: make(map[string]*Fight),
		byConn:   make(map[string]*Fight),
		logger:   logger,
	}
}

// AddFight pairs two entities. Returns ErrAlreadyInFight if either entity is
// already paired, ErrInvalidReference if an entity is missing.
func (r *Registry) AddFight(initiator, responder *Entity, connID string) (*Fight, error) {
	if initiator == nil || responder == nil {
		return nil, ErrInvalidReference
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEntity[initiator.ID]; exists {
		return nil, ErrAlreadyInFight
	}
	if _, exists := r.byEntity[responder.ID]; exists {
		return nil, ErrAlreadyInFight
	}

	fight := NewFight(initiator, responder, connID)
	r.fights[fight.ID] = fight
	r.byEntity[initiator.ID] = fight
	r.byEntity[responder.ID] = fight
	if connID != "" {
		r.byConn[connID] = fight
	}

	if r.logger != nil {
		r.logger.Info("fight added",
			zap.String("fight_id", fight.ID),
			zap.String("initiator_id", initiator.ID),
			zap.String("responder_id", responder.ID),
		)
	}

	return fight, nil
}

// RemoveFight removes any fight containing entityID, keeping both directions
// of the pairing maps consistent.
func (r *Registry) RemoveFight(entityID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fight, ok := r.byEntity[entityID]
	if !ok {
		return
	}

	delete(r.fights, fight.ID)
	delete(r.byEntity, fight.Initiator.ID)
	delete(r.byEntity, fight.Responder.ID)
	for conn, f := range r.byConn {
		if f == fight {
			delete(r.byConn, conn)
		}
	}

	if r.logger != nil {
		r.logger.Info("fight removed", zap.String("fight_id", fight.ID))
	}
}

// GetOpponent returns the entity paired against entityID.
func (r *Registry) GetOpponent(entityID string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fight, ok := r.byEntity[entityID]
	if !ok {
		return nil, false
	}
	opponent := fight.Opponent(entityID)
	return opponent, opponent != nil
}

// GetFightByEntity returns the fight containing entityID.
func (r *Registry) GetFightByEntity(entityID string) (*Fight, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fight, ok := r.byEntity[entityID]
	return fight, ok
}

// GetFightByConnection returns the fight whose initiating side is owned by
// connID. The cache is consulted first; on a miss the registry scans the
// active fights and caches the result.
func (r *Registry) GetFightByConnection(connID string) (*Fight, bool) {
	if connID == "" {
		return nil, false
	}

	r.mu.RLock()
	fight, ok := r.byConn[connID]
	r.mu.RUnlock()
	if ok {
		return fight, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.fights {
		if f.ConnID == connID {
			r.byConn[connID] = f
			return f, true
		}
	}
	return nil, false
}

// ActiveFights returns all registered fights.
func (r *Registry) ActiveFights() []*Fight {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fights := make([]*Fight, 0, len(r.fights))
	for _, fight := range r.fights {
		fights = append(fights, fight)
	}
	return fights
}

// Len returns the number of registered fights.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fights)
}
