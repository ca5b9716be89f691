package cards

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a card ID does not resolve in a catalog.
var ErrNotFound = errors.New("card not found")

// Catalog is a read-only lookup service mapping card IDs to definitions.
// Implementations must be safe for concurrent use.
type Catalog interface {
	GetCardByID(id string) (*Definition, error)
}

// StaticCatalog is an in-memory Catalog backed by a map. It serves tests and
// database-less runs, and is the load target for the Postgres card tables.
type StaticCatalog struct {
	mu    sync.RWMutex
	cards map[string]*Definition
}

// NewStaticCatalog creates a catalog pre-populated with the given definitions.
func NewStaticCatalog(defs ...*Definition) *StaticCatalog {
	c := &StaticCatalog{
		cards: make(map[string]*Definition, len(defs)),
	}
	for _, def := range defs {
		if def != nil {
			c.cards[def.ID] = def
		}
	}
	return c
}

// Add registers a definition, replacing any existing card with the same ID.
func (c *StaticCatalog) Add(def *Definition) {
	if def == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cards[def.ID] = def
}

// GetCardByID returns the definition for id or ErrNotFound.
func (c *StaticCatalog) GetCardByID(id string) (*Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, ok := c.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return def, nil
}

// Len returns the number of definitions in the catalog.
func (c *StaticCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cards)
}
