package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/duelworks/duel-server-go/internal/cards"
	"github.com/jackc/pgx/v5"
)

// CardRepository reads card definitions from the cards table.
type CardRepository struct {
	db *DB
}

// NewCardRepository creates a card repository.
func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

// GetCardByID fetches a single definition, returning cards.ErrNotFound when
// the ID does not exist.
func (r *CardRepository) GetCardByID(ctx context.Context, id string) (*cards.Definition, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, name, description, effect_type, amount, status, cost
		FROM cards
		WHERE id = $1
	`, id)

	def, err := scanCard(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cards.ErrNotFound
		}
		return nil, fmt.Errorf("querying card %s: %w", id, err)
	}
	return def, nil
}

// ListCards returns every card definition in the table.
func (r *CardRepository) ListCards(ctx context.Context) ([]*cards.Definition, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, description, effect_type, amount, status, cost
		FROM cards
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	defer rows.Close()

	var defs []*cards.Definition
	for rows.Next() {
		def, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cards: %w", err)
	}
	return defs, nil
}

// LoadCatalog builds an in-memory catalog from the card table so lookups
// during combat never touch the database.
func (r *CardRepository) LoadCatalog(ctx context.Context) (*cards.StaticCatalog, error) {
	defs, err := r.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	return cards.NewStaticCatalog(defs...), nil
}

func scanCard(row pgx.Row) (*cards.Definition, error) {
	var (
		def        cards.Definition
		effectName string
	)
	if err := row.Scan(&def.ID, &def.Name, &def.Description, &effectName, &def.Amount, &def.Status, &def.Cost); err != nil {
		return nil, err
	}
	effect, err := cards.ParseEffectType(effectName)
	if err != nil {
		return nil, err
	}
	def.Effect = effect
	return &def, nil
}
