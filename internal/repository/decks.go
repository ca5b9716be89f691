package repository

import (
	"context"
	"fmt"

	"github.com/duelworks/duel-server-go/internal/cards"
)

// DeckRepository persists deck contents between combat sessions. Duplicate
// cards are separate rows, so each occurrence is added and removed
// independently.
type DeckRepository struct {
	db *DB
}

// NewDeckRepository creates a deck repository.
func NewDeckRepository(db *DB) *DeckRepository {
	return &DeckRepository{db: db}
}

// AddCard appends one occurrence of cardID to ownerID's deck. The card must
// exist in the cards table.
func (r *DeckRepository) AddCard(ctx context.Context, ownerID, cardID string) error {
	tag, err := r.db.pool.Exec(ctx, `
		INSERT INTO deck_cards (owner_id, card_id)
		SELECT $1, id FROM cards WHERE id = $2
	`, ownerID, cardID)
	if err != nil {
		return fmt.Errorf("adding card %s to deck of %s: %w", cardID, ownerID, err)
	}
	if tag.RowsAffected() == 0 {
		return cards.ErrNotFound
	}
	return nil
}

// RemoveCard removes a single occurrence of cardID from ownerID's deck.
// Removing a card that is not in the deck is a no-op.
func (r *DeckRepository) RemoveCard(ctx context.Context, ownerID, cardID string) error {
	_, err := r.db.pool.Exec(ctx, `
		DELETE FROM deck_cards
		WHERE id = (
			SELECT id FROM deck_cards
			WHERE owner_id = $1 AND card_id = $2
			ORDER BY id
			LIMIT 1
		)
	`, ownerID, cardID)
	if err != nil {
		return fmt.Errorf("removing card %s from deck of %s: %w", cardID, ownerID, err)
	}
	return nil
}

// GetDeck returns the card IDs in ownerID's deck, duplicates included, in
// insertion order. An owner with no rows gets an empty deck, not an error.
func (r *DeckRepository) GetDeck(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT card_id FROM deck_cards
		WHERE owner_id = $1
		ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying deck of %s: %w", ownerID, err)
	}
	defer rows.Close()

	deck := make([]string, 0)
	for rows.Next() {
		var cardID string
		if err := rows.Scan(&cardID); err != nil {
			return nil, fmt.Errorf("scanning deck row: %w", err)
		}
		deck = append(deck, cardID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deck rows: %w", err)
	}
	return deck, nil
}
