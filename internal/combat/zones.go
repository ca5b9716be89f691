package combat

// Rand is the uniform randomness source used by zone shuffles and the
// critical-hit roll. *rand.Rand satisfies it; sessions inject a locked
// wrapper so concurrent fights can share one seeded source.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Zone operations. The total multiset of card IDs across deck, hand and
// discard is conserved by every operation here: cards move between zones,
// they are never created or destroyed.

// DrawOne moves the top card of the deck into the hand. An empty deck is
// first refilled from the discard pile; if the deck is still empty the draw
// is a no-op and DrawOne reports drew=false. Hand-size limits are the
// caller's responsibility.
func (e *Entity) DrawOne(rng Rand) (cardID string, drew bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.deck) == 0 {
		e.reshuffleLocked(rng)
	}
	if len(e.deck) == 0 {
		return "", false
	}

	cardID = e.deck[0]
	e.deck = e.deck[1:]
	e.hand = append(e.hand, cardID)
	return cardID, true
}

// DrawN draws up to n cards, stopping early if both deck and discard run out.
// Returns the number of cards actually drawn.
func (e *Entity) DrawN(rng Rand, n int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		if _, ok := e.DrawOne(rng); !ok {
			break
		}
		drawn++
	}
	return drawn
}

// DiscardOne moves one occurrence of cardID from the hand to the discard
// pile. Returns ErrCardNotInHand if the ID is absent.
func (e *Entity) DiscardOne(cardID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, id := range e.hand {
		if id == cardID {
			e.hand = append(e.hand[:i], e.hand[i+1:]...)
			e.discard = append(e.discard, cardID)
			return nil
		}
	}
	return ErrCardNotInHand
}

// DiscardAll moves every card from the hand to the discard pile.
func (e *Entity) DiscardAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.discard = append(e.discard, e.hand...)
	e.hand = e.hand[:0]
}

// Shuffle randomizes the deck in place. Decks of size <= 1 are left alone.
func (e *Entity) Shuffle(rng Rand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shuffleLocked(rng)
}

// ReshuffleDiscardIntoDeck moves the discard pile into the deck and shuffles.
// No-op when the discard pile is empty.
func (e *Entity) ReshuffleDiscardIntoDeck(rng Rand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reshuffleLocked(rng)
}

func (e *Entity) reshuffleLocked(rng Rand) {
	if len(e.discard) == 0 {
		return
	}
	e.deck = append(e.deck, e.discard...)
	e.discard = e.discard[:0]
	e.shuffleLocked(rng)
}

// shuffleLocked performs a Fisher-Yates shuffle. Caller holds e.mu.
func (e *Entity) shuffleLocked(rng Rand) {
	if len(e.deck) <= 1 {
		return
	}
	for i := len(e.deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		e.deck[i], e.deck[j] = e.deck[j], e.deck[i]
	}
}

// DeckSize returns the number of cards in the deck.
func (e *Entity) DeckSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.deck)
}

// Hand returns a copy of the hand in display order.
func (e *Entity) Hand() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.hand...)
}

// Discard returns a copy of the discard pile.
func (e *Entity) Discard() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.discard...)
}

// Deck returns a copy of the deck, top card first.
func (e *Entity) Deck() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.deck...)
}

// HandContains reports whether at least one occurrence of cardID is in hand.
func (e *Entity) HandContains(cardID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, id := range e.hand {
		if id == cardID {
			return true
		}
	}
	return false
}

// HandSize returns the number of cards in hand.
func (e *Entity) HandSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.hand)
}
