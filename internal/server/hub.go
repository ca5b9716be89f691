package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/duelworks/duel-server-go/internal/cards"
	"github.com/duelworks/duel-server-go/internal/combat"
	"github.com/duelworks/duel-server-go/internal/config"
	"go.uber.org/zap"
)

// DeckSource provides the initial deck contents for a combatant.
type DeckSource interface {
	DeckFor(ctx context.Context, ownerID string) ([]string, error)
}

// StarterDeckSource hands every combatant the built-in starter deck.
type StarterDeckSource struct{}

func (StarterDeckSource) DeckFor(context.Context, string) ([]string, error) {
	return cards.StarterDeck(), nil
}

// Hub owns the websocket clients, dispatches their intents to the combat
// session, and fans session notifications back out to fight observers. It
// implements combat.Notifier.
type Hub struct {
	logger  *zap.Logger
	session *combat.Session
	cfg     config.CombatConfig
	decks   DeckSource

	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	clients map[*Client]bool
	byConn  map[string]*Client
}

// NewHub creates a hub bound to a combat session.
func NewHub(session *combat.Session, cfg config.CombatConfig, decks DeckSource, logger *zap.Logger) *Hub {
	if decks == nil {
		decks = StarterDeckSource{}
	}
	return &Hub{
		logger:     logger,
		session:    session,
		cfg:        cfg,
		decks:      decks,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		byConn:     make(map[string]*Client),
	}
}

// Run processes client registration until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.byConn[client.id] = client
			h.mu.Unlock()
			h.logger.Info("client connected", zap.String("conn_id", client.id))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				delete(h.byConn, client.id)
				close(client.send)
			}
			h.mu.Unlock()
			h.session.Registry().RemoveFight(h.entityIDFor(client))
			h.logger.Info("client disconnected", zap.String("conn_id", client.id))
		}
	}
}

func (h *Hub) entityIDFor(client *Client) string {
	fight, ok := h.session.Registry().GetFightByConnection(client.id)
	if !ok {
		return ""
	}
	return fight.Initiator.ID
}

// handleMessage dispatches one decoded intent from a client.
func (h *Hub) handleMessage(client *Client, msg Envelope) {
	switch msg.Type {
	case MsgStartDuel:
		h.handleStartDuel(client, msg)

	case MsgPlayCard:
		err := h.session.PlayCard(client.id, msg.CardID)
		h.sendResult(client, MsgPlayCard, err)

	case MsgEndTurn:
		err := h.session.EndTurn(client.id)
		h.sendResult(client, MsgEndTurn, err)

	case MsgGetView:
		view, err := h.session.FightView(client.id)
		if err != nil {
			h.sendResult(client, MsgGetView, err)
			return
		}
		h.sendTo(client, Envelope{Type: MsgFightView, FightID: view.FightID, Data: view})

	default:
		h.logger.Debug("unknown intent",
			zap.String("conn_id", client.id),
			zap.String("type", msg.Type),
		)
	}
}

// handleStartDuel provisions a player entity and an automated opponent,
// registers the pairing, and brings the fight into the running session.
func (h *Hub) handleStartDuel(client *Client, msg Envelope) {
	name := msg.Name
	if name == "" {
		name = "Challenger"
	}

	deck, err := h.decks.DeckFor(context.Background(), name)
	if err != nil || len(deck) == 0 {
		h.logger.Warn("falling back to starter deck",
			zap.String("conn_id", client.id),
			zap.Error(err),
		)
		deck = cards.StarterDeck()
	}

	initiator := combat.NewEntity(name, combat.RolePlayer, h.cfg.MaxHealth, h.cfg.MaxEnergy, deck)
	responder := combat.NewEntity(name+"'s Rival", combat.RoleOpponent, h.cfg.MaxHealth, h.cfg.MaxEnergy, cards.StarterDeck())

	fight, err := h.session.Registry().AddFight(initiator, responder, client.id)
	if err != nil {
		h.sendResult(client, MsgStartDuel, err)
		return
	}

	h.mu.Lock()
	client.fightID = fight.ID
	h.mu.Unlock()

	if h.session.Started() {
		err = h.session.StartFight(fight)
	} else {
		err = h.session.Start(context.Background())
	}
	if err != nil {
		h.session.Registry().RemoveFight(initiator.ID)
		h.sendResult(client, MsgStartDuel, err)
		return
	}

	view, _ := h.session.FightView(client.id)
	h.sendTo(client, Envelope{Type: MsgDuelStarted, FightID: fight.ID, Data: view})
}

func (h *Hub) sendResult(client *Client, intent string, err error) {
	env := Envelope{Type: MsgResult, Intent: intent, OK: err == nil}
	if err != nil {
		env.Error = err.Error()
		env.Code = errorCode(err)
	}
	h.sendTo(client, env)
}

func (h *Hub) sendTo(client *Client, env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("marshaling envelope", zap.Error(err))
		return
	}
	if !client.enqueue(data) {
		h.logger.Warn("dropping message for slow client", zap.String("conn_id", client.id))
	}
}

// broadcastFight delivers env to every client observing fightID.
func (h *Hub) broadcastFight(fightID string, env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("marshaling envelope", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.fightID == fightID {
			client.enqueue(data)
		}
	}
}

// RoundStarted implements combat.Notifier.
func (h *Hub) RoundStarted(round int) {
	data, err := json.Marshal(Envelope{Type: MsgRoundStarted, Round: round})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		client.enqueue(data)
	}
}

// TurnChanged implements combat.Notifier.
func (h *Hub) TurnChanged(fightID, entityID string, state combat.TurnState) {
	h.broadcastFight(fightID, Envelope{
		Type:     MsgTurnChanged,
		FightID:  fightID,
		EntityID: entityID,
		State:    state.String(),
	})
}

// CardPlayed implements combat.Notifier.
func (h *Hub) CardPlayed(fightID, casterID, targetID, cardID string) {
	h.broadcastFight(fightID, Envelope{
		Type:     MsgCardPlayed,
		FightID:  fightID,
		CasterID: casterID,
		TargetID: targetID,
		CardID:   cardID,
	})
}

// FightEnded implements combat.Notifier.
func (h *Hub) FightEnded(fightID string, outcome combat.Outcome) {
	h.broadcastFight(fightID, Envelope{
		Type:     MsgFightEnded,
		FightID:  fightID,
		WinnerID: outcome.WinnerID,
		LoserID:  outcome.LoserID,
	})
}

// Message implements combat.Notifier. The lock is held through the enqueue:
// unregister closes the client's send channel under the write lock, so
// enqueueing outside it would race the close.
func (h *Hub) Message(connID, text string) {
	data, err := json.Marshal(Envelope{Type: MsgText, Text: text})
	if err != nil {
		h.logger.Error("marshaling envelope", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.byConn[connID]
	if !ok {
		return
	}
	if !client.enqueue(data) {
		h.logger.Warn("dropping message for slow client", zap.String("conn_id", client.id))
	}
}
