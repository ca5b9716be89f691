package server

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/duelworks/duel-server-go/internal/cards"
	"github.com/duelworks/duel-server-go/internal/combat"
	"github.com/duelworks/duel-server-go/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newHubHarness(t *testing.T) (*Hub, *combat.Session) {
	logger := zaptest.NewLogger(t)
	catalog := cards.NewStaticCatalog(cards.StarterSet()...)
	registry := combat.NewRegistry(logger)

	session := combat.NewSession(catalog, registry, nil, combat.Config{
		InitialHandSize: 5,
		MaxHandSize:     10,
		CritChance:      0,
		CritMultiplier:  1.5,
	}, logger)
	session.SetClock(combat.NewInstantClock())
	session.SetRand(combat.NewRand(1))
	t.Cleanup(session.Close)

	cfg := config.CombatConfig{
		InitialHandSize: 5,
		MaxHandSize:     10,
		MaxHealth:       30,
		MaxEnergy:       5,
	}
	hub := NewHub(session, cfg, nil, logger)
	session.SetNotifier(hub)
	return hub, session
}

// connect registers a connectionless client straight into the hub maps; the
// tests drive handleMessage directly instead of running the pumps.
func connect(hub *Hub) *Client {
	client := &Client{
		id:   uuid.New().String(),
		send: make(chan []byte, sendBufferSize),
	}
	hub.mu.Lock()
	hub.clients[client] = true
	hub.byConn[client.id] = client
	hub.mu.Unlock()
	return client
}

// nextEnvelope pops queued messages until one of msgType arrives.
func nextEnvelope(t *testing.T, client *Client, msgType string) Envelope {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case data := <-client.send:
			var env Envelope
			require.NoError(t, json.Unmarshal(data, &env))
			if env.Type == msgType {
				return env
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s message", msgType)
		}
	}
}

func TestErrorCodes(t *testing.T) {
	cases := map[error]string{
		combat.ErrFightNotFound:      "FIGHT_NOT_FOUND",
		combat.ErrNotYourTurn:        "NOT_YOUR_TURN",
		combat.ErrCardNotInHand:      "CARD_NOT_IN_HAND",
		combat.ErrUnknownCard:        "UNKNOWN_CARD",
		combat.ErrInsufficientEnergy: "INSUFFICIENT_ENERGY",
		combat.ErrAlreadyInFight:     "ALREADY_IN_FIGHT",
		combat.ErrInvalidReference:   "INVALID_REFERENCE",
		combat.ErrUnauthorized:       "UNAUTHORIZED",
		errors.New("boom"):           "INTERNAL",
	}
	for err, code := range cases {
		assert.Equal(t, code, errorCode(err), "code for %v", err)
	}
}

func TestStartDuelCreatesFight(t *testing.T) {
	hub, session := newHubHarness(t)
	client := connect(hub)

	hub.handleMessage(client, Envelope{Type: MsgStartDuel, Name: "Ada"})

	// Round start notifications precede the duel_started reply.
	turn := nextEnvelope(t, client, MsgText)
	assert.Equal(t, "Your turn", turn.Text)

	started := nextEnvelope(t, client, MsgDuelStarted)
	assert.NotEmpty(t, started.FightID)
	assert.Equal(t, 1, session.Registry().Len())
	assert.True(t, session.Started())
}

func TestStartDuelTwiceIsRejected(t *testing.T) {
	hub, _ := newHubHarness(t)
	client := connect(hub)

	hub.handleMessage(client, Envelope{Type: MsgStartDuel, Name: "Ada"})
	nextEnvelope(t, client, MsgDuelStarted)

	hub.handleMessage(client, Envelope{Type: MsgStartDuel, Name: "Ada"})
	result := nextEnvelope(t, client, MsgResult)
	assert.False(t, result.OK)
	assert.Equal(t, "ALREADY_IN_FIGHT", result.Code)
}

func TestPlayCardIntent(t *testing.T) {
	hub, session := newHubHarness(t)
	client := connect(hub)

	hub.handleMessage(client, Envelope{Type: MsgStartDuel, Name: "Ada"})
	nextEnvelope(t, client, MsgDuelStarted)

	view, err := session.FightView(client.id)
	require.NoError(t, err)
	require.NotEmpty(t, view.Initiator.Hand)

	hub.handleMessage(client, Envelope{Type: MsgPlayCard, CardID: view.Initiator.Hand[0]})

	// The card_played broadcast is emitted during resolution, before the reply.
	played := nextEnvelope(t, client, MsgCardPlayed)
	assert.Equal(t, view.Initiator.Hand[0], played.CardID)

	result := nextEnvelope(t, client, MsgResult)
	assert.True(t, result.OK, "playing a held starter card must succeed: %s", result.Error)

	hub.handleMessage(client, Envelope{Type: MsgPlayCard, CardID: "not-held"})
	result = nextEnvelope(t, client, MsgResult)
	assert.False(t, result.OK)
	assert.Equal(t, "CARD_NOT_IN_HAND", result.Code)
}

func TestIntentsWithoutFightAreRejected(t *testing.T) {
	hub, _ := newHubHarness(t)
	client := connect(hub)

	hub.handleMessage(client, Envelope{Type: MsgPlayCard, CardID: "fireball"})
	result := nextEnvelope(t, client, MsgResult)
	assert.Equal(t, "FIGHT_NOT_FOUND", result.Code)

	hub.handleMessage(client, Envelope{Type: MsgEndTurn})
	result = nextEnvelope(t, client, MsgResult)
	assert.Equal(t, "FIGHT_NOT_FOUND", result.Code)

	hub.handleMessage(client, Envelope{Type: MsgGetView})
	result = nextEnvelope(t, client, MsgResult)
	assert.Equal(t, "FIGHT_NOT_FOUND", result.Code)
}

func TestMessageDeliveryRacesDisconnect(t *testing.T) {
	hub, _ := newHubHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// Hammer Message against clients being torn down; the send channel is
	// closed during unregister, so delivery must never outlive the lookup.
	for i := 0; i < 200; i++ {
		client := &Client{id: uuid.New().String(), send: make(chan []byte, 1)}
		hub.register <- client

		done := make(chan struct{})
		go func() {
			defer close(done)
			for j := 0; j < 20; j++ {
				hub.Message(client.id, "Your turn")
			}
		}()

		hub.unregister <- client
		<-done
	}
}

func TestGetViewReturnsSnapshot(t *testing.T) {
	hub, _ := newHubHarness(t)
	client := connect(hub)

	hub.handleMessage(client, Envelope{Type: MsgStartDuel, Name: "Ada"})
	started := nextEnvelope(t, client, MsgDuelStarted)

	hub.handleMessage(client, Envelope{Type: MsgGetView})
	view := nextEnvelope(t, client, MsgFightView)
	assert.Equal(t, started.FightID, view.FightID)
	assert.NotNil(t, view.Data)
}
