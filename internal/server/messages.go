package server

import (
	"errors"

	"github.com/duelworks/duel-server-go/internal/combat"
)

// Intent and notification message types carried over the websocket.
const (
	// Remote intents (client -> server).
	MsgStartDuel = "start_duel"
	MsgPlayCard  = "play_card"
	MsgEndTurn   = "end_turn"
	MsgGetView   = "get_view"

	// Push notifications (server -> client).
	MsgResult       = "result"
	MsgDuelStarted  = "duel_started"
	MsgRoundStarted = "round_started"
	MsgTurnChanged  = "turn_changed"
	MsgCardPlayed   = "card_played"
	MsgFightEnded   = "fight_ended"
	MsgFightView    = "fight_view"
	MsgText         = "message"
)

// Envelope is the framing of every websocket message, both directions.
type Envelope struct {
	Type string `json:"type"`

	// Intent fields.
	Name   string `json:"name,omitempty"`
	CardID string `json:"card_id,omitempty"`

	// Response/notification fields.
	Intent   string `json:"intent,omitempty"`
	OK       bool   `json:"ok,omitempty"`
	Error    string `json:"error,omitempty"`
	Code     string `json:"code,omitempty"`
	FightID  string `json:"fight_id,omitempty"`
	EntityID string `json:"entity_id,omitempty"`
	CasterID string `json:"caster_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`
	State    string `json:"state,omitempty"`
	Round    int    `json:"round,omitempty"`
	WinnerID string `json:"winner_id,omitempty"`
	LoserID  string `json:"loser_id,omitempty"`
	Text     string `json:"text,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// errorCode maps combat errors to stable wire codes so clients can react
// without parsing error strings.
func errorCode(err error) string {
	switch {
	case errors.Is(err, combat.ErrFightNotFound):
		return "FIGHT_NOT_FOUND"
	case errors.Is(err, combat.ErrNotYourTurn):
		return "NOT_YOUR_TURN"
	case errors.Is(err, combat.ErrCardNotInHand):
		return "CARD_NOT_IN_HAND"
	case errors.Is(err, combat.ErrUnknownCard):
		return "UNKNOWN_CARD"
	case errors.Is(err, combat.ErrInsufficientEnergy):
		return "INSUFFICIENT_ENERGY"
	case errors.Is(err, combat.ErrAlreadyInFight):
		return "ALREADY_IN_FIGHT"
	case errors.Is(err, combat.ErrInvalidReference):
		return "INVALID_REFERENCE"
	case errors.Is(err, combat.ErrUnauthorized):
		return "UNAUTHORIZED"
	default:
		return "INTERNAL"
	}
}
