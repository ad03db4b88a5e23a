// Package protocol defines the wire shapes exchanged with clients: a
// {type, body} envelope with JSON bodies per message type.
package protocol

import (
	"encoding/json"

	"github.com/oceangrid/battleship-backend/internal/entity"
)

// Inbound message types.
const (
	TypeRequestSession = "requestSession"
	TypeAcceptRequest  = "acceptRequest"
	TypeSetPlayerBoard = "setPlayerBoard"
	TypeTakeShot       = "takeShot"
	TypeSetUsername    = "setUsername"
)

// Outbound message types.
const (
	TypeConnection             = "connection"
	TypeSessionRequestReceived = "sessionRequestReceived"
	TypeSessionCreated         = "sessionCreated"
	TypeSessionRestored        = "sessionRestored"
	TypeUserReconnected        = "userReconnected"
	TypeOpponentReconnected    = "opponentReconnected"
	TypeBoardSet               = "boardSet"
	TypeGameStateUpdate        = "gameStateUpdate"
	TypeError                  = "error"
)

type Message struct {
	Type string          `json:"type"`
	Body json.RawMessage `json:"body,omitempty"`
}

type RequestSessionBody struct {
	UserID     string `json:"userId"`
	OpponentID string `json:"opponentId"`
}

type AcceptRequestBody struct {
	UserID     string `json:"userId"`
	OpponentID string `json:"opponentId"`
}

type SetPlayerBoardBody struct {
	SessionID string        `json:"sessionId"`
	UserID    string        `json:"userId"`
	Tiles     []entity.Tile `json:"tiles"`
}

type TakeShotBody struct {
	SessionID string          `json:"sessionId"`
	UserID    string          `json:"userId"`
	Position  entity.Position `json:"position"`
}

type SetUsernameBody struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type RosterEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// RosterBody - full lobby roster, pushed to every lobby member after each
// join, leave or rename.
type RosterBody struct {
	Clients  []RosterEntry `json:"clients"`
	You      string        `json:"you"`
	Username string        `json:"username"`
}

type SessionRequestReceivedBody struct {
	OpponentID   string `json:"opponentId"`
	OpponentName string `json:"opponentName"`
}

type SessionCreatedBody struct {
	SessionID string `json:"sessionId"`
}

type SessionRestoredBody struct {
	Session *entity.SessionView `json:"session"`
}

type BoardSetBody struct {
	Session                     *entity.SessionView `json:"session"`
	PlayerNumberWhoseBoardIsSet int                 `json:"playerNumberWhoseBoardIsSet"`
	ShouldWaitForOpponent       bool                `json:"shouldWaitForOpponent"`
}

type GameStateUpdateBody struct {
	Session    *entity.SessionView `json:"session"`
	Hit        bool                `json:"hit"`
	LastShotBy int                 `json:"lastShotBy"`
	IsGameOver bool                `json:"isGameOver"`
}
