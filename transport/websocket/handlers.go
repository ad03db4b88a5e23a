package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oceangrid/battleship-backend/internal/protocol"
)

func (that *Server) handleRequestSession(_ context.Context, body json.RawMessage) error {
	var req protocol.RequestSessionBody
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	requester, err := that.lobby.Find(req.UserID)
	if err != nil {
		return fmt.Errorf("couldn't find user: %w", err)
	}

	opponent, err := that.lobby.Find(req.OpponentID)
	if err != nil {
		return fmt.Errorf("couldn't contact opponent: %w", err)
	}

	resp := protocol.SessionRequestReceivedBody{
		OpponentID:   requester.ID,
		OpponentName: requester.Username,
	}
	if err = that.conns.Push(opponent.ID, protocol.TypeSessionRequestReceived, resp); err != nil {
		return fmt.Errorf("couldn't contact opponent: %w", err)
	}

	return nil
}

func (that *Server) handleAcceptRequest(ctx context.Context, body json.RawMessage) error {
	var req protocol.AcceptRequestBody
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	// The accepting player takes slot 1 and therefore opens the game.
	player1, err := that.lobby.Find(req.UserID)
	if err != nil {
		return fmt.Errorf("couldn't find one of the players: %w", err)
	}

	player2, err := that.lobby.Find(req.OpponentID)
	if err != nil {
		return fmt.Errorf("couldn't find one of the players: %w", err)
	}

	if _, err = that.sessions.Create(ctx, player1, player2); err != nil {
		return fmt.Errorf("couldn't create session: %w", err)
	}

	// Paired players leave the lobby the instant the session exists.
	that.lobby.Unregister(player1.ID)
	that.lobby.Unregister(player2.ID)
	that.broadcastRoster()

	return nil
}

func (that *Server) handleSetPlayerBoard(ctx context.Context, body json.RawMessage) error {
	var req protocol.SetPlayerBoardBody
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.sessions.SetBoard(ctx, req.SessionID, req.UserID, req.Tiles)
}

func (that *Server) handleTakeShot(ctx context.Context, body json.RawMessage) error {
	var req protocol.TakeShotBody
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.sessions.FireShot(ctx, req.SessionID, req.UserID, req.Position)
}

func (that *Server) handleSetUsername(_ context.Context, body json.RawMessage) error {
	var req protocol.SetUsernameBody
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if _, err := that.lobby.SetUsername(req.UserID, req.Username); err != nil {
		return fmt.Errorf("couldn't find user: %w", err)
	}

	that.broadcastRoster()

	return nil
}

// broadcastRoster sends every lobby member the full current roster so
// clients always see a consistent lobby list.
func (that *Server) broadcastRoster() {
	roster := that.lobby.Roster()

	entries := make([]protocol.RosterEntry, 0, len(roster))
	for _, member := range roster {
		entries = append(entries, protocol.RosterEntry{ID: member.ID, Username: member.Username})
	}

	for _, member := range roster {
		body := protocol.RosterBody{
			Clients:  entries,
			You:      member.ID,
			Username: member.Username,
		}
		if err := that.conns.Push(member.ID, protocol.TypeConnection, body); err != nil {
			that.logger.Error("failed to push roster", "playerID", member.ID, "error", err)
		}
	}
}
