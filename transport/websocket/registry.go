package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/oceangrid/battleship-backend/internal/apperror"
	"github.com/oceangrid/battleship-backend/internal/protocol"
)

// client wraps one live connection; the mutex serializes concurrent writes,
// which gorilla connections do not support.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// ConnRegistry owns every live connection, keyed by player id. It is the
// single owner of the connection resource: sessions and the lobby only ever
// hold player identities.
type ConnRegistry struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

func NewConnRegistry(logger *slog.Logger) *ConnRegistry {
	return &ConnRegistry{
		logger:  logger.With("component", "conn_registry"),
		clients: make(map[string]*client),
	}
}

// Bind attaches a connection to a player id. A second live connection for
// the same id is rejected; the existing one wins.
func (that *ConnRegistry) Bind(playerID string, conn *websocket.Conn) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[playerID]; ok {
		return apperror.ErrDuplicateIdentity
	}

	that.clients[playerID] = &client{conn: conn}

	return nil
}

// Replace binds a new connection for a reconnecting player, releasing any
// stale one. The handle is replaced, never duplicated.
func (that *ConnRegistry) Replace(playerID string, conn *websocket.Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if stale, ok := that.clients[playerID]; ok && stale.conn != conn {
		if err := stale.conn.Close(); err != nil {
			that.logger.Debug("failed to close stale connection", "playerID", playerID, "error", err)
		}
	}

	that.clients[playerID] = &client{conn: conn}
}

// Release removes the binding, but only if the given connection still owns
// it; a reconnect may already have replaced it.
func (that *ConnRegistry) Release(playerID string, conn *websocket.Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.clients[playerID]; ok && current.conn == conn {
		delete(that.clients, playerID)
	}
}

func (that *ConnRegistry) IsConnected(playerID string) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	_, ok := that.clients[playerID]

	return ok
}

// Push sends one {type, body} message to the player's live connection.
func (that *ConnRegistry) Push(playerID, msgType string, body any) error {
	that.mu.RLock()
	c, ok := that.clients[playerID]
	that.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: no live connection for %s", apperror.ErrPlayerNotFound, playerID)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}

	msg := protocol.Message{Type: msgType, Body: raw}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err = c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
