package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/oceangrid/battleship-backend/internal/entity"
	"github.com/oceangrid/battleship-backend/internal/lobby"
	"github.com/oceangrid/battleship-backend/internal/protocol"
)

type sessionManager interface {
	Create(ctx context.Context, player1, player2 *entity.Player) (*entity.Session, error)
	SetBoard(ctx context.Context, sessionID, userID string, tiles []entity.Tile) error
	FireShot(ctx context.Context, sessionID, userID string, pos entity.Position) error
	VerifyMember(ctx context.Context, sessionID, userID string) error
	Resume(ctx context.Context, sessionID, userID string) error
}

// Server is the connection coordinator: it upgrades raw connections, binds
// them to player identities, routes inbound protocol messages to the lobby
// or a session, and releases connections on close.
type Server struct {
	logger   *slog.Logger
	conns    *ConnRegistry
	lobby    *lobby.Registry
	sessions sessionManager
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, body json.RawMessage) error
}

func New(logger *slog.Logger, conns *ConnRegistry, lobbyRegistry *lobby.Registry, sessions sessionManager) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		conns:    conns,
		lobby:    lobbyRegistry,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},

		handlers: make(map[string]func(context.Context, json.RawMessage) error),
	}

	server.handlers[protocol.TypeRequestSession] = server.handleRequestSession
	server.handlers[protocol.TypeAcceptRequest] = server.handleAcceptRequest
	server.handlers[protocol.TypeSetPlayerBoard] = server.handleSetPlayerBoard
	server.handlers[protocol.TypeTakeShot] = server.handleTakeShot
	server.handlers[protocol.TypeSetUsername] = server.handleSetUsername

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: that.Handler(ctx),
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.handleConnection(ctx, w, r)
	})

	return mux
}

// handleConnection upgrades the connection and binds it to a player
// identity. A sessionId handshake parameter means "attempt reconnection into
// an existing session" and bypasses lobby registration entirely.
func (that *Server) handleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	query := r.URL.Query()
	player := &entity.Player{
		ID:       query.Get("userId"),
		Username: query.Get("username"),
	}
	if player.ID == "" {
		player.ID = uuid.NewString()
	}

	log = log.With("playerID", player.ID)

	if sessionID := query.Get("sessionId"); sessionID != "" {
		// An existing binding for this id survives until the newcomer is
		// confirmed to occupy a slot in the session.
		if err = that.sessions.VerifyMember(ctx, sessionID, player.ID); err != nil {
			log.Warn("rejected reconnect", "sessionID", sessionID, "error", err)
			writeError(conn, "couldn't restore the session")
			_ = conn.Close()

			return
		}

		that.conns.Replace(player.ID, conn)

		if err = that.sessions.Resume(ctx, sessionID, player.ID); err != nil {
			log.Error("failed to restore session", "sessionID", sessionID, "error", err)
			writeError(conn, "couldn't restore the session")
			that.conns.Release(player.ID, conn)
			_ = conn.Close()

			return
		}

		log.Info("player reconnected into session", "sessionID", sessionID)
	} else {
		if err = that.conns.Bind(player.ID, conn); err != nil {
			log.Warn("rejected duplicate connection", "error", err)
			writeError(conn, "this id is already connected")
			_ = conn.Close()

			return
		}

		if err = that.lobby.Register(player); err != nil {
			log.Warn("rejected lobby registration", "error", err)
			writeError(conn, "this id is already connected")
			that.conns.Release(player.ID, conn)
			_ = conn.Close()

			return
		}

		that.broadcastRoster()
		log.Info("player joined lobby")
	}

	that.readLoop(ctx, player, conn)
}

// readLoop processes inbound messages until the connection drops. On close
// the player leaves the lobby (if present there); any session is untouched
// apart from its handle going stale until a future reconnect.
func (that *Server) readLoop(ctx context.Context, player *entity.Player, conn *websocket.Conn) {
	log := that.logger.With("method", "readLoop", "playerID", player.ID)

	defer func() {
		that.conns.Release(player.ID, conn)
		_ = conn.Close()

		if that.lobby.Contains(player.ID) {
			that.lobby.Unregister(player.ID)
			that.broadcastRoster()
		}

		log.Info("player disconnected")
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("websocket read error", "error", err)
			}

			return
		}

		var msg protocol.Message
		if err = json.Unmarshal(raw, &msg); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[msg.Type]
		if !ok {
			log.Error("unknown message type", "type", msg.Type)
			continue
		}

		if err = handler(ctx, msg.Body); err != nil {
			log.Warn("message rejected", "type", msg.Type, "error", err)

			// Every participant-facing failure surfaces as a single generic
			// error message with a human-readable string.
			if pushErr := that.conns.Push(player.ID, protocol.TypeError, err.Error()); pushErr != nil {
				log.Error("failed to push error", "error", pushErr)
			}
		}
	}
}

// writeError sends an error message on a connection that is not (or no
// longer) bound in the registry.
func writeError(conn *websocket.Conn, text string) {
	raw, err := json.Marshal(text)
	if err != nil {
		return
	}

	_ = conn.WriteJSON(protocol.Message{Type: protocol.TypeError, Body: raw})
}
