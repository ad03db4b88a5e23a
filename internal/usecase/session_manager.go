package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oceangrid/battleship-backend/internal/apperror"
	"github.com/oceangrid/battleship-backend/internal/battleship"
	"github.com/oceangrid/battleship-backend/internal/entity"
	"github.com/oceangrid/battleship-backend/internal/protocol"
)

// Pusher delivers outbound protocol messages to a player's live connection.
// Implemented by the websocket connection registry.
type Pusher interface {
	Push(playerID, msgType string, body any) error
	IsConnected(playerID string) bool
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
}

type matchArchive interface {
	SaveResult(ctx context.Context, result *entity.MatchResult) error
}

// liveSession pairs an in-memory session with the mutex that serializes all
// mutations to it.
type liveSession struct {
	mu      sync.Mutex
	session *entity.Session
}

// SessionManager owns every live session: it applies gameplay operations
// under the session's lock, persists after each mutation, and fans out
// per-recipient notifications. The in-memory state stays authoritative for
// the lifetime of the process; store failures are surfaced to operators via
// logs and never abort the action that triggered them.
type SessionManager struct {
	logger   *slog.Logger
	sessions sessionRepo
	archive  matchArchive
	pusher   Pusher

	mu   sync.Mutex
	live map[string]*liveSession
}

func NewSessionManager(logger *slog.Logger, sessions sessionRepo, archive matchArchive, pusher Pusher) *SessionManager {
	return &SessionManager{
		logger:   logger.With("component", "session_manager"),
		sessions: sessions,
		archive:  archive,
		pusher:   pusher,
		live:     make(map[string]*liveSession),
	}
}

// Create pairs two players into a new session and notifies both of its id.
func (that *SessionManager) Create(ctx context.Context, player1, player2 *entity.Player) (*entity.Session, error) {
	session := entity.NewSession(uuid.NewString(), player1, player2)

	that.mu.Lock()
	that.live[session.ID] = &liveSession{session: session}
	that.mu.Unlock()

	that.persist(ctx, session)

	body := protocol.SessionCreatedBody{SessionID: session.ID}
	for _, player := range []*entity.Player{player1, player2} {
		if err := that.pusher.Push(player.ID, protocol.TypeSessionCreated, body); err != nil {
			that.logger.Error("failed to push session created", "playerID", player.ID, "error", err)
		}
	}

	return session, nil
}

// SetBoard stores a submitted board and notifies both players. The second
// submission opens play with player 1's turn.
func (that *SessionManager) SetBoard(ctx context.Context, sessionID, userID string, tiles []entity.Tile) error {
	ls, err := that.getLive(ctx, sessionID)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	number, err := battleship.PlaceBoard(ls.session, userID, entity.Board(tiles))
	if err != nil {
		return err
	}

	that.persist(ctx, ls.session)

	shouldWait := ls.session.IsAwaitingBoards()
	that.notifyBoth(ls.session, protocol.TypeBoardSet, func(view *entity.SessionView) any {
		return protocol.BoardSetBody{
			Session:                     view,
			PlayerNumberWhoseBoardIsSet: number,
			ShouldWaitForOpponent:       shouldWait,
		}
	})

	return nil
}

// FireShot resolves one shot. All observable effects travel through the
// notification channel; the returned error only reports a rejected shot.
func (that *SessionManager) FireShot(ctx context.Context, sessionID, userID string, pos entity.Position) error {
	ls, err := that.getLive(ctx, sessionID)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	opponent := ls.session.Opponent(userID)
	if opponent == nil {
		return apperror.ErrNotInSession
	}

	// Shots are rejected while the opponent has no live connection.
	if !that.pusher.IsConnected(opponent.ID) {
		return apperror.ErrOpponentUnavailable
	}

	outcome, err := battleship.FireShot(ls.session, userID, pos)
	if err != nil {
		return err
	}

	that.persist(ctx, ls.session)

	if outcome.GameOver {
		that.archiveResult(ctx, ls.session)
	}

	that.notifyBoth(ls.session, protocol.TypeGameStateUpdate, func(view *entity.SessionView) any {
		return protocol.GameStateUpdateBody{
			Session:    view,
			Hit:        outcome.Result == entity.ResultHit,
			LastShotBy: outcome.ShotBy,
			IsGameOver: outcome.GameOver,
		}
	})

	return nil
}

// VerifyMember reports whether the given id occupies a slot in the session.
// It mutates nothing, so callers can gate connection takeover on it.
func (that *SessionManager) VerifyMember(ctx context.Context, sessionID, userID string) error {
	ls, err := that.getLive(ctx, sessionID)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if _, ok := ls.session.PlayerNumber(userID); !ok {
		return apperror.ErrNotInSession
	}

	return nil
}

// Resume rejoins a disconnected player into an existing session. The caller
// must already have bound the new connection, so pushes reach the player.
// Game state is untouched: boards, turn logs, slot number and phase all
// survive the reconnect.
func (that *SessionManager) Resume(ctx context.Context, sessionID, userID string) error {
	ls, err := that.getLive(ctx, sessionID)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if _, ok := ls.session.PlayerNumber(userID); !ok {
		return apperror.ErrNotInSession
	}

	if err = that.pusher.Push(userID, protocol.TypeUserReconnected, "Welcome back!"); err != nil {
		that.logger.Error("failed to push user reconnected", "playerID", userID, "error", err)
	}

	if opponent := ls.session.Opponent(userID); opponent != nil && that.pusher.IsConnected(opponent.ID) {
		if err = that.pusher.Push(opponent.ID, protocol.TypeOpponentReconnected, "Your opponent has reconnected!"); err != nil {
			that.logger.Error("failed to push opponent reconnected", "playerID", opponent.ID, "error", err)
		}
	}

	body := protocol.SessionRestoredBody{Session: ls.session.Snapshot(userID)}
	if err = that.pusher.Push(userID, protocol.TypeSessionRestored, body); err != nil {
		that.logger.Error("failed to push session restored", "playerID", userID, "error", err)
	}

	return nil
}

// getLive returns the cached live session, loading and re-hydrating it from
// the store on a miss (reconnection after a process restart).
func (that *SessionManager) getLive(ctx context.Context, sessionID string) (*liveSession, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if ls, ok := that.live[sessionID]; ok {
		return ls, nil
	}

	session, err := that.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ls := &liveSession{session: session}
	that.live[sessionID] = ls

	return ls, nil
}

// persist saves the session. A failed save must not roll back or block the
// gameplay action that triggered it, but is surfaced to operators.
func (that *SessionManager) persist(ctx context.Context, session *entity.Session) {
	if err := that.sessions.CreateOrUpdate(ctx, session); err != nil {
		that.logger.Error("failed to persist session", "sessionID", session.ID, "error", err)
	}
}

func (that *SessionManager) archiveResult(ctx context.Context, session *entity.Session) {
	if that.archive == nil {
		return
	}

	result := &entity.MatchResult{
		SessionID:  session.ID,
		Winner:     session.Winner(),
		TotalTurns: len(session.Player1Turns) + len(session.Player2Turns),
		FinishedAt: time.Now().UTC(),
	}
	if session.Player1 != nil {
		result.Player1ID = session.Player1.ID
		result.Player1Name = session.Player1.Username
	}
	if session.Player2 != nil {
		result.Player2ID = session.Player2.ID
		result.Player2Name = session.Player2.Username
	}

	if err := that.archive.SaveResult(ctx, result); err != nil {
		that.logger.Error("failed to archive match result", "sessionID", session.ID, "error", err)
	}
}

// notifyBoth pushes a per-recipient message to every connected member, each
// built around that member's own snapshot so a side never observes the
// opponent's board.
func (that *SessionManager) notifyBoth(session *entity.Session, msgType string, build func(view *entity.SessionView) any) {
	for _, player := range []*entity.Player{session.Player1, session.Player2} {
		if player == nil || !that.pusher.IsConnected(player.ID) {
			continue
		}

		view := session.Snapshot(player.ID)
		if err := that.pusher.Push(player.ID, msgType, build(view)); err != nil {
			that.logger.Error("failed to push game update", "playerID", player.ID, "type", msgType, "error", err)
		}
	}
}
