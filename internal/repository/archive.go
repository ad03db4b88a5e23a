package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oceangrid/battleship-backend/internal/apperror"
	"github.com/oceangrid/battleship-backend/internal/entity"
)

// MatchArchive records finished matches for operators. Archive writes are
// best-effort: callers log failures and never abort gameplay over them.
type MatchArchive interface {
	SaveResult(ctx context.Context, result *entity.MatchResult) error
	GetBySessionID(ctx context.Context, sessionID string) (*entity.MatchResult, error)
}

type matchArchive struct {
	conn *sql.DB
}

func NewMatchArchive(conn *sql.DB) MatchArchive {
	return &matchArchive{
		conn: conn,
	}
}

func (that *matchArchive) SaveResult(ctx context.Context, result *entity.MatchResult) error {
	query := `INSERT OR REPLACE INTO match_results
		(session_id, winner, player1_id, player1_name, player2_id, player2_name, total_turns, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		result.SessionID, result.Winner,
		result.Player1ID, result.Player1Name,
		result.Player2ID, result.Player2Name,
		result.TotalTurns, result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("can't save match result: %w", err)
	}

	return nil
}

func (that *matchArchive) GetBySessionID(ctx context.Context, sessionID string) (*entity.MatchResult, error) {
	query := `SELECT session_id, winner, player1_id, player1_name, player2_id, player2_name, total_turns, finished_at
		FROM match_results WHERE session_id = ?`

	var result entity.MatchResult
	err := that.conn.QueryRowContext(ctx, query, sessionID).Scan(
		&result.SessionID, &result.Winner,
		&result.Player1ID, &result.Player1Name,
		&result.Player2ID, &result.Player2Name,
		&result.TotalTurns, &result.FinishedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("can't get match result: %w", err)
	}

	return &result, nil
}
