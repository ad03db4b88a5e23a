// Package battleship holds the turn-resolution rules for a session. The
// functions mutate the session in place; callers are responsible for locking
// and persistence.
package battleship

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/oceangrid/battleship-backend/internal/apperror"
	"github.com/oceangrid/battleship-backend/internal/entity"
)

// Outcome describes a resolved shot for notification fan-out.
type Outcome struct {
	Result   string
	ShotBy   int
	GameOver bool
}

// PlaceBoard stores the submitted board in the caller's slot and, once both
// boards are set, opens play with player 1's turn. Re-submitting overwrites
// the prior board.
func PlaceBoard(session *entity.Session, userID string, board entity.Board) (int, error) {
	number, ok := session.PlayerNumber(userID)
	if !ok {
		return 0, apperror.ErrNotInSession
	}

	if board.IsSet() && len(board) != entity.BoardTiles {
		return 0, fmt.Errorf("%w: board has %d tiles, want %d", apperror.ErrOutOfBounds, len(board), entity.BoardTiles)
	}

	if err := session.SetBoardFor(userID, board); err != nil {
		return 0, err
	}

	// Player 1 always opens once both boards are ready; no coin flip.
	if session.IsAwaitingBoards() && session.BothBoardsSet() {
		session.Phase = entity.PhasePlayer1Turn
	}

	return number, nil
}

// FireShot resolves one shot against the opponent's board: classifies the
// targeted tile, records the turn in the firing slot's log (overwriting any
// prior record for that position), passes the turn on a miss, and declares a
// win when a side's hit count reaches the ship-tile count of the opponent's
// board.
func FireShot(session *entity.Session, userID string, pos entity.Position) (*Outcome, error) {
	number, ok := session.PlayerNumber(userID)
	if !ok {
		return nil, apperror.ErrNotInSession
	}

	if session.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	if session.IsAwaitingBoards() {
		return nil, apperror.ErrGameNotStarted
	}

	if !session.IsPlayersTurn(number) {
		return nil, apperror.ErrNotYourTurn
	}

	if !pos.InBounds() {
		return nil, fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, pos.Row, pos.Col)
	}

	targeted := session.OpponentBoardFor(userID)[entity.PositionToIndex(pos)]

	result := entity.ResultMiss
	if targeted.IsShip() {
		result = entity.ResultHit
	}

	turn := entity.Turn{
		ID:       uuid.NewString(),
		FiredBy:  userID,
		Position: pos,
		Result:   result,
		Ship:     targeted.Ship,
	}
	if err := session.RecordTurn(userID, turn); err != nil {
		return nil, err
	}

	if result == entity.ResultMiss {
		passTurn(session, number)
	} else {
		checkWins(session)
	}

	return &Outcome{
		Result:   result,
		ShotBy:   number,
		GameOver: session.IsFinished(),
	}, nil
}

func passTurn(session *entity.Session, shooter int) {
	if shooter == 1 {
		session.Phase = entity.PhasePlayer2Turn
	} else {
		session.Phase = entity.PhasePlayer1Turn
	}
}

// checkWins evaluates both win conditions independently. A side wins the
// moment its recorded hits equal the ship-tile count of the opponent's board.
func checkWins(session *entity.Session) {
	if threshold := session.Player2Board.ShipTileCount(); threshold > 0 && session.Player1Turns.HitCount() >= threshold {
		session.Phase = entity.PhasePlayer1Wins
	}
	if threshold := session.Player1Board.ShipTileCount(); threshold > 0 && session.Player2Turns.HitCount() >= threshold {
		session.Phase = entity.PhasePlayer2Wins
	}
}
