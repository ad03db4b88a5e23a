package battleship

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceangrid/battleship-backend/internal/apperror"
	"github.com/oceangrid/battleship-backend/internal/entity"
)

// boardWithShips - a full water board with ship tiles at the given indices.
func boardWithShips(indices ...int) entity.Board {
	board := make(entity.Board, entity.BoardTiles)
	for i := range board {
		board[i] = entity.Tile{Kind: entity.TileWater}
	}
	for _, index := range indices {
		board[index] = entity.Tile{Kind: entity.TileShip, Ship: &entity.Ship{Name: "sub", Size: 1}}
	}

	return board
}

func newSession() *entity.Session {
	return entity.NewSession("session-1",
		&entity.Player{ID: "p1", Username: "alice"},
		&entity.Player{ID: "p2", Username: "bob"},
	)
}

// startedSession - both boards set with a single ship tile at (0,0), so the
// win threshold for each side is one hit.
func startedSession(t *testing.T) *entity.Session {
	t.Helper()

	session := newSession()

	_, err := PlaceBoard(session, "p1", boardWithShips(0))
	require.NoError(t, err)
	_, err = PlaceBoard(session, "p2", boardWithShips(0))
	require.NoError(t, err)
	require.Equal(t, entity.PhasePlayer1Turn, session.Phase)

	return session
}

func TestPlaceBoard(t *testing.T) {
	t.Run("First board keeps the session awaiting", func(t *testing.T) {
		// Given: a fresh session
		session := newSession()

		// When: player 1 submits a board
		number, err := PlaceBoard(session, "p1", boardWithShips(5))

		// Then: the board is stored but play has not opened
		require.NoError(t, err)
		assert.Equal(t, 1, number)
		assert.Equal(t, entity.PhaseAwaitingBoards, session.Phase)
	})

	t.Run("Second board opens play with player 1's turn", func(t *testing.T) {
		session := newSession()

		_, err := PlaceBoard(session, "p2", boardWithShips(5))
		require.NoError(t, err)
		_, err = PlaceBoard(session, "p1", boardWithShips(7))
		require.NoError(t, err)

		// Then: slot A always moves first, deterministically
		assert.Equal(t, entity.PhasePlayer1Turn, session.Phase)
	})

	t.Run("Re-submitting overwrites without a duplicate-slot error", func(t *testing.T) {
		// Given: player 1 already submitted a board with a ship at index 5
		session := newSession()
		_, err := PlaceBoard(session, "p1", boardWithShips(5))
		require.NoError(t, err)

		// When: player 1 submits a different board
		_, err = PlaceBoard(session, "p1", boardWithShips(9))

		// Then: the second call wins
		require.NoError(t, err)
		assert.True(t, session.Player1Board[9].IsShip())
		assert.False(t, session.Player1Board[5].IsShip())
	})

	t.Run("Rejects a non-member", func(t *testing.T) {
		session := newSession()

		_, err := PlaceBoard(session, "stranger", boardWithShips(5))

		require.ErrorIs(t, err, apperror.ErrNotInSession)
	})

	t.Run("Rejects a board of the wrong shape", func(t *testing.T) {
		session := newSession()

		_, err := PlaceBoard(session, "p1", make(entity.Board, 17))

		require.Error(t, err)
	})
}

func TestFireShot(t *testing.T) {
	t.Run("Rejects a non-member", func(t *testing.T) {
		session := startedSession(t)

		_, err := FireShot(session, "stranger", entity.Position{Row: 0, Col: 0})

		require.ErrorIs(t, err, apperror.ErrNotInSession)
	})

	t.Run("Rejects a shot before both boards are set", func(t *testing.T) {
		session := newSession()
		_, err := PlaceBoard(session, "p1", boardWithShips(0))
		require.NoError(t, err)

		_, err = FireShot(session, "p1", entity.Position{Row: 0, Col: 0})

		require.ErrorIs(t, err, apperror.ErrGameNotStarted)
	})

	t.Run("Rejects an out-of-turn shot", func(t *testing.T) {
		session := startedSession(t)

		_, err := FireShot(session, "p2", entity.Position{Row: 0, Col: 0})

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Rejects an out-of-bounds position", func(t *testing.T) {
		session := startedSession(t)

		_, err := FireShot(session, "p1", entity.Position{Row: 10, Col: 0})
		require.ErrorIs(t, err, apperror.ErrOutOfBounds)

		_, err = FireShot(session, "p1", entity.Position{Row: 0, Col: -1})
		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
	})

	t.Run("Miss passes the turn and records the shot", func(t *testing.T) {
		// Given: a started session
		session := startedSession(t)

		// When: player 1 fires at open water
		outcome, err := FireShot(session, "p1", entity.Position{Row: 5, Col: 5})

		// Then: the turn passes to player 2 and the miss is logged
		require.NoError(t, err)
		assert.Equal(t, entity.ResultMiss, outcome.Result)
		assert.Equal(t, 1, outcome.ShotBy)
		assert.False(t, outcome.GameOver)
		assert.Equal(t, entity.PhasePlayer2Turn, session.Phase)

		index := entity.PositionToIndex(entity.Position{Row: 5, Col: 5})
		turn, ok := session.Player1Turns[index]
		require.True(t, ok)
		assert.Equal(t, entity.ResultMiss, turn.Result)
		assert.Equal(t, "p1", turn.FiredBy)
		assert.NotEmpty(t, turn.ID)
	})

	t.Run("Shot never mutates the opponent's board", func(t *testing.T) {
		session := startedSession(t)
		before := make(entity.Board, len(session.Player2Board))
		copy(before, session.Player2Board)

		_, err := FireShot(session, "p1", entity.Position{Row: 5, Col: 5})
		require.NoError(t, err)

		assert.Equal(t, before, session.Player2Board)
	})

	t.Run("Winning hit ends the game immediately", func(t *testing.T) {
		// Given: both boards hold a single ship tile at (0,0), threshold one
		session := startedSession(t)

		// When: player 1 hits it
		outcome, err := FireShot(session, "p1", entity.Position{Row: 0, Col: 0})

		// Then: the game is over for player 1 the moment the hit lands
		require.NoError(t, err)
		assert.Equal(t, entity.ResultHit, outcome.Result)
		assert.True(t, outcome.GameOver)
		assert.Equal(t, entity.PhasePlayer1Wins, session.Phase)

		// And: ship metadata rides along on the turn record
		turn := session.Player1Turns[0]
		require.NotNil(t, turn.Ship)
		assert.Equal(t, "sub", turn.Ship.Name)
	})

	t.Run("No shot is accepted once terminal", func(t *testing.T) {
		session := startedSession(t)
		_, err := FireShot(session, "p1", entity.Position{Row: 0, Col: 0})
		require.NoError(t, err)
		require.True(t, session.IsFinished())

		_, err = FireShot(session, "p2", entity.Position{Row: 0, Col: 0})

		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, entity.PhasePlayer1Wins, session.Phase)
	})

	t.Run("Hit below the threshold keeps the shooter's turn", func(t *testing.T) {
		// Given: player 2's board has two ship tiles
		session := newSession()
		_, err := PlaceBoard(session, "p1", boardWithShips(0))
		require.NoError(t, err)
		_, err = PlaceBoard(session, "p2", boardWithShips(0, 1))
		require.NoError(t, err)

		// When: player 1 hits the first tile
		outcome, err := FireShot(session, "p1", entity.Position{Row: 0, Col: 0})

		// Then: player 1 keeps firing
		require.NoError(t, err)
		assert.Equal(t, entity.ResultHit, outcome.Result)
		assert.False(t, outcome.GameOver)
		assert.Equal(t, entity.PhasePlayer1Turn, session.Phase)

		// And: the second hit finishes it
		outcome, err = FireShot(session, "p1", entity.Position{Row: 0, Col: 1})
		require.NoError(t, err)
		assert.True(t, outcome.GameOver)
		assert.Equal(t, entity.PhasePlayer1Wins, session.Phase)
	})

	t.Run("Re-firing a scored position overwrites the record, not the score", func(t *testing.T) {
		// Given: player 2's board has two ship tiles, player 1 already hit one
		session := newSession()
		_, err := PlaceBoard(session, "p1", boardWithShips(0))
		require.NoError(t, err)
		_, err = PlaceBoard(session, "p2", boardWithShips(0, 1))
		require.NoError(t, err)

		_, err = FireShot(session, "p1", entity.Position{Row: 0, Col: 0})
		require.NoError(t, err)
		firstTurnID := session.Player1Turns[0].ID

		// When: the same cell is fired again
		second, err := FireShot(session, "p1", entity.Position{Row: 0, Col: 0})

		// Then: the shot is accepted, the log still holds one record for the
		// cell, and the hit count does not double
		require.NoError(t, err)
		assert.Equal(t, entity.ResultHit, second.Result)
		assert.False(t, second.GameOver)
		require.Len(t, session.Player1Turns, 1)
		assert.NotEqual(t, firstTurnID, session.Player1Turns[0].ID)
		assert.Equal(t, 1, session.Player1Turns.HitCount())
	})
}
