package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionIndexConversion(t *testing.T) {
	t.Run("Index is row*10+col", func(t *testing.T) {
		// Given: a position
		pos := Position{Row: 3, Col: 7}

		// When: converting to an index
		index := PositionToIndex(pos)

		// Then: it should match row*10+col
		assert.Equal(t, 37, index)
	})

	t.Run("Conversion is bijective over the whole board", func(t *testing.T) {
		for index := 0; index < BoardTiles; index++ {
			pos := IndexToPosition(index)

			require.True(t, pos.InBounds())
			require.Equal(t, index, PositionToIndex(pos))
		}
	})

	t.Run("InBounds rejects positions outside the grid", func(t *testing.T) {
		assert.False(t, Position{Row: -1, Col: 0}.InBounds())
		assert.False(t, Position{Row: 0, Col: -1}.InBounds())
		assert.False(t, Position{Row: 10, Col: 0}.InBounds())
		assert.False(t, Position{Row: 0, Col: 10}.InBounds())
		assert.True(t, Position{Row: 0, Col: 0}.InBounds())
		assert.True(t, Position{Row: 9, Col: 9}.InBounds())
	})
}

func TestBoard_ShipTileCount(t *testing.T) {
	t.Run("Counts only ship tiles", func(t *testing.T) {
		// Given: a board with two ship tiles
		board := waterBoard()
		board[5] = Tile{Kind: TileShip, Ship: &Ship{Name: "destroyer", Size: 2}}
		board[6] = Tile{Kind: TileShip, Ship: &Ship{Name: "destroyer", Size: 2}}

		// Then: the count should be two
		assert.Equal(t, 2, board.ShipTileCount())
	})

	t.Run("Empty board is not set", func(t *testing.T) {
		assert.False(t, Board{}.IsSet())
		assert.True(t, waterBoard().IsSet())
	})
}

func TestTurnLog_HitCount(t *testing.T) {
	// Given: a log with two hits and one miss
	log := TurnLog{
		0: {Result: ResultHit},
		1: {Result: ResultMiss},
		2: {Result: ResultHit},
	}

	// Then: only hits should be counted
	assert.Equal(t, 2, log.HitCount())
}

// waterBoard - a full board of water tiles for tests.
func waterBoard() Board {
	board := make(Board, BoardTiles)
	for i := range board {
		board[i] = Tile{Kind: TileWater}
	}

	return board
}
