package entity

const (
	BoardSize  = 10
	BoardTiles = BoardSize * BoardSize

	TileWater = "water"
	TileShip  = "ship"
)

// Ship - metadata for the ship occupying a tile.
type Ship struct {
	Name string `json:"name,omitempty"`
	Size int    `json:"size,omitempty"`
}

// Tile - one cell of a board. Immutable once the board is submitted.
type Tile struct {
	Kind string `json:"kind"`
	Ship *Ship  `json:"ship,omitempty"`
}

func (that *Tile) IsShip() bool {
	return that.Kind == TileShip
}

// Board - ordered sequence of exactly BoardTiles tiles, indexed row*10+col.
type Board []Tile

// IsSet reports whether a board has been submitted for this slot.
func (that Board) IsSet() bool {
	return len(that) > 0
}

// ShipTileCount - the number of ship tiles; doubles as the win threshold
// for the side shooting at this board.
func (that Board) ShipTileCount() int {
	count := 0
	for i := range that {
		if that[i].IsShip() {
			count++
		}
	}

	return count
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds - callers must check before converting to an index.
func (that Position) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func PositionToIndex(pos Position) int {
	return pos.Row*BoardSize + pos.Col
}

func IndexToPosition(index int) Position {
	return Position{Row: index / BoardSize, Col: index % BoardSize}
}
