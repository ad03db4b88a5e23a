package entity

import (
	"fmt"

	"github.com/oceangrid/battleship-backend/internal/apperror"
)

const (
	PhaseAwaitingBoards = "awaiting_boards"
	PhasePlayer1Turn    = "player1_turn"
	PhasePlayer2Turn    = "player2_turn"
	PhasePlayer1Wins    = "player1_wins"
	PhasePlayer2Wins    = "player2_wins"
)

// Session - the durable record of one two-player match. Mutated only under
// the usecase layer's per-session lock and persisted after every mutation.
type Session struct {
	ID           string  `json:"id"`
	Player1      *Player `json:"player1,omitempty"`
	Player2      *Player `json:"player2,omitempty"`
	Player1Board Board   `json:"player1Board"`
	Player2Board Board   `json:"player2Board"`
	Player1Turns TurnLog `json:"player1Turns"`
	Player2Turns TurnLog `json:"player2Turns"`
	Phase        string  `json:"phase"`
}

func NewSession(id string, player1, player2 *Player) *Session {
	return &Session{
		ID:           id,
		Player1:      player1,
		Player2:      player2,
		Player1Board: Board{},
		Player2Board: Board{},
		Player1Turns: TurnLog{},
		Player2Turns: TurnLog{},
		Phase:        PhaseAwaitingBoards,
	}
}

// PlayerNumber - the slot (1 or 2) occupied by the given participant id,
// stable for the session's lifetime.
func (that *Session) PlayerNumber(userID string) (int, bool) {
	if that.Player1 != nil && that.Player1.ID == userID {
		return 1, true
	}
	if that.Player2 != nil && that.Player2.ID == userID {
		return 2, true
	}

	return 0, false
}

func (that *Session) Player(number int) *Player {
	if number == 1 {
		return that.Player1
	}

	return that.Player2
}

func (that *Session) Opponent(userID string) *Player {
	number, ok := that.PlayerNumber(userID)
	if !ok {
		return nil
	}
	if number == 1 {
		return that.Player2
	}

	return that.Player1
}

func (that *Session) BoardFor(userID string) Board {
	number, ok := that.PlayerNumber(userID)
	if !ok {
		return nil
	}
	if number == 1 {
		return that.Player1Board
	}

	return that.Player2Board
}

func (that *Session) OpponentBoardFor(userID string) Board {
	number, ok := that.PlayerNumber(userID)
	if !ok {
		return nil
	}
	if number == 1 {
		return that.Player2Board
	}

	return that.Player1Board
}

// TurnsBy - the log of shots fired by the given slot.
func (that *Session) TurnsBy(number int) TurnLog {
	if number == 1 {
		return that.Player1Turns
	}

	return that.Player2Turns
}

// SetBoardFor stores the board in the caller's slot. Re-setting overwrites.
func (that *Session) SetBoardFor(userID string, board Board) error {
	number, ok := that.PlayerNumber(userID)
	if !ok {
		return apperror.ErrNotInSession
	}

	if number == 1 {
		that.Player1Board = board
	} else {
		that.Player2Board = board
	}

	return nil
}

// RecordTurn stores a turn in the firing participant's log, keyed by the
// targeted board index. Last write wins for a re-fired position.
func (that *Session) RecordTurn(userID string, turn Turn) error {
	number, ok := that.PlayerNumber(userID)
	if !ok {
		return apperror.ErrNotInSession
	}

	index := PositionToIndex(turn.Position)
	if number == 1 {
		that.Player1Turns[index] = turn
	} else {
		that.Player2Turns[index] = turn
	}

	return nil
}

func (that *Session) BothBoardsSet() bool {
	return that.Player1Board.IsSet() && that.Player2Board.IsSet()
}

func (that *Session) IsAwaitingBoards() bool {
	return that.Phase == PhaseAwaitingBoards
}

func (that *Session) IsFinished() bool {
	return that.Phase == PhasePlayer1Wins || that.Phase == PhasePlayer2Wins
}

// IsPlayersTurn reports whether the given slot currently holds the turn.
func (that *Session) IsPlayersTurn(number int) bool {
	if number == 1 {
		return that.Phase == PhasePlayer1Turn
	}

	return that.Phase == PhasePlayer2Turn
}

// Winner - the winning slot, or 0 while the game is still in play.
func (that *Session) Winner() int {
	switch that.Phase {
	case PhasePlayer1Wins:
		return 1
	case PhasePlayer2Wins:
		return 2
	default:
		return 0
	}
}

// SessionView - the session state visible to one participant: own board in
// full, both turn logs, current phase. The opponent's board is never exposed.
type SessionView struct {
	ID               string  `json:"id"`
	Phase            string  `json:"phase"`
	YourBoard        Board   `json:"yourBoard"`
	YourPlayerNumber int     `json:"yourPlayerNumber"`
	Player1Turns     TurnLog `json:"player1Turns"`
	Player2Turns     TurnLog `json:"player2Turns"`
}

// Snapshot - per-participant view of the session. Returns nil if the id is
// not a member.
func (that *Session) Snapshot(userID string) *SessionView {
	number, ok := that.PlayerNumber(userID)
	if !ok {
		return nil
	}

	return &SessionView{
		ID:               that.ID,
		Phase:            that.Phase,
		YourBoard:        that.BoardFor(userID),
		YourPlayerNumber: number,
		Player1Turns:     that.Player1Turns,
		Player2Turns:     that.Player2Turns,
	}
}

// Normalize validates a session re-hydrated from the store and reconstructs
// default fields. Stored phase and board shapes are never trusted blindly.
func (that *Session) Normalize() error {
	if that.ID == "" {
		return fmt.Errorf("missing session id")
	}

	switch that.Phase {
	case "":
		that.Phase = PhaseAwaitingBoards
	case PhaseAwaitingBoards, PhasePlayer1Turn, PhasePlayer2Turn, PhasePlayer1Wins, PhasePlayer2Wins:
	default:
		return fmt.Errorf("unknown phase %q", that.Phase)
	}

	for number, board := range []Board{that.Player1Board, that.Player2Board} {
		if board.IsSet() && len(board) != BoardTiles {
			return fmt.Errorf("player %d board has %d tiles, want %d", number+1, len(board), BoardTiles)
		}
	}

	if that.Player1Board == nil {
		that.Player1Board = Board{}
	}
	if that.Player2Board == nil {
		that.Player2Board = Board{}
	}
	if that.Player1Turns == nil {
		that.Player1Turns = TurnLog{}
	}
	if that.Player2Turns == nil {
		that.Player2Turns = TurnLog{}
	}

	return nil
}
