package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
)

type Mark string

const (
	Empty Mark = ""
	MarkX Mark = "X"
	MarkO Mark = "O"
)

const BoardSize = 9

var (
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}

	// column,row labels for cells 0..8, 1-based.
	columnRow = [BoardSize]string{
		"(1,1)", "(2,1)", "(3,1)",
		"(1,2)", "(2,2)", "(3,2)",
		"(1,3)", "(2,3)", "(3,3)",
	}
)

// Board is a 3x3 board stored row-major.
type Board [BoardSize]Mark

// Rows splits the board into its three rows.
func (that Board) Rows() [3][3]Mark {
	var rows [3][3]Mark
	for i, cell := range that {
		rows[i/3][i%3] = cell
	}

	return rows
}

func (that Board) Full() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// HistoryEntry is an immutable board snapshot. LastMove is nil for the initial entry.
type HistoryEntry struct {
	Board    Board `json:"board"`
	LastMove *int  `json:"last_move,omitempty"`
}

func (that HistoryEntry) LastMoveIndex() (int, bool) {
	if that.LastMove == nil {
		return 0, false
	}

	return *that.LastMove, true
}

// GameState is the move history plus the step currently shown.
type GameState struct {
	History []HistoryEntry `json:"history"`
	Step    int            `json:"step"`
}

// MoveCaption is one line of the move list.
type MoveCaption struct {
	Step     int    `json:"step"`
	Caption  string `json:"caption"`
	Selected bool   `json:"selected"`
}

func NewGameState() GameState {
	return GameState{
		History: []HistoryEntry{{Board: Board{}}},
		Step:    0,
	}
}

func (that GameState) NextMark() Mark {
	if that.Step%2 == 0 {
		return MarkX
	}

	return MarkO
}

func (that GameState) CurrentBoard() Board {
	return that.History[that.Step].Board
}

func (that GameState) Winner() Mark {
	return CalculateWinner(that.CurrentBoard())
}

// ApplyMove places the next mark at cell. Illegal moves leave the state unchanged.
func ApplyMove(state GameState, cell int) GameState {
	next, err := TryApplyMove(state, cell)
	if err != nil {
		return state
	}

	return next
}

// TryApplyMove behaves like ApplyMove but reports why a move was rejected.
func TryApplyMove(state GameState, cell int) (GameState, error) {
	if cell < 0 || cell >= BoardSize {
		return state, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	board := state.History[state.Step].Board
	if CalculateWinner(board) != Empty {
		return state, apperror.ErrGameFinished
	}

	if board[cell] != Empty {
		return state, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	// fresh backing array: older states may share the one being truncated.
	history := make([]HistoryEntry, state.Step+1, state.Step+2)
	copy(history, state.History[:state.Step+1])

	board[cell] = state.NextMark()
	lastMove := cell
	history = append(history, HistoryEntry{Board: board, LastMove: &lastMove})

	return GameState{
		History: history,
		Step:    len(history) - 1,
	}, nil
}

// JumpTo moves the step pointer without touching the history.
func JumpTo(state GameState, step int) (GameState, error) {
	if step < 0 || step >= len(state.History) {
		return state, fmt.Errorf("%w: step %d of %d", apperror.ErrStepOutOfRange, step, len(state.History))
	}

	return GameState{
		History: state.History,
		Step:    step,
	}, nil
}

func CalculateWinner(board Board) Mark {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != Empty && a == b && b == c {
			return a
		}
	}

	return Empty
}

func Status(state GameState) string {
	if winner := state.Winner(); winner != Empty {
		return "Winner: " + string(winner)
	}

	return "Next player: " + string(state.NextMark())
}

// DescribeMove returns the "(column,row)" label of a cell, or "" outside the board.
func DescribeMove(cell int) string {
	if cell < 0 || cell >= BoardSize {
		return ""
	}

	return columnRow[cell]
}

func Moves(state GameState) []MoveCaption {
	moves := make([]MoveCaption, 0, len(state.History))

	for step, entry := range state.History {
		caption := "Go to game start"
		if cell, ok := entry.LastMoveIndex(); ok {
			caption = fmt.Sprintf("Go to move #%d, %s", step, DescribeMove(cell))
		}

		moves = append(moves, MoveCaption{
			Step:     step,
			Caption:  caption,
			Selected: step == state.Step,
		})
	}

	return moves
}
