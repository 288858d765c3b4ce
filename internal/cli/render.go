package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const rowSeparator = "---+---+---"

type renderer struct {
	out *termenv.Output
}

func newRenderer(w io.Writer, opts ...termenv.OutputOption) *renderer {
	return &renderer{out: termenv.NewOutput(w, opts...)}
}

func (that *renderer) mark(cell int, mark entity.Mark) string {
	switch mark {
	case entity.MarkX:
		return that.out.String(string(mark)).Foreground(that.out.Color("#818cf8")).Bold().String()
	case entity.MarkO:
		return that.out.String(string(mark)).Foreground(that.out.Color("#f472b6")).Bold().String()
	default:
		return that.out.String(strconv.Itoa(cell + 1)).Faint().String()
	}
}

// Board draws the board shown at the current step followed by the status line.
func (that *renderer) Board(state entity.GameState) {
	board := state.CurrentBoard()

	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString(rowSeparator + "\n")
		}

		cells := make([]string, 0, 3)
		for col := 0; col < 3; col++ {
			cell := row*3 + col
			cells = append(cells, " "+that.mark(cell, board[cell])+" ")
		}
		sb.WriteString(strings.Join(cells, "|") + "\n")
	}

	status := entity.Status(state)
	if state.Winner() == entity.Empty && board.Full() {
		status = "Draw"
	}

	fmt.Fprint(that.out, sb.String())
	fmt.Fprintln(that.out, that.out.String(status).Bold().String())
}

// Moves draws the move list, marking the selected step.
func (that *renderer) Moves(state entity.GameState) {
	for _, move := range entity.Moves(state) {
		line := fmt.Sprintf("%2d. %s", move.Step, move.Caption)
		if move.Selected {
			line = that.out.String(line + " <").Bold().String()
		}
		fmt.Fprintln(that.out, line)
	}
}

func (that *renderer) Message(format string, args ...any) {
	fmt.Fprintf(that.out, format+"\n", args...)
}
