package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

var playHelp = heredoc.Doc(`
	1-9     place the next mark (cells are numbered left to right, top to bottom)
	j N     jump to step N of the history
	h       show the move history
	n       start a new game
	q       quit
`)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a local game in the terminal",
		Long:  "play runs a two-player game on one terminal.\n\n" + playHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd.InOrStdin(), newRenderer(cmd.OutOrStdout()))
		},
	}
}

// runPlay reads commands line by line until "q" or end of input.
func runPlay(in io.Reader, r *renderer) error {
	state := entity.NewGameState()
	r.Board(state)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd := strings.ToLower(fields[0]); cmd {
		case "q", "quit":
			return nil
		case "h", "history":
			r.Moves(state)
			continue
		case "n", "new":
			state = entity.NewGameState()
		case "j", "jump":
			if len(fields) != 2 {
				r.Message("usage: j N")
				continue
			}

			step, err := strconv.Atoi(fields[1])
			if err != nil {
				r.Message("step must be a number: %s", fields[1])
				continue
			}

			next, err := entity.JumpTo(state, step)
			if err != nil {
				r.Message("%s (history has steps 0..%d)", err, len(state.History)-1)
				continue
			}
			state = next
		case "?", "help":
			r.Message("%s", strings.TrimRight(playHelp, "\n"))
			continue
		default:
			position, err := strconv.Atoi(cmd)
			if err != nil {
				r.Message("unknown command %q, type ? for help", cmd)
				continue
			}

			next, err := entity.TryApplyMove(state, position-1)
			if err != nil {
				r.Message("%s", moveRejection(err, position))
				continue
			}
			state = next
		}

		r.Board(state)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func moveRejection(err error, position int) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell):
		return fmt.Sprintf("cell %d is not on the board, use 1-9", position)
	case errors.Is(err, apperror.ErrCellOccupied):
		return fmt.Sprintf("cell %d is taken", position)
	case errors.Is(err, apperror.ErrGameFinished):
		return "the game is over, jump back with j N or start over with n"
	default:
		return err.Error()
	}
}
