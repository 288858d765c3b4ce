package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewView(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("New game", func(t *testing.T) {
		// Given: a fresh game session
		game := NewGame("123", now)

		// When: building its view
		view := NewView(game)

		// Then: it shows the empty board with X to move
		assert.Equal(t, "123", view.ID)
		assert.Equal(t, Board{}, view.Board)
		assert.Equal(t, "Next player: X", view.Status)
		assert.Equal(t, Empty, view.Winner)
		assert.Equal(t, MarkX, view.NextMark)
		assert.False(t, view.Finished)
		require.Len(t, view.Moves, 1)
		assert.True(t, view.Moves[0].Selected)
		assert.False(t, game.IsFinished())
	})

	t.Run("Won game", func(t *testing.T) {
		// Given: X completed the left column
		game := NewGame("123", now)
		for _, cell := range []int{0, 1, 3, 4, 6} {
			game.State = ApplyMove(game.State, cell)
		}

		// When: building its view
		view := NewView(game)

		// Then: the view reports the winner
		assert.Equal(t, MarkX, view.Winner)
		assert.Equal(t, "Winner: X", view.Status)
		assert.True(t, view.Finished)
		assert.Equal(t, 5, view.Step)
		assert.Equal(t, [3]Mark{MarkX, MarkO, Empty}, view.Rows[0])
		assert.True(t, game.IsFinished())
	})

	t.Run("Drawn game", func(t *testing.T) {
		// Given: X O X / X O O / O X X, no line completed
		game := NewGame("123", now)
		for _, cell := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
			game.State = ApplyMove(game.State, cell)
		}

		// When: building its view
		view := NewView(game)

		// Then: the game is finished without a winner
		assert.Equal(t, Board{MarkX, MarkO, MarkX, MarkX, MarkO, MarkO, MarkO, MarkX, MarkX}, view.Board)
		assert.Equal(t, Empty, view.Winner)
		assert.True(t, view.Finished)
		assert.True(t, game.IsFinished())
		assert.Equal(t, 9, view.Step)
		assert.Equal(t, "Next player: X", view.Status)
	})

	t.Run("Jumped back view shows the past board", func(t *testing.T) {
		// Given: a won game viewed from step 2
		game := NewGame("123", now)
		for _, cell := range []int{0, 1, 3, 4, 6} {
			game.State = ApplyMove(game.State, cell)
		}
		state, err := JumpTo(game.State, 2)
		require.NoError(t, err)
		game.State = state

		// When: building its view
		view := NewView(game)

		// Then: the past board is shown and the game is not finished there
		assert.Equal(t, Board{MarkX, MarkO}, view.Board)
		assert.Equal(t, "Next player: X", view.Status)
		assert.False(t, view.Finished)
		assert.False(t, game.IsFinished())
		assert.True(t, view.Moves[2].Selected)
		assert.Len(t, view.Moves, 6)
	})
}
