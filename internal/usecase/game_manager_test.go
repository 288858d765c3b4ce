package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
)

var (
	errRedisDown = errors.New("redis is down")
	fixedNow     = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
)

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func newManager(repo gameRepo) (*GameManager, *metrics.Metrics) {
	m := metrics.New()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	manager := NewGameManager(logger, repo, m,
		WithIDGenerator(func() string { return "g1" }),
		WithClock(func() time.Time { return fixedNow }),
	)

	return manager, m
}

func TestGameManager_NewGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates and stores a new game", func(t *testing.T) {
		// Given: an in-memory repository
		repo := repository.NewMemoryGameRepository()
		manager, m := newManager(repo)

		// When: creating a game
		game, err := manager.NewGame(ctx)

		// Then: the game is stored with an empty history
		require.NoError(t, err)
		assert.Equal(t, "g1", game.ID)
		assert.Equal(t, entity.NewGameState(), game.State)
		assert.Equal(t, fixedNow, game.CreatedAt)

		stored, err := repo.GetByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, game.State, stored.State)
		assert.InDelta(t, 1, testutil.ToFloat64(m.GamesCreated), 0)
	})

	t.Run("Returns error if repository fails", func(t *testing.T) {
		// Given: a repository that cannot store games
		repo := &mockGameRepo{}
		repo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()
		manager, _ := newManager(repo)

		// When: creating a game
		game, err := manager.NewGame(ctx)

		// Then: the error is returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
		repo.AssertExpectations(t)
	})
}

func TestGameManager_MakeMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies the move and stores the game", func(t *testing.T) {
		// Given: a new game
		repo := repository.NewMemoryGameRepository()
		manager, m := newManager(repo)
		_, err := manager.NewGame(ctx)
		require.NoError(t, err)

		// When: X plays the center
		game, err := manager.MakeMove(ctx, "g1", 4)

		// Then: the stored game has the move
		require.NoError(t, err)
		assert.Equal(t, entity.MarkX, game.State.CurrentBoard()[4])

		stored, err := repo.GetByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.State.Step)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesApplied), 0)
	})

	t.Run("Occupied cell leaves the stored game unchanged", func(t *testing.T) {
		// Given: X owns the center
		repo := repository.NewMemoryGameRepository()
		manager, m := newManager(repo)
		_, err := manager.NewGame(ctx)
		require.NoError(t, err)
		before, err := manager.MakeMove(ctx, "g1", 4)
		require.NoError(t, err)

		// When: O plays the center
		game, err := manager.MakeMove(ctx, "g1", 4)

		// Then: ErrCellOccupied is returned with the unchanged game
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before.State, game.State)

		stored, err := repo.GetByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, before.State, stored.State)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesRejected.WithLabelValues("cell_occupied")), 0)
	})

	t.Run("Winning move is counted", func(t *testing.T) {
		// Given: a game about to be won by X
		repo := repository.NewMemoryGameRepository()
		manager, m := newManager(repo)
		_, err := manager.NewGame(ctx)
		require.NoError(t, err)

		for _, cell := range []int{0, 3, 1, 4} {
			_, err = manager.MakeMove(ctx, "g1", cell)
			require.NoError(t, err)
		}

		// When: X completes the top row
		game, err := manager.MakeMove(ctx, "g1", 2)
		require.NoError(t, err)

		// Then: X wins and further moves are rejected
		assert.Equal(t, entity.MarkX, game.State.Winner())
		assert.InDelta(t, 1, testutil.ToFloat64(m.GamesWon.WithLabelValues("X")), 0)

		_, err = manager.MakeMove(ctx, "g1", 8)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Error if game not found", func(t *testing.T) {
		manager, _ := newManager(repository.NewMemoryGameRepository())

		game, err := manager.MakeMove(ctx, "missing", 0)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, game)
	})

	t.Run("Error if game cannot be stored", func(t *testing.T) {
		// Given: a repository that loads but cannot save
		repo := &mockGameRepo{}
		repo.On("GetByID", ctx, "g1").Return(entity.NewGame("g1", fixedNow), nil).Once()
		repo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()
		manager, _ := newManager(repo)

		// When: making a move
		game, err := manager.MakeMove(ctx, "g1", 0)

		// Then: the storage error is returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
		repo.AssertExpectations(t)
	})
}

func TestGameManager_JumpTo(t *testing.T) {
	ctx := context.Background()

	t.Run("Jump back then move truncates history", func(t *testing.T) {
		// Given: a move on cell 5
		repo := repository.NewMemoryGameRepository()
		manager, m := newManager(repo)
		_, err := manager.NewGame(ctx)
		require.NoError(t, err)
		_, err = manager.MakeMove(ctx, "g1", 5)
		require.NoError(t, err)

		// When: jumping back to the start and playing cell 5 again
		jumped, err := manager.JumpTo(ctx, "g1", 0)
		require.NoError(t, err)
		assert.Equal(t, 0, jumped.State.Step)
		assert.Len(t, jumped.State.History, 2)

		game, err := manager.MakeMove(ctx, "g1", 5)

		// Then: the move succeeds and history has two entries
		require.NoError(t, err)
		assert.Len(t, game.State.History, 2)
		assert.Equal(t, 1, game.State.Step)
		assert.InDelta(t, 1, testutil.ToFloat64(m.Jumps), 0)
	})

	t.Run("Out of range step is rejected", func(t *testing.T) {
		// Given: a new game
		repo := repository.NewMemoryGameRepository()
		manager, m := newManager(repo)
		created, err := manager.NewGame(ctx)
		require.NoError(t, err)

		// When: jumping past the history
		game, err := manager.JumpTo(ctx, "g1", 3)

		// Then: ErrStepOutOfRange is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrStepOutOfRange)
		assert.Equal(t, created.State, game.State)
		assert.InDelta(t, 0, testutil.ToFloat64(m.Jumps), 0)
	})
}

func TestGameManager_DeleteGame(t *testing.T) {
	ctx := context.Background()

	repo := repository.NewMemoryGameRepository()
	manager, _ := newManager(repo)
	_, err := manager.NewGame(ctx)
	require.NoError(t, err)

	require.NoError(t, manager.DeleteGame(ctx, "g1"))

	_, err = manager.GetGame(ctx, "g1")
	require.ErrorIs(t, err, apperror.ErrGameNotFound)

	err = manager.DeleteGame(ctx, "g1")
	require.ErrorIs(t, err, apperror.ErrGameNotFound)
}

// slowGameRepo delays reads the way a redis round trip does.
type slowGameRepo struct {
	gameRepo
	delay time.Duration
}

func (that *slowGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	time.Sleep(that.delay)
	return that.gameRepo.GetByID(ctx, id)
}

func TestGameManager_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()

	t.Run("Concurrent moves on one game are both stored", func(t *testing.T) {
		for round := 0; round < 20; round++ {
			// Given: a new game behind a slow repository
			repo := &slowGameRepo{gameRepo: repository.NewMemoryGameRepository(), delay: time.Millisecond}
			manager, m := newManager(repo)
			_, err := manager.NewGame(ctx)
			require.NoError(t, err)

			// When: two moves arrive at once
			var wg sync.WaitGroup
			errs := make([]error, 2)
			for i, cell := range []int{0, 4} {
				i, cell := i, cell
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, errs[i] = manager.MakeMove(ctx, "g1", cell)
				}()
			}
			wg.Wait()

			// Then: both succeed and both marks are in the stored history
			require.NoError(t, errs[0])
			require.NoError(t, errs[1])

			stored, err := manager.GetGame(ctx, "g1")
			require.NoError(t, err)
			require.Len(t, stored.State.History, 3)
			assert.Equal(t, 2, stored.State.Step)

			board := stored.State.CurrentBoard()
			assert.NotEqual(t, entity.Empty, board[0])
			assert.NotEqual(t, entity.Empty, board[4])
			assert.InDelta(t, 2, testutil.ToFloat64(m.MovesApplied), 0)
			assert.Zero(t, manager.locks.size())
		}
	})

	t.Run("Jump and move do not lose each other", func(t *testing.T) {
		// Given: a game with two moves
		repo := &slowGameRepo{gameRepo: repository.NewMemoryGameRepository(), delay: time.Millisecond}
		manager, _ := newManager(repo)
		_, err := manager.NewGame(ctx)
		require.NoError(t, err)
		_, err = manager.MakeMove(ctx, "g1", 0)
		require.NoError(t, err)
		_, err = manager.MakeMove(ctx, "g1", 1)
		require.NoError(t, err)

		// When: a jump and a move race
		var wg sync.WaitGroup
		var moveErr, jumpErr error
		var moved, jumped *entity.Game
		wg.Add(2)
		go func() {
			defer wg.Done()
			moved, moveErr = manager.MakeMove(ctx, "g1", 8)
		}()
		go func() {
			defer wg.Done()
			jumped, jumpErr = manager.JumpTo(ctx, "g1", 0)
		}()
		wg.Wait()

		// Then: the stored game is whichever reply was produced last
		require.NoError(t, moveErr)
		require.NoError(t, jumpErr)

		stored, err := manager.GetGame(ctx, "g1")
		require.NoError(t, err)
		if stored.State.Step == 0 {
			assert.Equal(t, jumped.State, stored.State)
			assert.Len(t, stored.State.History, 4)
		} else {
			assert.Equal(t, moved.State, stored.State)
			assert.Len(t, stored.State.History, 2)
		}
	})
}
