package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/metrics"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	metrics  *metrics.Metrics
	locks    *gameLocks

	newID func() string
	now   func() time.Time
}

type Option func(*GameManager)

func WithIDGenerator(newID func() string) Option {
	return func(that *GameManager) {
		that.newID = newID
	}
}

func WithClock(now func() time.Time) Option {
	return func(that *GameManager) {
		that.now = now
	}
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, m *metrics.Metrics, opts ...Option) *GameManager {
	manager := &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		metrics:  m,
		locks:    newGameLocks(),

		newID: uuid.NewString,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

func (that *GameManager) NewGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(that.newID(), that.now())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.metrics.GamesCreated.Inc()
	that.logger.Debug("game created", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeMove applies a move to the shown step. A rejected move returns the
// unchanged game together with the reason. Moves on one game never interleave.
func (that *GameManager) MakeMove(ctx context.Context, gameID string, cell int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeMove", "gameID", gameID, "cell", cell)

	unlock := that.locks.lock(gameID)
	defer unlock()

	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	state, err := entity.TryApplyMove(game.State, cell)
	if err != nil {
		that.metrics.MovesRejected.WithLabelValues(rejectReason(err)).Inc()
		log.Debug("move rejected", "error", err)

		return game, err
	}

	game.State = state
	game.UpdatedAt = that.now()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.metrics.MovesApplied.Inc()

	if winner := state.Winner(); winner != entity.Empty {
		that.metrics.GamesWon.WithLabelValues(string(winner)).Inc()
		log.Info("game won", "winner", winner, "step", state.Step)
	}

	return game, nil
}

func (that *GameManager) JumpTo(ctx context.Context, gameID string, step int) (*entity.Game, error) {
	unlock := that.locks.lock(gameID)
	defer unlock()

	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	state, err := entity.JumpTo(game.State, step)
	if err != nil {
		return game, err
	}

	game.State = state
	game.UpdatedAt = that.now()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.metrics.Jumps.Inc()

	return game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, gameID string) error {
	unlock := that.locks.lock(gameID)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Debug("game deleted", "gameID", gameID)

	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, apperror.ErrGameFinished):
		return "game_finished"
	case errors.Is(err, apperror.ErrInvalidCell):
		return "invalid_cell"
	default:
		return "unknown"
	}
}
