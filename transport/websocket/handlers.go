package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

var (
	errGameIDRequired = errors.New("game_id is required")
	errCellRequired   = errors.New("cell is required")
	errStepRequired   = errors.New("step is required")
)

func (that *Server) handleNewGame(ctx context.Context, _ RequestPayload) (*entity.Game, error) {
	return that.games.NewGame(ctx)
}

func (that *Server) handleViewGame(ctx context.Context, req RequestPayload) (*entity.Game, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	return that.games.GetGame(ctx, req.GameID)
}

func (that *Server) handleMove(ctx context.Context, req RequestPayload) (*entity.Game, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	if req.Cell == nil {
		return nil, errCellRequired
	}

	return that.games.MakeMove(ctx, req.GameID, *req.Cell)
}

func (that *Server) handleJump(ctx context.Context, req RequestPayload) (*entity.Game, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	if req.Step == nil {
		return nil, errStepRequired
	}

	return that.games.JumpTo(ctx, req.GameID, *req.Step)
}
