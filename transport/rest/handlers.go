package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

type gameUseCase interface {
	NewGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	MakeMove(ctx context.Context, gameID string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, gameID string, step int) (*entity.Game, error)
	DeleteGame(ctx context.Context, gameID string) error
}

type handlers struct {
	logger *slog.Logger
	games  gameUseCase
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Step *int `json:"step"`
}

type errorResponse struct {
	Error string       `json:"error"`
	Game  *entity.View `json:"game,omitempty"`
}

// NewRouter wires the game API. metricsHandler may be nil.
func NewRouter(logger *slog.Logger, games gameUseCase, metricsHandler http.Handler) http.Handler {
	h := &handlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Post("/games", h.create)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Delete("/", h.delete)
		r.Post("/moves", h.move)
		r.Post("/jump", h.jump)
	})

	return r
}

func (that *handlers) create(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.NewGame(r.Context())
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, entity.NewView(game))
}

func (that *handlers) view(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, entity.NewView(game))
}

func (that *handlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"cell\": 0..8}"})
		return
	}

	game, err := that.games.MakeMove(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		that.writeError(w, r, err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, entity.NewView(game))
}

func (that *handlers) jump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Step == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"step\": n}"})
		return
	}

	game, err := that.games.JumpTo(r.Context(), chi.URLParam(r, "id"), *req.Step)
	if err != nil {
		that.writeError(w, r, err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, entity.NewView(game))
}

// writeError maps domain errors to status codes. game, when present, is the
// unchanged state returned alongside a rejected action.
func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error, game *entity.Game) {
	resp := errorResponse{Error: err.Error()}
	if game != nil {
		view := entity.NewView(game)
		resp.Game = &view
	}

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.writeJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrGameFinished):
		that.writeJSON(w, http.StatusConflict, resp)
	case errors.Is(err, apperror.ErrInvalidCell), errors.Is(err, apperror.ErrStepOutOfRange):
		that.writeJSON(w, http.StatusBadRequest, resp)
	default:
		that.logger.Error("request failed", "path", r.URL.Path, "requestID", middleware.GetReqID(r.Context()), "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
