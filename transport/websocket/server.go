package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const writeTimeout = 5 * time.Second

type gameUseCase interface {
	NewGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	MakeMove(ctx context.Context, gameID string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, gameID string, step int) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, req RequestPayload) (*entity.Game, error)

type Server struct {
	logger *slog.Logger
	games  gameUseCase

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, games gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionViewGame] = server.handleViewGame
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionJump] = server.handleJump

	return server
}

// Handler returns the mux serving the websocket endpoint at /ws.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	return mux
}

// ServeHTTP upgrades the connection and processes messages until the client leaves.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.CloseNow()

	log.Debug("WebSocket connection established")

	err = that.handleMessages(r.Context(), conn)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		_ = conn.Close(websocket.StatusNormalClosure, "")
	default:
		if !errors.Is(err, context.Canceled) {
			log.Error("error handling messages", "error", err)
		}
		_ = conn.Close(websocket.StatusInternalError, "")
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			if err = that.send(ctx, conn, actionError, ResponsePayload{Error: "malformed message"}); err != nil {
				return err
			}
			continue
		}

		if err = that.send(ctx, conn, message.Action, that.dispatch(ctx, &message)); err != nil {
			return err
		}
	}
}

func (that *Server) dispatch(ctx context.Context, message *Message) ResponsePayload {
	handler, ok := that.handlers[message.Action]
	if !ok {
		return ResponsePayload{Error: fmt.Errorf("%w: %q", apperror.ErrUnknownAction, message.Action).Error()}
	}

	var req RequestPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &req); err != nil {
			return ResponsePayload{Error: "malformed payload"}
		}
	}

	game, err := handler(ctx, req)

	var resp ResponsePayload
	if game != nil {
		view := entity.NewView(game)
		resp.Game = &view
	}

	if err != nil {
		that.logger.Debug("action failed", "action", message.Action, "error", err)
		resp.Error = err.Error()
	}

	return resp
}

func (that *Server) send(ctx context.Context, conn *websocket.Conn, action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err = wsjson.Write(ctx, conn, Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
