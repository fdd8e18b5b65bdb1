package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	actionNewGame = "game:new"
	actionTurn    = "game:turn"
	actionReset   = "game:reset"
	actionState   = "game:state"
	actionError   = "error"
)

type uGame interface {
	NewGame(ctx context.Context, difficulty entity.Difficulty, humanMark entity.Mark) (*usecase.TurnResult, error)
	MakeTurn(ctx context.Context, sessionID string, row, col int) (*usecase.TurnResult, error)
	Reset(ctx context.Context, sessionID string) (*usecase.TurnResult, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	CloseSession(ctx context.Context, sessionID string)
}

type handlerFunc func(ctx context.Context, conn *connection, msg *Message) error

// Server is the presentation shell over websocket: one connection plays its
// own games against the computer and every game ends with the connection.
type Server struct {
	logger            *slog.Logger
	uGame             uGame
	defaultDifficulty entity.Difficulty
	upgrader          websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame, defaultDifficulty entity.Difficulty) *Server {
	server := &Server{
		logger:            logger.With("component", "websocket"),
		uGame:             uGame,
		defaultDifficulty: defaultDifficulty,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionTurn] = server.handleGameTurn
	server.handlers[actionReset] = server.handleReset
	server.handlers[actionState] = server.handleState

	return server
}

// Handler - returns the http handler serving /ws.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	// hijacked connections keep read and write deadlines, so only headers are bounded
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and processes messages until it closes.
func (that *Server) serveWS(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(ws)
	defer func() {
		for sessionID := range conn.sessions {
			that.uGame.CloseSession(ctx, sessionID)
		}

		_ = ws.Close()
	}()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := conn.ws.ReadJSON(&message); err != nil {
			if !isDecodeError(err) {
				return err
			}

			log.Error("failed to unmarshal message", "error", err)
			if sendErr := conn.sendError(actionError, "malformed message"); sendErr != nil {
				return sendErr
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err := conn.sendError(message.Action, "unknown action"); err != nil {
				return err
			}

			continue
		}

		if err := handler(ctx, conn, &message); err != nil {
			return fmt.Errorf("failed to process %s: %w", message.Action, err)
		}
	}
}

// isDecodeError - reports whether the frame was read but its JSON was bad,
// which leaves the connection usable.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
