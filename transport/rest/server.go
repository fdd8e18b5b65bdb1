package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
)

type moveSearcher interface {
	BestMove(ctx context.Context, board entity.Board, me entity.Mark, depth int) (search.Result, error)
}

type cacheFlusher interface {
	Flush(ctx context.Context) (int, error)
}

// Server exposes the engine as a stateless analysis API.
type Server struct {
	logger            *slog.Logger
	searcher          moveSearcher
	cache             cacheFlusher
	defaultDifficulty entity.Difficulty
}

// New - cache may be nil when the engine runs without one.
func New(logger *slog.Logger, searcher moveSearcher, cache cacheFlusher, defaultDifficulty entity.Difficulty) *Server {
	return &Server{
		logger:            logger.With("component", "rest"),
		searcher:          searcher,
		cache:             cache,
		defaultDifficulty: defaultDifficulty,
	}
}

func (that *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/ping", pingHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/best-move", that.handleBestMove)
		r.Delete("/cache", that.handleFlushCache)
	})

	return r
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  30 * time.Second,
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
