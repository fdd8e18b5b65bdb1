package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Engine picks moves for the computer. It holds no game state; every call
// searches its own copy of the board.
type Engine struct {
	logger  *slog.Logger
	cache   Cache
	pruning bool
}

type Option func(*Engine)

// WithCache - reuses results across calls. Cache failures are logged and the
// search runs anyway.
func WithCache(cache Cache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithPruning - toggles alpha-beta pruning. It is on by default.
func WithPruning(enabled bool) Option {
	return func(e *Engine) {
		e.pruning = enabled
	}
}

func New(logger *slog.Logger, opts ...Option) *Engine {
	engine := &Engine{
		logger:  logger,
		pruning: true,
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// BestMove - returns the move judged best for me within depth plies. A board
// that is already terminal yields its score and no move.
func (that *Engine) BestMove(ctx context.Context, board entity.Board, me entity.Mark, depth int) (Result, error) {
	log := that.logger.With("method", "BestMove", "board", board.String(), "mark", me, "depth", depth)

	if !me.IsPlayer() {
		return Result{}, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, me)
	}

	if depth < 1 {
		return Result{}, fmt.Errorf("%w: %d", apperror.ErrInvalidDepth, depth)
	}

	key := Key{Board: board, Mark: me, Depth: depth}

	if that.cache != nil {
		cached, ok, err := that.cache.Get(ctx, key)
		if err != nil {
			log.Warn("failed to read search cache", "error", err)
		}

		if ok {
			cached.Cached = true
			log.Debug("search cache hit", "score", cached.Score)

			return cached, nil
		}
	}

	var result Result
	if that.pruning {
		result = AlphaBeta(board, me, depth)
	} else {
		result = Minimax(board, me, depth)
	}

	log.Debug("search finished", "score", result.Score, "exact", result.Exact, "nodes", result.Nodes)

	if that.cache != nil {
		if err := that.cache.Set(ctx, key, result); err != nil {
			log.Warn("failed to write search cache", "error", err)
		}
	}

	return result, nil
}
