package search

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Reported scores for proven outcomes.
const (
	WinScore  = 1
	LossScore = -1
	DrawScore = 0
)

// winValue is the internal value of a won position. It sits above every
// heuristic estimate so a proven result always outranks a guess.
const winValue = maxHeuristic + 1

// Result is the outcome of one top-level search.
type Result struct {
	// Score is WinScore, LossScore or DrawScore when Exact, otherwise the
	// heuristic estimate of the best line found.
	Score int `json:"score"`
	// Move is nil when the board was already terminal.
	Move   *entity.Coord `json:"move,omitempty"`
	Exact  bool          `json:"exact"`
	Nodes  int           `json:"nodes"`
	Cached bool          `json:"cached,omitempty"`
}

// AlphaBeta - runs a depth-bounded minimax with alpha-beta pruning for me.
func AlphaBeta(board entity.Board, me entity.Mark, depth int) Result {
	return run(board, me, depth, true)
}

// Minimax - runs the same search as AlphaBeta without pruning.
func Minimax(board entity.Board, me entity.Mark, depth int) Result {
	return run(board, me, depth, false)
}

type searcher struct {
	me    entity.Mark
	prune bool
	nodes int
}

func run(board entity.Board, me entity.Mark, depth int, prune bool) Result {
	s := &searcher{me: me, prune: prune}

	value, move, found := s.search(board, depth, math.MinInt, math.MaxInt, true)

	result := Result{
		Score: value,
		Nodes: s.nodes,
		// no cutoff can happen when the budget covers every remaining cell
		Exact: depth >= board.EmptyCount() || value >= winValue || value <= -winValue,
	}

	if found {
		result.Move = &move
	}

	if result.Exact {
		result.Score = normalize(value)
	}

	return result
}

func normalize(value int) int {
	switch {
	case value >= winValue:
		return WinScore
	case value <= -winValue:
		return LossScore
	default:
		return DrawScore
	}
}

// search - returns the value of board for s.me and, when a move was tried, the
// first move reaching that value in row-major order.
func (that *searcher) search(board entity.Board, depth, alpha, beta int, maximizing bool) (int, entity.Coord, bool) {
	that.nodes++

	switch status := board.TerminalStatus(); status.Outcome {
	case entity.Win:
		if status.Winner == that.me {
			return winValue, entity.Coord{}, false
		}
		return -winValue, entity.Coord{}, false
	case entity.Draw:
		return 0, entity.Coord{}, false
	case entity.Ongoing:
	}

	if depth <= 0 {
		return Evaluate(board, that.me), entity.Coord{}, false
	}

	mover := that.me
	if !maximizing {
		mover = that.me.Opponent()
	}

	var (
		best     int
		bestMove entity.Coord
		found    bool
	)

	for cell := range board.EmptyCells() {
		child := board.WithMove(entity.Move{Row: cell.Row, Col: cell.Col, Mark: mover})
		value, _, _ := that.search(child, depth-1, alpha, beta, !maximizing)

		if maximizing {
			if !found || value > best {
				best, bestMove, found = value, cell, true
			}
			alpha = max(alpha, value)
		} else {
			if !found || value < best {
				best, bestMove, found = value, cell, true
			}
			beta = min(beta, value)
		}

		if that.prune && alpha >= beta {
			break
		}
	}

	return best, bestMove, found
}
