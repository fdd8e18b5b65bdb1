package tictactoe

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
)

var ErrNoComputerMove = errors.New("computer has no move to play")

type moveSearcher interface {
	BestMove(ctx context.Context, board entity.Board, me entity.Mark, depth int) (search.Result, error)
}

// GameController drives a session: it applies the human move and lets the
// computer answer when it is its turn.
type GameController struct {
	searcher moveSearcher
}

func NewGameController(searcher moveSearcher) *GameController {
	return &GameController{
		searcher: searcher,
	}
}

// PlayTurn - applies a move for whoever has the turn, then the computer's
// reply if the game goes on. The reply is nil when the computer did not move.
func (that *GameController) PlayTurn(ctx context.Context, session *entity.Session, row, col int) (*entity.Move, error) {
	if session.IsComputerTurn() {
		return nil, apperror.ErrNotYourTurn
	}

	if err := session.MakeTurn(session.Turn, row, col); err != nil {
		return nil, fmt.Errorf("invalid turn: %w", err)
	}

	if !session.IsComputerTurn() {
		return nil, nil
	}

	return that.ComputerTurn(ctx, session)
}

// ComputerTurn - searches and applies the computer's move.
func (that *GameController) ComputerTurn(ctx context.Context, session *entity.Session) (*entity.Move, error) {
	if session.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	if !session.IsComputerTurn() {
		return nil, apperror.ErrNotYourTurn
	}

	result, err := that.searcher.BestMove(ctx, session.Board, session.Computer, session.Depth())
	if err != nil {
		return nil, fmt.Errorf("failed to search move: %w", err)
	}

	if result.Move == nil {
		return nil, ErrNoComputerMove
	}

	move := entity.Move{Row: result.Move.Row, Col: result.Move.Col, Mark: session.Computer}
	if err = session.MakeTurn(move.Mark, move.Row, move.Col); err != nil {
		return nil, fmt.Errorf("computer turn rejected: %w", err)
	}

	return &move, nil
}
