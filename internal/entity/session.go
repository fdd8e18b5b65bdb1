package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

// Session is one game between a human and the computer, or between two humans
// sharing a screen when Computer is empty.
type Session struct {
	ID         string     `json:"id"`
	Board      Board      `json:"board"`
	Turn       Mark       `json:"player_turn"`
	Status     string     `json:"status"`
	Winner     string     `json:"winner"`
	Difficulty Difficulty `json:"difficulty"`
	Computer   Mark       `json:"computer,omitempty"`
	Moves      []Move     `json:"moves,omitempty"`
}

func NewSession(id string, difficulty Difficulty, computer Mark) *Session {
	session := &Session{
		ID:         id,
		Difficulty: difficulty,
		Computer:   computer,
	}
	session.Reset()

	return session
}

// Reset - starts the game over with the same players and difficulty.
func (that *Session) Reset() {
	that.Board = NewBoard()
	that.Turn = FirstPlayer
	that.Status = StatusOngoing
	that.Winner = ""
	that.Moves = nil
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsComputerTurn() bool {
	return !that.IsFinished() && that.Computer.IsPlayer() && that.Turn == that.Computer
}

// Depth - returns the search depth configured by the difficulty.
func (that *Session) Depth() int {
	return that.Difficulty.Depth()
}

// MakeTurn - validates and applies a move by playerMark, then updates the game state.
func (that *Session) MakeTurn(playerMark Mark, row, col int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if !(Coord{Row: row, Col: col}).InRange() {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidCell, row, col)
	}

	if !that.Board.IsValidMove(row, col) {
		return apperror.ErrCellOccupied
	}

	that.Board.ApplyMove(row, col, playerMark)
	that.Moves = append(that.Moves, Move{Row: row, Col: col, Mark: playerMark})
	that.Turn = playerMark.Opponent()

	that.UpdateGameState()

	return nil
}

// UpdateGameState - finishes the session once the board is terminal.
func (that *Session) UpdateGameState() {
	switch status := that.Board.TerminalStatus(); status.Outcome {
	// one player wins
	case Win:
		that.Winner = string(status.Winner)
		that.Status = StatusFinished
		that.Turn = EmptyCell
	// tie
	case Draw:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = EmptyCell
	// game continue
	default:
		that.Status = StatusOngoing
	}
}
