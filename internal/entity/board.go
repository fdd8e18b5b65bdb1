package entity

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

const BoardSize = 3

var ErrInvalidBoard = errors.New("invalid board string")

// Line is a triple of cell indexes that wins the game when owned by one mark.
type Line [3]int

// Lines are scanned in a fixed order: rows, columns, diagonals.
var Lines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Outcome of a board position.
type Outcome int

const (
	Ongoing Outcome = iota
	Draw
	Win
)

func (that Outcome) String() string {
	switch that {
	case Draw:
		return "draw"
	case Win:
		return "win"
	default:
		return "ongoing"
	}
}

// Status is the result of TerminalStatus. Winner is set only for Win.
type Status struct {
	Outcome Outcome
	Winner  Mark
}

func (that Status) IsTerminal() bool {
	return that.Outcome != Ongoing
}

// Coord addresses a cell by row and column.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Index - returns the row-major cell index.
func (that Coord) Index() int {
	return that.Row*BoardSize + that.Col
}

func (that Coord) InRange() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

// Move places Mark on the cell at (Row, Col).
type Move struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Mark Mark `json:"mark"`
}

func (that Move) Coord() Coord {
	return Coord{Row: that.Row, Col: that.Col}
}

// Board is a 3x3 grid stored row-major. It is a value: copies never alias.
type Board [BoardSize * BoardSize]Mark

func NewBoard() Board {
	return Board{}
}

// ParseBoard - reads the nine-character form produced by String.
func ParseBoard(text string) (Board, error) {
	var board Board

	if len(text) != len(board) {
		return board, fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoard, len(board), len(text))
	}

	for i, r := range text {
		switch r {
		case 'X', 'x':
			board[i] = PlayerX
		case 'O', 'o':
			board[i] = PlayerO
		case '.', '-', '_', ' ':
			board[i] = EmptyCell
		default:
			return board, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidBoard, r, i)
		}
	}

	return board, nil
}

func (that Board) String() string {
	var sb strings.Builder
	sb.Grow(len(that))

	for _, cell := range that {
		sb.WriteString(cell.Label())
	}

	return sb.String()
}

// IsValidMove - reports whether (row, col) is on the board and empty.
func (that Board) IsValidMove(row, col int) bool {
	coord := Coord{Row: row, Col: col}
	if !coord.InRange() {
		return false
	}

	return that[coord.Index()] == EmptyCell
}

// ApplyMove - sets the cell. The caller must check IsValidMove first.
func (that *Board) ApplyMove(row, col int, mark Mark) {
	that[Coord{Row: row, Col: col}.Index()] = mark
}

// WithMove - returns a copy of the board with the move applied.
func (that Board) WithMove(move Move) Board {
	that.ApplyMove(move.Row, move.Col, move.Mark)

	return that
}

func (that Board) At(row, col int) Mark {
	return that[Coord{Row: row, Col: col}.Index()]
}

// EmptyCells - yields empty coordinates in row-major order.
func (that Board) EmptyCells() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for i, cell := range that {
			if cell != EmptyCell {
				continue
			}

			if !yield(Coord{Row: i / BoardSize, Col: i % BoardSize}) {
				return
			}
		}
	}
}

func (that Board) EmptyCount() int {
	count := 0
	for _, cell := range that {
		if cell == EmptyCell {
			count++
		}
	}

	return count
}

// TerminalStatus - checks every line for a winner before declaring a draw.
func (that Board) TerminalStatus() Status {
	for _, line := range Lines {
		a, b, c := that[line[0]], that[line[1]], that[line[2]]
		if a != EmptyCell && a == b && b == c {
			return Status{Outcome: Win, Winner: a}
		}
	}

	// the game will continue until all the squares are full
	if that.EmptyCount() > 0 {
		return Status{Outcome: Ongoing}
	}

	return Status{Outcome: Draw}
}
