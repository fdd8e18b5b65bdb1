package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Mark is the content of a single cell. The zero value is an empty cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// FirstPlayer opens every session.
const FirstPlayer = PlayerX

// Opponent - returns the other player's mark. Empty stays empty.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

// IsPlayer - reports whether the mark belongs to one of the two players.
func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Label - returns the display label of the mark.
func (that Mark) Label() string {
	if that == EmptyCell {
		return "."
	}

	return string(that)
}

// ParseMark - converts a player label into a mark.
func ParseMark(label string) (Mark, error) {
	mark := Mark(label)
	if !mark.IsPlayer() {
		return EmptyCell, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, label)
	}

	return mark, nil
}
