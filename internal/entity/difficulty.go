package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Difficulty selects how many plies the computer searches.
type Difficulty string

const (
	EasyDifficulty   Difficulty = "easy"
	MediumDifficulty Difficulty = "medium"
	HardDifficulty   Difficulty = "hard"
)

var difficultyDepths = map[Difficulty]int{
	EasyDifficulty:   3,
	MediumDifficulty: 5,
	HardDifficulty:   7,
}

// ParseDifficulty - accepts the difficulty name in any case.
func ParseDifficulty(name string) (Difficulty, error) {
	difficulty := Difficulty(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := difficultyDepths[difficulty]; !ok {
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, name)
	}

	return difficulty, nil
}

// Depth - returns the search depth in plies, or 0 for an unknown difficulty.
func (that Difficulty) Depth() int {
	return difficultyDepths[that]
}
