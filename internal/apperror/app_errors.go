package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCell       = errors.New("invalid cell coordinates")
	ErrSessionNotFound   = errors.New("game session not found")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrInvalidMark       = errors.New("invalid player mark")
	ErrInvalidDepth      = errors.New("search depth must be positive")
)
