package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errEngineDown = errors.New("engine down")

type mockController struct {
	mock.Mock
}

func (m *mockController) PlayTurn(ctx context.Context, session *entity.Session, row, col int) (*entity.Move, error) {
	args := m.Called(ctx, session, row, col)
	move, _ := args.Get(0).(*entity.Move)
	return move, args.Error(1)
}

func (m *mockController) ComputerTurn(ctx context.Context, session *entity.Session) (*entity.Move, error) {
	args := m.Called(ctx, session)
	move, _ := args.Get(0).(*entity.Move)
	return move, args.Error(1)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newManager() *SessionManager {
	engine := search.New(newLogger(), search.WithCache(search.NewMemoryCache()))
	return NewSessionManager(newLogger(), tictactoe.NewGameController(engine))
}

func TestSessionManager_NewGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Human plays X and moves first", func(t *testing.T) {
		// Given: a session manager
		manager := newManager()

		// When: a human starts as X
		result, err := manager.NewGame(ctx, entity.MediumDifficulty, entity.PlayerX)

		// Then: the board is empty and it is the human's turn
		require.NoError(t, err)
		assert.NotEmpty(t, result.Session.ID)
		assert.Nil(t, result.Reply)
		assert.Equal(t, entity.PlayerO, result.Session.Computer)
		assert.Equal(t, entity.PlayerX, result.Session.Turn)
		assert.Equal(t, 1, manager.Len())
	})

	t.Run("Computer opens when the human plays O", func(t *testing.T) {
		manager := newManager()

		result, err := manager.NewGame(ctx, entity.EasyDifficulty, entity.PlayerO)

		require.NoError(t, err)
		require.NotNil(t, result.Reply)
		assert.Equal(t, entity.PlayerX, result.Reply.Mark)
		assert.Equal(t, 8, result.Session.Board.EmptyCount())
		assert.Equal(t, entity.PlayerO, result.Session.Turn)
	})

	t.Run("Hot-seat game has no computer", func(t *testing.T) {
		manager := newManager()

		result, err := manager.NewGame(ctx, entity.EasyDifficulty, entity.EmptyCell)

		require.NoError(t, err)
		assert.Equal(t, entity.EmptyCell, result.Session.Computer)
	})

	t.Run("Unknown difficulty", func(t *testing.T) {
		manager := newManager()

		_, err := manager.NewGame(ctx, entity.Difficulty("insane"), entity.PlayerX)

		require.ErrorIs(t, err, apperror.ErrUnknownDifficulty)
		assert.Equal(t, 0, manager.Len())
	})

	t.Run("Invalid mark", func(t *testing.T) {
		manager := newManager()

		_, err := manager.NewGame(ctx, entity.EasyDifficulty, entity.Mark("Z"))

		require.ErrorIs(t, err, apperror.ErrInvalidMark)
	})

	t.Run("Failed opening move drops the session", func(t *testing.T) {
		// Given: a controller whose computer cannot move
		controller := &mockController{}
		manager := NewSessionManager(newLogger(), controller)

		controller.On("ComputerTurn", mock.Anything, mock.AnythingOfType("*entity.Session")).
			Return(nil, errEngineDown).
			Once()

		// When: the computer should open
		_, err := manager.NewGame(ctx, entity.EasyDifficulty, entity.PlayerO)

		// Then: the error is reported and nothing is kept
		require.ErrorIs(t, err, errEngineDown)
		assert.Equal(t, 0, manager.Len())
		controller.AssertExpectations(t)
	})
}

func TestSessionManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Computer replies to the human", func(t *testing.T) {
		manager := newManager()
		started, err := manager.NewGame(ctx, entity.HardDifficulty, entity.PlayerX)
		require.NoError(t, err)

		// When: the human takes the center
		result, err := manager.MakeTurn(ctx, started.Session.ID, 1, 1)

		// Then: the computer has answered and the human has the turn
		require.NoError(t, err)
		require.NotNil(t, result.Reply)
		assert.Equal(t, entity.PlayerO, result.Reply.Mark)
		assert.Equal(t, 7, result.Session.Board.EmptyCount())
		assert.Equal(t, entity.PlayerX, result.Session.Turn)
		assert.Len(t, result.Session.Moves, 2)
	})

	t.Run("Occupied cell", func(t *testing.T) {
		manager := newManager()
		started, err := manager.NewGame(ctx, entity.EasyDifficulty, entity.EmptyCell)
		require.NoError(t, err)

		_, err = manager.MakeTurn(ctx, started.Session.ID, 0, 0)
		require.NoError(t, err)

		_, err = manager.MakeTurn(ctx, started.Session.ID, 0, 0)
		assert.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Unknown session", func(t *testing.T) {
		manager := newManager()

		_, err := manager.MakeTurn(ctx, "missing", 0, 0)

		assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Returned session is a copy", func(t *testing.T) {
		manager := newManager()
		started, err := manager.NewGame(ctx, entity.EasyDifficulty, entity.EmptyCell)
		require.NoError(t, err)

		// When: the caller scribbles on its copy
		started.Session.Board.ApplyMove(2, 2, entity.PlayerO)

		// Then: the managed session is untouched
		stored, err := manager.GetSession(ctx, started.Session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.NewBoard(), stored.Board)
	})

	t.Run("Sessions are independent under concurrency", func(t *testing.T) {
		manager := newManager()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				started, err := manager.NewGame(ctx, entity.MediumDifficulty, entity.PlayerX)
				if !assert.NoError(t, err) {
					return
				}

				result, err := manager.MakeTurn(ctx, started.Session.ID, 0, 0)
				if assert.NoError(t, err) {
					assert.Equal(t, 7, result.Session.Board.EmptyCount())
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 8, manager.Len())
	})
}

func TestSessionManager_Reset(t *testing.T) {
	ctx := context.Background()

	// Given: a game with a few moves
	manager := newManager()
	started, err := manager.NewGame(ctx, entity.EasyDifficulty, entity.PlayerO)
	require.NoError(t, err)

	// When: the human plays again
	result, err := manager.Reset(ctx, started.Session.ID)

	// Then: the computer opens the fresh game again
	require.NoError(t, err)
	assert.Equal(t, started.Session.ID, result.Session.ID)
	require.NotNil(t, result.Reply)
	assert.Equal(t, 8, result.Session.Board.EmptyCount())
	assert.Len(t, result.Session.Moves, 1)

	_, err = manager.Reset(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
}

func TestSessionManager_CloseSession(t *testing.T) {
	ctx := context.Background()
	manager := newManager()

	started, err := manager.NewGame(ctx, entity.EasyDifficulty, entity.PlayerX)
	require.NoError(t, err)

	manager.CloseSession(ctx, started.Session.ID)
	manager.CloseSession(ctx, "missing")

	_, err = manager.GetSession(ctx, started.Session.ID)
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
	assert.Equal(t, 0, manager.Len())
}
