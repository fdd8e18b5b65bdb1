package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type gameController interface {
	PlayTurn(ctx context.Context, session *entity.Session, row, col int) (*entity.Move, error)
	ComputerTurn(ctx context.Context, session *entity.Session) (*entity.Move, error)
}

// TurnResult is the session after a turn plus the computer's reply, if any.
type TurnResult struct {
	Session *entity.Session
	Reply   *entity.Move
}

type sessionEntry struct {
	mu      sync.Mutex
	session *entity.Session
}

// SessionManager owns every live session in memory. Sessions are independent:
// each is locked only while one of its turns is processed.
type SessionManager struct {
	logger     *slog.Logger
	controller gameController

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

func NewSessionManager(logger *slog.Logger, controller gameController) *SessionManager {
	return &SessionManager{
		logger:     logger,
		controller: controller,

		sessions: make(map[string]*sessionEntry),
	}
}

// NewGame - starts a session. humanMark is the mark of the human; an empty
// humanMark starts a hot-seat game for two humans.
func (that *SessionManager) NewGame(ctx context.Context, difficulty entity.Difficulty, humanMark entity.Mark) (*TurnResult, error) {
	log := that.logger.With("method", "NewGame")

	if difficulty.Depth() == 0 {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, difficulty)
	}

	if humanMark != entity.EmptyCell && !humanMark.IsPlayer() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, humanMark)
	}

	session := entity.NewSession(uuid.NewString(), difficulty, humanMark.Opponent())
	entry := &sessionEntry{session: session}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	that.mu.Lock()
	that.sessions[session.ID] = entry
	that.mu.Unlock()

	log.Info("game created", "sessionID", session.ID, "difficulty", difficulty, "computer", session.Computer)

	reply, err := that.openIfComputerStarts(ctx, session)
	if err != nil {
		that.CloseSession(ctx, session.ID)
		return nil, err
	}

	return &TurnResult{Session: snapshot(session), Reply: reply}, nil
}

// MakeTurn - plays (row, col) for the side to move and lets the computer reply.
func (that *SessionManager) MakeTurn(ctx context.Context, sessionID string, row, col int) (*TurnResult, error) {
	log := that.logger.With("method", "MakeTurn", "sessionID", sessionID)

	entry, err := that.getEntry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	reply, err := that.controller.PlayTurn(ctx, entry.session, row, col)
	if err != nil {
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	if entry.session.IsFinished() {
		log.Info("game finished", "winner", entry.session.Winner)
	}

	return &TurnResult{Session: snapshot(entry.session), Reply: reply}, nil
}

// Reset - plays again with the same difficulty and marks.
func (that *SessionManager) Reset(ctx context.Context, sessionID string) (*TurnResult, error) {
	log := that.logger.With("method", "Reset", "sessionID", sessionID)

	entry, err := that.getEntry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.session.Reset()
	log.Info("game reset")

	reply, err := that.openIfComputerStarts(ctx, entry.session)
	if err != nil {
		return nil, err
	}

	return &TurnResult{Session: snapshot(entry.session), Reply: reply}, nil
}

// GetSession - returns a copy of the session state.
func (that *SessionManager) GetSession(_ context.Context, sessionID string) (*entity.Session, error) {
	entry, err := that.getEntry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return snapshot(entry.session), nil
}

// CloseSession - forgets the session. Closing an unknown session is a no-op.
func (that *SessionManager) CloseSession(_ context.Context, sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[sessionID]; ok {
		delete(that.sessions, sessionID)
		that.logger.Info("game closed", "method", "CloseSession", "sessionID", sessionID)
	}
}

func (that *SessionManager) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

func (that *SessionManager) openIfComputerStarts(ctx context.Context, session *entity.Session) (*entity.Move, error) {
	if !session.IsComputerTurn() {
		return nil, nil
	}

	reply, err := that.controller.ComputerTurn(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed computer turn: %w", err)
	}

	return reply, nil
}

func (that *SessionManager) getEntry(sessionID string) (*sessionEntry, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	entry, ok := that.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", apperror.ErrSessionNotFound, sessionID)
	}

	return entry, nil
}

// snapshot - copies the session so callers never share state with the manager.
func snapshot(session *entity.Session) *entity.Session {
	clone := *session
	clone.Moves = append([]entity.Move(nil), session.Moves...)

	return &clone
}
