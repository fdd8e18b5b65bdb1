package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	var req NewGameRequest
	if err := decodePayload(msg.Payload, &req); err != nil {
		log.Error("invalid payload", "error", err)
		return conn.sendError(msg.Action, "invalid payload")
	}

	difficulty := that.defaultDifficulty
	if req.Difficulty != "" {
		parsed, err := entity.ParseDifficulty(req.Difficulty)
		if err != nil {
			return conn.sendError(msg.Action, err.Error())
		}
		difficulty = parsed
	}

	humanMark := entity.PlayerX
	switch {
	case req.HotSeat:
		humanMark = entity.EmptyCell
	case req.Mark != "":
		parsed, err := entity.ParseMark(req.Mark)
		if err != nil {
			return conn.sendError(msg.Action, err.Error())
		}
		humanMark = parsed
	}

	result, err := that.uGame.NewGame(ctx, difficulty, humanMark)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return conn.sendError(msg.Action, "failed to create game")
	}

	conn.sessions[result.Session.ID] = struct{}{}

	return that.sendTurnResult(conn, msg.Action, result)
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	var req TurnRequest
	if err := decodePayload(msg.Payload, &req); err != nil {
		log.Error("invalid payload", "error", err)
		return conn.sendError(msg.Action, "invalid payload")
	}

	if err := req.validate(); err != nil {
		return conn.sendError(msg.Action, err.Error())
	}

	if !conn.owns(req.GameID) {
		return conn.sendError(msg.Action, apperror.ErrSessionNotFound.Error())
	}

	result, err := that.uGame.MakeTurn(ctx, req.GameID, *req.Row, *req.Col)
	if err != nil {
		if reason, ok := rejectionReason(err); ok {
			return conn.sendError(msg.Action, reason)
		}

		log.Error("failed to make turn", "error", err)
		return conn.sendError(msg.Action, "failed to make turn")
	}

	return that.sendTurnResult(conn, msg.Action, result)
}

func (that *Server) handleReset(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleReset")

	var req GameRequest
	if err := decodePayload(msg.Payload, &req); err != nil || req.validate() != nil {
		return conn.sendError(msg.Action, "game_id is required")
	}

	if !conn.owns(req.GameID) {
		return conn.sendError(msg.Action, apperror.ErrSessionNotFound.Error())
	}

	result, err := that.uGame.Reset(ctx, req.GameID)
	if err != nil {
		log.Error("failed to reset game", "error", err)
		return conn.sendError(msg.Action, "failed to reset game")
	}

	return that.sendTurnResult(conn, msg.Action, result)
}

func (that *Server) handleState(ctx context.Context, conn *connection, msg *Message) error {
	var req GameRequest
	if err := decodePayload(msg.Payload, &req); err != nil || req.validate() != nil {
		return conn.sendError(msg.Action, "game_id is required")
	}

	if !conn.owns(req.GameID) {
		return conn.sendError(msg.Action, apperror.ErrSessionNotFound.Error())
	}

	session, err := that.uGame.GetSession(ctx, req.GameID)
	if err != nil {
		return conn.sendError(msg.Action, apperror.ErrSessionNotFound.Error())
	}

	return conn.send(msg.Action, ResponsePayload{Game: session})
}

func (that *Server) sendTurnResult(conn *connection, action string, result *usecase.TurnResult) error {
	return conn.send(action, ResponsePayload{
		Game: result.Session,
		Move: result.Reply,
	})
}

// rejectionReason - maps rule violations to messages the player can act on.
func rejectionReason(err error) (string, bool) {
	for _, known := range []error{
		apperror.ErrGameFinished,
		apperror.ErrNotYourTurn,
		apperror.ErrCellOccupied,
		apperror.ErrInvalidCell,
		apperror.ErrSessionNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error(), true
		}
	}

	return "", false
}
