package websocket

import (
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrMissingField = errors.New("missing required field")

// Message is what the client sends: an action and its loosely typed payload.
type Message struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Response is what the server sends back for an action.
type Response struct {
	Action  string          `json:"action"`
	Payload ResponsePayload `json:"payload"`
}

type ResponsePayload struct {
	Game  *entity.Session `json:"game,omitempty"`
	Move  *entity.Move    `json:"move,omitempty"`
	Error string          `json:"error,omitempty"`
}

// NewGameRequest starts a game. Mark is the human's mark and defaults to X;
// HotSeat starts a game for two humans instead.
type NewGameRequest struct {
	Difficulty string `mapstructure:"difficulty"`
	Mark       string `mapstructure:"mark"`
	HotSeat    bool   `mapstructure:"hot_seat"`
}

type TurnRequest struct {
	GameID string `mapstructure:"game_id"`
	Row    *int   `mapstructure:"row"`
	Col    *int   `mapstructure:"col"`
}

type GameRequest struct {
	GameID string `mapstructure:"game_id"`
}

// decodePayload - maps the generic payload onto a request struct.
func decodePayload(payload map[string]any, out any) error {
	if err := mapstructure.Decode(payload, out); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	return nil
}

func (that *TurnRequest) validate() error {
	if that.GameID == "" {
		return fmt.Errorf("%w: game_id", ErrMissingField)
	}

	if that.Row == nil || that.Col == nil {
		return fmt.Errorf("%w: row and col", ErrMissingField)
	}

	return nil
}

func (that *GameRequest) validate() error {
	if that.GameID == "" {
		return fmt.Errorf("%w: game_id", ErrMissingField)
	}

	return nil
}

// connection is one client socket and the sessions it started.
type connection struct {
	ws       *websocket.Conn
	sessions map[string]struct{}
}

func newConnection(ws *websocket.Conn) *connection {
	return &connection{
		ws:       ws,
		sessions: make(map[string]struct{}),
	}
}

func (that *connection) owns(sessionID string) bool {
	_, ok := that.sessions[sessionID]
	return ok
}

func (that *connection) send(action string, payload ResponsePayload) error {
	if err := that.ws.WriteJSON(Response{Action: action, Payload: payload}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) sendError(action, reason string) error {
	return that.send(action, ResponsePayload{Error: reason})
}
