package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
)

// BestMoveRequest asks for the best move for Mark on Board. Depth wins over
// Difficulty when both are set.
type BestMoveRequest struct {
	Board      string `json:"board"`
	Mark       string `json:"mark"`
	Difficulty string `json:"difficulty,omitempty"`
	Depth      int    `json:"depth,omitempty"`
}

type BestMoveResponse struct {
	Board  string        `json:"board"`
	Mark   entity.Mark   `json:"mark"`
	Depth  int           `json:"depth"`
	Status string        `json:"status"`
	Result search.Result `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// maxDepth covers every empty cell of a 3x3 board.
const maxDepth = entity.BoardSize * entity.BoardSize

func (that *Server) handleBestMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleBestMove")

	var req BestMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	board, err := entity.ParseBoard(req.Board)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	mark, err := entity.ParseMark(req.Mark)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	depth, err := that.resolveDepth(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := that.searcher.BestMove(r.Context(), board, mark, depth)
	if err != nil {
		log.Error("failed to search best move", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to search best move"})
		return
	}

	writeJSON(w, http.StatusOK, BestMoveResponse{
		Board:  board.String(),
		Mark:   mark,
		Depth:  depth,
		Status: statusLabel(board.TerminalStatus()),
		Result: result,
	})
}

func (that *Server) handleFlushCache(w http.ResponseWriter, r *http.Request) {
	if that.cache == nil {
		writeJSON(w, http.StatusOK, map[string]int{"deleted": 0})
		return
	}

	deleted, err := that.cache.Flush(r.Context())
	if err != nil {
		that.logger.Error("failed to flush search cache", "method", "handleFlushCache", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to flush cache"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (that *Server) resolveDepth(req BestMoveRequest) (int, error) {
	if req.Depth > 0 {
		return min(req.Depth, maxDepth), nil
	}

	if req.Difficulty == "" {
		return that.defaultDifficulty.Depth(), nil
	}

	difficulty, err := entity.ParseDifficulty(req.Difficulty)
	if err != nil {
		return 0, err
	}

	return difficulty.Depth(), nil
}

func statusLabel(status entity.Status) string {
	if status.Outcome == entity.Win {
		return status.Outcome.String() + ":" + string(status.Winner)
	}

	return status.Outcome.String()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
