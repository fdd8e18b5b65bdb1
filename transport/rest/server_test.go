package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFlusher struct {
	mock.Mock
}

func (m *mockFlusher) Flush(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func postBestMove(t *testing.T, handler http.Handler, req BestMoveRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/best-move", bytes.NewReader(body)))

	return recorder
}

func TestServer_Ping(t *testing.T) {
	router := New(newTestLogger(), search.New(newTestLogger()), nil, entity.MediumDifficulty).Router()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pong", recorder.Body.String())
}

func TestServer_BestMove(t *testing.T) {
	logger := newTestLogger()
	cache := search.NewMemoryCache()
	router := New(logger, search.New(logger, search.WithCache(cache)), cache, entity.HardDifficulty).Router()

	t.Run("Finds the winning move", func(t *testing.T) {
		// Given: X can complete the top row
		req := BestMoveRequest{Board: "XX.OO....", Mark: "X", Difficulty: "easy"}

		// When: the best move is requested
		recorder := postBestMove(t, router, req)

		// Then: the engine answers with the winning cell
		require.Equal(t, http.StatusOK, recorder.Code)

		var resp BestMoveResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		require.NotNil(t, resp.Result.Move)
		assert.Equal(t, entity.Coord{Row: 0, Col: 2}, *resp.Result.Move)
		assert.Equal(t, search.WinScore, resp.Result.Score)
		assert.True(t, resp.Result.Exact)
		assert.Equal(t, entity.EasyDifficulty.Depth(), resp.Depth)
		assert.Equal(t, "ongoing", resp.Status)
	})

	t.Run("Explicit depth wins over difficulty and is capped", func(t *testing.T) {
		recorder := postBestMove(t, router, BestMoveRequest{Board: ".........", Mark: "O", Difficulty: "easy", Depth: 42})

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp BestMoveResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, maxDepth, resp.Depth)
		assert.Equal(t, search.DrawScore, resp.Result.Score)
	})

	t.Run("Default difficulty applies", func(t *testing.T) {
		recorder := postBestMove(t, router, BestMoveRequest{Board: "X........", Mark: "O"})

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp BestMoveResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, entity.HardDifficulty.Depth(), resp.Depth)
	})

	t.Run("Terminal board", func(t *testing.T) {
		recorder := postBestMove(t, router, BestMoveRequest{Board: "XXXOO....", Mark: "O", Depth: 3})

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp BestMoveResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Nil(t, resp.Result.Move)
		assert.Equal(t, search.LossScore, resp.Result.Score)
		assert.Equal(t, "win:X", resp.Status)
	})

	t.Run("Bad requests", func(t *testing.T) {
		for name, req := range map[string]BestMoveRequest{
			"short board":        {Board: "XX", Mark: "X"},
			"unknown symbol":     {Board: "XX?OO....", Mark: "X"},
			"empty mark":         {Board: ".........", Mark: ""},
			"unknown difficulty": {Board: ".........", Mark: "X", Difficulty: "insane"},
		} {
			t.Run(name, func(t *testing.T) {
				recorder := postBestMove(t, router, req)
				assert.Equal(t, http.StatusBadRequest, recorder.Code)
			})
		}
	})

	t.Run("Malformed body", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/best-move", bytes.NewReader([]byte("{"))))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestServer_FlushCache(t *testing.T) {
	logger := newTestLogger()

	t.Run("Reports deleted entries", func(t *testing.T) {
		flusher := &mockFlusher{}
		flusher.On("Flush", mock.Anything).Return(3, nil)

		router := New(logger, search.New(logger), flusher, entity.EasyDifficulty).Router()

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/api/v1/cache", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"deleted":3}`, recorder.Body.String())
		flusher.AssertExpectations(t)
	})

	t.Run("Flush failure", func(t *testing.T) {
		flusher := &mockFlusher{}
		flusher.On("Flush", mock.Anything).Return(0, errors.New("connection refused"))

		router := New(logger, search.New(logger), flusher, entity.EasyDifficulty).Router()

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/api/v1/cache", nil))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})

	t.Run("No cache configured", func(t *testing.T) {
		router := New(logger, search.New(logger), nil, entity.EasyDifficulty).Router()

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/api/v1/cache", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"deleted":0}`, recorder.Body.String())
	})
}
