package controller

import (
	"bytes"
	"cardgame_backend/domain"
	"cardgame_backend/internal/game/mocks"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"encoding/json"
	"errors"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newHandler() (*GameHandler, *mocks.MockGameUsecase) {
	logger.AccessLogger = zap.NewNop()
	mockUsecase := new(mocks.MockGameUsecase)
	mockJWT := new(mocks.MockJwtTokenService)
	claims := &middleware.JwtCsrfClaims{UserId: "1", StandardClaims: jwt.StandardClaims{ExpiresAt: 86400}}
	mockJWT.On("Validate", "valid_token").Return(claims, nil)
	mockJWT.On("Validate", "invalid_token").Return(nil, errors.New("invalid token"))
	return NewGameHandler(mockUsecase, mockJWT), mockUsecase
}

func createTestRequest(method, url string, body interface{}) (*http.Request, *httptest.ResponseRecorder) {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case []byte:
		payload = b
	default:
		payload, _ = json.Marshal(b)
	}
	r := httptest.NewRequest(method, url, bytes.NewReader(payload))
	r.Header.Set("JWT-Token", "Bearer valid_token")
	w := httptest.NewRecorder()
	return r, w
}

func ongoingGame() *domain.Game {
	return &domain.Game{
		ID:             7,
		RoomID:         3,
		Player1ID:      1,
		Player2ID:      2,
		Status:         domain.GameOngoing,
		Duration:       domain.GameDuration,
		ExperienceWin:  domain.GameExperienceWin,
		ExperienceLose: domain.GameExperienceLose,
	}
}

func TestStartGame(t *testing.T) {
	request := domain.StartGameRequest{RoomID: 3, Player1ID: 1, Player2ID: 2}

	t.Run("Success", func(t *testing.T) {
		h, mockUsecase := newHandler()
		mockUsecase.On("StartGame", mock.Anything, uint(3), uint(1), uint(2)).Return(ongoingGame(), nil)

		r, w := createTestRequest(http.MethodPost, "/api/games/start", request)
		h.StartGame(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		var game domain.Game
		require.NoError(t, json.NewDecoder(w.Body).Decode(&game))
		assert.Equal(t, uint(7), game.ID)
		assert.Equal(t, domain.GameOngoing, game.Status)
		assert.Equal(t, 200, game.ExperienceWin)
		mockUsecase.AssertExpectations(t)
	})

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"Room Not Found", domain.ErrRoomNotFound, http.StatusNotFound},
		{"User Not Found", domain.ErrUserNotFound, http.StatusNotFound},
		{"Already Ongoing", domain.ErrGameAlreadyOngoing, http.StatusConflict},
		{"Room Transition", domain.ErrRoomTransition, http.StatusConflict},
		{"Same Players", domain.ErrSamePlayers, http.StatusBadRequest},
		{"Storage Failure", errors.New("failed to create game"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run("Failure - "+tc.name, func(t *testing.T) {
			h, mockUsecase := newHandler()
			mockUsecase.On("StartGame", mock.Anything, uint(3), uint(1), uint(2)).Return(nil, tc.err)

			r, w := createTestRequest(http.MethodPost, "/api/games/start", request)
			h.StartGame(w, r)

			assert.Equal(t, tc.status, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tc.err.Error(), body["error"])
		})
	}

	t.Run("Failure - Missing Players", func(t *testing.T) {
		h, mockUsecase := newHandler()
		r, w := createTestRequest(http.MethodPost, "/api/games/start", domain.StartGameRequest{RoomID: 3, Player1ID: 1})
		h.StartGame(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "StartGame", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Invalid JWT Token", func(t *testing.T) {
		h, _ := newHandler()
		r, w := createTestRequest(http.MethodPost, "/api/games/start", request)
		r.Header.Set("JWT-Token", "Bearer invalid_token")
		h.StartGame(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestEndGame(t *testing.T) {
	request := domain.EndGameRequest{GameID: 7, WinnerID: 1, LoserID: 2}

	t.Run("Success", func(t *testing.T) {
		h, mockUsecase := newHandler()
		game := ongoingGame()
		winner := uint(1)
		game.Status = domain.GameCompleted
		game.WinnerID = &winner
		mockUsecase.On("EndGame", mock.Anything, uint(7), uint(1), uint(2)).Return(game, nil)

		r, w := createTestRequest(http.MethodPost, "/api/games/end", request)
		h.EndGame(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var got domain.Game
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, domain.GameCompleted, got.Status)
		require.NotNil(t, got.WinnerID)
		assert.Equal(t, uint(1), *got.WinnerID)
	})

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"Not Found", domain.ErrGameNotFound, http.StatusNotFound},
		{"Already Completed", domain.ErrGameAlreadyCompleted, http.StatusConflict},
		{"Not A Player", domain.ErrNotGamePlayer, http.StatusBadRequest},
		{"Same Players", domain.ErrSamePlayers, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run("Failure - "+tc.name, func(t *testing.T) {
			h, mockUsecase := newHandler()
			mockUsecase.On("EndGame", mock.Anything, uint(7), uint(1), uint(2)).Return(nil, tc.err)

			r, w := createTestRequest(http.MethodPost, "/api/games/end", request)
			h.EndGame(w, r)

			assert.Equal(t, tc.status, w.Code)
		})
	}

	t.Run("Failure - Malformed Body", func(t *testing.T) {
		h, _ := newHandler()
		r, w := createTestRequest(http.MethodPost, "/api/games/end", []byte(`{"gameId":`))
		h.EndGame(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSurrenderGame(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, mockUsecase := newHandler()
		game := ongoingGame()
		winner := uint(2)
		game.Status = domain.GameCompleted
		game.WinnerID = &winner
		result := &domain.SurrenderResult{
			Game:              *game,
			SurrenderedPlayer: domain.SurrenderedPlayer{ID: 1, Username: "alice"},
		}
		mockUsecase.On("SurrenderGame", mock.Anything, uint(7), uint(1)).Return(result, nil)

		r, w := createTestRequest(http.MethodPost, "/api/games/surrender", domain.SurrenderRequest{GameID: 7})
		h.SurrenderGame(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "COMPLETED", body["status"])
		assert.Equal(t, float64(2), body["winnerId"])
		surrendered := body["surrenderedPlayer"].(map[string]interface{})
		assert.Equal(t, "alice", surrendered["userName"])
	})

	t.Run("Failure - Surrender For Another Player", func(t *testing.T) {
		h, mockUsecase := newHandler()
		r, w := createTestRequest(http.MethodPost, "/api/games/surrender", domain.SurrenderRequest{GameID: 7, PlayerID: 2})
		h.SurrenderGame(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "SurrenderGame", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Already Completed", func(t *testing.T) {
		h, mockUsecase := newHandler()
		mockUsecase.On("SurrenderGame", mock.Anything, uint(7), uint(1)).Return(nil, domain.ErrGameAlreadyCompleted)

		r, w := createTestRequest(http.MethodPost, "/api/games/surrender", domain.SurrenderRequest{GameID: 7, PlayerID: 1})
		h.SurrenderGame(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestListHistory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, mockUsecase := newHandler()
		history := []domain.GameHistory{
			{ID: 2, UserID: 1, GameID: 9, Won: true, ExperienceGained: 200, GameStatus: domain.GameCompleted},
			{ID: 1, UserID: 1, GameID: 7, Won: false, ExperienceGained: 20, GameStatus: domain.GameCompleted},
		}
		mockUsecase.On("ListHistory", mock.Anything, uint(1)).Return(history, nil)

		r, w := createTestRequest(http.MethodGet, "/api/games/history", nil)
		h.ListHistory(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var got []domain.GameHistory
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, history, got)
	})

	t.Run("Failure - Missing JWT Token", func(t *testing.T) {
		h, _ := newHandler()
		r, w := createTestRequest(http.MethodGet, "/api/games/history", nil)
		r.Header.Del("JWT-Token")
		h.ListHistory(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
