package controller

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/game/usecase"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"encoding/json"
	"errors"
	"go.uber.org/zap"
	"net/http"
	"time"
)

var errBadRequestBody = errors.New("invalid request body")

type GameHandler struct {
	usecase  usecase.GameUsecase
	jwtToken middleware.JwtTokenService
}

func NewGameHandler(usecase usecase.GameUsecase, jwtToken middleware.JwtTokenService) *GameHandler {
	return &GameHandler{
		usecase:  usecase,
		jwtToken: jwtToken,
	}
}

func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received StartGame request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	if _, err := middleware.AuthenticatedUserID(r, h.jwtToken); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	var data domain.StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.RoomID == 0 || data.Player1ID == 0 || data.Player2ID == 0 {
		h.handleError(w, errBadRequestBody, requestID)
		return
	}

	game, err := h.usecase.StartGame(ctx, data.RoomID, data.Player1ID, data.Player2ID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, game, requestID)
	logger.AccessLogger.Info("Completed StartGame request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusCreated),
	)
}

func (h *GameHandler) EndGame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received EndGame request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	if _, err := middleware.AuthenticatedUserID(r, h.jwtToken); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	var data domain.EndGameRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.GameID == 0 || data.WinnerID == 0 || data.LoserID == 0 {
		h.handleError(w, errBadRequestBody, requestID)
		return
	}

	game, err := h.usecase.EndGame(ctx, data.GameID, data.WinnerID, data.LoserID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, game, requestID)
	logger.AccessLogger.Info("Completed EndGame request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

// SurrenderGame surrenders on behalf of the caller. A playerId in the body,
// when present, must name the caller.
func (h *GameHandler) SurrenderGame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received SurrenderGame request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	var data domain.SurrenderRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.GameID == 0 {
		h.handleError(w, errBadRequestBody, requestID)
		return
	}
	if data.PlayerID != 0 && data.PlayerID != userID {
		logger.AccessLogger.Warn("Surrender requested for another player",
			zap.String("request_id", requestID),
			zap.Uint("user_id", userID),
			zap.Uint("player_id", data.PlayerID),
		)
		h.handleError(w, domain.ErrNotGamePlayer, requestID)
		return
	}

	result, err := h.usecase.SurrenderGame(ctx, data.GameID, userID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, result, requestID)
	logger.AccessLogger.Info("Completed SurrenderGame request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *GameHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received ListHistory request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	history, err := h.usecase.ListHistory(ctx, userID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, history, requestID)
	logger.AccessLogger.Info("Completed ListHistory request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *GameHandler) writeJSON(w http.ResponseWriter, status int, body interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.AccessLogger.Error("Failed to encode response",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

func (h *GameHandler) handleError(w http.ResponseWriter, err error, requestID string) {
	logger.AccessLogger.Error("Handling error",
		zap.String("request_id", requestID),
		zap.Error(err),
	)

	w.Header().Set("Content-Type", "application/json")
	errorResponse := map[string]string{"error": err.Error()}

	switch {
	case errors.Is(err, middleware.ErrMissingToken), errors.Is(err, middleware.ErrInvalidToken):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, errBadRequestBody), errors.Is(err, domain.ErrInvalidInput):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, domain.ErrConflict):
		w.WriteHeader(http.StatusConflict)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if jsonErr := json.NewEncoder(w).Encode(errorResponse); jsonErr != nil {
		logger.AccessLogger.Error("Failed to encode error response",
			zap.String("request_id", requestID),
			zap.Error(jsonErr),
		)
	}
}
