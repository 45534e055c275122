package controller

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/room/usecase"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"encoding/json"
	"errors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"net/http"
	"strconv"
	"time"
)

var (
	errBadRequestBody = errors.New("invalid request body")
	errBadRoomID      = errors.New("invalid room id")
)

type RoomHandler struct {
	usecase  usecase.RoomUsecase
	jwtToken middleware.JwtTokenService
}

func NewRoomHandler(usecase usecase.RoomUsecase, jwtToken middleware.JwtTokenService) *RoomHandler {
	return &RoomHandler{
		usecase:  usecase,
		jwtToken: jwtToken,
	}
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received CreateRoom request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	var data domain.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		logger.AccessLogger.Error("Failed to decode request body", zap.String("request_id", requestID), zap.Error(err))
		h.handleError(w, errBadRequestBody, requestID)
		return
	}

	room, err := h.usecase.CreateRoom(ctx, userID, data.PrivateRoom, data.Password)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, room, requestID)
	logger.AccessLogger.Info("Completed CreateRoom request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusCreated),
	)
}

func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received JoinRoom request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	var data domain.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.RoomID == 0 {
		h.handleError(w, errBadRequestBody, requestID)
		return
	}

	room, err := h.usecase.JoinRoom(ctx, userID, data.RoomID, data.Password)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, room, requestID)
	logger.AccessLogger.Info("Completed JoinRoom request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

// LeaveRoom answers 204 when the room was deleted because nobody is left in it.
func (h *RoomHandler) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received LeaveRoom request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	var data domain.LeaveRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.RoomID == 0 {
		h.handleError(w, errBadRequestBody, requestID)
		return
	}

	deleted, err := h.usecase.LeaveRoom(ctx, userID, data.RoomID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	status := http.StatusOK
	if deleted {
		status = http.StatusNoContent
		w.WriteHeader(status)
	} else {
		h.writeJSON(w, status, map[string]string{"message": "you have left the room"}, requestID)
	}
	logger.AccessLogger.Info("Completed LeaveRoom request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", status),
	)
}

func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received GetRoom request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	if _, err := middleware.AuthenticatedUserID(r, h.jwtToken); err != nil {
		h.handleError(w, err, requestID)
		return
	}
	roomID, err := roomIDFromPath(r)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	room, err := h.usecase.GetRoom(ctx, roomID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, room, requestID)
	logger.AccessLogger.Info("Completed GetRoom request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received UpdateRoom request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}
	roomID, err := roomIDFromPath(r)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	var data domain.UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		h.handleError(w, errBadRequestBody, requestID)
		return
	}

	room, err := h.usecase.UpdateRoomPrivacy(ctx, userID, roomID, data.Password)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, room, requestID)
	logger.AccessLogger.Info("Completed UpdateRoom request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received DeleteRoom request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}
	roomID, err := roomIDFromPath(r)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	if err := h.usecase.DeleteRoom(ctx, userID, roomID); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	logger.AccessLogger.Info("Completed DeleteRoom request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusNoContent),
	)
}

func (h *RoomHandler) KickPlayer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received KickPlayer request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}
	roomID, err := roomIDFromPath(r)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	room, err := h.usecase.KickPlayer(ctx, userID, roomID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, room, requestID)
	logger.AccessLogger.Info("Completed KickPlayer request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func roomIDFromPath(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["roomId"], 10, 64)
	if err != nil || id == 0 {
		return 0, errBadRoomID
	}
	return uint(id), nil
}

func (h *RoomHandler) writeJSON(w http.ResponseWriter, status int, body interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.AccessLogger.Error("Failed to encode response",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

func (h *RoomHandler) handleError(w http.ResponseWriter, err error, requestID string) {
	logger.AccessLogger.Error("Handling error",
		zap.String("request_id", requestID),
		zap.Error(err),
	)

	w.Header().Set("Content-Type", "application/json")
	errorResponse := map[string]string{"error": err.Error()}

	switch {
	case errors.Is(err, middleware.ErrMissingToken), errors.Is(err, middleware.ErrInvalidToken):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, errBadRequestBody), errors.Is(err, errBadRoomID), errors.Is(err, domain.ErrInvalidInput):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrAuthFailed), errors.Is(err, domain.ErrForbidden):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, domain.ErrCapacityExceeded):
		w.WriteHeader(http.StatusForbidden)
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
