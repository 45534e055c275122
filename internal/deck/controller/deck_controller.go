package controller

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/deck/usecase"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"context"
	"encoding/json"
	"errors"
	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"net/http"
	"strconv"
	"time"
)

var (
	errBadRequestBody = errors.New("invalid request body")
	errBadDeckID      = errors.New("invalid deck id")
)

type DeckHandler struct {
	usecase   usecase.DeckUsecase
	jwtToken  middleware.JwtTokenService
	sanitizer *bluemonday.Policy
}

func NewDeckHandler(usecase usecase.DeckUsecase, jwtToken middleware.JwtTokenService) *DeckHandler {
	return &DeckHandler{
		usecase:   usecase,
		jwtToken:  jwtToken,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (h *DeckHandler) CreateRandomDeck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received CreateRandomDeck request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	deck, err := h.usecase.CreateRandomDeck(ctx, userID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, deck, requestID)
	logger.AccessLogger.Info("Completed CreateRandomDeck request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusCreated),
	)
}

func (h *DeckHandler) CreateCustomDeck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received CreateCustomDeck request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	var data domain.CreateCustomDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		logger.AccessLogger.Error("Failed to decode request body", zap.String("request_id", requestID), zap.Error(err))
		h.handleError(w, errBadRequestBody, requestID)
		return
	}

	deck, err := h.usecase.CreateCustomDeck(ctx, userID, h.sanitizer.Sanitize(data.Name), data.CardIDs)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, deck, requestID)
	logger.AccessLogger.Info("Completed CreateCustomDeck request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusCreated),
	)
}

func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received ListDecks request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	decks, err := h.usecase.ListDecks(ctx, userID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, decks, requestID)
	logger.AccessLogger.Info("Completed ListDecks request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received GetDeck request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}
	deckID, err := deckIDFromPath(r)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	deck, err := h.usecase.GetDeck(ctx, deckID, userID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, deck, requestID)
	logger.AccessLogger.Info("Completed GetDeck request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received UpdateDeck request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}
	deckID, err := deckIDFromPath(r)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	var data domain.UpdateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		h.handleError(w, errBadRequestBody, requestID)
		return
	}
	if data.Name != nil {
		name := h.sanitizer.Sanitize(*data.Name)
		data.Name = &name
	}

	deck, err := h.usecase.UpdateDeck(ctx, deckID, userID, data.Name, data.CardIDs)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, deck, requestID)
	logger.AccessLogger.Info("Completed UpdateDeck request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received DeleteDeck request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}
	deckID, err := deckIDFromPath(r)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	if err := h.usecase.DeleteDeck(ctx, deckID, userID); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	logger.AccessLogger.Info("Completed DeleteDeck request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusNoContent),
	)
}

func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	h.editCard(w, r, "AddCard", h.usecase.AddCard)
}

func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	h.editCard(w, r, "RemoveCard", h.usecase.RemoveCard)
}

type cardEdit func(ctx context.Context, deckID uint, requesterID uint, cardID uint) (*domain.Deck, error)

func (h *DeckHandler) editCard(w http.ResponseWriter, r *http.Request, name string, edit cardEdit) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received "+name+" request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	userID, err := middleware.AuthenticatedUserID(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}
	deckID, err := deckIDFromPath(r)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	var data domain.DeckCardRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.CardID == 0 {
		h.handleError(w, errBadRequestBody, requestID)
		return
	}

	deck, err := edit(ctx, deckID, userID, data.CardID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, deck, requestID)
	logger.AccessLogger.Info("Completed "+name+" request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func deckIDFromPath(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["deckId"], 10, 64)
	if err != nil || id == 0 {
		return 0, errBadDeckID
	}
	return uint(id), nil
}

func (h *DeckHandler) writeJSON(w http.ResponseWriter, status int, body interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.AccessLogger.Error("Failed to encode response",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

func (h *DeckHandler) handleError(w http.ResponseWriter, err error, requestID string) {
	logger.AccessLogger.Error("Handling error",
		zap.String("request_id", requestID),
		zap.Error(err),
	)

	w.Header().Set("Content-Type", "application/json")
	errorResponse := map[string]interface{}{"error": err.Error()}

	var invalid *domain.InvalidCardIDsError
	if errors.As(err, &invalid) {
		errorResponse["invalidCardIds"] = invalid.IDs
	}

	switch {
	case errors.Is(err, middleware.ErrMissingToken), errors.Is(err, middleware.ErrInvalidToken):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, errBadRequestBody), errors.Is(err, errBadDeckID):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrCapacityExceeded):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, domain.ErrForbidden):
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
