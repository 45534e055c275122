package repository

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"context"
	"errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) domain.CardRepository {
	return &cardRepository{
		db: db,
	}
}

func (r *cardRepository) ListIDs(ctx context.Context) ([]uint, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("ListCardIDs called", zap.String("request_id", requestID))

	ids := make([]uint, 0)
	if err := r.db.WithContext(ctx).Model(&domain.Card{}).Order("id").Pluck("id", &ids).Error; err != nil {
		logger.DBLogger.Error("Failed to list card ids", zap.String("request_id", requestID), zap.Error(err))
		return nil, errors.New("failed to fetch cards")
	}
	return ids, nil
}

// FindExistingIDs returns the subset of ids present in the catalog.
func (r *cardRepository) FindExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	found := make([]uint, 0, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	requestID := middleware.GetRequestID(ctx)

	if err := r.db.WithContext(ctx).Model(&domain.Card{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		logger.DBLogger.Error("Failed to check card ids", zap.String("request_id", requestID), zap.Error(err))
		return nil, errors.New("failed to fetch cards")
	}
	return found, nil
}
