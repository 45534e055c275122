package repository

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"context"
	"errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) domain.GameRepository {
	return &gameRepository{
		db: db,
	}
}

func (r *gameRepository) GetByID(ctx context.Context, id uint) (*domain.Game, error) {
	return r.get(ctx, id, false)
}

func (r *gameRepository) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Game, error) {
	return r.get(ctx, id, true)
}

func (r *gameRepository) get(ctx context.Context, id uint, lock bool) (*domain.Game, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("GetGame called", zap.String("request_id", requestID), zap.Uint("game_id", id), zap.Bool("lock", lock))

	query := r.db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var game domain.Game
	if err := query.First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.DBLogger.Warn("Game not found", zap.String("request_id", requestID), zap.Uint("game_id", id))
			return nil, domain.ErrGameNotFound
		}
		logger.DBLogger.Error("Failed to get game", zap.String("request_id", requestID), zap.Uint("game_id", id), zap.Error(err))
		return nil, errors.New("failed to fetch game")
	}
	return &game, nil
}

// FindOngoingByRoom returns nil without error when the room has no ongoing game.
func (r *gameRepository) FindOngoingByRoom(ctx context.Context, roomID uint) (*domain.Game, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("FindOngoingByRoom called", zap.String("request_id", requestID), zap.Uint("room_id", roomID))

	var games []domain.Game
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, domain.GameOngoing).
		Limit(1).
		Find(&games).Error
	if err != nil {
		logger.DBLogger.Error("Failed to find ongoing game", zap.String("request_id", requestID), zap.Uint("room_id", roomID), zap.Error(err))
		return nil, errors.New("failed to fetch ongoing game")
	}
	if len(games) == 0 {
		return nil, nil
	}
	return &games[0], nil
}

func (r *gameRepository) Create(ctx context.Context, game *domain.Game) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("CreateGame called", zap.String("request_id", requestID), zap.Uint("room_id", game.RoomID))

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(game).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.DBLogger.Warn("Room already has an ongoing game", zap.String("request_id", requestID), zap.Uint("room_id", game.RoomID))
			return domain.ErrGameAlreadyOngoing
		}
		logger.DBLogger.Error("Failed to create game", zap.String("request_id", requestID), zap.Uint("room_id", game.RoomID), zap.Error(err))
		return errors.New("failed to create game")
	}

	logger.DBLogger.Info("Successfully create game", zap.String("request_id", requestID), zap.Uint("game_id", game.ID))
	return nil
}

// Complete moves an ONGOING game to COMPLETED. The status guard makes the
// write conditional, so of two concurrent completions only one matches a row.
func (r *gameRepository) Complete(ctx context.Context, game *domain.Game) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("CompleteGame called", zap.String("request_id", requestID), zap.Uint("game_id", game.ID))

	result := r.db.WithContext(ctx).Model(&domain.Game{}).
		Where("id = ? AND status = ?", game.ID, domain.GameOngoing).
		Updates(map[string]interface{}{
			"status":    domain.GameCompleted,
			"winner_id": game.WinnerID,
			"ended_at":  game.EndedAt,
		})
	if result.Error != nil {
		logger.DBLogger.Error("Failed to complete game", zap.String("request_id", requestID), zap.Uint("game_id", game.ID), zap.Error(result.Error))
		return errors.New("failed to complete game")
	}
	if result.RowsAffected == 0 {
		logger.DBLogger.Warn("Game already completed", zap.String("request_id", requestID), zap.Uint("game_id", game.ID))
		return domain.ErrGameAlreadyCompleted
	}

	game.Status = domain.GameCompleted
	return nil
}

func (r *gameRepository) DeleteByRoom(ctx context.Context, roomID uint) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("DeleteGamesByRoom called", zap.String("request_id", requestID), zap.Uint("room_id", roomID))

	if err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&domain.Game{}).Error; err != nil {
		logger.DBLogger.Error("Failed to delete games", zap.String("request_id", requestID), zap.Uint("room_id", roomID), zap.Error(err))
		return errors.New("failed to delete room games")
	}
	return nil
}

func (r *gameRepository) CreateHistory(ctx context.Context, entries []domain.GameHistory) error {
	if len(entries) == 0 {
		return nil
	}
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("CreateHistory called", zap.String("request_id", requestID), zap.Uint("game_id", entries[0].GameID), zap.Int("entries", len(entries)))

	if err := r.db.WithContext(ctx).Create(&entries).Error; err != nil {
		logger.DBLogger.Error("Failed to create game history", zap.String("request_id", requestID), zap.Error(err))
		return errors.New("failed to create game history")
	}
	return nil
}

// ListHistoryByUser returns the newest entries first.
func (r *gameRepository) ListHistoryByUser(ctx context.Context, userID uint) ([]domain.GameHistory, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("ListHistoryByUser called", zap.String("request_id", requestID), zap.Uint("user_id", userID))

	history := make([]domain.GameHistory, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&history).Error; err != nil {
		logger.DBLogger.Error("Failed to list game history", zap.String("request_id", requestID), zap.Uint("user_id", userID), zap.Error(err))
		return nil, errors.New("failed to fetch game history")
	}
	return history, nil
}
