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

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate takes a row lock held until the surrounding transaction ends.
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id uint) (*domain.User, error) {
	return r.get(ctx, id, true)
}

func (r *userRepository) get(ctx context.Context, id uint, lock bool) (*domain.User, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("GetUser called", zap.String("request_id", requestID), zap.Uint("user_id", id), zap.Bool("lock", lock))

	query := r.db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var user domain.User
	if err := query.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.DBLogger.Warn("User not found", zap.String("request_id", requestID), zap.Uint("user_id", id))
			return nil, domain.ErrUserNotFound
		}
		logger.DBLogger.Error("Failed to get user", zap.String("request_id", requestID), zap.Uint("user_id", id), zap.Error(err))
		return nil, errors.New("failed to fetch user")
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("GetByUsername called", zap.String("request_id", requestID), zap.String("username", username))

	var user domain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		logger.DBLogger.Error("Error getting user", zap.String("request_id", requestID), zap.String("username", username), zap.Error(err))
		return nil, errors.New("failed to fetch user")
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("CreateUser called", zap.String("request_id", requestID), zap.String("username", user.Username))

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.DBLogger.Warn("Username already taken", zap.String("request_id", requestID), zap.String("username", user.Username))
			return domain.ErrUsernameTaken
		}
		logger.DBLogger.Error("Error creating user", zap.String("request_id", requestID), zap.String("username", user.Username), zap.Error(err))
		return errors.New("failed to create user")
	}

	logger.DBLogger.Info("Successfully create user", zap.String("request_id", requestID), zap.Uint("user_id", user.ID))
	return nil
}

// UpdateProgress writes experience and level together.
func (r *userRepository) UpdateProgress(ctx context.Context, id uint, experience int, level int) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("UpdateProgress called", zap.String("request_id", requestID), zap.Uint("user_id", id),
		zap.Int("experience", experience), zap.Int("level", level))

	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"experience": experience,
		"level":      level,
	})
	if result.Error != nil {
		logger.DBLogger.Error("Failed to update progress", zap.String("request_id", requestID), zap.Uint("user_id", id), zap.Error(result.Error))
		return errors.New("failed to update user progress")
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) IncrementStats(ctx context.Context, id uint, won int, lost int) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("IncrementStats called", zap.String("request_id", requestID), zap.Uint("user_id", id),
		zap.Int("won", won), zap.Int("lost", lost))

	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"games_won":  gorm.Expr("games_won + ?", won),
		"games_lost": gorm.Expr("games_lost + ?", lost),
	})
	if result.Error != nil {
		logger.DBLogger.Error("Failed to update stats", zap.String("request_id", requestID), zap.Uint("user_id", id), zap.Error(result.Error))
		return errors.New("failed to update user stats")
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
