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

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) domain.RoomRepository {
	return &roomRepository{
		db: db,
	}
}

func (r *roomRepository) GetByID(ctx context.Context, id uint) (*domain.Room, error) {
	return r.get(ctx, id, false)
}

func (r *roomRepository) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Room, error) {
	return r.get(ctx, id, true)
}

func (r *roomRepository) get(ctx context.Context, id uint, lock bool) (*domain.Room, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("GetRoom called", zap.String("request_id", requestID), zap.Uint("room_id", id), zap.Bool("lock", lock))

	query := r.db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var room domain.Room
	if err := query.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.DBLogger.Warn("Room not found", zap.String("request_id", requestID), zap.Uint("room_id", id))
			return nil, domain.ErrRoomNotFound
		}
		logger.DBLogger.Error("Failed to get room", zap.String("request_id", requestID), zap.Uint("room_id", id), zap.Error(err))
		return nil, errors.New("failed to fetch room")
	}
	return &room, nil
}

// FindActiveByOwner returns nil without error when the user owns no active room.
func (r *roomRepository) FindActiveByOwner(ctx context.Context, userID uint) (*domain.Room, error) {
	return r.findActive(ctx, "owner_id", userID)
}

// FindActiveByPlayer returns nil without error when the user is nobody's player.
func (r *roomRepository) FindActiveByPlayer(ctx context.Context, userID uint) (*domain.Room, error) {
	return r.findActive(ctx, "player_id", userID)
}

func (r *roomRepository) findActive(ctx context.Context, column string, userID uint) (*domain.Room, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("FindActiveRoom called", zap.String("request_id", requestID), zap.String("slot", column), zap.Uint("user_id", userID))

	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: userID}).
		Where("is_active = ?", true).
		Order("id").
		Limit(1).
		Find(&rooms).Error
	if err != nil {
		logger.DBLogger.Error("Failed to find active room", zap.String("request_id", requestID), zap.Uint("user_id", userID), zap.Error(err))
		return nil, errors.New("failed to fetch active room")
	}
	if len(rooms) == 0 {
		return nil, nil
	}
	return &rooms[0], nil
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("CreateRoom called", zap.String("request_id", requestID), zap.Bool("private", room.IsPrivate))

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.DBLogger.Warn("Owner already has an active room", zap.String("request_id", requestID))
			return domain.ErrAlreadyHasActiveRoom
		}
		logger.DBLogger.Error("Failed to create room", zap.String("request_id", requestID), zap.Error(err))
		return errors.New("failed to create room")
	}

	logger.DBLogger.Info("Successfully create room", zap.String("request_id", requestID), zap.Uint("room_id", room.ID))
	return nil
}

// Save writes every column of the room. A collision on the active player
// index means the player took another room concurrently.
func (r *roomRepository) Save(ctx context.Context, room *domain.Room) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("SaveRoom called", zap.String("request_id", requestID), zap.Uint("room_id", room.ID), zap.String("status", string(room.Status)))

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.DBLogger.Warn("Player already in another room", zap.String("request_id", requestID), zap.Uint("room_id", room.ID))
			return domain.ErrAlreadyInAnotherRoom
		}
		logger.DBLogger.Error("Failed to save room", zap.String("request_id", requestID), zap.Uint("room_id", room.ID), zap.Error(err))
		return errors.New("failed to update room")
	}
	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id uint) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("DeleteRoom called", zap.String("request_id", requestID), zap.Uint("room_id", id))

	result := r.db.WithContext(ctx).Delete(&domain.Room{}, id)
	if result.Error != nil {
		logger.DBLogger.Error("Failed to delete room", zap.String("request_id", requestID), zap.Uint("room_id", id), zap.Error(result.Error))
		return errors.New("failed to delete room")
	}
	if result.RowsAffected == 0 {
		return domain.ErrRoomNotFound
	}

	logger.DBLogger.Info("Successfully delete room", zap.String("request_id", requestID), zap.Uint("room_id", id))
	return nil
}
