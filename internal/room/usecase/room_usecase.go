package usecase

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"cardgame_backend/internal/service/validation"
	"context"
	"errors"
	"go.uber.org/zap"
)

type RoomUsecase interface {
	CreateRoom(ctx context.Context, ownerID uint, isPrivate bool, password *string) (*domain.Room, error)
	JoinRoom(ctx context.Context, playerID uint, roomID uint, password *string) (*domain.Room, error)
	LeaveRoom(ctx context.Context, userID uint, roomID uint) (bool, error)
	KickPlayer(ctx context.Context, requesterID uint, roomID uint) (*domain.Room, error)
	DeleteRoom(ctx context.Context, requesterID uint, roomID uint) error
	UpdateRoomPrivacy(ctx context.Context, requesterID uint, roomID uint, password *string) (*domain.Room, error)
	GetRoom(ctx context.Context, roomID uint) (*domain.Room, error)
	TransitionToInGame(ctx context.Context, tx domain.Tx, roomID uint) (*domain.Room, error)
	TransitionToEnded(ctx context.Context, tx domain.Tx, roomID uint) (*domain.Room, error)
}

type roomUsecase struct {
	store domain.Store
}

func NewRoomUsecase(store domain.Store) RoomUsecase {
	return &roomUsecase{
		store: store,
	}
}

// hashRoomPassword validates and hashes a room password outside of any transaction.
func hashRoomPassword(ctx context.Context, password string) (*string, error) {
	if !validation.ValidateRoomPassword(password) {
		logger.AccessLogger.Warn("Invalid room password", zap.String("request_id", middleware.GetRequestID(ctx)))
		return nil, domain.ErrInvalidRoomPassword
	}
	hash, err := middleware.HashPassword(password)
	if err != nil {
		return nil, errors.New("failed to hash room password")
	}
	return &hash, nil
}

func (uc *roomUsecase) CreateRoom(ctx context.Context, ownerID uint, isPrivate bool, password *string) (*domain.Room, error) {
	requestID := middleware.GetRequestID(ctx)
	hasPassword := password != nil && *password != ""
	if isPrivate != hasPassword {
		logger.AccessLogger.Warn("Room privacy does not match password", zap.String("request_id", requestID), zap.Bool("private", isPrivate))
		return nil, domain.ErrRoomPrivacyMismatch
	}

	room := &domain.Room{
		OwnerID:   &ownerID,
		IsPrivate: isPrivate,
		IsActive:  true,
		Status:    domain.RoomOpen,
	}
	if isPrivate {
		hash, err := hashRoomPassword(ctx, *password)
		if err != nil {
			return nil, err
		}
		room.Password = hash
	}

	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		if _, err := tx.Users().GetByIDForUpdate(ctx, ownerID); err != nil {
			return err
		}
		active, err := tx.Rooms().FindActiveByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if active != nil {
			return domain.ErrAlreadyHasActiveRoom
		}
		return tx.Rooms().Create(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (uc *roomUsecase) JoinRoom(ctx context.Context, playerID uint, roomID uint, password *string) (*domain.Room, error) {
	var room *domain.Room
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		room, err = tx.Rooms().GetByIDForUpdate(ctx, roomID)
		if err != nil {
			return err
		}

		if room.IsPrivate {
			if password == nil || *password == "" {
				return domain.ErrRoomPasswordRequired
			}
			if room.Password == nil || !middleware.CheckPassword(*room.Password, *password) {
				return domain.ErrRoomPasswordIncorrect
			}
		}

		if room.IsPlayer(playerID) {
			return nil
		}
		if room.PlayerID != nil {
			return domain.ErrRoomFull
		}
		if _, err := tx.Users().GetByID(ctx, playerID); err != nil {
			return err
		}
		if room.IsOwner(playerID) {
			return domain.ErrSelfJoin
		}

		other, err := tx.Rooms().FindActiveByPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if other != nil && other.ID != room.ID {
			return domain.ErrAlreadyInAnotherRoom
		}

		room.PlayerID = &playerID
		return tx.Rooms().Save(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// LeaveRoom clears the slot held by userID. It reports true when the room
// became empty and was deleted.
func (uc *roomUsecase) LeaveRoom(ctx context.Context, userID uint, roomID uint) (bool, error) {
	deleted := false
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		room, err := tx.Rooms().GetByIDForUpdate(ctx, roomID)
		if err != nil {
			return err
		}

		switch {
		case room.IsOwner(userID):
			room.OwnerID = nil
		case room.IsPlayer(userID):
			room.PlayerID = nil
		default:
			return domain.ErrNotInRoom
		}

		if !room.Vacant() {
			return tx.Rooms().Save(ctx, room)
		}
		deleted = true
		return deleteRoom(ctx, tx, room.ID)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func deleteRoom(ctx context.Context, tx domain.Tx, roomID uint) error {
	if err := tx.Games().DeleteByRoom(ctx, roomID); err != nil {
		return err
	}
	return tx.Rooms().Delete(ctx, roomID)
}

func (uc *roomUsecase) KickPlayer(ctx context.Context, requesterID uint, roomID uint) (*domain.Room, error) {
	var room *domain.Room
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		room, err = tx.Rooms().GetByIDForUpdate(ctx, roomID)
		if err != nil {
			return err
		}
		if !room.IsOwner(requesterID) {
			return domain.ErrNotRoomOwner
		}
		if room.PlayerID == nil {
			return domain.ErrNoPlayerInRoom
		}
		room.PlayerID = nil
		return tx.Rooms().Save(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom removes the room and every game bound to it.
func (uc *roomUsecase) DeleteRoom(ctx context.Context, requesterID uint, roomID uint) error {
	return uc.store.Transaction(ctx, func(tx domain.Tx) error {
		room, err := tx.Rooms().GetByIDForUpdate(ctx, roomID)
		if err != nil {
			return err
		}
		if !room.IsOwner(requesterID) {
			return domain.ErrNotRoomOwner
		}
		return deleteRoom(ctx, tx, room.ID)
	})
}

// UpdateRoomPrivacy makes the room private with the new password, or public
// when password is nil or empty.
func (uc *roomUsecase) UpdateRoomPrivacy(ctx context.Context, requesterID uint, roomID uint, password *string) (*domain.Room, error) {
	var hash *string
	if password != nil && *password != "" {
		var err error
		if hash, err = hashRoomPassword(ctx, *password); err != nil {
			return nil, err
		}
	}

	var room *domain.Room
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		room, err = tx.Rooms().GetByIDForUpdate(ctx, roomID)
		if err != nil {
			return err
		}
		if !room.IsOwner(requesterID) {
			return domain.ErrNotRoomOwner
		}
		room.Password = hash
		room.IsPrivate = hash != nil
		return tx.Rooms().Save(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (uc *roomUsecase) GetRoom(ctx context.Context, roomID uint) (*domain.Room, error) {
	var room *domain.Room
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		room, err = tx.Rooms().GetByID(ctx, roomID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// TransitionToInGame runs inside the caller's transaction.
func (uc *roomUsecase) TransitionToInGame(ctx context.Context, tx domain.Tx, roomID uint) (*domain.Room, error) {
	return transition(ctx, tx, roomID, domain.RoomInGame)
}

// TransitionToEnded runs inside the caller's transaction.
func (uc *roomUsecase) TransitionToEnded(ctx context.Context, tx domain.Tx, roomID uint) (*domain.Room, error) {
	return transition(ctx, tx, roomID, domain.RoomEnded)
}

func transition(ctx context.Context, tx domain.Tx, roomID uint, next domain.RoomStatus) (*domain.Room, error) {
	room, err := tx.Rooms().GetByIDForUpdate(ctx, roomID)
	if err != nil {
		return nil, err
	}
	from := room.Status
	if err := room.TransitionTo(next); err != nil {
		logger.AccessLogger.Warn("Room transition rejected",
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.Uint("room_id", roomID),
			zap.String("from", string(from)),
			zap.String("to", string(next)),
		)
		return nil, err
	}
	if err := tx.Rooms().Save(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}
