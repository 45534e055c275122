package domain

import (
	"context"
	"time"
)

type RoomStatus string

const (
	RoomOpen   RoomStatus = "OPEN"
	RoomInGame RoomStatus = "IN_GAME"
	RoomEnded  RoomStatus = "ENDED"
)

type Room struct {
	ID        uint       `gorm:"primaryKey;column:id" json:"id"`
	OwnerID   *uint      `gorm:"column:owner_id;index:idx_rooms_active_owner,unique,where:is_active = true" json:"ownerId"`
	PlayerID  *uint      `gorm:"column:player_id;index:idx_rooms_active_player,unique,where:is_active = true" json:"playerId"`
	IsPrivate bool       `gorm:"not null;default:false;column:is_private" json:"isPrivate"`
	Password  *string    `gorm:"type:varchar(255);column:password" json:"-"`
	IsActive  bool       `gorm:"not null;default:true;column:is_active" json:"isActive"`
	Status    RoomStatus `gorm:"type:varchar(16);not null;default:'OPEN';column:status" json:"status"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updated_at" json:"updatedAt"`
	Owner     *User      `gorm:"foreignKey:OwnerID;references:ID" json:"-"`
	Player    *User      `gorm:"foreignKey:PlayerID;references:ID" json:"-"`
}

// IsOwner reports whether userID holds the owner slot.
func (r *Room) IsOwner(userID uint) bool {
	return r.OwnerID != nil && *r.OwnerID == userID
}

// IsPlayer reports whether userID holds the player slot.
func (r *Room) IsPlayer(userID uint) bool {
	return r.PlayerID != nil && *r.PlayerID == userID
}

// Vacant reports whether both slots are empty.
func (r *Room) Vacant() bool {
	return r.OwnerID == nil && r.PlayerID == nil
}

// TransitionTo moves the room along OPEN -> IN_GAME -> ENDED.
func (r *Room) TransitionTo(next RoomStatus) error {
	switch {
	case r.Status == RoomOpen && next == RoomInGame:
	case r.Status == RoomInGame && next == RoomEnded:
	default:
		return ErrRoomTransition
	}
	r.Status = next
	return nil
}

type CreateRoomRequest struct {
	PrivateRoom bool    `json:"privateRoom"`
	Password    *string `json:"password"`
}

type JoinRoomRequest struct {
	RoomID   uint    `json:"roomId"`
	Password *string `json:"password"`
}

type LeaveRoomRequest struct {
	RoomID uint `json:"roomId"`
}

type UpdateRoomRequest struct {
	Password *string `json:"password"`
}

type RoomRepository interface {
	GetByID(ctx context.Context, id uint) (*Room, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*Room, error)
	FindActiveByOwner(ctx context.Context, userID uint) (*Room, error)
	FindActiveByPlayer(ctx context.Context, userID uint) (*Room, error)
	Create(ctx context.Context, room *Room) error
	Save(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id uint) error
}
