package domain

import (
	"context"
	"time"
)

type UserStatus int

const (
	UserDisabled UserStatus = 0
	UserEnabled  UserStatus = 1
)

type User struct {
	ID         uint       `gorm:"primaryKey;column:id" json:"id"`
	Username   string     `gorm:"type:varchar(50);unique;not null;column:username" json:"username"`
	Password   string     `gorm:"type:varchar(255);not null;column:password" json:"-"`
	Status     UserStatus `gorm:"type:smallint;not null;default:1;column:status" json:"status"`
	GamesWon   int        `gorm:"not null;default:0;column:games_won" json:"gamesWon"`
	GamesLost  int        `gorm:"not null;default:0;column:games_lost" json:"gamesLost"`
	Experience int        `gorm:"not null;default:0;column:experience" json:"experience"`
	Level      int        `gorm:"not null;default:1;column:level" json:"level"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"createdAt"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateProgress(ctx context.Context, id uint, experience int, level int) error
	IncrementStats(ctx context.Context, id uint, won int, lost int) error
}
