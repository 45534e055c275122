package domain

import (
	"context"
	"time"
)

type GameStatus string

const (
	GameOngoing   GameStatus = "ONGOING"
	GameCompleted GameStatus = "COMPLETED"
)

// Fixed parameters of every game.
const (
	GameDuration       = 30
	GameExperienceWin  = 200
	GameExperienceLose = 20
)

type Game struct {
	ID             uint       `gorm:"primaryKey;column:id" json:"id"`
	RoomID         uint       `gorm:"not null;column:room_id;index;index:idx_games_ongoing_room,unique,where:status = 'ONGOING'" json:"roomId"`
	Player1ID      uint       `gorm:"not null;column:player1_id" json:"player1Id"`
	Player2ID      uint       `gorm:"not null;column:player2_id" json:"player2Id"`
	Status         GameStatus `gorm:"type:varchar(16);not null;column:status" json:"status"`
	WinnerID       *uint      `gorm:"column:winner_id" json:"winnerId"`
	StartedAt      time.Time  `gorm:"not null;column:started_at" json:"startedAt"`
	EndedAt        *time.Time `gorm:"column:ended_at" json:"endedAt"`
	Duration       int        `gorm:"not null;column:duration" json:"duration"`
	ExperienceWin  int        `gorm:"not null;column:experience_win" json:"experienceWin"`
	ExperienceLose int        `gorm:"not null;column:experience_lose" json:"experienceLose"`
	Room           *Room      `gorm:"foreignKey:RoomID;references:ID" json:"-"`
}

// HasPlayer reports whether userID is one of the two players.
func (g *Game) HasPlayer(userID uint) bool {
	return g.Player1ID == userID || g.Player2ID == userID
}

// Opponent returns the other player of the game.
func (g *Game) Opponent(userID uint) uint {
	if g.Player1ID == userID {
		return g.Player2ID
	}
	return g.Player1ID
}

type GameHistory struct {
	ID               uint       `gorm:"primaryKey;column:id" json:"id"`
	UserID           uint       `gorm:"not null;index;column:user_id" json:"userId"`
	GameID           uint       `gorm:"not null;index;column:game_id" json:"gameId"`
	Duration         int        `gorm:"not null;column:duration" json:"duration"`
	ExperienceGained int        `gorm:"not null;column:experience_gained" json:"experienceGained"`
	GameStatus       GameStatus `gorm:"type:varchar(16);not null;column:game_status" json:"gameStatus"`
	Won              bool       `gorm:"not null;column:won" json:"won"`
	CreatedAt        time.Time  `gorm:"column:created_at" json:"createdAt"`
}

type StartGameRequest struct {
	RoomID    uint `json:"roomId"`
	Player1ID uint `json:"player1Id"`
	Player2ID uint `json:"player2Id"`
}

type EndGameRequest struct {
	GameID   uint `json:"gameId"`
	WinnerID uint `json:"winnerId"`
	LoserID  uint `json:"loserId"`
}

type SurrenderRequest struct {
	GameID   uint `json:"gameId"`
	PlayerID uint `json:"playerId"`
}

type SurrenderedPlayer struct {
	ID       uint   `json:"id"`
	Username string `json:"userName"`
}

type SurrenderResult struct {
	Game
	SurrenderedPlayer SurrenderedPlayer `json:"surrenderedPlayer"`
}

type GameRepository interface {
	GetByID(ctx context.Context, id uint) (*Game, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*Game, error)
	FindOngoingByRoom(ctx context.Context, roomID uint) (*Game, error)
	Create(ctx context.Context, game *Game) error
	Complete(ctx context.Context, game *Game) error
	DeleteByRoom(ctx context.Context, roomID uint) error
	CreateHistory(ctx context.Context, entries []GameHistory) error
	ListHistoryByUser(ctx context.Context, userID uint) ([]GameHistory, error)
}
