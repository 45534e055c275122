package domain

import "context"

type CardType string

const (
	CardPlayer   CardType = "PLAYER"
	CardDecision CardType = "DECISION"
	CardMystique CardType = "MYSTIQUE"
)

type CardCategory string

const (
	CategoryAttacker   CardCategory = "ATTACKER"
	CategoryMidfielder CardCategory = "MIDFIELDER"
	CategoryDefender   CardCategory = "DEFENDER"
	CategoryGoalkeeper CardCategory = "GOALKEEPER"
	CategoryStadium    CardCategory = "STADIUM"
	CategoryTactic     CardCategory = "TACTIC"
)

// Card is read-only from the game core's perspective.
type Card struct {
	ID          uint         `gorm:"primaryKey;column:id" json:"id"`
	Name        string       `gorm:"type:varchar(100);not null;column:name" json:"name"`
	Description string       `gorm:"type:text;column:description" json:"description"`
	Type        CardType     `gorm:"type:varchar(16);not null;column:type" json:"type"`
	Category    CardCategory `gorm:"type:varchar(16);not null;column:category" json:"category"`
	Attack      int          `gorm:"not null;default:0;column:attack" json:"attack"`
	Defense     int          `gorm:"not null;default:0;column:defense" json:"defense"`
	Effect      string       `gorm:"type:text;column:effect" json:"effect"`
	Speed       int          `gorm:"not null;default:0;column:speed" json:"speed"`
	Strength    int          `gorm:"not null;default:0;column:strength" json:"strength"`
}

type CardRepository interface {
	ListIDs(ctx context.Context) ([]uint, error)
	FindExistingIDs(ctx context.Context, ids []uint) ([]uint, error)
}
