package domain

import (
	"context"
	"time"
)

// Deck limits.
const (
	MaxDeckCards    = 30
	MaxDecksPerUser = 3
	MaxDeckNameLen  = 100
)

type Deck struct {
	ID        uint       `gorm:"primaryKey;column:id" json:"id"`
	Name      string     `gorm:"type:varchar(100);not null;column:name" json:"name"`
	UserID    uint       `gorm:"not null;index;column:user_id" json:"userId"`
	Cards     []DeckCard `gorm:"foreignKey:DeckID;references:ID" json:"cards"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updated_at" json:"updatedAt"`
	User      *User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

// CardIDs returns the card references of the deck in stored order.
func (d *Deck) CardIDs() []uint {
	ids := make([]uint, len(d.Cards))
	for i, c := range d.Cards {
		ids[i] = c.CardID
	}
	return ids
}

// HasCard reports whether cardID is already in the deck.
func (d *Deck) HasCard(cardID uint) bool {
	for _, c := range d.Cards {
		if c.CardID == cardID {
			return true
		}
	}
	return false
}

type DeckCard struct {
	DeckID uint  `gorm:"primaryKey;autoIncrement:false;column:deck_id" json:"deckId"`
	CardID uint  `gorm:"primaryKey;autoIncrement:false;column:card_id" json:"cardId"`
	Card   *Card `gorm:"foreignKey:CardID;references:ID" json:"card,omitempty"`
}

// UserCollection is the per-user index of owned decks.
type UserCollection struct {
	ID     uint  `gorm:"primaryKey;column:id" json:"id"`
	UserID uint  `gorm:"not null;index;column:user_id" json:"userId"`
	DeckID uint  `gorm:"not null;uniqueIndex;column:deck_id" json:"deckId"`
	Deck   *Deck `gorm:"foreignKey:DeckID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

type CreateCustomDeckRequest struct {
	Name    string `json:"name"`
	CardIDs []uint `json:"cardIds"`
}

type UpdateDeckRequest struct {
	Name    *string `json:"name"`
	CardIDs []uint  `json:"cardIds"`
}

type DeckCardRequest struct {
	CardID uint `json:"cardId"`
}

type DeckRepository interface {
	GetByID(ctx context.Context, id uint) (*Deck, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*Deck, error)
	ListByUser(ctx context.Context, userID uint) ([]Deck, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Create(ctx context.Context, deck *Deck, cardIDs []uint) error
	AddCard(ctx context.Context, deckID uint, cardID uint) error
	RemoveCard(ctx context.Context, deckID uint, cardID uint) error
	ReplaceCards(ctx context.Context, deckID uint, cardIDs []uint) error
	Rename(ctx context.Context, deckID uint, name string) error
	Delete(ctx context.Context, deckID uint) error
	AddToCollection(ctx context.Context, userID uint, deckID uint) error
	RemoveFromCollection(ctx context.Context, deckID uint) error
}
