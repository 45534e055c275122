package store

import (
	"cardgame_backend/domain"
	authRepository "cardgame_backend/internal/auth/repository"
	deckRepository "cardgame_backend/internal/deck/repository"
	gameRepository "cardgame_backend/internal/game/repository"
	roomRepository "cardgame_backend/internal/room/repository"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"context"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table the store reads or writes, in migration order.
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Room{},
		&domain.Game{},
		&domain.GameHistory{},
		&domain.Card{},
		&domain.Deck{},
		&domain.DeckCard{},
		&domain.UserCollection{},
	}
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore runs every unit of work in a database transaction.
func NewGormStore(db *gorm.DB) domain.Store {
	return &gormStore{
		db: db,
	}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx domain.Tx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
	if err != nil {
		logger.DBLogger.Info("Transaction rolled back", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Error(err))
	}
	return err
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Users() domain.UserRepository { return authRepository.NewUserRepository(t.db) }

func (t *gormTx) Rooms() domain.RoomRepository { return roomRepository.NewRoomRepository(t.db) }

func (t *gormTx) Games() domain.GameRepository { return gameRepository.NewGameRepository(t.db) }

func (t *gormTx) Decks() domain.DeckRepository { return deckRepository.NewDeckRepository(t.db) }

func (t *gormTx) Cards() domain.CardRepository { return deckRepository.NewCardRepository(t.db) }
