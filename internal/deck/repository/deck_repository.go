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

type deckRepository struct {
	db *gorm.DB
}

func NewDeckRepository(db *gorm.DB) domain.DeckRepository {
	return &deckRepository{
		db: db,
	}
}

func (r *deckRepository) GetByID(ctx context.Context, id uint) (*domain.Deck, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate locks the deck row. Card changes of one deck serialize on it.
func (r *deckRepository) GetByIDForUpdate(ctx context.Context, id uint) (*domain.Deck, error) {
	return r.get(ctx, id, true)
}

func (r *deckRepository) get(ctx context.Context, id uint, lock bool) (*domain.Deck, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("GetDeck called", zap.String("request_id", requestID), zap.Uint("deck_id", id), zap.Bool("lock", lock))

	query := r.db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var deck domain.Deck
	if err := query.First(&deck, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.DBLogger.Warn("Deck not found", zap.String("request_id", requestID), zap.Uint("deck_id", id))
			return nil, domain.ErrDeckNotFound
		}
		logger.DBLogger.Error("Failed to get deck", zap.String("request_id", requestID), zap.Uint("deck_id", id), zap.Error(err))
		return nil, errors.New("failed to fetch deck")
	}

	if err := r.db.WithContext(ctx).Where("deck_id = ?", id).Find(&deck.Cards).Error; err != nil {
		logger.DBLogger.Error("Failed to get deck cards", zap.String("request_id", requestID), zap.Uint("deck_id", id), zap.Error(err))
		return nil, errors.New("failed to fetch deck cards")
	}
	return &deck, nil
}

func (r *deckRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Deck, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("ListDecks called", zap.String("request_id", requestID), zap.Uint("user_id", userID))

	decks := make([]domain.Deck, 0)
	if err := r.db.WithContext(ctx).Preload("Cards").Where("user_id = ?", userID).Order("id").Find(&decks).Error; err != nil {
		logger.DBLogger.Error("Failed to list decks", zap.String("request_id", requestID), zap.Uint("user_id", userID), zap.Error(err))
		return nil, errors.New("failed to fetch decks")
	}
	return decks, nil
}

func (r *deckRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	requestID := middleware.GetRequestID(ctx)

	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Deck{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		logger.DBLogger.Error("Failed to count decks", zap.String("request_id", requestID), zap.Uint("user_id", userID), zap.Error(err))
		return 0, errors.New("failed to count decks")
	}
	return count, nil
}

// Create inserts the deck row and then its card rows.
func (r *deckRepository) Create(ctx context.Context, deck *domain.Deck, cardIDs []uint) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("CreateDeck called", zap.String("request_id", requestID), zap.Uint("user_id", deck.UserID), zap.Int("cards", len(cardIDs)))

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(deck).Error; err != nil {
		logger.DBLogger.Error("Failed to create deck", zap.String("request_id", requestID), zap.Uint("user_id", deck.UserID), zap.Error(err))
		return errors.New("failed to create deck")
	}

	cards, err := r.insertCards(ctx, deck.ID, cardIDs)
	if err != nil {
		return err
	}
	deck.Cards = cards

	logger.DBLogger.Info("Successfully create deck", zap.String("request_id", requestID), zap.Uint("deck_id", deck.ID))
	return nil
}

func (r *deckRepository) insertCards(ctx context.Context, deckID uint, cardIDs []uint) ([]domain.DeckCard, error) {
	cards := make([]domain.DeckCard, len(cardIDs))
	for i, id := range cardIDs {
		cards[i] = domain.DeckCard{DeckID: deckID, CardID: id}
	}
	if len(cards) == 0 {
		return cards, nil
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&cards).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateCard
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			logger.DBLogger.Warn("Deck cards reference unknown cards", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Uint("deck_id", deckID))
			return nil, domain.ErrUnknownCard
		}
		logger.DBLogger.Error("Failed to insert deck cards", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Uint("deck_id", deckID), zap.Error(err))
		return nil, errors.New("failed to add cards to deck")
	}
	return cards, nil
}

func (r *deckRepository) AddCard(ctx context.Context, deckID uint, cardID uint) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("AddCard called", zap.String("request_id", requestID), zap.Uint("deck_id", deckID), zap.Uint("card_id", cardID))

	_, err := r.insertCards(ctx, deckID, []uint{cardID})
	return err
}

func (r *deckRepository) RemoveCard(ctx context.Context, deckID uint, cardID uint) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("RemoveCard called", zap.String("request_id", requestID), zap.Uint("deck_id", deckID), zap.Uint("card_id", cardID))

	result := r.db.WithContext(ctx).Where("deck_id = ? AND card_id = ?", deckID, cardID).Delete(&domain.DeckCard{})
	if result.Error != nil {
		logger.DBLogger.Error("Failed to remove card", zap.String("request_id", requestID), zap.Uint("deck_id", deckID), zap.Error(result.Error))
		return errors.New("failed to remove card from deck")
	}
	if result.RowsAffected == 0 {
		return domain.ErrCardNotInDeck
	}
	return nil
}

// ReplaceCards deletes every card of the deck and inserts cardIDs.
func (r *deckRepository) ReplaceCards(ctx context.Context, deckID uint, cardIDs []uint) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("ReplaceCards called", zap.String("request_id", requestID), zap.Uint("deck_id", deckID), zap.Int("cards", len(cardIDs)))

	if err := r.db.WithContext(ctx).Where("deck_id = ?", deckID).Delete(&domain.DeckCard{}).Error; err != nil {
		logger.DBLogger.Error("Failed to clear deck cards", zap.String("request_id", requestID), zap.Uint("deck_id", deckID), zap.Error(err))
		return errors.New("failed to replace deck cards")
	}
	_, err := r.insertCards(ctx, deckID, cardIDs)
	return err
}

func (r *deckRepository) Rename(ctx context.Context, deckID uint, name string) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("RenameDeck called", zap.String("request_id", requestID), zap.Uint("deck_id", deckID))

	result := r.db.WithContext(ctx).Model(&domain.Deck{}).Where("id = ?", deckID).Update("name", name)
	if result.Error != nil {
		logger.DBLogger.Error("Failed to rename deck", zap.String("request_id", requestID), zap.Uint("deck_id", deckID), zap.Error(result.Error))
		return errors.New("failed to rename deck")
	}
	if result.RowsAffected == 0 {
		return domain.ErrDeckNotFound
	}
	return nil
}

// Delete removes the deck and its card rows. Collection entries are removed
// separately through RemoveFromCollection.
func (r *deckRepository) Delete(ctx context.Context, deckID uint) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("DeleteDeck called", zap.String("request_id", requestID), zap.Uint("deck_id", deckID))

	if err := r.db.WithContext(ctx).Where("deck_id = ?", deckID).Delete(&domain.DeckCard{}).Error; err != nil {
		logger.DBLogger.Error("Failed to delete deck cards", zap.String("request_id", requestID), zap.Uint("deck_id", deckID), zap.Error(err))
		return errors.New("failed to delete deck")
	}

	result := r.db.WithContext(ctx).Delete(&domain.Deck{}, deckID)
	if result.Error != nil {
		logger.DBLogger.Error("Failed to delete deck", zap.String("request_id", requestID), zap.Uint("deck_id", deckID), zap.Error(result.Error))
		return errors.New("failed to delete deck")
	}
	if result.RowsAffected == 0 {
		return domain.ErrDeckNotFound
	}

	logger.DBLogger.Info("Successfully delete deck", zap.String("request_id", requestID), zap.Uint("deck_id", deckID))
	return nil
}

func (r *deckRepository) AddToCollection(ctx context.Context, userID uint, deckID uint) error {
	requestID := middleware.GetRequestID(ctx)

	entry := domain.UserCollection{UserID: userID, DeckID: deckID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&entry).Error; err != nil {
		logger.DBLogger.Error("Failed to add deck to collection", zap.String("request_id", requestID), zap.Uint("deck_id", deckID), zap.Error(err))
		return errors.New("failed to update user collection")
	}
	return nil
}

func (r *deckRepository) RemoveFromCollection(ctx context.Context, deckID uint) error {
	requestID := middleware.GetRequestID(ctx)

	if err := r.db.WithContext(ctx).Where("deck_id = ?", deckID).Delete(&domain.UserCollection{}).Error; err != nil {
		logger.DBLogger.Error("Failed to remove deck from collection", zap.String("request_id", requestID), zap.Uint("deck_id", deckID), zap.Error(err))
		return errors.New("failed to update user collection")
	}
	return nil
}
