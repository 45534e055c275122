package usecase

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"cardgame_backend/internal/service/validation"
	"context"
	"fmt"
	"go.uber.org/zap"
	"math/rand"
)

// CardCatalog is consulted before any transaction is opened.
type CardCatalog interface {
	CardIDs(ctx context.Context) ([]uint, error)
	MissingIDs(ctx context.Context, ids []uint) ([]uint, error)
}

type DeckUsecase interface {
	CreateRandomDeck(ctx context.Context, userID uint) (*domain.Deck, error)
	CreateCustomDeck(ctx context.Context, userID uint, name string, cardIDs []uint) (*domain.Deck, error)
	AddCard(ctx context.Context, deckID uint, requesterID uint, cardID uint) (*domain.Deck, error)
	RemoveCard(ctx context.Context, deckID uint, requesterID uint, cardID uint) (*domain.Deck, error)
	UpdateDeck(ctx context.Context, deckID uint, requesterID uint, name *string, cardIDs []uint) (*domain.Deck, error)
	DeleteDeck(ctx context.Context, deckID uint, requesterID uint) error
	GetDeck(ctx context.Context, deckID uint, requesterID uint) (*domain.Deck, error)
	ListDecks(ctx context.Context, userID uint) ([]domain.Deck, error)
}

type deckUsecase struct {
	store   domain.Store
	catalog CardCatalog
	shuffle func(n int, swap func(i, j int))
}

func NewDeckUsecase(store domain.Store, catalog CardCatalog) DeckUsecase {
	return &deckUsecase{
		store:   store,
		catalog: catalog,
		shuffle: rand.Shuffle,
	}
}

func (uc *deckUsecase) CreateRandomDeck(ctx context.Context, userID uint) (*domain.Deck, error) {
	requestID := middleware.GetRequestID(ctx)

	ids, err := uc.catalog.CardIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) < domain.MaxDeckCards {
		logger.AccessLogger.Warn("Catalog too small for a random deck", zap.String("request_id", requestID), zap.Int("cards", len(ids)))
		return nil, domain.ErrCatalogTooSmall
	}

	pool := append([]uint(nil), ids...)
	uc.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	picked := pool[:domain.MaxDeckCards]

	return uc.createDeck(ctx, userID, nil, picked)
}

func (uc *deckUsecase) CreateCustomDeck(ctx context.Context, userID uint, name string, cardIDs []uint) (*domain.Deck, error) {
	if !validation.ValidateDeckName(name, domain.MaxDeckNameLen) {
		return nil, domain.ErrInvalidDeckName
	}
	ids, err := uc.checkCardIDs(ctx, cardIDs)
	if err != nil {
		return nil, err
	}
	return uc.createDeck(ctx, userID, &name, ids)
}

// createDeck inserts the deck, its cards and the collection entry together.
// A nil name is derived from the user's deck count.
func (uc *deckUsecase) createDeck(ctx context.Context, userID uint, name *string, cardIDs []uint) (*domain.Deck, error) {
	requestID := middleware.GetRequestID(ctx)

	var deck *domain.Deck
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		if _, err := tx.Users().GetByIDForUpdate(ctx, userID); err != nil {
			return err
		}
		count, err := tx.Decks().CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		if count >= domain.MaxDecksPerUser {
			return domain.ErrDeckLimitReached
		}

		deck = &domain.Deck{UserID: userID}
		if name != nil {
			deck.Name = *name
		} else {
			deck.Name = fmt.Sprintf("MY DECK CARDS %d", count+1)
		}
		if err := tx.Decks().Create(ctx, deck, cardIDs); err != nil {
			return err
		}
		return tx.Decks().AddToCollection(ctx, userID, deck.ID)
	})
	if err != nil {
		logger.AccessLogger.Warn("Deck was not created", zap.String("request_id", requestID), zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	logger.AccessLogger.Info("Deck created", zap.String("request_id", requestID), zap.Uint("deck_id", deck.ID), zap.Uints("card_ids", deck.CardIDs()))
	return deck, nil
}

// checkCardIDs collapses duplicates keeping first occurrences and reports
// every id missing from the catalog.
func (uc *deckUsecase) checkCardIDs(ctx context.Context, cardIDs []uint) ([]uint, error) {
	if len(cardIDs) > domain.MaxDeckCards {
		return nil, domain.ErrTooManyCards
	}

	seen := make(map[uint]struct{}, len(cardIDs))
	ids := make([]uint, 0, len(cardIDs))
	for _, id := range cardIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	missing, err := uc.catalog.MissingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		logger.AccessLogger.Warn("Unknown card ids", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Any("card_ids", missing))
		return nil, &domain.InvalidCardIDsError{IDs: missing}
	}
	return ids, nil
}

// lockOwned locks the deck row and checks that requesterID owns it.
func lockOwned(ctx context.Context, tx domain.Tx, deckID uint, requesterID uint) (*domain.Deck, error) {
	deck, err := tx.Decks().GetByIDForUpdate(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != requesterID {
		return nil, domain.ErrNotDeckOwner
	}
	return deck, nil
}

func (uc *deckUsecase) AddCard(ctx context.Context, deckID uint, requesterID uint, cardID uint) (*domain.Deck, error) {
	missing, err := uc.catalog.MissingIDs(ctx, []uint{cardID})
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &domain.InvalidCardIDsError{IDs: missing}
	}

	var deck *domain.Deck
	err = uc.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		deck, err = lockOwned(ctx, tx, deckID, requesterID)
		if err != nil {
			return err
		}
		if len(deck.Cards) >= domain.MaxDeckCards {
			return domain.ErrDeckFull
		}
		if deck.HasCard(cardID) {
			return domain.ErrDuplicateCard
		}
		if err := tx.Decks().AddCard(ctx, deckID, cardID); err != nil {
			return err
		}
		deck.Cards = append(deck.Cards, domain.DeckCard{DeckID: deckID, CardID: cardID})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deck, nil
}

func (uc *deckUsecase) RemoveCard(ctx context.Context, deckID uint, requesterID uint, cardID uint) (*domain.Deck, error) {
	var deck *domain.Deck
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		deck, err = lockOwned(ctx, tx, deckID, requesterID)
		if err != nil {
			return err
		}
		if !deck.HasCard(cardID) {
			return domain.ErrCardNotInDeck
		}
		if err := tx.Decks().RemoveCard(ctx, deckID, cardID); err != nil {
			return err
		}
		cards := deck.Cards[:0]
		for _, c := range deck.Cards {
			if c.CardID != cardID {
				cards = append(cards, c)
			}
		}
		deck.Cards = cards
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// UpdateDeck renames the deck and/or replaces its whole card set. A nil
// cardIDs leaves the cards untouched; an empty one clears them.
func (uc *deckUsecase) UpdateDeck(ctx context.Context, deckID uint, requesterID uint, name *string, cardIDs []uint) (*domain.Deck, error) {
	if name == nil && cardIDs == nil {
		return nil, domain.ErrEmptyDeckUpdate
	}
	if name != nil && !validation.ValidateDeckName(*name, domain.MaxDeckNameLen) {
		return nil, domain.ErrInvalidDeckName
	}
	var ids []uint
	if cardIDs != nil {
		var err error
		if ids, err = uc.checkCardIDs(ctx, cardIDs); err != nil {
			return nil, err
		}
	}

	var deck *domain.Deck
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		if _, err := lockOwned(ctx, tx, deckID, requesterID); err != nil {
			return err
		}
		if name != nil {
			if err := tx.Decks().Rename(ctx, deckID, *name); err != nil {
				return err
			}
		}
		if ids != nil {
			if err := tx.Decks().ReplaceCards(ctx, deckID, ids); err != nil {
				return err
			}
		}
		var err error
		deck, err = tx.Decks().GetByID(ctx, deckID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.AccessLogger.Info("Deck updated", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Uint("deck_id", deckID), zap.Uints("card_ids", deck.CardIDs()))
	return deck, nil
}

func (uc *deckUsecase) DeleteDeck(ctx context.Context, deckID uint, requesterID uint) error {
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		if _, err := lockOwned(ctx, tx, deckID, requesterID); err != nil {
			return err
		}
		if err := tx.Decks().RemoveFromCollection(ctx, deckID); err != nil {
			return err
		}
		return tx.Decks().Delete(ctx, deckID)
	})
	if err != nil {
		return err
	}

	logger.AccessLogger.Info("Deck deleted", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Uint("deck_id", deckID))
	return nil
}

func (uc *deckUsecase) GetDeck(ctx context.Context, deckID uint, requesterID uint) (*domain.Deck, error) {
	var deck *domain.Deck
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		deck, err = tx.Decks().GetByID(ctx, deckID)
		if err != nil {
			return err
		}
		if deck.UserID != requesterID {
			return domain.ErrNotDeckOwner
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deck, nil
}

func (uc *deckUsecase) ListDecks(ctx context.Context, userID uint) ([]domain.Deck, error) {
	var decks []domain.Deck
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		decks, err = tx.Decks().ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return decks, nil
}
