package mocks

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/middleware"
	"context"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/mock"
)

type MockDeckUsecase struct {
	mock.Mock
}

func (m *MockDeckUsecase) deck(args mock.Arguments) (*domain.Deck, error) {
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Deck), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeckUsecase) CreateRandomDeck(ctx context.Context, userID uint) (*domain.Deck, error) {
	return m.deck(m.Called(ctx, userID))
}

func (m *MockDeckUsecase) CreateCustomDeck(ctx context.Context, userID uint, name string, cardIDs []uint) (*domain.Deck, error) {
	return m.deck(m.Called(ctx, userID, name, cardIDs))
}

func (m *MockDeckUsecase) AddCard(ctx context.Context, deckID uint, requesterID uint, cardID uint) (*domain.Deck, error) {
	return m.deck(m.Called(ctx, deckID, requesterID, cardID))
}

func (m *MockDeckUsecase) RemoveCard(ctx context.Context, deckID uint, requesterID uint, cardID uint) (*domain.Deck, error) {
	return m.deck(m.Called(ctx, deckID, requesterID, cardID))
}

func (m *MockDeckUsecase) UpdateDeck(ctx context.Context, deckID uint, requesterID uint, name *string, cardIDs []uint) (*domain.Deck, error) {
	return m.deck(m.Called(ctx, deckID, requesterID, name, cardIDs))
}

func (m *MockDeckUsecase) DeleteDeck(ctx context.Context, deckID uint, requesterID uint) error {
	args := m.Called(ctx, deckID, requesterID)
	return args.Error(0)
}

func (m *MockDeckUsecase) GetDeck(ctx context.Context, deckID uint, requesterID uint) (*domain.Deck, error) {
	return m.deck(m.Called(ctx, deckID, requesterID))
}

func (m *MockDeckUsecase) ListDecks(ctx context.Context, userID uint) ([]domain.Deck, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Deck), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockJwtTokenService struct {
	mock.Mock
}

func (m *MockJwtTokenService) Create(userID string, tokenExpTime int64) (string, error) {
	args := m.Called(userID, tokenExpTime)
	return args.String(0), args.Error(1)
}

func (m *MockJwtTokenService) Validate(tokenString string) (*middleware.JwtCsrfClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) != nil {
		return args.Get(0).(*middleware.JwtCsrfClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJwtTokenService) ParseSecretGetter(token *jwt.Token) (interface{}, error) {
	args := m.Called(token)
	return args.Get(0), args.Error(1)
}
