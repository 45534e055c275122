package mocks

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/middleware"
	"context"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/mock"
)

type MockGameUsecase struct {
	mock.Mock
}

func (m *MockGameUsecase) StartGame(ctx context.Context, roomID uint, player1ID uint, player2ID uint) (*domain.Game, error) {
	args := m.Called(ctx, roomID, player1ID, player2ID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Game), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) EndGame(ctx context.Context, gameID uint, winnerID uint, loserID uint) (*domain.Game, error) {
	args := m.Called(ctx, gameID, winnerID, loserID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Game), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) SurrenderGame(ctx context.Context, gameID uint, playerID uint) (*domain.SurrenderResult, error) {
	args := m.Called(ctx, gameID, playerID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.SurrenderResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) ListHistory(ctx context.Context, userID uint) ([]domain.GameHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.GameHistory), args.Error(1)
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
