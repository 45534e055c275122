package mocks

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/middleware"
	"context"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/mock"
)

type MockRoomUsecase struct {
	mock.Mock
}

func (m *MockRoomUsecase) room(args mock.Arguments) (*domain.Room, error) {
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoomUsecase) CreateRoom(ctx context.Context, ownerID uint, isPrivate bool, password *string) (*domain.Room, error) {
	return m.room(m.Called(ctx, ownerID, isPrivate, password))
}

func (m *MockRoomUsecase) JoinRoom(ctx context.Context, playerID uint, roomID uint, password *string) (*domain.Room, error) {
	return m.room(m.Called(ctx, playerID, roomID, password))
}

func (m *MockRoomUsecase) LeaveRoom(ctx context.Context, userID uint, roomID uint) (bool, error) {
	args := m.Called(ctx, userID, roomID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoomUsecase) KickPlayer(ctx context.Context, requesterID uint, roomID uint) (*domain.Room, error) {
	return m.room(m.Called(ctx, requesterID, roomID))
}

func (m *MockRoomUsecase) DeleteRoom(ctx context.Context, requesterID uint, roomID uint) error {
	args := m.Called(ctx, requesterID, roomID)
	return args.Error(0)
}

func (m *MockRoomUsecase) UpdateRoomPrivacy(ctx context.Context, requesterID uint, roomID uint, password *string) (*domain.Room, error) {
	return m.room(m.Called(ctx, requesterID, roomID, password))
}

func (m *MockRoomUsecase) GetRoom(ctx context.Context, roomID uint) (*domain.Room, error) {
	return m.room(m.Called(ctx, roomID))
}

func (m *MockRoomUsecase) TransitionToInGame(ctx context.Context, tx domain.Tx, roomID uint) (*domain.Room, error) {
	return m.room(m.Called(ctx, tx, roomID))
}

func (m *MockRoomUsecase) TransitionToEnded(ctx context.Context, tx domain.Tx, roomID uint) (*domain.Room, error) {
	return m.room(m.Called(ctx, tx, roomID))
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
