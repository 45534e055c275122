package usecase

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/progression"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"cardgame_backend/internal/service/validation"
	"context"
	"errors"
	"go.uber.org/zap"
	"strconv"
)

type AuthUsecase interface {
	LoginUser(ctx context.Context, username string, password string) (string, error)
}

type authUsecase struct {
	store domain.Store
}

func NewAuthUsecase(store domain.Store) AuthUsecase {
	return &authUsecase{
		store: store,
	}
}

// LoginUser authenticates an existing user or registers a new one with the
// given credentials. It returns the user id as a string for the token subject.
func (uc *authUsecase) LoginUser(ctx context.Context, username string, password string) (string, error) {
	requestID := middleware.GetRequestID(ctx)
	const maxLen = 100
	if len(username) > maxLen || len(password) > maxLen {
		logger.AccessLogger.Warn("Input exceeds character limit", zap.String("request_id", requestID))
		return "", domain.ErrInputTooLong
	}
	if !validation.ValidateLogin(username) {
		logger.AccessLogger.Warn("not correct username", zap.String("request_id", requestID))
		return "", domain.ErrInvalidUsername
	}
	if !validation.ValidatePassword(password) {
		logger.AccessLogger.Warn("not corrects password", zap.String("request_id", requestID))
		return "", domain.ErrInvalidPassword
	}

	var userID uint
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		user, err := tx.Users().GetByUsername(ctx, username)
		if errors.Is(err, domain.ErrUserNotFound) {
			hash, err := middleware.HashPassword(password)
			if err != nil {
				return errors.New("failed to hash password")
			}
			user = &domain.User{
				Username: username,
				Password: hash,
				Status:   domain.UserEnabled,
				Level:    progression.DefaultTable.LevelFor(0),
			}
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
			userID = user.ID
			return nil
		}
		if err != nil {
			return err
		}

		if user.Status == domain.UserDisabled {
			return domain.ErrUserDisabled
		}
		if !middleware.CheckPassword(user.Password, password) {
			return domain.ErrInvalidCredentials
		}
		userID = user.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	return strconv.FormatUint(uint64(userID), 10), nil
}
