package usecase

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/progression"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"context"
	"errors"
	"go.uber.org/zap"
	"time"
)

// RoomTransitions moves the bound room along its state machine inside the
// caller's transaction.
type RoomTransitions interface {
	TransitionToInGame(ctx context.Context, tx domain.Tx, roomID uint) (*domain.Room, error)
	TransitionToEnded(ctx context.Context, tx domain.Tx, roomID uint) (*domain.Room, error)
}

type GameUsecase interface {
	StartGame(ctx context.Context, roomID uint, player1ID uint, player2ID uint) (*domain.Game, error)
	EndGame(ctx context.Context, gameID uint, winnerID uint, loserID uint) (*domain.Game, error)
	SurrenderGame(ctx context.Context, gameID uint, playerID uint) (*domain.SurrenderResult, error)
	ListHistory(ctx context.Context, userID uint) ([]domain.GameHistory, error)
}

type gameUsecase struct {
	store       domain.Store
	rooms       RoomTransitions
	progression *progression.Progression
	now         func() time.Time
}

func NewGameUsecase(store domain.Store, rooms RoomTransitions, progression *progression.Progression) GameUsecase {
	return &gameUsecase{
		store:       store,
		rooms:       rooms,
		progression: progression,
		now:         time.Now,
	}
}

func (uc *gameUsecase) StartGame(ctx context.Context, roomID uint, player1ID uint, player2ID uint) (*domain.Game, error) {
	requestID := middleware.GetRequestID(ctx)
	if player1ID == player2ID {
		logger.AccessLogger.Warn("Game players are the same user", zap.String("request_id", requestID), zap.Uint("player_id", player1ID))
		return nil, domain.ErrSamePlayers
	}

	var game *domain.Game
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		if _, err := tx.Rooms().GetByIDForUpdate(ctx, roomID); err != nil {
			return err
		}
		ongoing, err := tx.Games().FindOngoingByRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if ongoing != nil {
			return domain.ErrGameAlreadyOngoing
		}
		for _, id := range []uint{player1ID, player2ID} {
			if _, err := tx.Users().GetByID(ctx, id); err != nil {
				return err
			}
		}

		game = &domain.Game{
			RoomID:         roomID,
			Player1ID:      player1ID,
			Player2ID:      player2ID,
			Status:         domain.GameOngoing,
			StartedAt:      uc.now(),
			Duration:       domain.GameDuration,
			ExperienceWin:  domain.GameExperienceWin,
			ExperienceLose: domain.GameExperienceLose,
		}
		if err := tx.Games().Create(ctx, game); err != nil {
			return err
		}
		_, err = uc.rooms.TransitionToInGame(ctx, tx, roomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.AccessLogger.Info("Game started", zap.String("request_id", requestID), zap.Uint("game_id", game.ID), zap.Uint("room_id", roomID))
	return game, nil
}

func (uc *gameUsecase) EndGame(ctx context.Context, gameID uint, winnerID uint, loserID uint) (*domain.Game, error) {
	requestID := middleware.GetRequestID(ctx)
	if winnerID == loserID {
		logger.AccessLogger.Warn("Winner and loser are the same user", zap.String("request_id", requestID), zap.Uint("game_id", gameID))
		return nil, domain.ErrSamePlayers
	}

	var game *domain.Game
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		game, err = lockOngoing(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if !game.HasPlayer(winnerID) || !game.HasPlayer(loserID) {
			return domain.ErrNotGamePlayer
		}
		return uc.complete(ctx, tx, game, winnerID, loserID)
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

// SurrenderGame completes the game in favour of the other player.
func (uc *gameUsecase) SurrenderGame(ctx context.Context, gameID uint, playerID uint) (*domain.SurrenderResult, error) {
	var result *domain.SurrenderResult
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		game, err := lockOngoing(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if !game.HasPlayer(playerID) {
			return domain.ErrNotGamePlayer
		}
		surrendered, err := tx.Users().GetByID(ctx, playerID)
		if err != nil {
			return err
		}

		if err := uc.complete(ctx, tx, game, game.Opponent(playerID), playerID); err != nil {
			return err
		}
		result = &domain.SurrenderResult{
			Game:              *game,
			SurrenderedPlayer: domain.SurrenderedPlayer{ID: surrendered.ID, Username: surrendered.Username},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockOngoing locks the bound room and then the game row, the order room
// deletion takes them in. A game never changes rooms, so the unlocked read
// of its room id is safe.
func lockOngoing(ctx context.Context, tx domain.Tx, gameID uint) (*domain.Game, error) {
	game, err := tx.Games().GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Rooms().GetByIDForUpdate(ctx, game.RoomID); err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			return nil, domain.ErrGameNotFound
		}
		return nil, err
	}

	game, err = tx.Games().GetByIDForUpdate(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != domain.GameOngoing {
		return nil, domain.ErrGameAlreadyCompleted
	}
	return game, nil
}

// complete propagates the outcome: game status, both players' experience,
// level and stats, history rows and the room transition. It must run in one
// transaction so that either all of it is visible or none of it.
func (uc *gameUsecase) complete(ctx context.Context, tx domain.Tx, game *domain.Game, winnerID uint, loserID uint) error {
	requestID := middleware.GetRequestID(ctx)

	// Lock both users in id order so that two games over the same pair cannot deadlock.
	first, second := winnerID, loserID
	if first > second {
		first, second = second, first
	}
	for _, id := range []uint{first, second} {
		if _, err := tx.Users().GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
	}

	endedAt := uc.now()
	game.WinnerID = &winnerID
	game.EndedAt = &endedAt
	if err := tx.Games().Complete(ctx, game); err != nil {
		return err
	}

	if _, err := uc.progression.ApplyExperience(ctx, tx.Users(), winnerID, game.ExperienceWin); err != nil {
		return err
	}
	if _, err := uc.progression.ApplyExperience(ctx, tx.Users(), loserID, game.ExperienceLose); err != nil {
		return err
	}
	if err := tx.Users().IncrementStats(ctx, winnerID, 1, 0); err != nil {
		return err
	}
	if err := tx.Users().IncrementStats(ctx, loserID, 0, 1); err != nil {
		return err
	}

	history := []domain.GameHistory{
		{UserID: winnerID, GameID: game.ID, Duration: game.Duration, ExperienceGained: game.ExperienceWin, GameStatus: domain.GameCompleted, Won: true},
		{UserID: loserID, GameID: game.ID, Duration: game.Duration, ExperienceGained: game.ExperienceLose, GameStatus: domain.GameCompleted, Won: false},
	}
	if err := tx.Games().CreateHistory(ctx, history); err != nil {
		return err
	}

	if _, err := uc.rooms.TransitionToEnded(ctx, tx, game.RoomID); err != nil {
		return err
	}

	logger.AccessLogger.Info("Game completed",
		zap.String("request_id", requestID),
		zap.Uint("game_id", game.ID),
		zap.Uint("winner_id", winnerID),
		zap.Uint("loser_id", loserID),
	)
	return nil
}

func (uc *gameUsecase) ListHistory(ctx context.Context, userID uint) ([]domain.GameHistory, error) {
	var history []domain.GameHistory
	err := uc.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		history, err = tx.Games().ListHistoryByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}
