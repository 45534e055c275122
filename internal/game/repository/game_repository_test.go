package repository

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/logger"
	"context"
	"errors"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"regexp"
	"testing"
	"time"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	logger.DBLogger = zap.NewNop()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGetGame(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewGameRepository(gormDB)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "room_id", "player1_id", "player2_id", "status", "duration", "experience_win", "experience_lose"}).
			AddRow(4, 1, 10, 20, "ONGOING", 30, 200, 20)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "games" WHERE "games"."id" = $1 ORDER BY "games"."id" LIMIT $2`)).
			WithArgs(4, 1).
			WillReturnRows(rows)

		game, err := repo.GetByID(ctx, 4)
		require.NoError(t, err)
		assert.True(t, game.HasPlayer(10))
		assert.Equal(t, uint(20), game.Opponent(10))
		assert.Equal(t, 200, game.ExperienceWin)
	})

	t.Run("Fail - Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "games"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.GetByIDForUpdate(ctx, 5)
		assert.ErrorIs(t, err, domain.ErrGameNotFound)
	})
}

func TestFindOngoingByRoom(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewGameRepository(gormDB)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "games" WHERE room_id = $1 AND status = $2 LIMIT $3`)).
			WithArgs(1, domain.GameOngoing, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "status"}).AddRow(4, 1, "ONGOING"))

		game, err := repo.FindOngoingByRoom(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, game)
		assert.Equal(t, uint(4), game.ID)
	})

	t.Run("None", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "games" WHERE room_id`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		game, err := repo.FindOngoingByRoom(ctx, 2)
		assert.NoError(t, err)
		assert.Nil(t, game)
	})
}

func TestCreateGame(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewGameRepository(gormDB)
	ctx := context.Background()

	newGame := func() *domain.Game {
		return &domain.Game{
			RoomID: 1, Player1ID: 10, Player2ID: 20, Status: domain.GameOngoing, StartedAt: time.Now(),
			Duration: domain.GameDuration, ExperienceWin: domain.GameExperienceWin, ExperienceLose: domain.GameExperienceLose,
		}
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "games"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
		mock.ExpectCommit()

		game := newGame()
		require.NoError(t, repo.Create(ctx, game))
		assert.Equal(t, uint(4), game.ID)
	})

	t.Run("Fail - Ongoing Index", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "games"`).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		err := repo.Create(ctx, newGame())
		assert.ErrorIs(t, err, domain.ErrGameAlreadyOngoing)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestCompleteGame(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewGameRepository(gormDB)
	ctx := context.Background()
	winner := uint(10)
	ended := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "games" SET "ended_at"=$1,"status"=$2,"winner_id"=$3 WHERE id = $4 AND status = $5`)).
			WithArgs(sqlmock.AnyArg(), domain.GameCompleted, sqlmock.AnyArg(), 4, domain.GameOngoing).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		game := &domain.Game{ID: 4, Status: domain.GameOngoing, WinnerID: &winner, EndedAt: &ended}
		require.NoError(t, repo.Complete(ctx, game))
		assert.Equal(t, domain.GameCompleted, game.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Fail - Already Completed", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "games" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		game := &domain.Game{ID: 4, WinnerID: &winner, EndedAt: &ended}
		assert.ErrorIs(t, repo.Complete(ctx, game), domain.ErrGameAlreadyCompleted)
	})

	t.Run("Fail - DB Error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "games" SET`).
			WillReturnError(errors.New("database error"))
		mock.ExpectRollback()

		game := &domain.Game{ID: 4, WinnerID: &winner, EndedAt: &ended}
		err := repo.Complete(ctx, game)
		assert.Error(t, err)
		assert.Equal(t, "failed to complete game", err.Error())
	})
}

func TestDeleteByRoom(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewGameRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "games" WHERE room_id = $1`)).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	assert.NoError(t, repo.DeleteByRoom(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameHistory(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewGameRepository(gormDB)
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "game_histories"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
		mock.ExpectCommit()

		err := repo.CreateHistory(ctx, []domain.GameHistory{
			{UserID: 10, GameID: 4, Duration: 30, ExperienceGained: 200, GameStatus: domain.GameCompleted, Won: true},
			{UserID: 20, GameID: 4, Duration: 30, ExperienceGained: 20, GameStatus: domain.GameCompleted},
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Create Empty", func(t *testing.T) {
		assert.NoError(t, repo.CreateHistory(ctx, nil))
	})

	t.Run("List", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "game_histories" WHERE user_id = $1 ORDER BY created_at DESC, id DESC`)).
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "game_id", "won"}).
				AddRow(2, 10, 5, false).
				AddRow(1, 10, 4, true))

		history, err := repo.ListHistoryByUser(ctx, 10)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, uint(5), history[0].GameID)
	})

	t.Run("List Empty", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "game_histories"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		history, err := repo.ListHistoryByUser(ctx, 30)
		assert.NoError(t, err)
		assert.NotNil(t, history)
		assert.Empty(t, history)
	})
}
