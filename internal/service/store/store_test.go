package store

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/logger"
	"context"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"testing"
)

func TestGormStoreTransaction(t *testing.T) {
	logger.DBLogger = zap.NewNop()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	store := NewGormStore(gormDB)
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1 ORDER BY "users"."id" LIMIT \$2 FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "experience", "level"}).AddRow(1, 0, 1))
		mock.ExpectExec(`UPDATE "users" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.Transaction(ctx, func(tx domain.Tx) error {
			user, err := tx.Users().GetByIDForUpdate(ctx, 1)
			if err != nil {
				return err
			}
			return tx.Users().UpdateProgress(ctx, user.ID, 100, 2)
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "rooms"`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectRollback()

		err := store.Transaction(ctx, func(tx domain.Tx) error {
			_, err := tx.Rooms().GetByIDForUpdate(ctx, 5)
			return err
		})
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
