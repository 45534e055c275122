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

func TestGetDeck(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDeckRepository(gormDB)
	ctx := context.Background()

	t.Run("Success - For Update", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "decks" WHERE "decks"."id" = \$1 ORDER BY "decks"."id" LIMIT \$2 FOR UPDATE`).
			WithArgs(3, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id"}).AddRow(3, "Attack", 1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "deck_cards" WHERE deck_id = $1`)).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"deck_id", "card_id"}).AddRow(3, 10).AddRow(3, 11))

		deck, err := repo.GetByIDForUpdate(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Attack", deck.Name)
		assert.Equal(t, []uint{10, 11}, deck.CardIDs())
		assert.True(t, deck.HasCard(11))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Fail - Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "decks"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.GetByID(ctx, 4)
		assert.ErrorIs(t, err, domain.ErrDeckNotFound)
	})
}

func TestCountByUser(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDeckRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "decks" WHERE user_id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByUser(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCreateDeck(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDeckRepository(gormDB)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "decks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "deck_cards" ("deck_id","card_id") VALUES ($1,$2),($3,$4)`)).
			WithArgs(9, 1, 9, 2).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		deck := &domain.Deck{Name: "MY DECK CARDS 1", UserID: 1}
		require.NoError(t, repo.Create(ctx, deck, []uint{1, 2}))
		assert.Equal(t, uint(9), deck.ID)
		assert.Equal(t, []uint{1, 2}, deck.CardIDs())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Fail - DB Error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "decks"`).
			WillReturnError(errors.New("database error"))
		mock.ExpectRollback()

		err := repo.Create(ctx, &domain.Deck{Name: "x", UserID: 1}, []uint{1})
		assert.Error(t, err)
		assert.Equal(t, "failed to create deck", err.Error())
	})
}

func TestDeckCards(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDeckRepository(gormDB)
	ctx := context.Background()

	t.Run("Add", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "deck_cards"`).
			WithArgs(3, 10).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.AddCard(ctx, 3, 10))
	})

	t.Run("Add - Duplicate", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "deck_cards"`).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.AddCard(ctx, 3, 10), domain.ErrDuplicateCard)
	})

	t.Run("Add - Unknown Card", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "deck_cards"`).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		mock.ExpectRollback()

		err := repo.AddCard(ctx, 3, 404)
		assert.ErrorIs(t, err, domain.ErrUnknownCard)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Remove", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "deck_cards" WHERE deck_id = $1 AND card_id = $2`)).
			WithArgs(3, 10).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.RemoveCard(ctx, 3, 10))
	})

	t.Run("Remove - Missing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "deck_cards"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		assert.ErrorIs(t, repo.RemoveCard(ctx, 3, 99), domain.ErrCardNotInDeck)
	})

	t.Run("Replace", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "deck_cards" WHERE deck_id = $1`)).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 5))
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "deck_cards"`).
			WithArgs(3, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.ReplaceCards(ctx, 3, []uint{7}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRenameAndDeleteDeck(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewDeckRepository(gormDB)
	ctx := context.Background()

	t.Run("Rename", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "decks" SET "name"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs("Defense", sqlmock.AnyArg(), 3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Rename(ctx, 3, "Defense"))
	})

	t.Run("Delete", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "deck_cards" WHERE deck_id = \$1`).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 30))
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "decks" WHERE "decks"."id" = $1`)).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(ctx, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Collection", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "user_collections"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "user_collections" WHERE deck_id = \$1`).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.AddToCollection(ctx, 1, 3))
		assert.NoError(t, repo.RemoveFromCollection(ctx, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCardRepository(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewCardRepository(gormDB)
	ctx := context.Background()

	t.Run("List IDs", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "cards" ORDER BY id`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3))

		ids, err := repo.ListIDs(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []uint{1, 2, 3}, ids)
	})

	t.Run("Find Existing", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "cards" WHERE id IN ($1,$2)`)).
			WithArgs(1, 99).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		found, err := repo.FindExistingIDs(ctx, []uint{1, 99})
		assert.NoError(t, err)
		assert.Equal(t, []uint{1}, found)
	})

	t.Run("Find Existing - Empty Input", func(t *testing.T) {
		found, err := repo.FindExistingIDs(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("Fail - DB Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT "id" FROM "cards"`).
			WillReturnError(errors.New("database error"))

		_, err := repo.ListIDs(ctx)
		assert.Error(t, err)
	})
}
