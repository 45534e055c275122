package progression

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/store/storetest"
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"testing"
)

func TestNewLevelTable(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		table, err := NewLevelTable([]Threshold{{1, 0}, {2, 10}, {3, 30}})
		require.NoError(t, err)
		assert.Equal(t, 3, table.MaxLevel())
	})

	cases := map[string][]Threshold{
		"Empty":            nil,
		"Not From Level 1": {{2, 0}, {3, 10}},
		"Level 1 Not Zero": {{1, 5}, {2, 10}},
		"Gap In Levels":    {{1, 0}, {3, 10}},
		"Not Increasing":   {{1, 0}, {2, 10}, {3, 10}},
		"Decreasing":       {{1, 0}, {2, 10}, {3, 5}},
	}
	for name, thresholds := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLevelTable(thresholds)
			assert.Error(t, err)
		})
	}

	t.Run("Error Messages", func(t *testing.T) {
		_, err := NewLevelTable(nil)
		assert.EqualError(t, err, "level table is empty")
		_, err = NewLevelTable([]Threshold{{1, 5}})
		assert.EqualError(t, err, "level table must start at level 1 with 0 experience")
		_, err = NewLevelTable([]Threshold{{1, 0}, {3, 10}})
		assert.EqualError(t, err, "level 3 follows level 1")
	})

	t.Run("Must Panics", func(t *testing.T) {
		assert.Panics(t, func() { MustLevelTable(nil) })
	})
}

func TestLevelFor(t *testing.T) {
	table := MustLevelTable([]Threshold{{1, 0}, {2, 100}, {3, 250}})

	assert.Equal(t, 1, table.LevelFor(-5))
	assert.Equal(t, 1, table.LevelFor(0))
	assert.Equal(t, 1, table.LevelFor(99))
	assert.Equal(t, 2, table.LevelFor(100))
	assert.Equal(t, 2, table.LevelFor(249))
	assert.Equal(t, 3, table.LevelFor(250))
	assert.Equal(t, 3, table.LevelFor(1_000_000))
}

func TestDefaultTableIsMonotonic(t *testing.T) {
	prev := DefaultTable.LevelFor(0)
	assert.Equal(t, 1, prev)
	for xp := 1; xp <= 10000; xp += 7 {
		level := DefaultTable.LevelFor(xp)
		assert.GreaterOrEqual(t, level, prev)
		prev = level
	}
	assert.Equal(t, DefaultTable.MaxLevel(), prev)
}

func TestApplyExperience(t *testing.T) {
	logger.DBLogger = zap.NewNop()
	store := storetest.New(t)
	ctx := context.Background()
	progression := NewProgression(MustLevelTable([]Threshold{{1, 0}, {2, 100}, {3, 250}}))

	apply := func(userID uint, delta int) (*domain.User, error) {
		var user *domain.User
		err := store.Transaction(ctx, func(tx domain.Tx) error {
			var err error
			user, err = progression.ApplyExperience(ctx, tx.Users(), userID, delta)
			return err
		})
		return user, err
	}

	t.Run("Crosses Thresholds", func(t *testing.T) {
		userID := store.SeedUser(t, domain.User{Username: "alice", Experience: 90})

		user, err := apply(userID, 20)
		require.NoError(t, err)
		assert.Equal(t, 110, user.Experience)
		assert.Equal(t, 2, user.Level)

		user, err = apply(userID, 200)
		require.NoError(t, err)
		assert.Equal(t, 310, user.Experience)
		assert.Equal(t, 3, user.Level)
	})

	t.Run("Persisted", func(t *testing.T) {
		userID := store.SeedUser(t, domain.User{Username: "bob"})
		_, err := apply(userID, 250)
		require.NoError(t, err)

		_ = store.Transaction(ctx, func(tx domain.Tx) error {
			user, err := tx.Users().GetByID(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, 250, user.Experience)
			assert.Equal(t, 3, user.Level)
			return nil
		})
	})

	t.Run("Non Positive Delta", func(t *testing.T) {
		userID := store.SeedUser(t, domain.User{Username: "carol"})
		_, err := apply(userID, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = apply(userID, -10)
		assert.ErrorIs(t, err, domain.ErrInvalidExperience)
	})

	t.Run("Write Failure Leaves User Untouched", func(t *testing.T) {
		userID := store.SeedUser(t, domain.User{Username: "dave", Experience: 40})
		store.Inject(storetest.Fault{Op: storetest.Update, Table: "users", Err: errors.New("disk I/O error")})
		defer store.Reset()

		_, err := apply(userID, 100)
		assert.Error(t, err)

		var user domain.User
		require.NoError(t, store.DB.First(&user, userID).Error)
		assert.Equal(t, 40, user.Experience)
		assert.Equal(t, 1, user.Level)
	})

	t.Run("Unknown User", func(t *testing.T) {
		_, err := apply(999, 10)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
