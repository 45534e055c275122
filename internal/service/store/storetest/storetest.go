// Package storetest backs usecase tests with the gorm store over a migrated
// in-memory SQLite database, so every test goes through the real
// repositories and error translation.
package storetest

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/middleware"
	"cardgame_backend/internal/service/store"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"sync"
	"testing"
)

// Statement kinds a Fault can match.
const (
	Create = "create"
	Update = "update"
	Delete = "delete"
	Query  = "query"
)

// Fault fails statements of kind Op on Table with Err. The first Skip
// matching statements run normally.
type Fault struct {
	Op    string
	Table string
	Skip  int
	Err   error
}

type Store struct {
	domain.Store
	DB *gorm.DB

	mu     sync.Mutex
	faults []*Fault
}

func New(t testing.TB) *Store {
	t.Helper()

	db, err := middleware.OpenSQLite(":memory:")
	require.NoError(t, err)
	db.Logger = gormlogger.Discard

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(store.Models()...))

	s := &Store{Store: store.NewGormStore(db), DB: db}
	callbacks := db.Callback()
	require.NoError(t, callbacks.Create().Before("gorm:create").Register("storetest:fault", s.hook(Create)))
	require.NoError(t, callbacks.Update().Before("gorm:update").Register("storetest:fault", s.hook(Update)))
	require.NoError(t, callbacks.Delete().Before("gorm:delete").Register("storetest:fault", s.hook(Delete)))
	require.NoError(t, callbacks.Query().Before("gorm:query").Register("storetest:fault", s.hook(Query)))
	return s
}

// Inject arms f until Reset.
func (s *Store) Inject(f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, &f)
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = nil
}

func (s *Store) hook(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, f := range s.faults {
			if f.Op != op || f.Table != db.Statement.Table {
				continue
			}
			if f.Skip > 0 {
				f.Skip--
				continue
			}
			db.AddError(f.Err)
			return
		}
	}
}

// SeedUser inserts user and returns its id. Unset status and level take
// the column defaults: enabled, level 1.
func (s *Store) SeedUser(t testing.TB, user domain.User) uint {
	t.Helper()
	require.NoError(t, s.DB.Create(&user).Error)
	return user.ID
}

// SeedCards adds cards to the catalog and returns their ids.
func (s *Store) SeedCards(t testing.TB, cards ...domain.Card) []uint {
	t.Helper()
	if len(cards) == 0 {
		return nil
	}
	require.NoError(t, s.DB.Create(&cards).Error)
	ids := make([]uint, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

// CollectionDeckIDs lists the decks registered in the user's collection.
func (s *Store) CollectionDeckIDs(t testing.TB, userID uint) []uint {
	t.Helper()
	ids := make([]uint, 0)
	require.NoError(t, s.DB.Model(&domain.UserCollection{}).Where("user_id = ?", userID).Order("deck_id").Pluck("deck_id", &ids).Error)
	return ids
}
