package progression

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
)

// Threshold is the experience needed to reach Level.
type Threshold struct {
	Level      int
	Experience int
}

// LevelTable is an ordered, strictly increasing list of thresholds starting at level 1.
type LevelTable struct {
	thresholds []Threshold
}

var DefaultTable = MustLevelTable([]Threshold{
	{Level: 1, Experience: 0},
	{Level: 2, Experience: 100},
	{Level: 3, Experience: 250},
	{Level: 4, Experience: 500},
	{Level: 5, Experience: 1000},
	{Level: 6, Experience: 1750},
	{Level: 7, Experience: 2750},
	{Level: 8, Experience: 4000},
	{Level: 9, Experience: 5500},
	{Level: 10, Experience: 7500},
})

// NewLevelTable validates thresholds. Levels must be consecutive from 1,
// level 1 must need zero experience and experience must strictly increase.
func NewLevelTable(thresholds []Threshold) (LevelTable, error) {
	if len(thresholds) == 0 {
		return LevelTable{}, errors.New("level table is empty")
	}
	if thresholds[0].Level != 1 || thresholds[0].Experience != 0 {
		return LevelTable{}, errors.New("level table must start at level 1 with 0 experience")
	}
	for i := 1; i < len(thresholds); i++ {
		prev, cur := thresholds[i-1], thresholds[i]
		if cur.Level != prev.Level+1 {
			return LevelTable{}, fmt.Errorf("level %d follows level %d", cur.Level, prev.Level)
		}
		if cur.Experience <= prev.Experience {
			return LevelTable{}, fmt.Errorf("threshold of level %d (%d) is not above level %d (%d)",
				cur.Level, cur.Experience, prev.Level, prev.Experience)
		}
	}
	t := make([]Threshold, len(thresholds))
	copy(t, thresholds)
	return LevelTable{thresholds: t}, nil
}

func MustLevelTable(thresholds []Threshold) LevelTable {
	t, err := NewLevelTable(thresholds)
	if err != nil {
		panic(err)
	}
	return t
}

// LevelFor applies thresholds in ascending order until one is not reached.
func (t LevelTable) LevelFor(experience int) int {
	level := 1
	for _, th := range t.thresholds {
		if experience < th.Experience {
			break
		}
		level = th.Level
	}
	return level
}

// MaxLevel is the highest level in the table.
func (t LevelTable) MaxLevel() int {
	if len(t.thresholds) == 0 {
		return 1
	}
	return t.thresholds[len(t.thresholds)-1].Level
}

type Progression struct {
	table LevelTable
}

func NewProgression(table LevelTable) *Progression {
	return &Progression{table: table}
}

// ApplyExperience adds delta to the user's experience and stores the
// recomputed level with it in a single write. users must be bound to the
// caller's transaction.
func (p *Progression) ApplyExperience(ctx context.Context, users domain.UserRepository, userID uint, delta int) (*domain.User, error) {
	requestID := middleware.GetRequestID(ctx)
	if delta <= 0 {
		return nil, domain.ErrInvalidExperience
	}

	user, err := users.GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Experience += delta
	user.Level = p.table.LevelFor(user.Experience)
	if err := users.UpdateProgress(ctx, user.ID, user.Experience, user.Level); err != nil {
		return nil, err
	}

	logger.DBLogger.Info("Experience applied",
		zap.String("request_id", requestID),
		zap.Uint("user_id", user.ID),
		zap.Int("delta", delta),
		zap.Int("experience", user.Experience),
		zap.Int("level", user.Level),
	)
	return user, nil
}
