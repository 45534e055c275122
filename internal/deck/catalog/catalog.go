// Package catalog answers which card ids exist. The id set is cached in a
// redis set and falls back to the card table when the cache is cold or down.
package catalog

import (
	"cardgame_backend/domain"
	"cardgame_backend/internal/service/logger"
	"cardgame_backend/internal/service/middleware"
	"context"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"strconv"
	"time"
)

const (
	CardIDsKey = "catalog:card_ids"
	DefaultTTL = 10 * time.Minute
)

// Cache is the part of *redis.Client the catalog uses.
type Cache interface {
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

type Catalog struct {
	store domain.Store
	cache Cache
	ttl   time.Duration
}

// NewCatalog builds a catalog over store. cache may be nil, in which case
// every lookup reads the card table.
func NewCatalog(store domain.Store, cache Cache, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Catalog{store: store, cache: cache, ttl: ttl}
}

// CardIDs returns every card id in the catalog.
func (c *Catalog) CardIDs(ctx context.Context) ([]uint, error) {
	requestID := middleware.GetRequestID(ctx)

	if c.cache != nil {
		ids, err := c.cached(ctx)
		if err != nil {
			logger.AccessLogger.Warn("Catalog cache read failed", zap.String("request_id", requestID), zap.Error(err))
		} else if len(ids) > 0 {
			return ids, nil
		}
	}

	ids, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, ids)
	return ids, nil
}

// Refresh rebuilds the cached id set from the card table. The old set is
// dropped and the new one written in a single MULTI, so readers see either.
func (c *Catalog) Refresh(ctx context.Context) error {
	ids, err := c.load(ctx)
	if err != nil {
		return err
	}
	if c.cache == nil {
		return nil
	}
	if err := c.write(ctx, ids, true); err != nil {
		return err
	}
	logger.AccessLogger.Info("Catalog cache refreshed", zap.Int("cards", len(ids)))
	return nil
}

// MissingIDs returns the ids that are not in the catalog, in input order.
// A cached id is known to exist; any other id is looked up in the card
// table, since the cache can lag behind it in both directions.
func (c *Catalog) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	unresolved := ids
	if c.cache != nil {
		cached, err := c.CardIDs(ctx)
		if err != nil {
			return nil, err
		}
		if unresolved = subtract(ids, cached); len(unresolved) == 0 {
			return nil, nil
		}
	}

	var known []uint
	err := c.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		known, err = tx.Cards().FindExistingIDs(ctx, unresolved)
		return err
	})
	if err != nil {
		return nil, err
	}
	return subtract(unresolved, known), nil
}

// subtract keeps the ids absent from known, preserving their order.
func subtract(ids []uint, known []uint) []uint {
	exists := make(map[uint]struct{}, len(known))
	for _, id := range known {
		exists[id] = struct{}{}
	}
	var rest []uint
	for _, id := range ids {
		if _, ok := exists[id]; !ok {
			rest = append(rest, id)
		}
	}
	return rest
}

func (c *Catalog) load(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := c.store.Transaction(ctx, func(tx domain.Tx) error {
		var err error
		ids, err = tx.Cards().ListIDs(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Catalog) cached(ctx context.Context) ([]uint, error) {
	members, err := c.cache.SMembers(ctx, CardIDsKey).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func (c *Catalog) fill(ctx context.Context, ids []uint) {
	if c.cache == nil || len(ids) == 0 {
		return
	}
	if err := c.write(ctx, ids, false); err != nil {
		logger.AccessLogger.Warn("Catalog cache write failed", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Error(err))
	}
}

// write adds ids to the cached set and renews its TTL in one MULTI. With
// replace the previous members are dropped first.
func (c *Catalog) write(ctx context.Context, ids []uint, replace bool) error {
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	_, err := c.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if replace {
			pipe.Del(ctx, CardIDsKey)
		}
		if len(members) > 0 {
			pipe.SAdd(ctx, CardIDsKey, members...)
			pipe.Expire(ctx, CardIDsKey, c.ttl)
		}
		return nil
	})
	return err
}
