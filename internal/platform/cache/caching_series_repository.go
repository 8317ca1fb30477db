// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"xauusd_backend/internal/feature/series/domain/entity"
	"xauusd_backend/internal/feature/series/usecase"
)

// DefaultTTL is used when the caller passes a non-positive ttl.
const DefaultTTL = 30 * time.Minute

// CachingSeriesRepository decorates a SeriesRepository with Redis caching.
// Entries are keyed by (timeframe, seed, count) and dropped whenever the
// same (timeframe, seed) series is upserted.
type CachingSeriesRepository struct {
	inner     usecase.SeriesRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SeriesRepository = (*CachingSeriesRepository)(nil)

// NewCachingSeriesRepository decorates a SeriesRepository with Redis caching.
// If ttl is 0, it defaults to DefaultTTL. If namespace is empty, it uses "series".
// A nil rdb disables caching.
func NewCachingSeriesRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SeriesRepository, namespace string) *CachingSeriesRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "series"
	}
	return &CachingSeriesRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertBatch stores the series and invalidates every cached length of it.
func (c *CachingSeriesRepository) UpsertBatch(ctx context.Context, tf entity.Timeframe, seed uint64, candles []entity.Candle) error {
	if err := c.inner.UpsertBatch(ctx, tf, seed, candles); err != nil {
		return err
	}
	if c.rdb == nil || len(candles) == 0 {
		return nil
	}

	if err := c.deleteByPattern(ctx, c.cacheKeyPrefix(tf, seed)+"*"); err != nil {
		slog.Warn("series cache invalidation failed", "timeframe", tf, "seed", seed, "error", err)
	}
	return nil
}

// Find checks the cache first, then falls back to the inner repository.
// Only complete results (exactly count candles) are cached.
func (c *CachingSeriesRepository) Find(ctx context.Context, tf entity.Timeframe, seed uint64, count int) ([]entity.Candle, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, tf, seed, count)
	}

	key := c.cacheKey(tf, seed, count)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Candle
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// 破損したエントリは削除
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.Find(ctx, tf, seed, count)
	if err != nil {
		return nil, err
	}

	if len(out) == count {
		if b, err := json.Marshal(out); err == nil {
			_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
		}
	}
	return out, nil
}

func (c *CachingSeriesRepository) cacheKey(tf entity.Timeframe, seed uint64, count int) string {
	return fmt.Sprintf("%s%d", c.cacheKeyPrefix(tf, seed), count)
}

func (c *CachingSeriesRepository) cacheKeyPrefix(tf entity.Timeframe, seed uint64) string {
	return fmt.Sprintf("%s:%s:%d:", c.namespace, tf, seed)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSeriesRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
