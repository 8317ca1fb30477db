// Package di provides dependency injection factories for creating application components.
package di

import (
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	seriesadapters "xauusd_backend/internal/feature/series/adapters"
	"xauusd_backend/internal/feature/series/usecase"
	"xauusd_backend/internal/platform/cache"
)

// NewSeriesRepository は系列の保存先を組み立てます。
// DBがなければ nil を返し、usecaseは毎回生成します。Redisがあればキャッシュでラップします。
func NewSeriesRepository(db *gorm.DB, rdb *redis.Client) usecase.SeriesRepository {
	if db == nil {
		return nil
	}
	return cache.NewCachingSeriesRepository(rdb, durationEnv("SERIES_CACHE_TTL", cache.DefaultTTL), seriesadapters.NewSeriesRepository(db), "series")
}

// durationEnv は key を time.ParseDuration で読み、不正または未設定なら def を返します。
func durationEnv(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return def
}
