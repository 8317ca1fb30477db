package di

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"xauusd_backend/internal/feature/backtest/adapters/gemini"
	"xauusd_backend/internal/feature/backtest/adapters/memory"
	"xauusd_backend/internal/feature/backtest/adapters/redisstore"
	"xauusd_backend/internal/feature/backtest/usecase"
	infrahttp "xauusd_backend/internal/platform/http"
	"xauusd_backend/internal/shared/ratelimiter"
)

const defaultSummaryRatePerMinute = 10

// NewNarrator はGeminiナレーターを生成します。
// クライアントを作れない場合は nil を返し、サマリーは失敗時の文言になります。
func NewNarrator(ctx context.Context) usecase.Narrator {
	cfg := gemini.LoadConfig()
	n, err := gemini.NewGeminiNarrator(ctx, cfg, infrahttp.NewHTTPClient(cfg.Timeout))
	if err != nil {
		slog.Warn("narrator unavailable, summaries will use the fallback text", "error", err)
		return nil
	}
	slog.Info("narrator configured", "model", cfg.Model)
	return n
}

// NewSummaryStore はサマリージョブの保存先を生成します。
// Redisが利用可能ならRedis、なければプロセス内メモリを使用します。
func NewSummaryStore(rdb *redis.Client) usecase.SummaryStore {
	if rdb != nil {
		return redisstore.NewSummaryRedis(rdb, "summary", redisstore.DefaultTTL)
	}
	return memory.NewSummaryStore(memory.DefaultCapacity)
}

// NewSummaryLimiter は SUMMARY_RATE_PER_MINUTE（0で無制限）からナレーター呼び出しの制限を作ります。
func NewSummaryLimiter() *ratelimiter.RateLimiter {
	perMinute := defaultSummaryRatePerMinute
	if v, err := strconv.Atoi(os.Getenv("SUMMARY_RATE_PER_MINUTE")); err == nil && v >= 0 {
		perMinute = v
	}
	return ratelimiter.NewRateLimiter(perMinute, time.Minute)
}

// SummaryTimeout は SUMMARY_TIMEOUT を読みます。
func SummaryTimeout() time.Duration {
	return durationEnv("SUMMARY_TIMEOUT", usecase.DefaultSummaryTimeout)
}
