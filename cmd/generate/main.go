// Command generate は合成XAUUSD系列を生成してデータベースに投入します。
//
//	go run ./cmd/generate -timeframes 15m,1h -count 5000 -seed 42
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"xauusd_backend/internal/app/di"
	"xauusd_backend/internal/feature/series/domain/entity"
	"xauusd_backend/internal/feature/series/usecase"
	infradb "xauusd_backend/internal/platform/db"
	"xauusd_backend/internal/platform/logging"
	infraredis "xauusd_backend/internal/platform/redis"
)

func main() {
	_ = godotenv.Load()
	logging.Setup(os.Stderr, os.Getenv("LOG_LEVEL"))

	var (
		tfList string
		count  int
		seed   uint64
	)
	flag.StringVar(&tfList, "timeframes", "", "comma-separated timeframes (default: all)")
	flag.IntVar(&count, "count", usecase.DefaultCount, "candles per timeframe")
	flag.Uint64Var(&seed, "seed", 0, "series seed")
	flag.Parse()

	timeframes, ok := parseTimeframes(tfList)
	if !ok {
		slog.Error("unknown timeframe", "timeframes", tfList)
		os.Exit(2)
	}

	cfg := infradb.LoadConfigFromEnv()
	cfg.RunMigrations = true
	db, err := infradb.OpenDB(cfg)
	if err != nil {
		slog.Error("failed to open DB", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// 投入後に古いキャッシュを消すため、Redisがあればキャッシュ付きリポジトリを使う
	var rdb *redisv9.Client
	if c, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig()); err == nil {
		rdb = c
		defer func() { _ = rdb.Close() }()
	}

	uc := usecase.NewIngestUsecase(di.NewSeriesRepository(db, rdb))
	if err := uc.IngestAll(ctx, timeframes, count, seed); err != nil {
		slog.Error("generate failed", "error", err)
		os.Exit(1)
	}
	slog.Info("generate ok", "timeframes", len(timeframes), "count", count, "seed", seed)
}

func parseTimeframes(s string) ([]entity.Timeframe, bool) {
	if strings.TrimSpace(s) == "" {
		return entity.Timeframes(), true
	}
	var out []entity.Timeframe
	for _, part := range strings.Split(s, ",") {
		tf, ok := entity.ParseTimeframe(strings.TrimSpace(part))
		if !ok {
			return nil, false
		}
		out = append(out, tf)
	}
	return out, true
}
