package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"xauusd_backend/internal/app/di"
	"xauusd_backend/internal/app/router"
	backtesthandler "xauusd_backend/internal/feature/backtest/transport/handler"
	backtestusecase "xauusd_backend/internal/feature/backtest/usecase"
	serieshandler "xauusd_backend/internal/feature/series/transport/handler"
	seriesusecase "xauusd_backend/internal/feature/series/usecase"
	structurehandler "xauusd_backend/internal/feature/structure/transport/handler"
	structureusecase "xauusd_backend/internal/feature/structure/usecase"
	infradb "xauusd_backend/internal/platform/db"
	healthhandler "xauusd_backend/internal/platform/http/handler"
	jwtmw "xauusd_backend/internal/platform/jwt"
	"xauusd_backend/internal/platform/logging"
	infraredis "xauusd_backend/internal/platform/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// .env はローカル開発用。なくてもよい
	_ = godotenv.Load()
	logging.Setup(os.Stdout, os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db（失敗時は保存せずに毎回生成）
	dbCfg := infradb.LoadConfigFromEnv()
	if dbCfg.Driver == infradb.DriverSQLite {
		// ローカルのsqliteは常にスキーマを作成する
		dbCfg.RunMigrations = true
	}
	var db *gorm.DB
	if d, err := infradb.OpenDB(dbCfg); err != nil {
		slog.Warn("DB unavailable. Series will not be stored.", "error", err)
	} else {
		db = d
	}

	// Redis
	var rdb *redisv9.Client
	if c, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = c
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}()
	}

	// Usecase
	seriesUC := seriesusecase.NewSeriesUsecase(di.NewSeriesRepository(db, rdb))
	structureUC := structureusecase.NewStructureUsecase(seriesUC)
	backtestUC := backtestusecase.NewBacktestUsecase(
		seriesUC,
		di.NewNarrator(ctx),
		di.NewSummaryStore(rdb),
		di.NewSummaryLimiter(),
		di.SummaryTimeout(),
	)

	// Handler
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		slog.Warn("JWT_SECRET is not set. /v1 is served without authentication.")
	}
	r := router.NewRouter(router.Handlers{
		Health:    healthhandler.NewHealthHandler(probes(db, rdb)...),
		Series:    serieshandler.NewSeriesHandler(seriesUC),
		Backtest:  backtesthandler.NewBacktestHandler(backtestUC),
		Structure: structurehandler.NewStructureHandler(structureUC),
	}, secret)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		slog.Error("HTTP server failed", "error", err)
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	if err := backtestUC.Close(shutdownCtx); err != nil {
		slog.Error("summary workers did not stop", "error", err)
	}
	slog.Info("Server stopped")
}

// probes は /healthz で確認する依存先を返します。未接続のものは disabled になります。
func probes(db *gorm.DB, rdb *redisv9.Client) []healthhandler.Probe {
	dbProbe := healthhandler.Probe{Name: "db"}
	if db != nil {
		dbProbe.Ping = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	redisProbe := healthhandler.Probe{Name: "redis"}
	if rdb != nil {
		redisProbe.Ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return []healthhandler.Probe{dbProbe, redisProbe}
}
