// Package usecase は合成XAUUSD系列の生成と取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"xauusd_backend/internal/feature/series/domain"
	"xauusd_backend/internal/feature/series/domain/entity"
)

const (
	// DefaultTimeframe は時間足が未指定の場合に使われる時間足です。
	DefaultTimeframe = entity.TF15m
	// DefaultCount は本数が未指定の場合の生成本数です。
	DefaultCount = 1500
	// MaxCount は1回に生成できる最大本数です。
	MaxCount = 5000
)

// SeriesRepository は生成済み系列の保存レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SeriesRepository interface {
	// Find は (timeframe, seed) の系列を先頭から最大 count 本返します。
	Find(ctx context.Context, tf entity.Timeframe, seed uint64, count int) ([]entity.Candle, error)
	// UpsertBatch は (timeframe, seed) の系列を一括で挿入または更新します。
	UpsertBatch(ctx context.Context, tf entity.Timeframe, seed uint64, candles []entity.Candle) error
}

// seriesUsecase は系列取得のユースケースを定義します。
type seriesUsecase struct {
	repo SeriesRepository
}

// NewSeriesUsecase はseriesUsecaseの新しいインスタンスを生成します。
// repo が nil の場合は保存せずに毎回生成します。
func NewSeriesUsecase(repo SeriesRepository) *seriesUsecase {
	return &seriesUsecase{repo: repo}
}

// GetSeries は指定された時間足・本数・シードの系列を返します。
// 保存済みの系列が足りない場合は生成して保存します。
// 同じシードの短い系列は長い系列の先頭と一致するため、保存は (timeframe, seed, 時刻) 単位で行います。
func (su *seriesUsecase) GetSeries(ctx context.Context, timeframe string, count int, seed uint64) ([]entity.Candle, error) {
	tf, n, err := resolve(timeframe, count)
	if err != nil {
		return nil, err
	}

	if su.repo != nil {
		stored, err := su.repo.Find(ctx, tf, seed, n)
		if err != nil {
			slog.Warn("failed to load stored series", "timeframe", tf, "seed", seed, "error", err)
		} else if len(stored) >= n {
			return stored[:n], nil
		}
	}

	cs, err := GenerateSeries(n, tf, seed)
	if err != nil {
		return nil, err
	}

	if su.repo != nil {
		// 保存に失敗しても生成結果は返す
		if err := su.repo.UpsertBatch(ctx, tf, seed, cs); err != nil {
			slog.Warn("failed to store generated series", "timeframe", tf, "seed", seed, "count", n, "error", err)
		}
	}
	return cs, nil
}

// resolve は時間足と本数のデフォルト適用と検証を行います。
func resolve(timeframe string, count int) (entity.Timeframe, int, error) {
	tf := DefaultTimeframe
	if timeframe != "" {
		parsed, ok := entity.ParseTimeframe(timeframe)
		if !ok {
			return "", 0, fmt.Errorf("%w: %q", domain.ErrUnknownTimeframe, timeframe)
		}
		tf = parsed
	}
	if count == 0 {
		count = DefaultCount
	}
	if count < 0 || count > MaxCount {
		return "", 0, fmt.Errorf("%w: %d (max %d)", domain.ErrInvalidCount, count, MaxCount)
	}
	return tf, count, nil
}
