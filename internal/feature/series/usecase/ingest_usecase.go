package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"xauusd_backend/internal/feature/series/domain/entity"
)

// IngestUsecase は系列を生成してデータベースに事前投入するユースケースを定義します。
type IngestUsecase struct {
	repo SeriesRepository
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(repo SeriesRepository) *IngestUsecase {
	return &IngestUsecase{repo: repo}
}

// ingestOne は1つの時間足の系列を生成し、一括で挿入（または更新）します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, tf entity.Timeframe, count int, seed uint64) error {
	cs, err := GenerateSeries(count, tf, seed)
	if err != nil {
		return err
	}
	return iu.repo.UpsertBatch(ctx, tf, seed, cs)
}

// IngestAll は指定された全時間足の系列を生成して永続化します。
// 1つの時間足で失敗しても処理は続け、失敗をまとめて返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, timeframes []entity.Timeframe, count int, seed uint64) error {
	if count <= 0 || count > MaxCount {
		return fmt.Errorf("ingest: count %d out of range (1..%d)", count, MaxCount)
	}

	var errs []error
	for _, tf := range timeframes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := iu.ingestOne(ctx, tf, count, seed); err != nil {
			slog.Error("failed to ingest series", "timeframe", tf, "seed", seed, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", tf, err))
			continue
		}
		slog.Info("series ingested", "timeframe", tf, "seed", seed, "count", count)
	}
	return errors.Join(errs...)
}
