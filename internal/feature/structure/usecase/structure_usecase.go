// Package usecase はピボットと需給ゾーンの検出ロジックを公開します。
package usecase

import (
	"context"
	"fmt"

	series "xauusd_backend/internal/feature/series/domain/entity"
	"xauusd_backend/internal/feature/structure/domain"
	"xauusd_backend/internal/feature/structure/domain/detector"
	"xauusd_backend/internal/feature/structure/domain/entity"
)

// SeriesProvider は検出対象のローソク足を提供します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SeriesProvider interface {
	GetSeries(ctx context.Context, timeframe string, count int, seed uint64) ([]series.Candle, error)
}

// structureUsecase は相場構造検出のユースケースを定義します。
type structureUsecase struct {
	series SeriesProvider
}

// NewStructureUsecase はstructureUsecaseの新しいインスタンスを生成します。
func NewStructureUsecase(sp SeriesProvider) *structureUsecase {
	return &structureUsecase{series: sp}
}

// GetStructure は系列の先頭 visible 本（0なら全体）からピボットと需給ゾーンを検出します。
func (su *structureUsecase) GetStructure(ctx context.Context, timeframe string, count int, seed uint64, visible int) (entity.Structure, error) {
	if visible < 0 {
		return entity.Structure{}, fmt.Errorf("%w: %d", domain.ErrInvalidVisible, visible)
	}

	candles, err := su.series.GetSeries(ctx, timeframe, count, seed)
	if err != nil {
		return entity.Structure{}, err
	}
	if visible > 0 && visible < len(candles) {
		candles = candles[:visible]
	}

	out := entity.Structure{Zones: detector.DetectZones(candles)}
	if p, ok := detector.PivotPoints(candles); ok {
		out.Pivots = &p
	}
	return out, nil
}
