package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"xauusd_backend/internal/feature/series/domain/entity"
	"xauusd_backend/internal/feature/series/usecase"
)

// upsertBatchSize keeps a single INSERT under the placeholder limits of sqlite and postgres.
const upsertBatchSize = 500

type seriesGorm struct {
	db *gorm.DB
}

var _ usecase.SeriesRepository = (*seriesGorm)(nil)

func NewSeriesRepository(db *gorm.DB) *seriesGorm {
	return &seriesGorm{db: db}
}

// SeriesCandleModel is one stored bar of a generated series.
// The seed is stored as int64; the bit pattern round-trips to uint64.
type SeriesCandleModel struct {
	ID        uint   `gorm:"primaryKey"`
	Timeframe string `gorm:"size:8;not null;uniqueIndex:series_tf_seed_time,priority:1"`
	Seed      int64  `gorm:"not null;uniqueIndex:series_tf_seed_time,priority:2"`
	Time      int64  `gorm:"column:open_time;not null;uniqueIndex:series_tf_seed_time,priority:3"`

	Open   float64 `gorm:"not null"`
	High   float64 `gorm:"not null"`
	Low    float64 `gorm:"not null"`
	Close  float64 `gorm:"not null"`
	Volume float64 `gorm:"not null;default:0"`
}

func (SeriesCandleModel) TableName() string {
	return "series_candles"
}

func toModel(tf entity.Timeframe, seed uint64, e entity.Candle) SeriesCandleModel {
	return SeriesCandleModel{
		Timeframe: tf.String(),
		Seed:      int64(seed),
		Time:      e.Time,
		Open:      e.Open,
		High:      e.High,
		Low:       e.Low,
		Close:     e.Close,
		Volume:    e.Volume,
	}
}

func (r *seriesGorm) UpsertBatch(ctx context.Context, tf entity.Timeframe, seed uint64, candles []entity.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	ms := make([]SeriesCandleModel, 0, len(candles))
	for _, e := range candles {
		ms = append(ms, toModel(tf, seed, e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "timeframe"}, {Name: "seed"}, {Name: "open_time"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).CreateInBatches(&ms, upsertBatchSize).Error
}

// Find returns the first count bars of the stored series, oldest first.
func (r *seriesGorm) Find(ctx context.Context, tf entity.Timeframe, seed uint64, count int) ([]entity.Candle, error) {
	var rows []SeriesCandleModel
	q := r.db.WithContext(ctx).
		Where("timeframe = ? AND seed = ?", tf.String(), int64(seed)).
		Order("open_time ASC")
	if count > 0 {
		q = q.Limit(count)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Candle, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.Candle{
			Time:   m.Time,
			Open:   m.Open,
			High:   m.High,
			Low:    m.Low,
			Close:  m.Close,
			Volume: m.Volume,
		})
	}
	return out, nil
}
