package adapters

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"xauusd_backend/internal/feature/series/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&SeriesCandleModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// bars builds n consecutive 15m bars starting at t0.
func bars(t0 int64, n int, open float64) []entity.Candle {
	out := make([]entity.Candle, 0, n)
	for i := 0; i < n; i++ {
		o := open + float64(i)
		out = append(out, entity.Candle{
			Time: t0 + int64(i)*900, Open: o, High: o + 2, Low: o - 1, Close: o + 1, Volume: 100,
		})
	}
	return out
}

func TestNewSeriesRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewSeriesRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestSeriesGorm_UpsertBatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T, repo *seriesGorm)
		candles   []entity.Candle
		wantRows  int64
		wantOpen  float64
	}{
		{
			name:     "success: insert bars",
			candles:  bars(1_704_067_200, 3, 2100),
			wantRows: 3,
			wantOpen: 2100,
		},
		{
			name:     "success: empty slice",
			candles:  []entity.Candle{},
			wantRows: 0,
		},
		{
			name: "success: upsert updates existing bars",
			setupFunc: func(t *testing.T, repo *seriesGorm) {
				require.NoError(t, repo.UpsertBatch(context.Background(), entity.TF15m, 42, bars(1_704_067_200, 2, 2000)))
			},
			candles:  bars(1_704_067_200, 3, 2100),
			wantRows: 3,
			wantOpen: 2100,
		},
		{
			name:     "success: batches larger than one insert",
			candles:  bars(1_704_067_200, upsertBatchSize+10, 2100),
			wantRows: upsertBatchSize + 10,
			wantOpen: 2100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			repo := NewSeriesRepository(db)
			if tt.setupFunc != nil {
				tt.setupFunc(t, repo)
			}

			err := repo.UpsertBatch(context.Background(), entity.TF15m, 42, tt.candles)
			require.NoError(t, err)

			var count int64
			db.Model(&SeriesCandleModel{}).Count(&count)
			assert.Equal(t, tt.wantRows, count, "row count does not match")

			if tt.wantRows > 0 {
				var first SeriesCandleModel
				require.NoError(t, db.Order("open_time ASC").First(&first).Error)
				assert.Equal(t, tt.wantOpen, first.Open)
			}
		})
	}
}

func TestSeriesGorm_Find(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewSeriesRepository(db)

	require.NoError(t, repo.UpsertBatch(ctx, entity.TF15m, 42, bars(1_704_067_200, 5, 2100)))
	require.NoError(t, repo.UpsertBatch(ctx, entity.TF1h, 42, bars(1_704_067_200, 4, 1900)))
	require.NoError(t, repo.UpsertBatch(ctx, entity.TF15m, 7, bars(1_704_067_200, 2, 1800)))

	t.Run("returns the prefix in time order", func(t *testing.T) {
		got, err := repo.Find(ctx, entity.TF15m, 42, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, int64(1_704_067_200), got[0].Time)
		assert.Equal(t, 2100.0, got[0].Open)
		assert.Less(t, got[1].Time, got[2].Time)
	})

	t.Run("returns fewer rows when the stored series is shorter", func(t *testing.T) {
		got, err := repo.Find(ctx, entity.TF15m, 7, 10)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("filters by timeframe", func(t *testing.T) {
		got, err := repo.Find(ctx, entity.TF1h, 42, 10)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, 1900.0, got[0].Open)
	})

	t.Run("unknown series is empty", func(t *testing.T) {
		got, err := repo.Find(ctx, entity.TF4h, 42, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSeriesGorm_LargeSeedRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeriesRepository(setupTestDB(t))
	seed := uint64(math.MaxUint64 - 3)

	require.NoError(t, repo.UpsertBatch(ctx, entity.TF5m, seed, bars(1_704_067_200, 2, 2100)))

	got, err := repo.Find(ctx, entity.TF5m, seed, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
