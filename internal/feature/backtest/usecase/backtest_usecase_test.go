package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xauusd_backend/internal/feature/backtest/adapters/memory"
	"xauusd_backend/internal/feature/backtest/domain"
	"xauusd_backend/internal/feature/backtest/domain/engine"
	"xauusd_backend/internal/feature/backtest/domain/entity"
	"xauusd_backend/internal/feature/backtest/usecase"
	series "xauusd_backend/internal/feature/series/domain/entity"
	seriesusecase "xauusd_backend/internal/feature/series/usecase"
)

// ErrAPI はモックと期待値の間で共有されるセンチネルエラーです。
var ErrAPI = errors.New("api error")

// mockSeriesProvider はSeriesProviderインターフェースのモック実装です。
type mockSeriesProvider struct {
	GetSeriesFunc  func(ctx context.Context, timeframe string, count int, seed uint64) ([]series.Candle, error)
	GetSeriesCalls int
}

func (m *mockSeriesProvider) GetSeries(ctx context.Context, timeframe string, count int, seed uint64) ([]series.Candle, error) {
	m.GetSeriesCalls++
	if m.GetSeriesFunc != nil {
		return m.GetSeriesFunc(ctx, timeframe, count, seed)
	}
	return seriesusecase.GenerateSeries(count, series.TF15m, seed)
}

// mockNarrator はNarratorインターフェースのモック実装です。
type mockNarrator struct {
	SummarizeFunc  func(ctx context.Context, results entity.BacktestResults, params entity.StrategyParams) (string, error)
	SummarizeCalls atomic.Int32
}

func (m *mockNarrator) Summarize(ctx context.Context, results entity.BacktestResults, params entity.StrategyParams) (string, error) {
	m.SummarizeCalls.Add(1)
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, results, params)
	}
	return "", errors.New("SummarizeFunc is not implemented")
}

// mockLimiter はLimiterインターフェースのモック実装です。
type mockLimiter struct {
	WaitErr   error
	WaitCalls atomic.Int32
}

func (m *mockLimiter) Wait(ctx context.Context) error {
	m.WaitCalls.Add(1)
	return m.WaitErr
}

func newUsecase(t *testing.T, sp usecase.SeriesProvider, n usecase.Narrator, l *mockLimiter, timeout time.Duration) *usecase.BacktestUsecase {
	t.Helper()
	var uc *usecase.BacktestUsecase
	if l == nil {
		uc = usecase.NewBacktestUsecase(sp, n, memory.NewSummaryStore(16), nil, timeout)
	} else {
		uc = usecase.NewBacktestUsecase(sp, n, memory.NewSummaryStore(16), l, timeout)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		assert.NoError(t, uc.Close(ctx))
	})
	return uc
}

func defaultRequest() usecase.RunRequest {
	return usecase.RunRequest{Timeframe: "15m", Count: 400, Seed: 42, Params: entity.DefaultParams()}
}

// TestBacktestUsecase_RunBacktest はリプレイ範囲の適用とエラー処理を検証します。
func TestBacktestUsecase_RunBacktest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	full, err := seriesusecase.GenerateSeries(400, series.TF15m, 42)
	require.NoError(t, err)

	testCases := []struct {
		name          string
		mutate        func(r *usecase.RunRequest)
		mockGetSeries func(ctx context.Context, timeframe string, count int, seed uint64) ([]series.Candle, error)
		expected      func(t *testing.T) entity.BacktestResults
		expectedErr   error
		expectedCalls int
	}{
		{
			name: "success: full series",
			expected: func(t *testing.T) entity.BacktestResults {
				res, err := engine.Run(full, entity.DefaultParams())
				require.NoError(t, err)
				return res
			},
			expectedCalls: 1,
		},
		{
			name:   "success: visible window runs over the prefix",
			mutate: func(r *usecase.RunRequest) { r.Visible = 120 },
			expected: func(t *testing.T) entity.BacktestResults {
				res, err := engine.Run(full[:120], entity.DefaultParams())
				require.NoError(t, err)
				return res
			},
			expectedCalls: 1,
		},
		{
			name:   "success: visible larger than the series uses everything",
			mutate: func(r *usecase.RunRequest) { r.Visible = 10_000 },
			expected: func(t *testing.T) entity.BacktestResults {
				res, err := engine.Run(full, entity.DefaultParams())
				require.NoError(t, err)
				return res
			},
			expectedCalls: 1,
		},
		{
			name:   "success: visible shorter than the sma period is zeroed",
			mutate: func(r *usecase.RunRequest) { r.Visible = 10 },
			expected: func(t *testing.T) entity.BacktestResults {
				return entity.BacktestResults{
					FinalBalance: 10000,
					Trades:       []entity.Trade{},
					EquityCurve:  []entity.EquityPoint{},
				}
			},
			expectedCalls: 1,
		},
		{
			name:        "error: invalid params fail before loading the series",
			mutate:      func(r *usecase.RunRequest) { r.Params.RSIOversold = 90 },
			expectedErr: domain.ErrInvalidParams,
		},
		{
			name:        "error: negative visible",
			mutate:      func(r *usecase.RunRequest) { r.Visible = -1 },
			expectedErr: domain.ErrInvalidVisible,
		},
		{
			name: "error: series failure is propagated",
			mockGetSeries: func(ctx context.Context, timeframe string, count int, seed uint64) ([]series.Candle, error) {
				return nil, ErrAPI
			},
			expectedErr:   ErrAPI,
			expectedCalls: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sp := &mockSeriesProvider{GetSeriesFunc: tc.mockGetSeries}
			uc := newUsecase(t, sp, nil, nil, 0)

			req := defaultRequest()
			if tc.mutate != nil {
				tc.mutate(&req)
			}
			got, err := uc.RunBacktest(ctx, req)

			assert.Equal(t, tc.expectedCalls, sp.GetSeriesCalls)
			if tc.expectedErr != nil {
				assert.True(t, errors.Is(err, tc.expectedErr), "expected %v, got %v", tc.expectedErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected(t), got)
		})
	}
}

// waitForSummary はジョブがpending以外になるまで待機します。
func waitForSummary(t *testing.T, uc *usecase.BacktestUsecase, id string) entity.SummaryJob {
	t.Helper()
	var job entity.SummaryJob
	require.Eventually(t, func() bool {
		got, err := uc.GetSummary(context.Background(), id)
		if err != nil {
			return false
		}
		job = got
		return job.Status != entity.SummaryPending
	}, 2*time.Second, 5*time.Millisecond)
	return job
}

// TestBacktestUsecase_RequestSummary はナレーターの成功・失敗・空応答がジョブ状態に反映されることを検証します。
func TestBacktestUsecase_RequestSummary(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		narrator       *mockNarrator
		limiter        *mockLimiter
		timeout        time.Duration
		expectedStatus entity.SummaryStatus
		expectedText   string
		expectedCalls  int32
	}{
		{
			name: "success: narrator text is stored",
			narrator: &mockNarrator{SummarizeFunc: func(ctx context.Context, results entity.BacktestResults, params entity.StrategyParams) (string, error) {
				assert.Equal(t, entity.DefaultParams(), params)
				return "Solid risk control.", nil
			}},
			limiter:        &mockLimiter{},
			expectedStatus: entity.SummaryDone,
			expectedText:   "Solid risk control.",
			expectedCalls:  1,
		},
		{
			name: "failure: narrator error becomes the fallback text",
			narrator: &mockNarrator{SummarizeFunc: func(ctx context.Context, results entity.BacktestResults, params entity.StrategyParams) (string, error) {
				return "", ErrAPI
			}},
			expectedStatus: entity.SummaryFailed,
			expectedText:   usecase.FallbackFailed,
			expectedCalls:  1,
		},
		{
			name: "empty answer becomes the unable text",
			narrator: &mockNarrator{SummarizeFunc: func(ctx context.Context, results entity.BacktestResults, params entity.StrategyParams) (string, error) {
				return "", nil
			}},
			expectedStatus: entity.SummaryDone,
			expectedText:   usecase.FallbackEmpty,
			expectedCalls:  1,
		},
		{
			name: "failure: slow narrator hits the timeout",
			narrator: &mockNarrator{SummarizeFunc: func(ctx context.Context, results entity.BacktestResults, params entity.StrategyParams) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			}},
			timeout:        20 * time.Millisecond,
			expectedStatus: entity.SummaryFailed,
			expectedText:   usecase.FallbackFailed,
			expectedCalls:  1,
		},
		{
			name:           "failure: rate limiter refuses without calling the narrator",
			narrator:       &mockNarrator{},
			limiter:        &mockLimiter{WaitErr: context.DeadlineExceeded},
			expectedStatus: entity.SummaryFailed,
			expectedText:   usecase.FallbackFailed,
			expectedCalls:  0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			uc := newUsecase(t, &mockSeriesProvider{}, tc.narrator, tc.limiter, tc.timeout)

			id, err := uc.RequestSummary(context.Background(), defaultRequest())
			require.NoError(t, err)
			require.NotEmpty(t, id)

			job := waitForSummary(t, uc, id)
			assert.Equal(t, id, job.ID)
			assert.Equal(t, tc.expectedStatus, job.Status)
			assert.Equal(t, tc.expectedText, job.Text)
			assert.Equal(t, tc.expectedCalls, tc.narrator.SummarizeCalls.Load(), "narrator is never retried")
			if tc.limiter != nil {
				assert.Equal(t, int32(1), tc.limiter.WaitCalls.Load())
			}
		})
	}
}

func TestBacktestUsecase_RequestSummary_NoNarrator(t *testing.T) {
	t.Parallel()

	uc := newUsecase(t, &mockSeriesProvider{}, nil, nil, 0)

	id, err := uc.RequestSummary(context.Background(), defaultRequest())
	require.NoError(t, err)

	job := waitForSummary(t, uc, id)
	assert.Equal(t, entity.SummaryFailed, job.Status)
	assert.Equal(t, usecase.FallbackFailed, job.Text)
}

// TestBacktestUsecase_RequestSummary_DoesNotBlockBacktests は保留中のサマリーが次のバックテストを妨げないことを検証します。
func TestBacktestUsecase_RequestSummary_DoesNotBlockBacktests(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	narrator := &mockNarrator{SummarizeFunc: func(ctx context.Context, results entity.BacktestResults, params entity.StrategyParams) (string, error) {
		select {
		case <-release:
			return "late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}}
	uc := newUsecase(t, &mockSeriesProvider{}, narrator, nil, time.Minute)

	id, err := uc.RequestSummary(context.Background(), defaultRequest())
	require.NoError(t, err)

	before, err := uc.RunBacktest(context.Background(), defaultRequest())
	require.NoError(t, err)

	job, err := uc.GetSummary(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.SummaryPending, job.Status)
	assert.Empty(t, job.Text)

	close(release)
	job = waitForSummary(t, uc, id)
	assert.Equal(t, "late", job.Text)

	after, err := uc.RunBacktest(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBacktestUsecase_RequestSummary_InvalidParams(t *testing.T) {
	t.Parallel()

	narrator := &mockNarrator{}
	uc := newUsecase(t, &mockSeriesProvider{}, narrator, nil, 0)

	req := defaultRequest()
	req.Params.SMAPeriod = 0
	_, err := uc.RequestSummary(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrInvalidParams))
	assert.Equal(t, int32(0), narrator.SummarizeCalls.Load())
}

func TestBacktestUsecase_GetSummary_NotFound(t *testing.T) {
	t.Parallel()

	uc := newUsecase(t, &mockSeriesProvider{}, nil, nil, 0)

	_, err := uc.GetSummary(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrSummaryNotFound))
}

func TestBacktestUsecase_Close_CancelsInFlight(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	narrator := &mockNarrator{SummarizeFunc: func(ctx context.Context, results entity.BacktestResults, params entity.StrategyParams) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	}}
	uc := usecase.NewBacktestUsecase(&mockSeriesProvider{}, narrator, memory.NewSummaryStore(4), nil, time.Hour)

	id, err := uc.RequestSummary(context.Background(), defaultRequest())
	require.NoError(t, err)
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, uc.Close(ctx))

	job, err := uc.GetSummary(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.SummaryFailed, job.Status)
}
