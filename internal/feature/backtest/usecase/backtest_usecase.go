// Package usecase はバックテスト実行とAIサマリー生成のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"xauusd_backend/internal/feature/backtest/domain"
	"xauusd_backend/internal/feature/backtest/domain/engine"
	"xauusd_backend/internal/feature/backtest/domain/entity"
	series "xauusd_backend/internal/feature/series/domain/entity"
	"xauusd_backend/internal/shared/ratelimiter"
)

const (
	// FallbackFailed はナレーターの呼び出しに失敗した場合に返す文言です。
	FallbackFailed = "Failed to connect to AI analysis engine."
	// FallbackEmpty はナレーターが空の応答を返した場合の文言です。
	FallbackEmpty = "Unable to generate analysis at this time."

	// DefaultSummaryTimeout はサマリー1件あたりの最大待ち時間です。
	DefaultSummaryTimeout = 30 * time.Second
)

// SeriesProvider はバックテスト対象のローソク足を提供します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SeriesProvider interface {
	GetSeries(ctx context.Context, timeframe string, count int, seed uint64) ([]series.Candle, error)
}

// Narrator はバックテスト結果の文章による解説を生成します。
// 実装は遅く、失敗し得るものとして扱います。
type Narrator interface {
	Summarize(ctx context.Context, results entity.BacktestResults, params entity.StrategyParams) (string, error)
}

// SummaryStore はサマリージョブの保存先を抽象化します。
type SummaryStore interface {
	Save(ctx context.Context, job entity.SummaryJob) error
	Get(ctx context.Context, id string) (entity.SummaryJob, bool, error)
}

// RunRequest はバックテスト1回分の入力です。
// Visible が0より大きい場合は先頭 Visible 本だけを対象にします（リプレイ表示）。
type RunRequest struct {
	Timeframe string
	Count     int
	Seed      uint64
	Visible   int
	Params    entity.StrategyParams
}

// BacktestUsecase はバックテストとサマリー生成のユースケースを定義します。
type BacktestUsecase struct {
	series   SeriesProvider
	narrator Narrator
	store    SummaryStore
	limiter  ratelimiter.Limiter
	timeout  time.Duration

	// サマリー用goroutineの親コンテキスト。Closeでキャンセルされます。
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	now    func() time.Time
}

// NewBacktestUsecase は新しい BacktestUsecase を作成します。
// limiter が nil の場合は呼び出し頻度を制限しません。
func NewBacktestUsecase(sp SeriesProvider, narrator Narrator, store SummaryStore, limiter ratelimiter.Limiter, timeout time.Duration) *BacktestUsecase {
	if timeout <= 0 {
		timeout = DefaultSummaryTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BacktestUsecase{
		series:   sp,
		narrator: narrator,
		store:    store,
		limiter:  limiter,
		timeout:  timeout,
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}
}

// RunBacktest は系列を取得し、リプレイ範囲に対してバックテストを実行します。
func (bu *BacktestUsecase) RunBacktest(ctx context.Context, req RunRequest) (entity.BacktestResults, error) {
	if err := req.Params.Validate(); err != nil {
		return entity.BacktestResults{}, err
	}
	if req.Visible < 0 {
		return entity.BacktestResults{}, fmt.Errorf("%w: %d", domain.ErrInvalidVisible, req.Visible)
	}

	candles, err := bu.series.GetSeries(ctx, req.Timeframe, req.Count, req.Seed)
	if err != nil {
		return entity.BacktestResults{}, err
	}
	if req.Visible > 0 && req.Visible < len(candles) {
		candles = candles[:req.Visible]
	}

	return engine.Run(candles, req.Params)
}

// RequestSummary はバックテストを再計算し、サマリー生成ジョブを非同期で開始します。
// 返り値のIDで GetSummary から結果を取得できます。
func (bu *BacktestUsecase) RequestSummary(ctx context.Context, req RunRequest) (string, error) {
	results, err := bu.RunBacktest(ctx, req)
	if err != nil {
		return "", err
	}

	now := bu.now()
	job := entity.SummaryJob{
		ID:        uuid.NewString(),
		Status:    entity.SummaryPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := bu.store.Save(ctx, job); err != nil {
		return "", fmt.Errorf("save summary job: %w", err)
	}

	bu.wg.Add(1)
	go func() {
		defer bu.wg.Done()
		bu.summarize(job, results, req.Params)
	}()

	return job.ID, nil
}

// summarize はナレーターを1回だけ呼び出し、結果をジョブに反映します。再試行はしません。
func (bu *BacktestUsecase) summarize(job entity.SummaryJob, results entity.BacktestResults, params entity.StrategyParams) {
	ctx, cancel := context.WithTimeout(bu.ctx, bu.timeout)
	defer cancel()

	text, err := bu.callNarrator(ctx, results, params)
	switch {
	case err != nil:
		slog.Warn("narrative summary failed", "id", job.ID, "error", err)
		job.Status = entity.SummaryFailed
		job.Text = FallbackFailed
	case text == "":
		job.Status = entity.SummaryDone
		job.Text = FallbackEmpty
	default:
		job.Status = entity.SummaryDone
		job.Text = text
	}
	job.UpdatedAt = bu.now()

	// リクエストが終わっていても保存できるよう、独立したコンテキストを使う
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer saveCancel()
	if err := bu.store.Save(saveCtx, job); err != nil {
		slog.Error("failed to store summary", "id", job.ID, "error", err)
	}
}

func (bu *BacktestUsecase) callNarrator(ctx context.Context, results entity.BacktestResults, params entity.StrategyParams) (string, error) {
	if bu.narrator == nil {
		return "", domain.ErrNarratorUnavailable
	}
	if bu.limiter != nil {
		if err := bu.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}
	return bu.narrator.Summarize(ctx, results, params)
}

// GetSummary はサマリージョブの現在の状態を返します。
func (bu *BacktestUsecase) GetSummary(ctx context.Context, id string) (entity.SummaryJob, error) {
	job, ok, err := bu.store.Get(ctx, id)
	if err != nil {
		return entity.SummaryJob{}, err
	}
	if !ok {
		return entity.SummaryJob{}, fmt.Errorf("%w: %s", domain.ErrSummaryNotFound, id)
	}
	return job, nil
}

// Close は実行中のサマリー生成をキャンセルし、終了を待ちます。
// ctx の期限までに終わらない場合はエラーを返します。
func (bu *BacktestUsecase) Close(ctx context.Context) error {
	bu.cancel()

	done := make(chan struct{})
	go func() {
		bu.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("summary workers did not stop"), ctx.Err())
	}
}
