package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Limiter は外部API呼び出しなどの操作の頻度を制限するインターフェースです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter は interval あたり limit 回までの呼び出しを許可します。
// 複数のgoroutineから同時に使用できます。
type RateLimiter struct {
	lim      *rate.Limiter
	limit    int
	interval time.Duration
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{lim: rate.NewLimiter(rate.Inf, 0)}
	}
	every := rate.Every(interval / time.Duration(limit))
	return &RateLimiter{
		lim:      rate.NewLimiter(every, limit),
		limit:    limit,
		interval: interval,
	}
}

// Wait は呼び出しが許可されるまで待機します。ctx がキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if r := rl.lim.Reserve(); r.OK() {
		delay := r.Delay()
		if delay == 0 {
			return nil
		}
		slog.Info("rate limit reached, waiting", "limit", rl.limit, "interval", rl.interval, "delay", delay)

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			r.Cancel()
			return ctx.Err()
		}
	}
	return rl.lim.Wait(ctx)
}
