package usecase

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"xauusd_backend/internal/feature/series/domain"
	"xauusd_backend/internal/feature/series/domain/entity"
)

const (
	// BasePrice は生成系列の初値です。
	BasePrice = 2100.0
	// ReferenceStep はボラティリティ換算の基準となる足の長さ（秒、15分足）です。
	ReferenceStep = 900

	weekendGap = 12.0
	wickJitter = 0.6
	baseVolume = 8000.0
)

// Epoch は生成系列の最初の足の時刻（2024-01-01T00:00:00Z）です。
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix()

// GenerateSeries は指定された本数・時間足の合成XAUUSDローソク足を生成します。
// 同じ (count, tf, seed) からは常に同じ系列が得られます。
// count が 0 の場合は空のスライスを返します。
func GenerateSeries(count int, tf entity.Timeframe, seed uint64) ([]entity.Candle, error) {
	step := tf.Seconds()
	if step == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTimeframe, tf)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidCount, count)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	// ランダムウォークの時間スケーリング則に合わせて足の長さで振れ幅を調整
	scale := math.Sqrt(float64(step) / ReferenceStep)

	out := make([]entity.Candle, 0, count)
	price := BasePrice
	t := Epoch

	for i := 0; i < count; i++ {
		now := time.Unix(t, 0).UTC()
		hour := now.Hour()

		// 金曜22時以降は週明けまでスキップし、窓を開ける
		if now.Weekday() == time.Friday && hour >= 22 {
			t += int64(48+(24-hour)) * 3600
			price += (rng.Float64() - 0.5) * weekendGap
		}

		mult := sessionMultiplier(hour)
		vol := (0.8 + rng.Float64()*1.5) * mult * scale
		cycle := math.Sin(float64(i)/150) * 0.4
		small := math.Cos(float64(i)/20) * 0.2

		open := price
		cl := open + (rng.Float64()-0.5+cycle+small)*vol
		high := math.Max(open, cl) + rng.Float64()*vol*wickJitter
		low := math.Min(open, cl) - rng.Float64()*vol*wickJitter

		out = append(out, entity.Candle{
			Time:   t,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cl,
			Volume: rng.Float64() * baseVolume * mult,
		})

		price = cl
		t += step
	}

	return out, nil
}

// sessionMultiplier はUTCの時間帯ごとのボラティリティ倍率を返します。
func sessionMultiplier(hour int) float64 {
	switch {
	case hour >= 13 && hour <= 17: // New York
		return 2.4
	case hour >= 8 && hour < 13: // London
		return 1.6
	case hour > 17 && hour < 21: // late New York
		return 1.4
	case hour >= 0 && hour < 7: // Asian
		return 0.7
	default:
		return 0.5
	}
}
