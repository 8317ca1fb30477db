// Package indicator computes SMA, EMA and RSI over close prices.
//
// Each function returns only the defined values: the first value belongs to
// index warmup of the input, so callers align series of different warm-up
// lengths with Pad.
package indicator

import (
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"
)

// ErrInvalidPeriod is returned for a window the kernel cannot compute.
var ErrInvalidPeriod = errors.New("invalid indicator period")

// Value is one index-aligned indicator reading. OK is false during warm-up.
type Value struct {
	V  float64
	OK bool
}

// SMAWarmup returns the number of leading inputs that have no SMA value.
func SMAWarmup(period int) int { return period - 1 }

// EMAWarmup returns the number of leading inputs that have no EMA value.
func EMAWarmup(period int) int { return period - 1 }

// RSIWarmup returns the number of leading inputs that have no RSI value.
func RSIWarmup(period int) int { return period }

// SMA is the simple moving average over period values.
func SMA(values []float64, period int) ([]float64, error) {
	if period < 1 {
		return nil, fmt.Errorf("%w: sma period %d", ErrInvalidPeriod, period)
	}
	return trim(values, SMAWarmup(period), func() []float64 { return talib.Sma(values, period) }), nil
}

// EMA is the exponential moving average with k = 2/(period+1),
// seeded with the SMA of the first period values.
func EMA(values []float64, period int) ([]float64, error) {
	if period < 1 {
		return nil, fmt.Errorf("%w: ema period %d", ErrInvalidPeriod, period)
	}
	return trim(values, EMAWarmup(period), func() []float64 { return talib.Ema(values, period) }), nil
}

// RSI is the Wilder-smoothed relative strength index, 0..100.
// A window with no movement at all reads 0.
func RSI(values []float64, period int) ([]float64, error) {
	if period < 2 {
		return nil, fmt.Errorf("%w: rsi period %d", ErrInvalidPeriod, period)
	}
	return trim(values, RSIWarmup(period), func() []float64 { return talib.Rsi(values, period) }), nil
}

// trim drops the zero-filled warm-up of a talib output.
// talib indexes past the end of short inputs, so it is only called when n > warmup.
func trim(values []float64, warmup int, compute func() []float64) []float64 {
	if len(values) <= warmup {
		return []float64{}
	}
	raw := compute()
	out := make([]float64, len(raw)-warmup)
	copy(out, raw[warmup:])
	return out
}

// Pad left-pads defined values with undefined readings so the result has length n
// and out[i] belongs to input index i.
func Pad(values []float64, n int) []Value {
	out := make([]Value, n)
	offset := n - len(values)
	for i, v := range values {
		if offset+i < 0 {
			continue
		}
		out[offset+i] = Value{V: v, OK: true}
	}
	return out
}
