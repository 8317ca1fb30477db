package engine

import "xauusd_backend/internal/feature/backtest/domain/entity"

// WinRate is the percentage of closed trades with a positive profit, 0 when there are none.
func WinRate(trades []entity.Trade) float64 {
	closed, wins := 0, 0
	for _, t := range trades {
		if t.Status != entity.Closed {
			continue
		}
		closed++
		if t.Profit > 0 {
			wins++
		}
	}
	if closed == 0 {
		return 0
	}
	return float64(wins) / float64(closed) * 100
}

// MaxDrawdown is the largest peak-to-trough decline of the curve in percent of the peak.
// The running peak starts at the first point; a non-positive peak contributes nothing.
func MaxDrawdown(curve []entity.EquityPoint) float64 {
	if len(curve) == 0 {
		return 0
	}
	peak := curve[0].Value
	maxDD := 0.0
	for _, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - p.Value) / peak * 100; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
