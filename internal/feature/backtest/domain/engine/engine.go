// Package engine runs the single-position RSI/SMA/EMA strategy over a candle series.
package engine

import (
	"fmt"
	"log/slog"

	"xauusd_backend/internal/feature/backtest/domain/entity"
	"xauusd_backend/internal/feature/backtest/domain/indicator"
	series "xauusd_backend/internal/feature/series/domain/entity"
)

const (
	// PositionSize converts a price delta into account currency.
	PositionSize = 50.0
	// PipFactor converts a price delta into pips (hundredths of a price unit).
	PipFactor = 100.0
)

// signals holds the index-aligned indicator readings for one run.
type signals struct {
	rsi []indicator.Value
	sma []indicator.Value
	ema []indicator.Value
}

// Run backtests params over candles. It is a pure function of its inputs and
// safe to call concurrently.
//
// A series shorter than SMAPeriod returns a zeroed result without iterating.
func Run(candles []series.Candle, params entity.StrategyParams) (entity.BacktestResults, error) {
	if err := params.Validate(); err != nil {
		return entity.BacktestResults{}, err
	}
	if len(candles) < params.SMAPeriod {
		return entity.BacktestResults{
			FinalBalance: params.InitialBalance,
			Trades:       []entity.Trade{},
			EquityCurve:  []entity.EquityPoint{},
		}, nil
	}

	sig, err := compute(candles, params)
	if err != nil {
		return entity.BacktestResults{}, err
	}

	res := simulate(candles, sig, params)
	slog.Debug("backtest finished",
		"candles", len(candles),
		"trades", res.TotalTrades,
		"final_balance", res.FinalBalance,
		"open_position", res.OpenPosition != nil,
	)
	return res, nil
}

func compute(candles []series.Candle, params entity.StrategyParams) (signals, error) {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	rsi, err := indicator.RSI(closes, params.RSIPeriod)
	if err != nil {
		return signals{}, fmt.Errorf("rsi: %w", err)
	}
	sma, err := indicator.SMA(closes, params.SMAPeriod)
	if err != nil {
		return signals{}, fmt.Errorf("sma: %w", err)
	}
	ema, err := indicator.EMA(closes, params.EMAPeriod)
	if err != nil {
		return signals{}, fmt.Errorf("ema: %w", err)
	}

	n := len(candles)
	return signals{
		rsi: indicator.Pad(rsi, n),
		sma: indicator.Pad(sma, n),
		ema: indicator.Pad(ema, n),
	}, nil
}

// simulate is the state machine. Index 0 only seeds the equity curve.
func simulate(candles []series.Candle, sig signals, params entity.StrategyParams) entity.BacktestResults {
	balance := params.InitialBalance
	trades := []entity.Trade{}
	curve := []entity.EquityPoint{{Time: candles[0].Time, Value: balance}}
	var open *entity.Trade

	for i := 1; i < len(candles); i++ {
		c := candles[i]

		if open != nil {
			reason, ok := exitReason(*open, c.Close, sig.ema[i], params)
			if !ok {
				continue
			}
			closed := *open
			closed.ExitPrice = c.Close
			closed.ExitTime = c.Time
			closed.Profit = direction(closed.Type) * (c.Close - closed.EntryPrice) * PositionSize
			closed.Status = entity.Closed
			closed.Reason = reason

			balance += closed.Profit
			trades = append(trades, closed)
			curve = append(curve, entity.EquityPoint{Time: c.Time, Value: balance})
			open = nil
			// no entry on the candle that closed a position
			continue
		}

		rsi, sma, ema := sig.rsi[i], sig.sma[i], sig.ema[i]
		if !rsi.OK || !sma.OK || !ema.OK {
			continue
		}

		var side entity.TradeType
		switch {
		case c.Close > sma.V && rsi.V < params.RSIOversold:
			side = entity.Long
		case c.Close < sma.V && rsi.V > params.RSIOverbought:
			side = entity.Short
		default:
			continue
		}
		open = &entity.Trade{
			ID:         fmt.Sprintf("T-%d", i),
			Type:       side,
			EntryPrice: c.Close,
			EntryTime:  c.Time,
			Status:     entity.Open,
		}
	}

	return entity.BacktestResults{
		TotalTrades:  len(trades),
		WinRate:      WinRate(trades),
		TotalProfit:  balance - params.InitialBalance,
		Trades:       trades,
		FinalBalance: balance,
		MaxDrawdown:  MaxDrawdown(curve),
		EquityCurve:  curve,
		OpenPosition: open,
	}
}

// exitReason checks stop loss, then take profit, then the trend exit against the EMA.
func exitReason(t entity.Trade, price float64, ema indicator.Value, params entity.StrategyParams) (string, bool) {
	pips := direction(t.Type) * (price - t.EntryPrice) * PipFactor

	switch {
	case pips <= -params.StopLossPips:
		return entity.ReasonStopLoss, true
	case pips >= params.TakeProfitPips:
		return entity.ReasonTakeProfit, true
	case ema.OK && t.Type == entity.Long && price < ema.V:
		return entity.ReasonTrendExit, true
	case ema.OK && t.Type == entity.Short && price > ema.V:
		return entity.ReasonTrendExit, true
	}
	return "", false
}

func direction(tt entity.TradeType) float64 {
	if tt == entity.Short {
		return -1
	}
	return 1
}
