// Package entity defines the domain models for the backtest feature.
package entity

import (
	"fmt"

	"xauusd_backend/internal/feature/backtest/domain"
)

// StrategyParams configures one backtest run.
// RiskPercent is advisory and not used by the exit logic.
type StrategyParams struct {
	RSIPeriod      int
	RSIOverbought  float64
	RSIOversold    float64
	SMAPeriod      int
	EMAPeriod      int
	InitialBalance float64
	StopLossPips   float64
	TakeProfitPips float64
	RiskPercent    float64
}

// DefaultParams returns the dashboard defaults.
func DefaultParams() StrategyParams {
	return StrategyParams{
		RSIPeriod:      14,
		RSIOverbought:  70,
		RSIOversold:    30,
		SMAPeriod:      50,
		EMAPeriod:      20,
		InitialBalance: 10000,
		StopLossPips:   50,
		TakeProfitPips: 150,
		RiskPercent:    1.0,
	}
}

// Validate rejects parameter sets the engine cannot run with.
// The returned error wraps domain.ErrInvalidParams and names the field.
func (p StrategyParams) Validate() error {
	switch {
	case p.RSIPeriod < 2:
		return fmt.Errorf("%w: rsiPeriod must be >= 2, got %d", domain.ErrInvalidParams, p.RSIPeriod)
	case p.SMAPeriod < 1:
		return fmt.Errorf("%w: smaPeriod must be >= 1, got %d", domain.ErrInvalidParams, p.SMAPeriod)
	case p.EMAPeriod < 1:
		return fmt.Errorf("%w: emaPeriod must be >= 1, got %d", domain.ErrInvalidParams, p.EMAPeriod)
	case p.RSIOversold < 0 || p.RSIOversold > 100:
		return fmt.Errorf("%w: rsiOversold must be within 0..100, got %g", domain.ErrInvalidParams, p.RSIOversold)
	case p.RSIOverbought < 0 || p.RSIOverbought > 100:
		return fmt.Errorf("%w: rsiOverbought must be within 0..100, got %g", domain.ErrInvalidParams, p.RSIOverbought)
	case p.RSIOversold >= p.RSIOverbought:
		return fmt.Errorf("%w: rsiOversold (%g) must be below rsiOverbought (%g)", domain.ErrInvalidParams, p.RSIOversold, p.RSIOverbought)
	case p.InitialBalance <= 0:
		return fmt.Errorf("%w: initialBalance must be positive, got %g", domain.ErrInvalidParams, p.InitialBalance)
	case p.StopLossPips <= 0:
		return fmt.Errorf("%w: stopLossPips must be positive, got %g", domain.ErrInvalidParams, p.StopLossPips)
	case p.TakeProfitPips <= 0:
		return fmt.Errorf("%w: takeProfitPips must be positive, got %g", domain.ErrInvalidParams, p.TakeProfitPips)
	case p.RiskPercent < 0:
		return fmt.Errorf("%w: riskPercent must not be negative, got %g", domain.ErrInvalidParams, p.RiskPercent)
	}
	return nil
}
