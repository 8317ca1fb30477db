// Package dto はbacktestフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "xauusd_backend/internal/feature/backtest/domain/entity"

// BacktestRequest は /v1/backtest と /v1/backtest/summary のリクエストボディです。
// 省略されたフィールドはデフォルト値になります。
type BacktestRequest struct {
	Timeframe string         `json:"timeframe"`
	Count     int            `json:"count"`
	Seed      uint64         `json:"seed"`
	Visible   int            `json:"visible"` // 0 は全本数
	Params    *ParamsRequest `json:"params"`
}

// ParamsRequest は戦略パラメータの部分指定です。nil のフィールドはデフォルト値を使います。
type ParamsRequest struct {
	RSIPeriod      *int     `json:"rsiPeriod"`
	RSIOverbought  *float64 `json:"rsiOverbought"`
	RSIOversold    *float64 `json:"rsiOversold"`
	SMAPeriod      *int     `json:"smaPeriod"`
	EMAPeriod      *int     `json:"emaPeriod"`
	InitialBalance *float64 `json:"initialBalance"`
	StopLossPips   *float64 `json:"stopLossPips"`
	TakeProfitPips *float64 `json:"takeProfitPips"`
	RiskPercent    *float64 `json:"riskPercent"`
}

// StrategyParams はデフォルト値に指定されたフィールドを上書きしたパラメータを返します。
func (r *BacktestRequest) StrategyParams() entity.StrategyParams {
	p := entity.DefaultParams()
	if r.Params == nil {
		return p
	}
	in := r.Params
	setInt(&p.RSIPeriod, in.RSIPeriod)
	setFloat(&p.RSIOverbought, in.RSIOverbought)
	setFloat(&p.RSIOversold, in.RSIOversold)
	setInt(&p.SMAPeriod, in.SMAPeriod)
	setInt(&p.EMAPeriod, in.EMAPeriod)
	setFloat(&p.InitialBalance, in.InitialBalance)
	setFloat(&p.StopLossPips, in.StopLossPips)
	setFloat(&p.TakeProfitPips, in.TakeProfitPips)
	setFloat(&p.RiskPercent, in.RiskPercent)
	return p
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
