package dto

import "xauusd_backend/internal/feature/backtest/domain/entity"

// TradeResponse は取引1件のレスポンスDTOです。
type TradeResponse struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	EntryPrice float64 `json:"entryPrice"`
	EntryTime  int64   `json:"entryTime"`
	ExitPrice  float64 `json:"exitPrice"`
	ExitTime   int64   `json:"exitTime"`
	Profit     float64 `json:"profit"`
	Status     string  `json:"status"`
	Reason     string  `json:"reason,omitempty"`
}

// EquityPointResponse は残高推移の1点です。
type EquityPointResponse struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// BacktestResponse はバックテスト結果のレスポンスDTOです。
type BacktestResponse struct {
	TotalTrades  int                   `json:"totalTrades"`
	WinRate      float64               `json:"winRate"`
	TotalProfit  float64               `json:"totalProfit"`
	Trades       []TradeResponse       `json:"trades"`
	FinalBalance float64               `json:"finalBalance"`
	MaxDrawdown  float64               `json:"maxDrawdown"`
	EquityCurve  []EquityPointResponse `json:"equityCurve"`
	OpenPosition *TradeResponse        `json:"openPosition"`
}

// SummaryAcceptedResponse はサマリージョブ受付時のレスポンスです。
type SummaryAcceptedResponse struct {
	ID string `json:"id"`
}

// SummaryResponse はサマリージョブの状態です。
type SummaryResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
}

func fromTrade(t entity.Trade) TradeResponse {
	return TradeResponse{
		ID:         t.ID,
		Type:       string(t.Type),
		EntryPrice: t.EntryPrice,
		EntryTime:  t.EntryTime,
		ExitPrice:  t.ExitPrice,
		ExitTime:   t.ExitTime,
		Profit:     t.Profit,
		Status:     string(t.Status),
		Reason:     t.Reason,
	}
}

// FromResults はエンティティをレスポンスDTOに変換します。
func FromResults(r entity.BacktestResults) BacktestResponse {
	out := BacktestResponse{
		TotalTrades:  r.TotalTrades,
		WinRate:      r.WinRate,
		TotalProfit:  r.TotalProfit,
		Trades:       make([]TradeResponse, 0, len(r.Trades)),
		FinalBalance: r.FinalBalance,
		MaxDrawdown:  r.MaxDrawdown,
		EquityCurve:  make([]EquityPointResponse, 0, len(r.EquityCurve)),
	}
	for _, t := range r.Trades {
		out.Trades = append(out.Trades, fromTrade(t))
	}
	for _, p := range r.EquityCurve {
		out.EquityCurve = append(out.EquityCurve, EquityPointResponse{Time: p.Time, Value: p.Value})
	}
	if r.OpenPosition != nil {
		op := fromTrade(*r.OpenPosition)
		out.OpenPosition = &op
	}
	return out
}

// FromSummary はサマリージョブをレスポンスDTOに変換します。
func FromSummary(j entity.SummaryJob) SummaryResponse {
	return SummaryResponse{ID: j.ID, Status: string(j.Status), Text: j.Text}
}
