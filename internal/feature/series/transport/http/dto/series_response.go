// Package dto はseriesフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "xauusd_backend/internal/feature/series/domain/entity"

// CandleResponse はローソク足データのレスポンスDTOです。
type CandleResponse struct {
	Time   int64   `json:"time"`   // 足の開始時刻（Unix秒）
	Open   float64 `json:"open"`   // 始値
	High   float64 `json:"high"`   // 高値
	Low    float64 `json:"low"`    // 安値
	Close  float64 `json:"close"`  // 終値
	Volume float64 `json:"volume"` // 出来高
}

// TimeframeResponse は対応している時間足1件を表します。
type TimeframeResponse struct {
	Timeframe string `json:"timeframe"`
	Seconds   int64  `json:"seconds"`
}

// FromCandles はエンティティをレスポンスDTOに変換します。
func FromCandles(cs []entity.Candle) []CandleResponse {
	out := make([]CandleResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, CandleResponse{
			Time:   c.Time,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}
	return out
}
