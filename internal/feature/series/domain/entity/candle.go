// Package entity defines the domain models for the series feature.
package entity

// Candle represents one synthetic XAUUSD OHLCV bar.
// Within a series Time is strictly increasing, Low <= min(Open, Close)
// and High >= max(Open, Close).
type Candle struct {
	Time   int64   // Unix seconds of the bar open
	Open   float64 // Opening price
	High   float64 // Highest price during this bar
	Low    float64 // Lowest price during this bar
	Close  float64 // Closing price
	Volume float64 // Synthetic traded volume (>= 0)
}
