package entity

import "strings"

// Timeframe is a bar duration supported by the generator.
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

// Timeframes returns every supported timeframe, shortest first.
func Timeframes() []Timeframe {
	return []Timeframe{TF1m, TF5m, TF15m, TF1h, TF4h, TF1d}
}

func (tf Timeframe) String() string { return string(tf) }

// Seconds returns the bar duration in seconds, or 0 for an unknown timeframe.
func (tf Timeframe) Seconds() int64 {
	switch tf {
	case TF1m:
		return 60
	case TF5m:
		return 5 * 60
	case TF15m:
		return 15 * 60
	case TF1h:
		return 60 * 60
	case TF4h:
		return 4 * 60 * 60
	case TF1d:
		return 24 * 60 * 60
	default:
		return 0
	}
}

// ParseTimeframe normalizes s ("15m", "M15", "1H", "1day" ...) into a Timeframe.
func ParseTimeframe(s string) (Timeframe, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1m", "m1":
		return TF1m, true
	case "5m", "m5":
		return TF5m, true
	case "15m", "m15":
		return TF15m, true
	case "1h", "h1":
		return TF1h, true
	case "4h", "h4":
		return TF4h, true
	case "1d", "d1", "1day":
		return TF1d, true
	default:
		return "", false
	}
}
