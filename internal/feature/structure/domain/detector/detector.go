// Package detector finds pivot levels and supply/demand zones in a candle series.
//
// Zone detection looks at candles after the candidate index, so its output is
// for display only and must not drive trade entries or exits.
package detector

import (
	"math"

	series "xauusd_backend/internal/feature/series/domain/entity"
	"xauusd_backend/internal/feature/structure/domain/entity"
)

const (
	// PivotMinHistory is the shortest series that yields pivot levels.
	PivotMinHistory = 50
	// PivotWindow is the number of trailing candles the levels are computed from.
	PivotWindow = 100

	// ZoneLookback is the window used to measure local volatility.
	ZoneLookback = 5
	// ZoneForward is the number of candles after a candidate that confirm the move.
	ZoneForward = 3
	// ZoneThreshold is the move, in multiples of local volatility, that marks a zone.
	ZoneThreshold = 8.0
	// MaxZones is how many of the most recent zones are kept.
	MaxZones = 3

	// zoneTail excludes the last candles from the candidate range.
	zoneTail = 5
)

// PivotPoints computes P, R1, R2, S1, S2 from the highest high, lowest low and
// last close of the trailing window. ok is false when history is too short.
func PivotPoints(candles []series.Candle) (entity.PivotPoints, bool) {
	if len(candles) < PivotMinHistory {
		return entity.PivotPoints{}, false
	}
	window := candles
	if len(window) > PivotWindow {
		window = window[len(window)-PivotWindow:]
	}

	h, l := math.Inf(-1), math.Inf(1)
	for _, c := range window {
		h = math.Max(h, c.High)
		l = math.Min(l, c.Low)
	}
	cl := window[len(window)-1].Close

	p := (h + l + cl) / 3
	return entity.PivotPoints{
		P:  p,
		R1: 2*p - l,
		R2: p + (h - l),
		S1: 2*p - h,
		S2: p - (h - l),
	}, true
}

// DetectZones scans candidates i in [ZoneLookback, n-5). A close ZoneForward candles
// later that moved more than ZoneThreshold times the local volatility marks a
// DEMAND (up) or SUPPLY (down) zone spanning candles i-1 and i.
// Only the MaxZones most recent zones are returned, oldest first.
func DetectZones(candles []series.Candle) []entity.SDZone {
	zones := []entity.SDZone{}
	n := len(candles)

	for i := ZoneLookback; i < n-zoneTail; i++ {
		vol := volatility(candles[i-ZoneLookback : i])
		move := candles[i+ZoneForward].Close - candles[i].Close

		var zt entity.ZoneType
		switch {
		case move > vol*ZoneThreshold:
			zt = entity.Demand
		case move < -vol*ZoneThreshold:
			zt = entity.Supply
		default:
			continue
		}
		zones = append(zones, entity.SDZone{
			Type:       zt,
			PriceStart: math.Min(candles[i-1].Low, candles[i].Low),
			PriceEnd:   math.Max(candles[i-1].High, candles[i].High),
			TimeStart:  candles[i].Time,
		})
	}

	if len(zones) > MaxZones {
		zones = zones[len(zones)-MaxZones:]
	}
	return zones
}

// volatility is the high-low range of the window divided by its length.
func volatility(window []series.Candle) float64 {
	h, l := math.Inf(-1), math.Inf(1)
	for _, c := range window {
		h = math.Max(h, c.High)
		l = math.Min(l, c.Low)
	}
	return (h - l) / float64(len(window))
}
