// Package entity defines the domain models for the structure feature.
package entity

// PivotPoints are classic floor-trader levels over a trailing window.
type PivotPoints struct {
	P  float64
	R1 float64
	R2 float64
	S1 float64
	S2 float64
}

// ZoneType is the side of a supply/demand zone.
type ZoneType string

const (
	Supply ZoneType = "SUPPLY"
	Demand ZoneType = "DEMAND"
)

// SDZone is a price band where a strong move started.
type SDZone struct {
	Type       ZoneType
	PriceStart float64 // lower edge
	PriceEnd   float64 // upper edge
	TimeStart  int64
}

// Structure bundles the detector output for one candle window.
// Pivots is nil when the window is too short.
type Structure struct {
	Pivots *PivotPoints
	Zones  []SDZone
}
