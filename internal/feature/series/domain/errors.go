// Package domain defines domain-level errors for the series feature.
package domain

import "errors"

// Configuration errors for series generation.
// They are rejected at entry and never silently defaulted.
var (
	// ErrUnknownTimeframe indicates that the requested bar duration is not supported.
	ErrUnknownTimeframe = errors.New("unknown timeframe")

	// ErrInvalidCount indicates a negative or oversized candle count.
	ErrInvalidCount = errors.New("invalid candle count")
)
