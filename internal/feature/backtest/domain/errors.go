// Package domain defines domain-level errors for the backtest feature.
package domain

import "errors"

var (
	// ErrInvalidParams indicates a strategy parameter set the engine cannot run with.
	ErrInvalidParams = errors.New("invalid strategy params")

	// ErrInvalidVisible indicates a negative replay window.
	ErrInvalidVisible = errors.New("invalid visible window")

	// ErrSummaryNotFound indicates an unknown or expired summary job id.
	ErrSummaryNotFound = errors.New("summary not found")

	// ErrNarratorUnavailable indicates that no narrative backend is configured.
	ErrNarratorUnavailable = errors.New("narrator unavailable")
)
