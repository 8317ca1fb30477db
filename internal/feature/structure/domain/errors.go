// Package domain defines domain-level errors for the structure feature.
package domain

import "errors"

// ErrInvalidVisible indicates a negative replay window.
var ErrInvalidVisible = errors.New("invalid visible window")
