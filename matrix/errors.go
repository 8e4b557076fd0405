// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All functions return these sentinels (optionally wrapped with method
// context) and tests check them via errors.Is. No method panics on
// user-triggered error conditions.

package matrix

import "errors"

var (
	// ErrBadShape is returned when requested shape is invalid (e.g., r<=0 or c<=0).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrTooLarge indicates that the element count of a shape overflows int
	// or exceeds a caller-supplied budget.
	ErrTooLarge = errors.New("matrix: shape too large")
)
