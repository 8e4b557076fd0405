// Package matrix provides flat, row-major float64 storage for dynamic
// programming lattices.
//
// Dense keeps r*c elements in one contiguous slice so that a DP cell's
// state scores (one row) are adjacent in memory. Size computes an
// overflow-checked element count for an arbitrary number of dimensions,
// letting callers reject impossible lattices before allocating.
//
// Errors: ErrBadShape, ErrOutOfRange, ErrTooLarge.
package matrix
