// SPDX-License-Identifier: MIT

package dp

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPath is the sentinel behind *NoPathError.
	ErrNoPath = errors.New("dp: no path with nonzero probability")

	// ErrResourceExhausted is the sentinel behind *ResourceExhaustedError.
	ErrResourceExhausted = errors.New("dp: resource exhausted")

	// ErrSequences indicates a sequence count that does not match the model's heads.
	ErrSequences = errors.New("dp: one sequence per head required")

	// ErrNilModel indicates New was called without a model.
	ErrNilModel = errors.New("dp: nil model")

	// ErrAlgorithm indicates an unknown algorithm or one that cannot serve the request.
	ErrAlgorithm = errors.New("dp: unsupported algorithm")

	// ErrReleased indicates access to a matrix after Release.
	ErrReleased = errors.New("dp: matrix released")

	// ErrInvalidPath indicates a path that does not replay through the model.
	ErrInvalidPath = errors.New("dp: invalid path")

	// ErrOptions indicates malformed engine options.
	ErrOptions = errors.New("dp: invalid options")
)

// NoPathError reports that the terminal cell scored -Inf: no state path
// explains the input. Lengths holds one sequence length per head.
type NoPathError struct {
	Algorithm Algorithm
	Lengths   []int
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("dp: no path with nonzero probability (%s, lengths %v)", e.Algorithm, e.Lengths)
}

// Unwrap exposes ErrNoPath to errors.Is.
func (e *NoPathError) Unwrap() error { return ErrNoPath }

// ResourceExhaustedError reports a lattice that cannot be allocated.
// Dims is (len1+1)[, (len2+1)], |S|; Limit is the configured cell budget
// (0 when the failure came from the allocator or an int overflow).
type ResourceExhaustedError struct {
	Dims  []int
	Cells int
	Limit int
	Err   error
}

func (e *ResourceExhaustedError) Error() string {
	switch {
	case e.Limit > 0:
		return fmt.Sprintf("dp: lattice %v needs %d cells, limit is %d", e.Dims, e.Cells, e.Limit)
	case e.Err != nil:
		return fmt.Sprintf("dp: lattice %v cannot be allocated: %v", e.Dims, e.Err)
	default:
		return fmt.Sprintf("dp: lattice %v cannot be allocated", e.Dims)
	}
}

// Unwrap exposes ErrResourceExhausted and the underlying cause.
func (e *ResourceExhaustedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResourceExhausted}
	}

	return []error{ErrResourceExhausted, e.Err}
}
