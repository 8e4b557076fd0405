// SPDX-License-Identifier: MIT

package markov

import (
	"errors"
	"fmt"
)

var (
	// ErrModelInconsistency is the sentinel behind *ModelInconsistencyError.
	ErrModelInconsistency = errors.New("markov: model inconsistency")

	// ErrUnknownState indicates a state that does not belong to the builder or model.
	ErrUnknownState = errors.New("markov: unknown state")

	// ErrDuplicateLabel indicates two states sharing one label.
	ErrDuplicateLabel = errors.New("markov: duplicate state label")

	// ErrHeads indicates an unsupported number of heads (alphabets).
	ErrHeads = errors.New("markov: a model has 1 or 2 heads")

	// ErrSingleHead indicates an operation only defined for one-head models.
	ErrSingleHead = errors.New("markov: operation requires a single-head model")

	// ErrNotSampler indicates an emission distribution that cannot draw symbols.
	ErrNotSampler = errors.New("markov: distribution cannot sample")

	// ErrColumnRange indicates a profile column index out of range.
	ErrColumnRange = errors.New("markov: profile column out of range")

	// ErrSilentState indicates an emission query on a silent state.
	ErrSilentState = errors.New("markov: silent state has no emissions")
)

// ModelInconsistencyError reports a violated model invariant. State is the
// offending state label; Other is the second endpoint for transition-level
// problems and empty otherwise.
type ModelInconsistencyError struct {
	State  string
	Other  string
	Reason string
}

func (e *ModelInconsistencyError) Error() string {
	if e.Other != "" {
		return fmt.Sprintf("markov: model inconsistency at %q→%q: %s", e.State, e.Other, e.Reason)
	}

	return fmt.Sprintf("markov: model inconsistency at %q: %s", e.State, e.Reason)
}

// Unwrap exposes ErrModelInconsistency to errors.Is.
func (e *ModelInconsistencyError) Unwrap() error { return ErrModelInconsistency }

func inconsistent(state, other, format string, args ...any) *ModelInconsistencyError {
	return &ModelInconsistencyError{State: state, Other: other, Reason: fmt.Sprintf(format, args...)}
}
