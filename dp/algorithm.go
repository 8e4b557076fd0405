// SPDX-License-Identifier: MIT

package dp

import (
	"fmt"
	"strings"
)

// Algorithm selects the recursion a matrix is filled with.
type Algorithm int

const (
	// Forward sums over all paths from Start (log-sum-exp).
	Forward Algorithm = iota
	// Backward sums over all paths into End, filled from the last cell.
	Backward
	// Viterbi keeps the best path and its back-pointers.
	Viterbi
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Viterbi:
		return "viterbi"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

func (a Algorithm) valid() bool { return a >= Forward && a <= Viterbi }

// ParseAlgorithm maps "forward", "backward" or "viterbi" (any case) to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward":
		return Forward, nil
	case "backward":
		return Backward, nil
	case "viterbi":
		return Viterbi, nil
	}

	return 0, fmt.Errorf("dp.ParseAlgorithm(%q): %w", s, ErrAlgorithm)
}
