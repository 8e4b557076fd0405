// SPDX-License-Identifier: MIT

package markov

import (
	"fmt"

	"github.com/katalvlaran/hmmdp/dist"
)

// Kind tags the two state variants.
type Kind int

const (
	// Silent states consume no symbols.
	Silent Kind = iota
	// Emitting states consume Advance[h] symbols from each head h.
	Emitting
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Silent:
		return "silent"
	case Emitting:
		return "emitting"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is an immutable HMM state. Identity is by pointer; the label is
// unique within a model.
type State struct {
	label   string
	kind    Kind
	dist    dist.Distribution
	advance []int
}

// NewSilent returns a silent state. Its advance vector is sized to the
// model's head count when it is added to a Builder.
func NewSilent(label string) *State {
	return &State{label: label, kind: Silent}
}

// NewEmitting returns a state emitting from d and consuming advance[h]
// symbols from head h (each entry 0 or 1). A single-head state is
// NewEmitting(label, d, 1).
func NewEmitting(label string, d dist.Distribution, advance ...int) *State {
	return &State{
		label:   label,
		kind:    Emitting,
		dist:    d,
		advance: append([]int(nil), advance...),
	}
}

// Label returns the state's identifying label.
func (s *State) Label() string { return s.label }

// Kind returns the state variant.
func (s *State) Kind() Kind { return s.kind }

// IsSilent reports whether the state consumes no symbols.
func (s *State) IsSilent() bool { return s.kind == Silent }

// Distribution returns the emission distribution (nil for silent states).
func (s *State) Distribution() dist.Distribution { return s.dist }

// Advance returns a copy of the per-head advance vector.
func (s *State) Advance() []int { return append([]int(nil), s.advance...) }

// AdvanceAt returns the advance along head h without copying.
func (s *State) AdvanceAt(h int) int {
	if h < 0 || h >= len(s.advance) {
		return 0
	}

	return s.advance[h]
}

// String implements fmt.Stringer.
func (s *State) String() string { return s.label }

// withDistribution clones s with a new distribution, keeping the label and advance.
func (s *State) withDistribution(d dist.Distribution) *State {
	c := *s
	c.dist = d
	c.advance = append([]int(nil), s.advance...)

	return &c
}
