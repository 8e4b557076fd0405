// SPDX-License-Identifier: MIT

package markov

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dist"
)

// Bounds that keep Generate from spinning on degenerate models.
const (
	maxEndRedraws = 1 << 12
	maxEmissions  = 1 << 20
)

// ErrGenerate indicates that sampling could not make progress.
var ErrGenerate = errors.New("markov: generation stalled")

// Sample is a sequence drawn from a model together with the emitting
// states that produced it and the natural-log joint probability.
type Sample struct {
	States  []*State
	Symbols *alphabet.SymbolList
	Score   float64
}

// Generate draws a random sequence from a single-head model.
//
// With length < 0 the walk runs from Start until it reaches End. With
// length >= 0 transitions into End are re-drawn until length symbols have
// been emitted, and the walk stops right after the last emission; Score then
// covers the emitted prefix only.
//
// Errors: ErrSingleHead, ErrNotSampler, ErrGenerate.
func (m *Model) Generate(r *rand.Rand, length int) (*Sample, error) {
	if m.Heads() != 1 {
		return nil, fmt.Errorf("markov.Generate: %w", ErrSingleHead)
	}
	end := len(m.states) - 1
	out := &Sample{}
	var syms []*alphabet.Symbol

	cur := 0
	for length != 0 {
		t, err := m.sampleTransition(r, cur, length > 0)
		if err != nil {
			return nil, err
		}
		out.Score += t.LogProb
		cur = t.To
		if cur == end {
			break
		}
		s := m.states[cur]
		if s.IsSilent() {
			continue
		}
		sampler, ok := s.dist.(dist.Sampler)
		if !ok {
			return nil, fmt.Errorf("markov.Generate(%q): %w", s.label, ErrNotSampler)
		}
		sym := sampler.Sample(r)
		lp, err := s.dist.LogProbability(sym)
		if err != nil {
			return nil, err
		}
		out.Score += lp
		out.States = append(out.States, s)
		syms = append(syms, sym)
		if length > 0 {
			length--
		}
		if len(syms) > maxEmissions {
			return nil, fmt.Errorf("markov.Generate: more than %d emissions: %w", maxEmissions, ErrGenerate)
		}
	}

	list, err := alphabet.NewSymbolList(m.alphas[0], syms)
	if err != nil {
		return nil, err
	}
	out.Symbols = list

	return out, nil
}

// sampleTransition draws a successor of state i. When avoidEnd is set,
// draws landing on End are repeated.
func (m *Model) sampleTransition(r *rand.Rand, i int, avoidEnd bool) (Transition, error) {
	end := len(m.states) - 1
	for tries := 0; tries < maxEndRedraws; tries++ {
		u := r.Float64()
		acc := 0.0
		next := m.out[i][len(m.out[i])-1]
		for _, t := range m.out[i] {
			acc += t.Prob
			if u < acc {
				next = t
				break
			}
		}
		if !avoidEnd || next.To != end {
			return next, nil
		}
	}

	return Transition{}, fmt.Errorf("markov.Generate: state %q keeps returning to the end state: %w",
		m.states[i].label, ErrGenerate)
}
