// SPDX-License-Identifier: MIT

package markov

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/hmmdp/bfs"
	"github.com/katalvlaran/hmmdp/dfs"
)

// validate enforces the model invariants.
//
// Implementation:
//   - Stage 1: per-state shape (advance length, emission alphabet).
//   - Stage 2: boundary edges (nothing enters Start, nothing leaves End).
//   - Stage 3: outgoing probabilities sum to 1 ± tolerance.
//   - Stage 4: reachability from Start (bfs) and to End (reverse bfs).
//   - Stage 5: silent sub-graph is acyclic (dfs topological sort).
//
// The first violation found is returned as *ModelInconsistencyError.
func (m *Model) validate() error {
	for _, s := range m.states {
		if err := m.validateState(s); err != nil {
			return err
		}
	}

	start, end := 0, len(m.states)-1
	if len(m.in[start]) > 0 {
		return inconsistent(m.states[m.in[start][0].From].label, StartLabel, "transition into the start state")
	}
	if len(m.out[end]) > 0 {
		return inconsistent(EndLabel, m.states[m.out[end][0].To].label, "transition out of the end state")
	}

	probs := make([]float64, 0, len(m.states))
	for i, s := range m.states[:end] {
		probs = probs[:0]
		for _, t := range m.out[i] {
			probs = append(probs, t.Prob)
		}
		if sum := floats.Sum(probs); math.Abs(sum-1) > m.tolerance {
			return inconsistent(s.label, "", "outgoing probabilities sum to %g", sum)
		}
	}

	fwd, err := bfs.Reachable(m.topo, StartLabel)
	if err != nil {
		return err
	}
	rev, err := bfs.Reachable(m.topo, EndLabel, bfs.WithReverse())
	if err != nil {
		return err
	}
	for _, s := range m.states {
		if !fwd[s.label] {
			return inconsistent(s.label, "", "not reachable from the start state")
		}
		if !rev[s.label] {
			return inconsistent(s.label, "", "cannot reach the end state")
		}
	}

	isSilent := func(label string) bool { return m.states[m.byLabel[label]].IsSilent() }
	levels, err := dfs.Levels(m.topo, dfs.WithVertexFilter(isSilent))
	if err != nil {
		var ce *dfs.CycleError
		if errors.As(err, &ce) && len(ce.Cycle) > 1 {
			return inconsistent(ce.Cycle[0], ce.Cycle[1], "silent cycle: %v", ce.Cycle)
		}
		return err
	}
	for _, lvl := range levels {
		idx := make([]int, len(lvl))
		for k, label := range lvl {
			idx[k] = m.byLabel[label]
		}
		sort.Ints(idx)
		m.silent = append(m.silent, idx...)
		m.levels = append(m.levels, idx)
	}

	return nil
}

func (m *Model) validateState(s *State) error {
	if s.IsSilent() {
		if s.dist != nil {
			return inconsistent(s.label, "", "silent state carries a distribution")
		}
		return nil
	}
	if len(s.advance) != len(m.alphas) {
		return inconsistent(s.label, "", "advance %v does not match %d heads", s.advance, len(m.alphas))
	}
	for _, a := range s.advance {
		if a != 0 && a != 1 {
			return inconsistent(s.label, "", "advance %v: entries must be 0 or 1", s.advance)
		}
	}
	want, err := m.EmissionAlphabet(s.advance)
	if err != nil {
		return inconsistent(s.label, "", "%v", err)
	}
	if s.dist == nil {
		return inconsistent(s.label, "", "emitting state has no distribution")
	}
	if got := s.dist.Alphabet(); got != want {
		return inconsistent(s.label, "", "distribution over %s, want %s", got.Name(), want.Name())
	}

	return nil
}
