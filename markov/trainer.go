// SPDX-License-Identifier: MIT

package markov

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dist"
)

// Trainer accumulates expected transition and emission counts for a model
// and re-estimates its parameters. It is safe for concurrent use, so batch
// runs may feed one Trainer from several goroutines.
type Trainer struct {
	m     *Model
	mu    sync.Mutex
	trans map[[2]int]float64
	emit  map[int][]float64 // state index → counts by concrete symbol index
}

// NewTrainer returns an empty Trainer for m.
func NewTrainer(m *Model) *Trainer {
	return &Trainer{
		m:     m,
		trans: make(map[[2]int]float64),
		emit:  make(map[int][]float64),
	}
}

// Model returns the model whose parameters are being re-estimated.
func (t *Trainer) Model() *Model { return t.m }

// AddTransitionCount adds c observations of from→to. The transition must
// exist in the model; training never creates edges.
func (t *Trainer) AddTransitionCount(from, to *State, c float64) error {
	i, j := t.m.Index(from), t.m.Index(to)
	if i < 0 || j < 0 {
		return fmt.Errorf("markov.AddTransitionCount(%v→%v): %w", from, to, ErrUnknownState)
	}
	if _, ok := t.m.prob[[2]int{i, j}]; !ok {
		return inconsistent(from.label, to.label, "no such transition")
	}
	if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return inconsistent(from.label, to.label, "count %g", c)
	}
	t.mu.Lock()
	t.trans[[2]int{i, j}] += c
	t.mu.Unlock()

	return nil
}

// AddEmissionCount adds c observations of sym emitted by s. An ambiguity
// symbol spreads c over its matches in proportion to the current weights.
func (t *Trainer) AddEmissionCount(s *State, sym *alphabet.Symbol, c float64) error {
	i := t.m.Index(s)
	if i < 0 {
		return fmt.Errorf("markov.AddEmissionCount(%v): %w", s, ErrUnknownState)
	}
	if s.IsSilent() {
		return fmt.Errorf("markov.AddEmissionCount(%q): %w", s.label, ErrSilentState)
	}
	if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return inconsistent(s.label, "", "emission count %g", c)
	}
	a := s.dist.Alphabet()
	if !a.Contains(sym) {
		if sym == nil {
			return &alphabet.IllegalSymbolError{Alphabet: a.Name()}
		}
		return alphabet.Mismatch(sym, a, sym.Alphabet())
	}

	share := map[int]float64{}
	if !sym.IsAmbiguous() {
		share[sym.Index()] = c
	} else {
		total := 0.0
		w := make([]float64, len(sym.Matches()))
		for k, mt := range sym.Matches() {
			w[k], _ = s.dist.Weight(mt)
			total += w[k]
		}
		for k, mt := range sym.Matches() {
			if total > 0 {
				share[mt.Index()] += c * w[k] / total
			} else {
				share[mt.Index()] += c / float64(len(w))
			}
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	counts, ok := t.emit[i]
	if !ok {
		counts = make([]float64, a.Size())
		t.emit[i] = counts
	}
	for k, v := range share {
		counts[k] += v
	}

	return nil
}

// Train builds a new model whose transition and emission probabilities are
// the normalized counts plus pseudocount. States without any observation
// keep their current parameters. The trained model is returned; the
// original is never modified. Trainer counts are left in place.
func (t *Trainer) Train(pseudocount float64) (*Model, error) {
	if pseudocount < 0 || math.IsNaN(pseudocount) {
		return nil, inconsistent("", "", "pseudocount %g", pseudocount)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	m := t.m

	b, err := NewBuilder(m.alphas...)
	if err != nil {
		return nil, err
	}
	if err = b.SetTolerance(m.tolerance); err != nil {
		return nil, err
	}
	mapped := make([]*State, len(m.states))
	mapped[0], mapped[len(m.states)-1] = b.Start(), b.End()
	for i := 1; i < len(m.states)-1; i++ {
		s := m.states[i]
		ns := s
		if counts, ok := t.emit[i]; ok && !s.IsSilent() {
			d, err := dist.FromCounts(s.dist.Alphabet(), counts, pseudocount)
			if err != nil {
				return nil, fmt.Errorf("markov.Train(%q): %w", s.label, err)
			}
			ns = s.withDistribution(d)
		}
		mapped[i] = ns
		if err = b.AddState(ns); err != nil {
			return nil, err
		}
		for k, v := range m.Annotation(s) {
			_ = b.Annotate(ns, k, v)
		}
	}

	for i := range m.states {
		row := m.out[i]
		if len(row) == 0 {
			continue
		}
		counts := make([]float64, len(row))
		for k, tr := range row {
			counts[k] = t.trans[[2]int{tr.From, tr.To}]
		}
		probs := make([]float64, len(row))
		if floats.Sum(counts) > 0 {
			copy(probs, counts)
			floats.AddConst(pseudocount, probs)
			floats.Scale(1/floats.Sum(probs), probs)
		} else {
			for k, tr := range row {
				probs[k] = tr.Prob
			}
		}
		for k, tr := range row {
			if probs[k] == 0 {
				return nil, inconsistent(m.states[tr.From].label, m.states[tr.To].label,
					"transition never observed; use a positive pseudocount")
			}
			if err = b.SetTransition(mapped[tr.From], mapped[tr.To], probs[k]); err != nil {
				return nil, err
			}
		}
	}

	return b.Build()
}

// Reset discards all accumulated counts.
func (t *Trainer) Reset() {
	t.mu.Lock()
	t.trans = make(map[[2]int]float64)
	t.emit = make(map[int][]float64)
	t.mu.Unlock()
}
