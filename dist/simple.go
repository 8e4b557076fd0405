// SPDX-License-Identifier: MIT

package dist

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/hmmdp/alphabet"
)

// Simple is an immutable weight vector indexed by concrete symbol index.
type Simple struct {
	alpha   *alphabet.Alphabet
	weights []float64 // len == alpha.Size()
	logw    []float64 // natural log of weights, -Inf for zero
	cfg     config
}

var (
	_ Distribution = (*Simple)(nil)
	_ Sampler      = (*Simple)(nil)
)

// NewSimple validates and copies weights into a distribution over a.
//
// Implementation:
//   - Stage 1: length must equal a.Size(); every weight finite and >= 0.
//   - Stage 2: |Σw - 1| <= tolerance.
//   - Stage 3: precompute the log table used by the DP hot loop.
//
// Errors: ErrInvalidWeights, ErrNotNormalized.
// Complexity: O(|A|).
func NewSimple(a *alphabet.Alphabet, weights []float64, opts ...Option) (*Simple, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return newSimple(a, weights, cfg)
}

func newSimple(a *alphabet.Alphabet, weights []float64, cfg config) (*Simple, error) {
	if a == nil {
		return nil, fmt.Errorf("dist.NewSimple: nil alphabet: %w", ErrInvalidWeights)
	}
	if len(weights) != a.Size() {
		return nil, fmt.Errorf("dist.NewSimple(%q): got %d weights for %d symbols: %w",
			a.Name(), len(weights), a.Size(), ErrInvalidWeights)
	}
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("dist.NewSimple(%q): weight[%d]=%g: %w", a.Name(), i, w, ErrInvalidWeights)
		}
	}
	if total := floats.Sum(weights); math.Abs(total-1) > cfg.tolerance {
		return nil, fmt.Errorf("dist.NewSimple(%q): sum=%g: %w", a.Name(), total, ErrNotNormalized)
	}

	s := &Simple{
		alpha:   a,
		weights: append([]float64(nil), weights...),
		logw:    make([]float64, len(weights)),
		cfg:     cfg,
	}
	for i, w := range s.weights {
		s.logw[i] = math.Log(w) // Log(0) == -Inf
	}

	return s, nil
}

// FromMap builds a Simple from token → weight; absent tokens weigh 0.
// Unknown tokens fail with *alphabet.IllegalSymbolError.
func FromMap(a *alphabet.Alphabet, byToken map[rune]float64, opts ...Option) (*Simple, error) {
	if a == nil {
		return nil, fmt.Errorf("dist.FromMap: nil alphabet: %w", ErrInvalidWeights)
	}
	w := make([]float64, a.Size())
	for tok, p := range byToken {
		sym, err := a.Symbol(tok)
		if err != nil {
			return nil, err
		}
		if sym.IsAmbiguous() {
			return nil, fmt.Errorf("dist.FromMap(%q): ambiguity symbol %s cannot carry a weight: %w",
				a.Name(), sym.Name(), ErrInvalidWeights)
		}
		w[sym.Index()] = p
	}

	return NewSimple(a, w, opts...)
}

// Uniform returns the distribution assigning 1/|A| to each concrete symbol.
func Uniform(a *alphabet.Alphabet, opts ...Option) (*Simple, error) {
	if a == nil || a.Size() == 0 {
		return nil, fmt.Errorf("dist.Uniform: %w", ErrInvalidWeights)
	}
	w := make([]float64, a.Size())
	for i := range w {
		w[i] = 1 / float64(a.Size())
	}

	return NewSimple(a, w, opts...)
}

// FromCounts normalizes counts (plus pseudocount per symbol) into a distribution.
// A zero total fails with ErrInvalidWeights.
func FromCounts(a *alphabet.Alphabet, counts []float64, pseudocount float64, opts ...Option) (*Simple, error) {
	if a == nil || len(counts) != a.Size() {
		return nil, fmt.Errorf("dist.FromCounts: %d counts: %w", len(counts), ErrInvalidWeights)
	}
	w := make([]float64, len(counts))
	copy(w, counts)
	floats.AddConst(pseudocount, w)
	total := floats.Sum(w)
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("dist.FromCounts(%q): total=%g: %w", a.Name(), total, ErrInvalidWeights)
	}
	floats.Scale(1/total, w)

	return NewSimple(a, w, opts...)
}

// Alphabet implements Distribution.
func (s *Simple) Alphabet() *alphabet.Alphabet { return s.alpha }

// Policy returns the ambiguity policy.
func (s *Simple) Policy() AmbiguityPolicy { return s.cfg.policy }

// Weights returns a copy of the weight vector.
func (s *Simple) Weights() []float64 { return append([]float64(nil), s.weights...) }

// LogWeights returns a copy of the natural-log weight vector.
func (s *Simple) LogWeights() []float64 { return append([]float64(nil), s.logw...) }

func (s *Simple) at(sym *alphabet.Symbol) float64 { return s.weights[sym.Index()] }

// Weight implements Distribution.
func (s *Simple) Weight(sym *alphabet.Symbol) (float64, error) {
	if !s.alpha.Contains(sym) {
		return 0, mismatch(sym, s.alpha)
	}

	return resolve(sym, s.cfg.policy, s.at), nil
}

// Probability implements Distribution.
func (s *Simple) Probability(sym *alphabet.Symbol) (float64, error) {
	w, err := s.Weight(sym)
	if err != nil {
		return 0, err
	}

	return clamp01(w), nil
}

// LogProbability implements Distribution. Concrete symbols read the
// precomputed log table.
func (s *Simple) LogProbability(sym *alphabet.Symbol) (float64, error) {
	if !s.alpha.Contains(sym) {
		return 0, mismatch(sym, s.alpha)
	}
	if !sym.IsAmbiguous() {
		return s.logw[sym.Index()], nil
	}

	return math.Log(clamp01(resolve(sym, s.cfg.policy, s.at))), nil
}

// WithWeights returns a new distribution with the given weights and the
// receiver's options. The receiver is left untouched.
func (s *Simple) WithWeights(weights []float64) (*Simple, error) {
	return newSimple(s.alpha, weights, s.cfg)
}

// Sample draws a concrete symbol by inverse-CDF.
func (s *Simple) Sample(r *rand.Rand) *alphabet.Symbol {
	u := r.Float64()
	acc := 0.0
	last := 0
	for i, w := range s.weights {
		if w == 0 {
			continue
		}
		acc += w
		last = i
		if u < acc {
			break
		}
	}
	sym, _ := s.alpha.ByIndex(last)

	return sym
}

// mismatch builds the typed mismatch error, tolerating nil symbols.
func mismatch(sym *alphabet.Symbol, want *alphabet.Alphabet) error {
	if sym == nil {
		return &alphabet.IllegalSymbolError{Alphabet: want.Name()}
	}

	return alphabet.Mismatch(sym, want, sym.Alphabet())
}
