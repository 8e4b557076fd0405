// SPDX-License-Identifier: MIT

package dist

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/hmmdp/alphabet"
)

var (
	// ErrInvalidWeights indicates a malformed weight vector.
	ErrInvalidWeights = errors.New("dist: invalid weights")

	// ErrNotNormalized indicates weights that do not sum to 1 within tolerance.
	ErrNotNormalized = errors.New("dist: weights do not sum to 1")
)

// DefaultTolerance is the sum-to-one slack accepted by constructors.
const DefaultTolerance = 1e-6

// Distribution is a probability mass function over an alphabet.
type Distribution interface {
	// Alphabet returns the alphabet the distribution is defined over.
	Alphabet() *alphabet.Alphabet

	// Weight returns the stored weight of a concrete symbol; ambiguity
	// symbols are resolved with the distribution's AmbiguityPolicy.
	Weight(s *alphabet.Symbol) (float64, error)

	// Probability is Weight with the ambiguity policy applied and the
	// result clamped to [0,1].
	Probability(s *alphabet.Symbol) (float64, error)

	// LogProbability returns the natural log of Probability (-Inf for 0).
	LogProbability(s *alphabet.Symbol) (float64, error)
}

// Sampler is implemented by distributions that can draw symbols.
type Sampler interface {
	Sample(r *rand.Rand) *alphabet.Symbol
}

// AmbiguityPolicy selects how an ambiguity symbol's weight is derived from
// its concrete members.
type AmbiguityPolicy int

const (
	// Sum adds the member weights (probability that any member was emitted).
	Sum AmbiguityPolicy = iota
	// Max takes the best member weight.
	Max
)

// String implements fmt.Stringer.
func (p AmbiguityPolicy) String() string {
	switch p {
	case Sum:
		return "sum"
	case Max:
		return "max"
	default:
		return fmt.Sprintf("AmbiguityPolicy(%d)", int(p))
	}
}

// Option configures distribution constructors.
type Option func(*config)

type config struct {
	tolerance float64
	policy    AmbiguityPolicy
}

func defaultConfig() config {
	return config{tolerance: DefaultTolerance, policy: Sum}
}

// WithTolerance sets the accepted |Σw - 1| slack. It panics on a negative
// or NaN tolerance, which is a programming error.
func WithTolerance(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) {
		panic(fmt.Sprintf("dist: WithTolerance(%g): tolerance must be >= 0", eps))
	}

	return func(c *config) { c.tolerance = eps }
}

// WithPolicy sets the ambiguity resolution policy.
func WithPolicy(p AmbiguityPolicy) Option {
	return func(c *config) { c.policy = p }
}

// resolve applies policy to the concrete weights returned by at.
func resolve(s *alphabet.Symbol, policy AmbiguityPolicy, at func(*alphabet.Symbol) float64) float64 {
	if !s.IsAmbiguous() {
		return at(s)
	}
	acc := 0.0
	for _, m := range s.Matches() {
		w := at(m)
		if policy == Max {
			if w > acc {
				acc = w
			}
			continue
		}
		acc += w
	}

	return acc
}

// clamp01 bounds p into [0,1]; ambiguity sums can exceed 1 by rounding.
func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}

	return p
}

// BitScore returns log2 of d's probability for s. Profile-HMM consumers
// report scores in bits.
func BitScore(d Distribution, s *alphabet.Symbol) (float64, error) {
	p, err := d.Probability(s)
	if err != nil {
		return 0, err
	}

	return math.Log2(p), nil
}
