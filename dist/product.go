// SPDX-License-Identifier: MIT

package dist

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/hmmdp/alphabet"
)

// Product is the independent joint distribution of its parts over the
// canonical CrossProduct of their alphabets: P((a,b)) = P1(a)·P2(b).
type Product struct {
	alpha  *alphabet.Alphabet
	parts  []Distribution
	policy AmbiguityPolicy
}

var _ Distribution = (*Product)(nil)

// NewProduct combines parts into a joint distribution.
// Errors: ErrInvalidWeights for an empty or nil part list, plus any
// alphabet.CrossProduct error.
func NewProduct(parts ...Distribution) (*Product, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("dist.NewProduct: no parts: %w", ErrInvalidWeights)
	}
	alphas := make([]*alphabet.Alphabet, len(parts))
	for i, p := range parts {
		if p == nil {
			return nil, fmt.Errorf("dist.NewProduct: part %d is nil: %w", i, ErrInvalidWeights)
		}
		alphas[i] = p.Alphabet()
	}
	cross, err := alphabet.CrossProduct(alphas...)
	if err != nil {
		return nil, fmt.Errorf("dist.NewProduct: %w", err)
	}

	return &Product{alpha: cross, parts: append([]Distribution(nil), parts...), policy: Sum}, nil
}

// Alphabet implements Distribution.
func (p *Product) Alphabet() *alphabet.Alphabet { return p.alpha }

// concrete multiplies the part weights of a concrete tuple.
func (p *Product) concrete(sym *alphabet.Symbol) float64 {
	w := 1.0
	for i, c := range sym.Components() {
		pw, err := p.parts[i].Weight(c)
		if err != nil {
			return 0 // components are validated by the cross alphabet
		}
		w *= pw
	}

	return w
}

// Weight implements Distribution.
func (p *Product) Weight(sym *alphabet.Symbol) (float64, error) {
	if !p.alpha.Contains(sym) {
		return 0, mismatch(sym, p.alpha)
	}

	return resolve(sym, p.policy, p.concrete), nil
}

// Probability implements Distribution.
func (p *Product) Probability(sym *alphabet.Symbol) (float64, error) {
	w, err := p.Weight(sym)
	if err != nil {
		return 0, err
	}

	return clamp01(w), nil
}

// LogProbability implements Distribution.
func (p *Product) LogProbability(sym *alphabet.Symbol) (float64, error) {
	pr, err := p.Probability(sym)
	if err != nil {
		return 0, err
	}

	return math.Log(pr), nil
}

// Sample draws each component independently. Parts that are not Samplers
// cause Sample to return nil.
func (p *Product) Sample(r *rand.Rand) *alphabet.Symbol {
	comps := make([]*alphabet.Symbol, len(p.parts))
	for i, part := range p.parts {
		s, ok := part.(Sampler)
		if !ok {
			return nil
		}
		comps[i] = s.Sample(r)
	}
	t, err := p.alpha.Tuple(comps...)
	if err != nil {
		return nil
	}

	return t
}
