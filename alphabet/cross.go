// SPDX-License-Identifier: MIT

package alphabet

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrCrossTooLarge indicates that a cross product would exceed MaxCrossSize
// concrete symbols.
var ErrCrossTooLarge = errors.New("alphabet: cross product too large")

// MaxCrossSize bounds the number of concrete tuples materialized by CrossProduct.
const MaxCrossSize = 1 << 20

// crossRegistry memoizes cross products so identical parts share one *Alphabet.
var crossRegistry = struct {
	mu sync.Mutex
	m  map[string]*Alphabet
}{m: make(map[string]*Alphabet)}

// crossKey identifies an ordered list of part alphabets by pointer.
func crossKey(parts []*Alphabet) string {
	var sb strings.Builder
	for _, p := range parts {
		fmt.Fprintf(&sb, "%p;", p)
	}

	return sb.String()
}

// CrossProduct returns the canonical product alphabet of parts.
//
// The concrete tuple (s0, s1, ..., sk) has index Σ s_i.Index() * radix_i with
// radix_k = 1 and radix_i = radix_{i+1} * |A_{i+1}| (row-major), so for two
// parts index = i0*|A1| + i1. Calling CrossProduct again with the same parts
// returns the same pointer, which keeps alphabet identity checks meaningful.
//
// Errors: ErrEmptyAlphabet (no parts or a nil part), ErrCrossTooLarge.
// Complexity: O(Π|A_i|) on first call, O(k) afterwards.
func CrossProduct(parts ...*Alphabet) (*Alphabet, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("alphabet.CrossProduct: %w", ErrEmptyAlphabet)
	}
	for i, p := range parts {
		if p == nil || p.Size() == 0 {
			return nil, fmt.Errorf("alphabet.CrossProduct: part %d: %w", i, ErrEmptyAlphabet)
		}
	}

	key := crossKey(parts)
	crossRegistry.mu.Lock()
	defer crossRegistry.mu.Unlock()
	if a, ok := crossRegistry.m[key]; ok {
		return a, nil
	}

	// Mixed-radix multipliers, last part varies fastest.
	radix := make([]int, len(parts))
	size := 1
	for i := len(parts) - 1; i >= 0; i-- {
		radix[i] = size
		size *= parts[i].Size()
		if size > MaxCrossSize {
			return nil, fmt.Errorf("alphabet.CrossProduct: %d parts: %w", len(parts), ErrCrossTooLarge)
		}
	}

	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name()
	}
	a := &Alphabet{
		name:     "(" + strings.Join(names, " x ") + ")",
		concrete: make([]*Symbol, size),
		byToken:  map[rune]*Symbol{},
		parts:    append([]*Alphabet(nil), parts...),
		radix:    radix,
		tuples:   make(map[string]*Symbol),
	}

	comps := make([]*Symbol, len(parts))
	for idx := 0; idx < size; idx++ {
		rem := idx
		for i, p := range parts {
			comps[i] = p.concrete[rem/radix[i]]
			rem %= radix[i]
		}
		s := &Symbol{
			name:       tupleName(comps),
			index:      idx,
			components: append([]*Symbol(nil), comps...),
			alpha:      a,
		}
		s.matches = []*Symbol{s}
		a.concrete[idx] = s
	}
	crossRegistry.m[key] = a

	return a, nil
}

// tupleName renders "(a b c)".
func tupleName(comps []*Symbol) string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, c := range comps {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(c.name)
	}
	sb.WriteString(")")

	return sb.String()
}

// Tuple returns the cross-product symbol for the given components.
//
// All-concrete components map to the precomputed concrete tuple in O(k).
// If any component is an ambiguity symbol the result is an ambiguity symbol
// whose Matches() is the expansion of all component matches; such tuples are
// built once and cached on the alphabet.
//
// Errors: ErrIllegalSymbol when a is not a cross product or the arity is
// wrong; *AlphabetMismatchError when a component is foreign to its part.
func (a *Alphabet) Tuple(syms ...*Symbol) (*Symbol, error) {
	if a.parts == nil || len(syms) != len(a.parts) {
		return nil, fmt.Errorf("alphabet.Tuple on %q with %d components: %w", a.name, len(syms), ErrIllegalSymbol)
	}
	idx := 0
	ambiguous := false
	for i, s := range syms {
		if s == nil {
			return nil, &IllegalSymbolError{Alphabet: a.parts[i].Name()}
		}
		if !a.parts[i].Contains(s) {
			return nil, Mismatch(s, a.parts[i], s.Alphabet())
		}
		if s.index < 0 {
			ambiguous = true
			continue
		}
		idx += s.index * a.radix[i]
	}
	if !ambiguous {
		return a.concrete[idx], nil
	}

	name := tupleName(syms)
	a.tupleMu.Lock()
	defer a.tupleMu.Unlock()
	if t, ok := a.tuples[name]; ok {
		return t, nil
	}
	t := &Symbol{
		name:       name,
		index:      -1,
		components: append([]*Symbol(nil), syms...),
		matches:    a.expand(syms),
		alpha:      a,
	}
	a.tuples[name] = t

	return t, nil
}

// expand enumerates the concrete tuples covered by the component matches.
func (a *Alphabet) expand(syms []*Symbol) []*Symbol {
	out := []int{0}
	for i, s := range syms {
		next := make([]int, 0, len(out)*len(s.matches))
		for _, base := range out {
			for _, m := range s.matches {
				next = append(next, base+m.index*a.radix[i])
			}
		}
		out = next
	}
	res := make([]*Symbol, len(out))
	for i, idx := range out {
		res[i] = a.concrete[idx]
	}

	return res
}
