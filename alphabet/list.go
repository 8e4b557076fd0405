// SPDX-License-Identifier: MIT

package alphabet

import (
	"fmt"
	"strings"
)

// SymbolList is an immutable ordered sequence of symbols over one alphabet.
//
// Positions are 1-based: At(1) is the first symbol and At(Len()) the last.
// Position 0 is the "before the first symbol" boundary used by DP matrices.
type SymbolList struct {
	alpha *Alphabet
	syms  []*Symbol
}

// NewSymbolList copies syms into a new list over a.
// Every symbol must belong to a (concrete or ambiguity).
//
// Errors: ErrEmptyAlphabet for a nil alphabet, *AlphabetMismatchError for
// foreign symbols, *IllegalSymbolError for nil entries.
func NewSymbolList(a *Alphabet, syms []*Symbol) (*SymbolList, error) {
	if a == nil {
		return nil, fmt.Errorf("alphabet.NewSymbolList: %w", ErrEmptyAlphabet)
	}
	out := make([]*Symbol, len(syms))
	for i, s := range syms {
		if s == nil {
			return nil, &IllegalSymbolError{Alphabet: a.name, Position: i + 1}
		}
		if !a.Contains(s) {
			return nil, Mismatch(s, a, s.alpha)
		}
		out[i] = s
	}

	return &SymbolList{alpha: a, syms: out}, nil
}

// Parse tokenizes text rune by rune over a.
// Errors: *IllegalSymbolError carrying the offending token and its 1-based position.
// Complexity: O(len(text)).
func Parse(a *Alphabet, text string) (*SymbolList, error) {
	if a == nil {
		return nil, fmt.Errorf("alphabet.Parse: %w", ErrEmptyAlphabet)
	}
	runes := []rune(text)
	syms := make([]*Symbol, len(runes))
	for i, r := range runes {
		s, ok := a.byToken[r]
		if !ok {
			return nil, &IllegalSymbolError{Token: r, Alphabet: a.name, Position: i + 1}
		}
		syms[i] = s
	}

	return &SymbolList{alpha: a, syms: syms}, nil
}

// MustParse is Parse for literals in tests and examples; it panics on error.
func MustParse(a *Alphabet, text string) *SymbolList {
	l, err := Parse(a, text)
	if err != nil {
		panic(err)
	}

	return l
}

// Alphabet returns the list's alphabet.
func (l *SymbolList) Alphabet() *Alphabet { return l.alpha }

// Len returns the number of symbols.
func (l *SymbolList) Len() int { return len(l.syms) }

// At returns the symbol at 1-based position i.
func (l *SymbolList) At(i int) (*Symbol, error) {
	if i < 1 || i > len(l.syms) {
		return nil, fmt.Errorf("SymbolList.At(%d) len=%d: %w", i, len(l.syms), ErrOutOfRange)
	}

	return l.syms[i-1], nil
}

// Slice exposes the backing slice (0-based) without copying.
// The DP engine borrows it for the duration of a run; callers must treat it
// as read-only.
func (l *SymbolList) Slice() []*Symbol { return l.syms }

// String renders the tokens (tuple names for cross-product lists).
func (l *SymbolList) String() string {
	var sb strings.Builder
	for _, s := range l.syms {
		if s.token != 0 {
			sb.WriteRune(s.token)
		} else {
			sb.WriteString(s.name)
		}
	}

	return sb.String()
}
