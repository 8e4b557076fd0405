// SPDX-License-Identifier: MIT

package alphabet

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers branch with errors.Is; the typed errors below
// unwrap to these sentinels and add the offending context.
var (
	// ErrIllegalSymbol indicates a token or symbol outside the alphabet.
	ErrIllegalSymbol = errors.New("alphabet: illegal symbol")

	// ErrAlphabetMismatch indicates a symbol (or list) belongs to another alphabet.
	ErrAlphabetMismatch = errors.New("alphabet: alphabet mismatch")

	// ErrEmptyAlphabet indicates an alphabet without concrete symbols.
	ErrEmptyAlphabet = errors.New("alphabet: no symbols")

	// ErrDuplicateToken indicates that a token was declared more than once.
	ErrDuplicateToken = errors.New("alphabet: duplicate token")

	// ErrOutOfRange indicates a 1-based position outside 1..Len().
	ErrOutOfRange = errors.New("alphabet: index out of range")
)

// IllegalSymbolError reports a token that could not be resolved.
// Position is the 1-based sequence position when known, 0 otherwise.
type IllegalSymbolError struct {
	Token    rune   // offending token (0 when the symbol had no token)
	Name     string // symbol name when a *Symbol was supplied
	Alphabet string // alphabet that rejected it
	Position int    // 1-based position in a sequence, 0 if not applicable
}

// Error implements error.
func (e *IllegalSymbolError) Error() string {
	what := e.Name
	if what == "" {
		what = fmt.Sprintf("%q", e.Token)
	}
	if e.Position > 0 {
		return fmt.Sprintf("alphabet: illegal symbol %s at position %d for alphabet %q", what, e.Position, e.Alphabet)
	}

	return fmt.Sprintf("alphabet: illegal symbol %s for alphabet %q", what, e.Alphabet)
}

// Unwrap exposes ErrIllegalSymbol to errors.Is.
func (e *IllegalSymbolError) Unwrap() error { return ErrIllegalSymbol }

// AlphabetMismatchError reports that a symbol or list was used with an
// alphabet other than the one it was declared over.
type AlphabetMismatchError struct {
	Symbol string // offending symbol name, empty for whole-list mismatches
	Want   string // expected alphabet name
	Got    string // actual alphabet name
}

// Error implements error.
func (e *AlphabetMismatchError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("alphabet: alphabet mismatch: want %q, got %q", e.Want, e.Got)
	}

	return fmt.Sprintf("alphabet: alphabet mismatch for symbol %s: want %q, got %q", e.Symbol, e.Want, e.Got)
}

// Unwrap exposes ErrAlphabetMismatch to errors.Is.
func (e *AlphabetMismatchError) Unwrap() error { return ErrAlphabetMismatch }

// Mismatch builds an AlphabetMismatchError for sym against want.
// A nil sym produces a whole-list mismatch against got.
func Mismatch(sym *Symbol, want, got *Alphabet) *AlphabetMismatchError {
	e := &AlphabetMismatchError{Want: want.Name(), Got: got.Name()}
	if sym != nil {
		e.Symbol = sym.Name()
	}

	return e
}
