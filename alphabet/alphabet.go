// SPDX-License-Identifier: MIT

package alphabet

import (
	"fmt"
	"strings"
	"sync"
)

// Symbol is a token identity within exactly one Alphabet.
//
// Concrete symbols have Index() in 0..Size()-1 and Matches() == {itself}.
// Ambiguity symbols have Index() == -1 and Matches() lists their concrete
// members. Symbols are compared by pointer.
type Symbol struct {
	name       string
	token      rune      // 0 for cross-product tuples
	index      int       // dense concrete index, -1 for ambiguity symbols
	matches    []*Symbol // concrete members; {self} for concrete symbols
	components []*Symbol // tuple parts, cross-product symbols only
	alpha      *Alphabet
}

// Name returns the printable name (the token for simple alphabets,
// "(a b)" for cross-product tuples).
func (s *Symbol) Name() string { return s.name }

// Token returns the rune the symbol was declared with (0 for tuples).
func (s *Symbol) Token() rune { return s.token }

// Index returns the dense concrete index, or -1 for ambiguity symbols.
func (s *Symbol) Index() int { return s.index }

// IsAmbiguous reports whether the symbol stands for more than one concrete symbol.
func (s *Symbol) IsAmbiguous() bool { return s.index < 0 }

// Matches returns the concrete symbols this symbol resolves to.
// The returned slice is shared; do not modify it.
func (s *Symbol) Matches() []*Symbol { return s.matches }

// Components returns the tuple parts of a cross-product symbol, nil otherwise.
func (s *Symbol) Components() []*Symbol { return s.components }

// Alphabet returns the owning alphabet.
func (s *Symbol) Alphabet() *Alphabet { return s.alpha }

// String implements fmt.Stringer.
func (s *Symbol) String() string { return s.name }

// Alphabet is an immutable finite set of symbols.
type Alphabet struct {
	name      string
	concrete  []*Symbol          // dense, index order
	ambiguous []*Symbol          // declaration order
	byToken   map[rune]*Symbol   // concrete + ambiguity lookup
	parts     []*Alphabet        // cross-product parts, nil for simple alphabets
	radix     []int              // mixed-radix multipliers for parts
	tupleMu   sync.Mutex         // guards tuples
	tuples    map[string]*Symbol // lazily built ambiguous tuples
}

// Option configures New.
type Option func(*buildConfig)

type ambiguityDecl struct {
	token   rune
	members string
}

type buildConfig struct {
	ambiguities []ambiguityDecl
}

// WithAmbiguity declares token as an ambiguity symbol resolving to the
// concrete tokens listed in members. Resolution happens in New, which
// reports unknown members as *IllegalSymbolError.
func WithAmbiguity(token rune, members string) Option {
	return func(c *buildConfig) {
		c.ambiguities = append(c.ambiguities, ambiguityDecl{token: token, members: members})
	}
}

// New builds an alphabet named name whose concrete symbols are the runes of
// tokens, in order.
//
// Implementation:
//   - Stage 1: validate tokens (non-empty, no duplicates) and create concrete symbols.
//   - Stage 2: resolve each WithAmbiguity declaration against the concrete set.
//
// Errors: ErrEmptyAlphabet, ErrDuplicateToken, *IllegalSymbolError.
// Complexity: O(T + Σ|members|).
func New(name string, tokens string, opts ...Option) (*Alphabet, error) {
	cfg := buildConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	runes := []rune(tokens)
	if len(runes) == 0 {
		return nil, fmt.Errorf("alphabet.New(%q): %w", name, ErrEmptyAlphabet)
	}

	a := &Alphabet{
		name:     name,
		concrete: make([]*Symbol, 0, len(runes)),
		byToken:  make(map[rune]*Symbol, len(runes)+len(cfg.ambiguities)),
	}
	for i, r := range runes {
		if _, dup := a.byToken[r]; dup {
			return nil, fmt.Errorf("alphabet.New(%q): token %q: %w", name, r, ErrDuplicateToken)
		}
		s := &Symbol{name: string(r), token: r, index: i, alpha: a}
		s.matches = []*Symbol{s}
		a.concrete = append(a.concrete, s)
		a.byToken[r] = s
	}

	for _, decl := range cfg.ambiguities {
		if _, dup := a.byToken[decl.token]; dup {
			return nil, fmt.Errorf("alphabet.New(%q): token %q: %w", name, decl.token, ErrDuplicateToken)
		}
		members := make([]*Symbol, 0, len(decl.members))
		seen := make(map[*Symbol]bool, len(decl.members))
		for _, m := range decl.members {
			c, ok := a.byToken[m]
			if !ok || c.index < 0 {
				return nil, &IllegalSymbolError{Token: m, Alphabet: name}
			}
			if !seen[c] {
				seen[c] = true
				members = append(members, c)
			}
		}
		if len(members) == 0 {
			return nil, fmt.Errorf("alphabet.New(%q): ambiguity %q has no members: %w", name, decl.token, ErrEmptyAlphabet)
		}
		s := &Symbol{name: string(decl.token), token: decl.token, index: -1, matches: members, alpha: a}
		a.ambiguous = append(a.ambiguous, s)
		a.byToken[decl.token] = s
	}

	return a, nil
}

// Name returns the alphabet name. A nil alphabet reports "<nil>".
func (a *Alphabet) Name() string {
	if a == nil {
		return "<nil>"
	}

	return a.name
}

// Size returns the number of concrete symbols.
func (a *Alphabet) Size() int { return len(a.concrete) }

// Symbols returns the concrete symbols in index order (a copy).
func (a *Alphabet) Symbols() []*Symbol {
	out := make([]*Symbol, len(a.concrete))
	copy(out, a.concrete)

	return out
}

// Ambiguities returns the declared ambiguity symbols in declaration order (a copy).
func (a *Alphabet) Ambiguities() []*Symbol {
	out := make([]*Symbol, len(a.ambiguous))
	copy(out, a.ambiguous)

	return out
}

// ByIndex returns the concrete symbol at index i.
func (a *Alphabet) ByIndex(i int) (*Symbol, error) {
	if i < 0 || i >= len(a.concrete) {
		return nil, fmt.Errorf("alphabet.ByIndex(%d) on %q: %w", i, a.name, ErrOutOfRange)
	}

	return a.concrete[i], nil
}

// Symbol resolves a token to its symbol (concrete or ambiguity).
// Cross-product alphabets have no tokens; use Tuple instead.
func (a *Alphabet) Symbol(token rune) (*Symbol, error) {
	s, ok := a.byToken[token]
	if !ok {
		return nil, &IllegalSymbolError{Token: token, Alphabet: a.name}
	}

	return s, nil
}

// Contains reports whether s belongs to a.
func (a *Alphabet) Contains(s *Symbol) bool {
	return s != nil && s.alpha == a
}

// Parts returns the component alphabets of a cross product, nil otherwise.
func (a *Alphabet) Parts() []*Alphabet {
	if a.parts == nil {
		return nil
	}
	out := make([]*Alphabet, len(a.parts))
	copy(out, a.parts)

	return out
}

// String implements fmt.Stringer.
func (a *Alphabet) String() string {
	var sb strings.Builder
	sb.WriteString(a.name)
	sb.WriteString("{")
	for i, s := range a.concrete {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(s.name)
	}
	sb.WriteString("}")

	return sb.String()
}
