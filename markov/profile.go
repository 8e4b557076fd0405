// SPDX-License-Identifier: MIT

package markov

import (
	"fmt"
	"math"
	"strconv"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dist"
)

// ProfileTransitions holds the per-column transition probabilities of a
// profile HMM, named Source→Target over Match, Insert and Delete. Each row
// (MM+MI+MD, IM+II+ID, DM+DI+DD) must sum to 1. Start behaves like a match
// state; in the last column the →Match and →Delete mass goes to End.
type ProfileTransitions struct {
	MM float64 `yaml:"mm" validate:"gte=0,lte=1"`
	MI float64 `yaml:"mi" validate:"gte=0,lte=1"`
	MD float64 `yaml:"md" validate:"gte=0,lte=1"`
	IM float64 `yaml:"im" validate:"gte=0,lte=1"`
	II float64 `yaml:"ii" validate:"gte=0,lte=1"`
	ID float64 `yaml:"id" validate:"gte=0,lte=1"`
	DM float64 `yaml:"dm" validate:"gte=0,lte=1"`
	DI float64 `yaml:"di" validate:"gte=0,lte=1"`
	DD float64 `yaml:"dd" validate:"gte=0,lte=1"`
}

// DefaultProfileTransitions favors staying on the match backbone.
func DefaultProfileTransitions() ProfileTransitions {
	return ProfileTransitions{
		MM: 0.9, MI: 0.05, MD: 0.05,
		IM: 0.6, II: 0.3, ID: 0.1,
		DM: 0.6, DI: 0.1, DD: 0.3,
	}
}

// ProfileHMM is a single-head model laid out as match/insert/delete columns.
//
// Columns are numbered 1..Columns(). Match(0) is Start and Match(Columns()+1)
// is End, so the backbone can be walked without special cases. Insert(0) is
// the leading insert reachable from Start; Delete has no column 0.
type ProfileHMM struct {
	*Model
	columns int
	match   []*State // 0..columns+1
	insert  []*State // 0..columns
	delete  []*State // 1..columns at [k-1]
}

// NewProfileHMM builds a profile over alpha with the given number of
// columns. matchDist supplies the emission distribution of column k
// (1-based); insertDist is shared by all insert states. Transitions with
// zero probability are left out.
//
// State labels: "i-0", then "m-k", "i-k", "d-k" for each column k.
//
// Errors: ErrColumnRange for columns < 1, *ModelInconsistencyError from
// validation (e.g. a row of t that does not sum to 1).
func NewProfileHMM(
	alpha *alphabet.Alphabet,
	columns int,
	matchDist func(col int) dist.Distribution,
	insertDist dist.Distribution,
	t ProfileTransitions,
) (*ProfileHMM, error) {
	if columns < 1 {
		return nil, fmt.Errorf("markov.NewProfileHMM: %d columns: %w", columns, ErrColumnRange)
	}
	if err := validate.Struct(t); err != nil {
		return nil, fmt.Errorf("markov.NewProfileHMM: %w: %v", ErrModelInconsistency, err)
	}
	b, err := NewBuilder(alpha)
	if err != nil {
		return nil, err
	}
	p := &ProfileHMM{
		columns: columns,
		match:   make([]*State, columns+2),
		insert:  make([]*State, columns+1),
		delete:  make([]*State, columns),
	}
	p.match[0], p.match[columns+1] = b.Start(), b.End()

	p.insert[0] = NewEmitting("i-0", insertDist, 1)
	if err = b.AddState(p.insert[0]); err != nil {
		return nil, err
	}
	for k := 1; k <= columns; k++ {
		n := strconv.Itoa(k)
		p.match[k] = NewEmitting("m-"+n, matchDist(k), 1)
		p.insert[k] = NewEmitting("i-"+n, insertDist, 1)
		p.delete[k-1] = NewSilent("d-" + n)
		if err = b.AddStates(p.match[k], p.insert[k], p.delete[k-1]); err != nil {
			return nil, err
		}
		for _, s := range []*State{p.match[k], p.insert[k], p.delete[k-1]} {
			_ = b.Annotate(s, "column", k)
		}
	}

	link := func(from, to *State, prob float64) {
		if err != nil || prob == 0 {
			return
		}
		err = b.SetTransition(from, to, prob)
	}
	// next wires a state to the next column's match and delete, merged into
	// End after the last column.
	next := func(from *State, k int, toM, toD float64) {
		if k == columns {
			link(from, b.End(), toM+toD)
			return
		}
		link(from, p.match[k+1], toM)
		link(from, p.delete[k], toD)
	}

	link(b.Start(), p.insert[0], t.MI)
	next(b.Start(), 0, t.MM, t.MD)
	link(p.insert[0], p.insert[0], t.II)
	next(p.insert[0], 0, t.IM, t.ID)
	for k := 1; k <= columns; k++ {
		link(p.match[k], p.insert[k], t.MI)
		next(p.match[k], k, t.MM, t.MD)
		link(p.insert[k], p.insert[k], t.II)
		next(p.insert[k], k, t.IM, t.ID)
		link(p.delete[k-1], p.insert[k], t.DI)
		next(p.delete[k-1], k, t.DM, t.DD)
	}
	if err != nil {
		return nil, fmt.Errorf("markov.NewProfileHMM: %w", err)
	}

	if p.Model, err = b.Build(); err != nil {
		return nil, fmt.Errorf("markov.NewProfileHMM: %w", err)
	}

	return p, nil
}

// Columns returns the number of match columns.
func (p *ProfileHMM) Columns() int { return p.columns }

// Match returns the match state of column k in 0..Columns()+1.
func (p *ProfileHMM) Match(k int) (*State, error) {
	if k < 0 || k > p.columns+1 {
		return nil, fmt.Errorf("markov.Match(%d): want 0..%d: %w", k, p.columns+1, ErrColumnRange)
	}

	return p.match[k], nil
}

// Insert returns the insert state of column k in 0..Columns().
func (p *ProfileHMM) Insert(k int) (*State, error) {
	if k < 0 || k > p.columns {
		return nil, fmt.Errorf("markov.Insert(%d): want 0..%d: %w", k, p.columns, ErrColumnRange)
	}

	return p.insert[k], nil
}

// Delete returns the delete state of column k in 1..Columns().
func (p *ProfileHMM) Delete(k int) (*State, error) {
	if k < 1 || k > p.columns {
		return nil, fmt.Errorf("markov.Delete(%d): want 1..%d: %w", k, p.columns, ErrColumnRange)
	}

	return p.delete[k-1], nil
}

// BitScore returns the base-2 log probability of s emitting sym.
func (p *ProfileHMM) BitScore(s *State, sym *alphabet.Symbol) (float64, error) {
	if p.Index(s) < 0 {
		return 0, fmt.Errorf("markov.BitScore(%v): %w", s, ErrUnknownState)
	}
	if s.IsSilent() {
		return 0, fmt.Errorf("markov.BitScore(%q): %w", s.label, ErrSilentState)
	}

	return dist.BitScore(s.dist, sym)
}

// Bits converts a natural-log score to bits.
func Bits(nats float64) float64 { return nats / math.Ln2 }
