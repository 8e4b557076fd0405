// SPDX-License-Identifier: MIT

package dp

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dist"
	"github.com/katalvlaran/hmmdp/markov"
)

// Engine runs DP recursions over one model. It compiles index-based
// transition and log-emission tables once; afterwards it is read-only and
// safe for concurrent use by any number of runs.
type Engine struct {
	model  *markov.Model
	opts   Options
	log    *slog.Logger
	heads  int
	states int
	start  int
	end    int

	emitting []int   // emitting state indices, index order
	silent   []int   // silent state indices, topological order
	levels   [][]int // silent levels for intra-cell parallelism
	revLevel [][]int // levels in reverse, for Backward

	in  [][]markov.Transition // predecessors, sources in index order
	out [][]markov.Transition // successors, targets in index order

	emit []*emitter // by state index; nil for silent states
}

// emitter scores the symbols an emitting state consumes at one cell.
type emitter struct {
	adv    [2]int
	alpha  *alphabet.Alphabet // emission alphabet (head or cross product)
	dist   dist.Distribution
	table  []float64 // log probability by concrete symbol index
	stride int       // |second head alphabet| for pair tuples
}

// New compiles model for repeated DP runs.
// Errors: ErrNilModel, ErrOptions, and distribution errors while tabulating
// log emissions.
func New(model *markov.Model, opts ...Option) (*Engine, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.check(); err != nil {
		return nil, err
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	n := model.NumStates()
	e := &Engine{
		model:    model,
		opts:     o,
		log:      o.Logger.With(slog.String("component", "dp")),
		heads:    model.Heads(),
		states:   n,
		start:    model.Index(model.Start()),
		end:      model.Index(model.End()),
		silent:   model.SilentIndexOrder(),
		levels:   model.SilentIndexLevels(),
		in:       make([][]markov.Transition, n),
		out:      make([][]markov.Transition, n),
		emit:     make([]*emitter, n),
	}
	for l := len(e.levels) - 1; l >= 0; l-- {
		e.revLevel = append(e.revLevel, e.levels[l])
	}

	for i, s := range model.States() {
		e.in[i] = model.In(i)
		e.out[i] = model.Out(i)
		if s.IsSilent() {
			continue
		}
		em, err := e.compileEmitter(s)
		if err != nil {
			return nil, fmt.Errorf("dp.New: state %q: %w", s.Label(), err)
		}
		e.emit[i] = em
		e.emitting = append(e.emitting, i)
	}

	return e, nil
}

func (e *Engine) compileEmitter(s *markov.State) (*emitter, error) {
	d := s.Distribution()
	em := &emitter{dist: d, alpha: d.Alphabet()}
	for h := 0; h < e.heads; h++ {
		em.adv[h] = s.AdvanceAt(h)
	}
	if e.heads == 2 {
		em.stride = e.model.Alphabet(1).Size()
	}
	syms := em.alpha.Symbols()
	em.table = make([]float64, len(syms))
	for k, sym := range syms {
		lp, err := d.LogProbability(sym)
		if err != nil {
			return nil, err
		}
		em.table[k] = lp
	}

	return em, nil
}

// score returns the log emission of the symbols x (head 0) and y (head 1)
// consumed by this state; the operand of a non-advancing head is ignored.
func (em *emitter) score(x, y *alphabet.Symbol) (float64, error) {
	var sym *alphabet.Symbol
	switch {
	case em.adv[0] == 1 && em.adv[1] == 1:
		if !x.IsAmbiguous() && !y.IsAmbiguous() {
			return em.table[x.Index()*em.stride+y.Index()], nil
		}
		t, err := em.alpha.Tuple(x, y)
		if err != nil {
			return 0, err
		}
		return em.dist.LogProbability(t)
	case em.adv[0] == 1:
		sym = x
	default:
		sym = y
	}
	if !sym.IsAmbiguous() {
		return em.table[sym.Index()], nil
	}

	return em.dist.LogProbability(sym)
}

// Model returns the compiled model.
func (e *Engine) Model() *markov.Model { return e.model }

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// input holds the borrowed sequences of one run.
type input struct {
	a, b    []*alphabet.Symbol
	n, m    int // lengths; m = 0 for a single head
	lengths []int
}

// prepare checks the sequences against the model's heads and alphabets.
// Errors: ErrSequences, *alphabet.AlphabetMismatchError, *alphabet.IllegalSymbolError.
func (e *Engine) prepare(seqs []*alphabet.SymbolList) (*input, error) {
	if len(seqs) != e.heads {
		return nil, fmt.Errorf("dp: %d sequences for %d heads: %w", len(seqs), e.heads, ErrSequences)
	}
	in := &input{lengths: make([]int, len(seqs))}
	for h, l := range seqs {
		want := e.model.Alphabet(h)
		if l == nil {
			return nil, fmt.Errorf("dp: sequence %d is nil: %w", h, ErrSequences)
		}
		if l.Alphabet() != want {
			return nil, alphabet.Mismatch(nil, want, l.Alphabet())
		}
		syms := l.Slice()
		for i, s := range syms {
			if !want.Contains(s) {
				ise := &alphabet.IllegalSymbolError{Alphabet: want.Name(), Position: i + 1}
				if s != nil {
					ise.Name, ise.Token = s.Name(), s.Token()
				}
				return nil, ise
			}
		}
		in.lengths[h] = len(syms)
		if h == 0 {
			in.a, in.n = syms, len(syms)
		} else {
			in.b, in.m = syms, len(syms)
		}
	}

	return in, nil
}

// dims returns the lattice shape for in: positions per head, then |S|.
func (e *Engine) dims(in *input) []int {
	if e.heads == 1 {
		return []int{in.n + 1, e.states}
	}

	return []int{in.n + 1, in.m + 1, e.states}
}
