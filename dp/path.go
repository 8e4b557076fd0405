// SPDX-License-Identifier: MIT

package dp

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/markov"
)

// Step is one visited state. Pos is the lattice position after the state
// consumed its symbols (for an emitting state, the 1-based index of its last
// symbol per head); Score is the Viterbi log score of that cell.
type Step struct {
	State      *markov.State
	StateIndex int
	Pos        [2]int
	Score      float64
}

// Path is an ordered state path from Start at (0,0) to End at the last
// position. Score is the log probability of the whole path.
type Path struct {
	Steps []Step
	Score float64
}

// Len returns the number of steps, Start and End included.
func (p *Path) Len() int { return len(p.Steps) }

// States returns the visited states in order.
func (p *Path) States() []*markov.State {
	out := make([]*markov.State, len(p.Steps))
	for k, st := range p.Steps {
		out[k] = st.State
	}

	return out
}

// Labels returns the visited state labels in order.
func (p *Path) Labels() []string {
	out := make([]string, len(p.Steps))
	for k, st := range p.Steps {
		out[k] = st.State.Label()
	}

	return out
}

// Advance sums the advance vectors of the visited states; for a complete
// path it equals the sequence lengths.
func (p *Path) Advance() [2]int {
	var adv [2]int
	for _, st := range p.Steps {
		adv[0] += st.State.AdvanceAt(0)
		adv[1] += st.State.AdvanceAt(1)
	}

	return adv
}

// String renders "start → A → end".
func (p *Path) String() string { return strings.Join(p.Labels(), " → ") }

// traceback walks back-pointers from End at (n, m).
func (e *Engine) traceback(lat *lattice, in *input, score float64) (*Path, error) {
	i, j, s := in.n, in.m, e.end
	limit := (in.n + 1) * (in.m + 1) * e.states
	var steps []Step
	for {
		steps = append(steps, Step{
			State:      e.model.StateAt(s),
			StateIndex: s,
			Pos:        [2]int{i, j},
			Score:      lat.cell(i, j)[s],
		})
		if s == e.start {
			break
		}
		bp := lat.bp(i, j, s)
		if bp.prev < 0 || len(steps) > limit {
			return nil, fmt.Errorf("dp: broken back-pointer at state %q (%d,%d): %w",
				e.model.StateAt(s).Label(), i, j, ErrInvalidPath)
		}
		s, i, j = int(bp.prev), i-int(bp.di), j-int(bp.dj)
	}
	for l, r := 0, len(steps)-1; l < r; l, r = l+1, r-1 {
		steps[l], steps[r] = steps[r], steps[l]
	}

	return &Path{Steps: steps, Score: score}, nil
}

// emission returns the log probability of s emitting the symbols x (head 0)
// and y (head 1) it consumes, and the emitted symbol itself.
func emission(s *markov.State, x, y *alphabet.Symbol) (float64, *alphabet.Symbol, error) {
	d := s.Distribution()
	sym := x
	switch {
	case s.AdvanceAt(0) == 1 && s.AdvanceAt(1) == 1:
		t, err := d.Alphabet().Tuple(x, y)
		if err != nil {
			return 0, nil, err
		}
		sym = t
	case s.AdvanceAt(1) == 1:
		sym = y
	}
	lp, err := d.LogProbability(sym)

	return lp, sym, err
}

// replay walks path over seqs, checking that it starts at Start (0,0),
// ends at End on the last position and that every step's position follows
// from its advance. visit sees each transition with the emitted symbol of
// the target (nil for silent targets).
func replay(model *markov.Model, path *Path, seqs []*alphabet.SymbolList,
	visit func(prev, cur Step, sym *alphabet.Symbol, logEmit float64) error) error {
	if model == nil {
		return ErrNilModel
	}
	if len(seqs) != model.Heads() {
		return fmt.Errorf("dp: %d sequences for %d heads: %w", len(seqs), model.Heads(), ErrSequences)
	}
	var lens [2]int
	lists := make([][]*alphabet.Symbol, 2)
	for h, l := range seqs {
		if l == nil {
			return fmt.Errorf("dp: sequence %d is nil: %w", h, ErrSequences)
		}
		if want := model.Alphabet(h); l.Alphabet() != want {
			return alphabet.Mismatch(nil, want, l.Alphabet())
		}
		lists[h], lens[h] = l.Slice(), l.Len()
	}
	if path == nil || len(path.Steps) < 2 {
		return fmt.Errorf("dp: path needs at least Start and End: %w", ErrInvalidPath)
	}
	first, last := path.Steps[0], path.Steps[len(path.Steps)-1]
	if first.State != model.Start() || first.Pos != [2]int{} {
		return fmt.Errorf("dp: path does not begin at the start state: %w", ErrInvalidPath)
	}
	if last.State != model.End() || last.Pos != lens {
		return fmt.Errorf("dp: path does not finish at the end state on %v: %w", lens, ErrInvalidPath)
	}

	pos := [2]int{}
	for k := 1; k < len(path.Steps); k++ {
		prev, cur := path.Steps[k-1], path.Steps[k]
		if model.Index(cur.State) < 0 {
			return fmt.Errorf("dp: step %d: %w", k, markov.ErrUnknownState)
		}
		var (
			sym *alphabet.Symbol
			lp  float64
		)
		if !cur.State.IsSilent() {
			di, dj := cur.State.AdvanceAt(0), cur.State.AdvanceAt(1)
			pos[0], pos[1] = pos[0]+di, pos[1]+dj
			if pos[0] > lens[0] || pos[1] > lens[1] {
				return fmt.Errorf("dp: step %d (%s) runs past the sequence end: %w", k, cur.State, ErrInvalidPath)
			}
			var x, y *alphabet.Symbol
			if di == 1 {
				x = lists[0][pos[0]-1]
			}
			if dj == 1 {
				y = lists[1][pos[1]-1]
			}
			var err error
			if lp, sym, err = emission(cur.State, x, y); err != nil {
				return fmt.Errorf("dp: step %d (%s): %w", k, cur.State, err)
			}
		}
		if cur.Pos != pos {
			return fmt.Errorf("dp: step %d (%s) at %v, expected %v: %w", k, cur.State, cur.Pos, pos, ErrInvalidPath)
		}
		if err := visit(prev, cur, sym, lp); err != nil {
			return err
		}
	}

	return nil
}

// PathScore replays path through model's transition and emission scores
// over seqs and returns its natural-log probability. For a Viterbi
// traceback it reproduces the matrix score exactly.
// Errors: ErrInvalidPath for an inconsistent path or a missing transition.
func PathScore(model *markov.Model, path *Path, seqs ...*alphabet.SymbolList) (float64, error) {
	score := 0.0
	err := replay(model, path, seqs, func(prev, cur Step, sym *alphabet.Symbol, lp float64) error {
		t := model.TransitionScore(prev.State, cur.State)
		if t == 0 {
			return fmt.Errorf("dp: no transition %s→%s: %w", prev.State, cur.State, ErrInvalidPath)
		}
		score += math.Log(t)
		if sym != nil {
			score = lp + score
		}
		return nil
	})
	if err != nil {
		return math.NaN(), err
	}

	return score, nil
}

// AccumulatePath feeds one count per transition and per emission of path
// into tr (Viterbi training).
func AccumulatePath(tr *markov.Trainer, path *Path, seqs ...*alphabet.SymbolList) error {
	if tr == nil {
		return ErrNilModel
	}

	return replay(tr.Model(), path, seqs, func(prev, cur Step, sym *alphabet.Symbol, _ float64) error {
		if err := tr.AddTransitionCount(prev.State, cur.State, 1); err != nil {
			return err
		}
		if sym != nil {
			return tr.AddEmissionCount(cur.State, sym, 1)
		}
		return nil
	})
}
