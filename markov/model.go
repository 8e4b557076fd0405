// SPDX-License-Identifier: MIT

package markov

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/core"
)

// Transition is one edge of a compiled model, addressed by state index.
type Transition struct {
	From, To int
	Prob     float64
	LogProb  float64
}

// Model is an immutable, validated HMM. All methods are safe for
// concurrent use.
type Model struct {
	alphas    []*alphabet.Alphabet
	states    []*State // index order: start, declared states, end
	index     map[*State]int
	byLabel   map[string]int
	topo      *core.Graph
	out       [][]Transition // by From index; targets in index order
	in        [][]Transition // by To index; sources in index order
	prob      map[[2]int]float64
	silent    []int   // topological order of silent states
	levels    [][]int // level schedule of silent states
	tolerance float64
}

// newModel compiles and validates a snapshot produced by Builder.Build.
func newModel(alphas []*alphabet.Alphabet, states []*State, topo *core.Graph, tol float64) (*Model, error) {
	m := &Model{
		alphas:    alphas,
		states:    states,
		index:     make(map[*State]int, len(states)),
		byLabel:   make(map[string]int, len(states)),
		topo:      topo,
		out:       make([][]Transition, len(states)),
		in:        make([][]Transition, len(states)),
		prob:      make(map[[2]int]float64),
		tolerance: tol,
	}
	for i, s := range states {
		m.index[s] = i
		m.byLabel[s.label] = i
	}
	for _, e := range topo.Edges() {
		t := Transition{From: m.byLabel[e.From], To: m.byLabel[e.To], Prob: e.Weight, LogProb: math.Log(e.Weight)}
		m.out[t.From] = append(m.out[t.From], t)
		m.in[t.To] = append(m.in[t.To], t)
		m.prob[[2]int{t.From, t.To}] = t.Prob
	}
	for i := range states {
		sort.SliceStable(m.out[i], func(a, b int) bool { return m.out[i][a].To < m.out[i][b].To })
		sort.SliceStable(m.in[i], func(a, b int) bool { return m.in[i][a].From < m.in[i][b].From })
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Start returns the distinguished silent start state (index 0).
func (m *Model) Start() *State { return m.states[0] }

// End returns the distinguished silent end state (last index).
func (m *Model) End() *State { return m.states[len(m.states)-1] }

// States returns all states in index order: Start, declared states, End.
func (m *Model) States() []*State { return append([]*State(nil), m.states...) }

// NumStates returns |S|.
func (m *Model) NumStates() int { return len(m.states) }

// StateAt returns the state with index i, or nil when out of range.
func (m *Model) StateAt(i int) *State {
	if i < 0 || i >= len(m.states) {
		return nil
	}

	return m.states[i]
}

// Index returns the dense index of s, or -1 if s is not part of the model.
func (m *Model) Index(s *State) int {
	if i, ok := m.index[s]; ok {
		return i
	}

	return -1
}

// StateByLabel looks a state up by label.
func (m *Model) StateByLabel(label string) (*State, error) {
	i, ok := m.byLabel[label]
	if !ok {
		return nil, fmt.Errorf("markov.StateByLabel(%q): %w", label, ErrUnknownState)
	}

	return m.states[i], nil
}

// Heads returns the number of heads (1 or 2).
func (m *Model) Heads() int { return len(m.alphas) }

// Alphabet returns the alphabet read by head h, or nil when h is out of range.
func (m *Model) Alphabet(h int) *alphabet.Alphabet {
	if h < 0 || h >= len(m.alphas) {
		return nil
	}

	return m.alphas[h]
}

// Tolerance returns the sum-to-one slack the model was validated with.
func (m *Model) Tolerance() float64 { return m.tolerance }

// EmissionAlphabet returns the alphabet an emitting state with advance adv
// must emit over: the head alphabet when exactly one head advances, the
// CrossProduct of the advancing heads' alphabets otherwise.
func (m *Model) EmissionAlphabet(adv []int) (*alphabet.Alphabet, error) {
	return emissionAlphabet(m.alphas, adv)
}

func emissionAlphabet(alphas []*alphabet.Alphabet, adv []int) (*alphabet.Alphabet, error) {
	if len(adv) != len(alphas) {
		return nil, fmt.Errorf("advance %v has %d entries for %d heads: %w", adv, len(adv), len(alphas), ErrHeads)
	}
	var parts []*alphabet.Alphabet
	for h, a := range adv {
		if a > 0 {
			parts = append(parts, alphas[h])
		}
	}
	switch len(parts) {
	case 0:
		return nil, fmt.Errorf("advance %v consumes nothing: %w", adv, ErrModelInconsistency)
	case 1:
		return parts[0], nil
	default:
		return alphabet.CrossProduct(parts...)
	}
}

// TransitionScore returns P(to | from), or 0 when there is no such edge.
func (m *Model) TransitionScore(from, to *State) float64 {
	i, j := m.Index(from), m.Index(to)
	if i < 0 || j < 0 {
		return 0
	}

	return m.prob[[2]int{i, j}]
}

// LogTransition returns the natural log of TransitionScore (-Inf for none).
func (m *Model) LogTransition(from, to *State) float64 {
	return math.Log(m.TransitionScore(from, to))
}

// StatesFrom returns the successors of s with nonzero probability, in index order.
func (m *Model) StatesFrom(s *State) []*State {
	i := m.Index(s)
	if i < 0 {
		return nil
	}
	out := make([]*State, len(m.out[i]))
	for k, t := range m.out[i] {
		out[k] = m.states[t.To]
	}

	return out
}

// StatesTo returns the predecessors of s, in index order.
func (m *Model) StatesTo(s *State) []*State {
	i := m.Index(s)
	if i < 0 {
		return nil
	}
	out := make([]*State, len(m.in[i]))
	for k, t := range m.in[i] {
		out[k] = m.states[t.From]
	}

	return out
}

// Out returns a copy of the transitions leaving state index i.
func (m *Model) Out(i int) []Transition { return append([]Transition(nil), m.out[i]...) }

// In returns a copy of the transitions entering state index i, sources in
// index order.
func (m *Model) In(i int) []Transition { return append([]Transition(nil), m.in[i]...) }

// SilentOrder returns the silent states (Start and End included) in a
// topological order of the silent sub-graph: level by level (see
// SilentLevels), by index within a level.
func (m *Model) SilentOrder() []*State {
	out := make([]*State, len(m.silent))
	for k, i := range m.silent {
		out[k] = m.states[i]
	}

	return out
}

// SilentIndexOrder is SilentOrder as state indices.
func (m *Model) SilentIndexOrder() []int { return append([]int(nil), m.silent...) }

// SilentLevels groups SilentOrder into dependency levels; states within a
// level have no silent edges between them.
func (m *Model) SilentLevels() [][]*State {
	out := make([][]*State, len(m.levels))
	for l, lvl := range m.levels {
		out[l] = make([]*State, len(lvl))
		for k, i := range lvl {
			out[l][k] = m.states[i]
		}
	}

	return out
}

// SilentIndexLevels is SilentLevels as state indices.
func (m *Model) SilentIndexLevels() [][]int {
	out := make([][]int, len(m.levels))
	for l, lvl := range m.levels {
		out[l] = append([]int(nil), lvl...)
	}

	return out
}

// Topology returns a clone of the transition graph (vertex = label,
// weight = probability, metadata = annotations).
func (m *Model) Topology() *core.Graph { return m.topo.Clone() }

// Annotation returns a copy of the annotation bag of s.
func (m *Model) Annotation(s *State) map[string]any {
	if m.Index(s) < 0 {
		return nil
	}
	v, err := m.topo.Vertex(s.label)
	if err != nil {
		return nil
	}
	out := make(map[string]any, len(v.Metadata))
	for k, val := range v.Metadata {
		out[k] = val
	}

	return out
}

// TransitionMatrix returns the |S|×|S| matrix of linear transition
// probabilities indexed by state index.
func (m *Model) TransitionMatrix() *mat.Dense {
	n := len(m.states)
	t := mat.NewDense(n, n, nil)
	for i := range m.out {
		for _, tr := range m.out[i] {
			t.Set(tr.From, tr.To, tr.Prob)
		}
	}

	return t
}
