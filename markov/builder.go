// SPDX-License-Identifier: MIT

package markov

import (
	"fmt"
	"math"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/core"
	"github.com/katalvlaran/hmmdp/dist"
)

// Labels of the distinguished silent states created by every Builder.
const (
	StartLabel = "start"
	EndLabel   = "end"
)

// Builder assembles a Model. It is not safe for concurrent use.
//
// Every Builder owns the silent Start and End states; callers add the
// remaining states, wire transitions, and call Build, which validates and
// snapshots the topology. The Builder stays usable after Build: later
// changes never reach models that were already built.
type Builder struct {
	alphas    []*alphabet.Alphabet
	start     *State
	end       *State
	states    []*State // declared order, start first, end excluded
	byLabel   map[string]*State
	graph     *core.Graph
	tolerance float64
}

// NewBuilder starts a model over one alphabet per head (1 or 2).
// Errors: ErrHeads for a head count outside 1..2 or a nil alphabet.
func NewBuilder(alphabets ...*alphabet.Alphabet) (*Builder, error) {
	if len(alphabets) < 1 || len(alphabets) > 2 {
		return nil, fmt.Errorf("markov.NewBuilder: %d alphabets: %w", len(alphabets), ErrHeads)
	}
	for i, a := range alphabets {
		if a == nil {
			return nil, fmt.Errorf("markov.NewBuilder: alphabet %d is nil: %w", i, ErrHeads)
		}
	}
	b := &Builder{
		alphas:    append([]*alphabet.Alphabet(nil), alphabets...),
		start:     NewSilent(StartLabel),
		end:       NewSilent(EndLabel),
		byLabel:   make(map[string]*State),
		graph:     core.NewGraph(core.WithLoops()),
		tolerance: dist.DefaultTolerance,
	}
	b.register(b.start)
	b.byLabel[EndLabel] = b.end
	_ = b.graph.AddVertex(EndLabel)

	return b, nil
}

func (b *Builder) register(s *State) {
	b.states = append(b.states, s)
	b.byLabel[s.label] = s
	_ = b.graph.AddVertex(s.label)
}

// Start returns the distinguished silent start state.
func (b *Builder) Start() *State { return b.start }

// End returns the distinguished silent end state.
func (b *Builder) End() *State { return b.end }

// Heads returns the number of heads.
func (b *Builder) Heads() int { return len(b.alphas) }

// SetTolerance sets the accepted |Σp - 1| slack for outgoing transitions.
func (b *Builder) SetTolerance(eps float64) error {
	if eps < 0 || math.IsNaN(eps) {
		return fmt.Errorf("markov.SetTolerance(%g): %w", eps, ErrModelInconsistency)
	}
	b.tolerance = eps

	return nil
}

// AddState declares s. States are indexed in declaration order, after Start.
// Errors: ErrDuplicateLabel, ErrUnknownState for nil.
func (b *Builder) AddState(s *State) error {
	if s == nil {
		return fmt.Errorf("markov.AddState: nil state: %w", ErrUnknownState)
	}
	if s.label == "" {
		return inconsistent("", "", "empty state label")
	}
	if _, dup := b.byLabel[s.label]; dup {
		return fmt.Errorf("markov.AddState(%q): %w", s.label, ErrDuplicateLabel)
	}
	b.register(s)

	return nil
}

// AddStates declares several states in order.
func (b *Builder) AddStates(states ...*State) error {
	for _, s := range states {
		if err := b.AddState(s); err != nil {
			return err
		}
	}

	return nil
}

func (b *Builder) owns(s *State) bool {
	return s != nil && b.byLabel[s.label] == s
}

// SetTransition sets P(to | from) = p, replacing any previous value.
// Errors: ErrUnknownState, *ModelInconsistencyError for p outside (0,1].
func (b *Builder) SetTransition(from, to *State, p float64) error {
	if !b.owns(from) || !b.owns(to) {
		return fmt.Errorf("markov.SetTransition(%v→%v): %w", from, to, ErrUnknownState)
	}
	if !(p > 0 && p <= 1) {
		return inconsistent(from.label, to.label, "transition probability %g outside (0,1]", p)
	}
	if b.graph.HasEdge(from.label, to.label) {
		return b.graph.SetWeight(from.label, to.label, p)
	}

	return b.graph.AddEdge(from.label, to.label, p)
}

// Annotate stores key=value in the state's annotation bag. Annotations are
// carried into the built model and ignored by the DP.
func (b *Builder) Annotate(s *State, key string, value any) error {
	if !b.owns(s) {
		return fmt.Errorf("markov.Annotate(%v): %w", s, ErrUnknownState)
	}

	return b.graph.SetMetadata(s.label, key, value)
}

// Build validates the declared model and returns an immutable snapshot.
// Errors: *ModelInconsistencyError (errors.Is ErrModelInconsistency).
func (b *Builder) Build() (*Model, error) {
	states := make([]*State, 0, len(b.states)+1)
	states = append(states, b.states...)
	states = append(states, b.end)

	// Metadata maps are shared by Clone; give the model its own copies.
	topo := b.graph.Clone()
	for _, s := range states {
		v, _ := topo.Vertex(s.label)
		bag := make(map[string]any, len(v.Metadata))
		for k, val := range v.Metadata {
			bag[k] = val
		}
		v.Metadata = bag
	}

	return newModel(b.alphas, states, topo, b.tolerance)
}
