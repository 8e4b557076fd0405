// SPDX-License-Identifier: MIT
//
// File: methods_edges.go
// Role: Edge lifecycle & adjacency queries.
//
// Determinism:
//   - Successors/Predecessors/Edges preserve edge insertion order; callers
//     rely on it for "first declared predecessor wins" tie-breaking.
//
// Concurrency:
//   - Returned *Edge values are copies; mutating them does not touch the graph.

package core

import (
	"fmt"
	"math"
)

// AddEdge inserts the directed edge from→to with weight w, auto-creating
// missing endpoints.
//
// Implementation:
//   - Stage 1: Validate IDs, weight (finite) and the loop policy.
//   - Stage 2: Reject a duplicate ordered pair (ErrMultiEdgeNotAllowed).
//   - Stage 3: Append to the out/in indexes and the global sequence.
//
// Errors: ErrEmptyVertexID, ErrBadWeight, ErrLoopNotAllowed, ErrMultiEdgeNotAllowed.
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to string, w float64) error {
	if from == "" || to == "" {
		return ErrEmptyVertexID
	}
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("core.AddEdge(%q→%q): weight %g: %w", from, to, w, ErrBadWeight)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if from == to && !g.allowLoops {
		return fmt.Errorf("core.AddEdge(%q): %w", from, ErrLoopNotAllowed)
	}
	key := [2]string{from, to}
	if _, dup := g.idx[key]; dup {
		return fmt.Errorf("core.AddEdge(%q→%q): %w", from, to, ErrMultiEdgeNotAllowed)
	}
	g.addVertexLocked(from)
	g.addVertexLocked(to)

	e := &Edge{From: from, To: to, Weight: w}
	g.idx[key] = e
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	g.seq = append(g.seq, e)

	return nil
}

// SetWeight overwrites the weight of an existing edge, keeping its position.
func (g *Graph) SetWeight(from, to string, w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("core.SetWeight(%q→%q): weight %g: %w", from, to, w, ErrBadWeight)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.idx[[2]string{from, to}]
	if !ok {
		return fmt.Errorf("core.SetWeight(%q→%q): %w", from, to, ErrEdgeNotFound)
	}
	e.Weight = w

	return nil
}

// HasEdge reports whether from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.idx[[2]string{from, to}]

	return ok
}

// Edge returns a copy of the edge from→to.
func (g *Graph) Edge(from, to string) (Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.idx[[2]string{from, to}]
	if !ok {
		return Edge{}, fmt.Errorf("core.Edge(%q→%q): %w", from, to, ErrEdgeNotFound)
	}

	return *e, nil
}

// Successors returns the edges leaving id, in insertion order.
// Errors: ErrVertexNotFound.
func (g *Graph) Successors(id string) ([]Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return nil, fmt.Errorf("core.Successors(%q): %w", id, ErrVertexNotFound)
	}

	return copyEdges(g.out[id]), nil
}

// Predecessors returns the edges entering id, in insertion order.
// Errors: ErrVertexNotFound.
func (g *Graph) Predecessors(id string) ([]Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return nil, fmt.Errorf("core.Predecessors(%q): %w", id, ErrVertexNotFound)
	}

	return copyEdges(g.in[id]), nil
}

// NeighborIDs returns the target IDs of the edges leaving id.
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	es, err := g.Successors(id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(es))
	for i, e := range es {
		ids[i] = e.To
	}

	return ids, nil
}

// Edges returns every edge in insertion order.
// Complexity: O(E).
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return copyEdges(g.seq)
}

// EdgeCount returns |E|.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.seq)
}

func copyEdges(src []*Edge) []Edge {
	out := make([]Edge, len(src))
	for i, e := range src {
		out[i] = *e
	}

	return out
}
