// SPDX-License-Identifier: MIT
//
// File: methods_clone.go
// Role: Cloning and non-mutating views.
// Concurrency:
//   - Read lock on the source; the result is a fresh graph instance.

package core

// Clone returns a deep copy of vertices, edges and insertion order.
// Vertex Metadata maps are shared, not deep-copied.
//
// Complexity: O(V + E)
func (g *Graph) Clone() *Graph {
	return g.InducedSubgraph(nil)
}

// InducedSubgraph returns a new Graph holding the vertices for which keep
// returns true and every edge whose endpoints are both kept. A nil keep
// retains everything. Insertion order is preserved.
//
// Complexity: O(V + E). The input graph is not mutated.
func (g *Graph) InducedSubgraph(keep func(id string) bool) *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := NewGraph()
	out.allowLoops = g.allowLoops
	kept := make(map[string]bool, len(g.order))
	for _, id := range g.order {
		if keep != nil && !keep(id) {
			continue
		}
		kept[id] = true
		v := g.vertices[id]
		out.vertices[id] = &Vertex{ID: v.ID, Metadata: v.Metadata}
		out.order = append(out.order, id)
	}
	for _, e := range g.seq {
		if !kept[e.From] || !kept[e.To] {
			continue
		}
		ne := &Edge{From: e.From, To: e.To, Weight: e.Weight}
		out.idx[[2]string{e.From, e.To}] = ne
		out.out[e.From] = append(out.out[e.From], ne)
		out.in[e.To] = append(out.in[e.To], ne)
		out.seq = append(out.seq, ne)
	}

	return out
}

// Reverse returns a copy with every edge direction flipped. Edge order is
// preserved, so predecessor order of the reverse equals successor order of g.
func (g *Graph) Reverse() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := NewGraph()
	out.allowLoops = g.allowLoops
	for _, id := range g.order {
		v := g.vertices[id]
		out.vertices[id] = &Vertex{ID: v.ID, Metadata: v.Metadata}
		out.order = append(out.order, id)
	}
	for _, e := range g.seq {
		ne := &Edge{From: e.To, To: e.From, Weight: e.Weight}
		out.idx[[2]string{ne.From, ne.To}] = ne
		out.out[ne.From] = append(out.out[ne.From], ne)
		out.in[ne.To] = append(out.in[ne.To], ne)
		out.seq = append(out.seq, ne)
	}

	return out
}
