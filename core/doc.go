// Package core provides a thread-safe, in-memory directed weighted graph
// used as the topology store of HMM models.
//
// The Graph G = (V,E) is deliberately narrow:
//
//   - Directed edges only, float64 weights (transition probabilities).
//   - At most one edge per ordered pair; self-loops opt-in (WithLoops).
//   - Deterministic iteration: Vertices(), Edges(), Successors() and
//     Predecessors() all follow insertion order, so "declared order" is
//     a property of the graph and not of the caller.
//   - A per-vertex Metadata bag for pass-through annotations.
//   - Non-mutating views: Clone, InducedSubgraph, Reverse.
//
// Core Methods:
//
//	AddVertex(id string) error                       // O(1)
//	HasVertex(id string) bool                        // O(1)
//	SetMetadata(id, key string, value any) error     // O(1)
//	AddEdge(from, to string, w float64) error        // O(1)
//	SetWeight(from, to string, w float64) error      // O(1)
//	Successors(id) / Predecessors(id) ([]Edge, error) // O(deg)
//	Clone() / InducedSubgraph(keep) / Reverse()       // O(V+E)
//
// Errors:
//
//	ErrEmptyVertexID, ErrVertexNotFound, ErrEdgeNotFound,
//	ErrBadWeight, ErrLoopNotAllowed, ErrMultiEdgeNotAllowed.
package core
