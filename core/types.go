// SPDX-License-Identifier: MIT
//
// File: types.go
// Role: Vertex, Edge, Graph declarations, sentinel errors and the constructor.
// Concurrency:
//   - One sync.RWMutex guards the vertex catalog, the edge catalog and both
//     adjacency indexes; writers are rare (model construction), readers many.
// Determinism:
//   - Vertices and edges are reported in insertion order, never map order.

package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyVertexID indicates that the provided Vertex has an empty ID.
	ErrEmptyVertexID = errors.New("core: vertex ID is empty")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrBadWeight indicates a NaN or infinite edge weight.
	ErrBadWeight = errors.New("core: bad edge weight")

	// ErrLoopNotAllowed indicates a self-loop was attempted when loops are disabled.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a second edge between the same ordered pair.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")
)

// Vertex represents a node in the graph.
//
// Metadata stores arbitrary key-value data and is shared on Clone.
type Vertex struct {
	// ID is the unique identifier for this Vertex.
	ID string

	// Metadata stores arbitrary user data. It is not deep-copied by Clone.
	Metadata map[string]any
}

// Edge is a directed, weighted connection From→To.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// GraphOption configures behavior of a Graph before creation.
type GraphOption func(g *Graph)

// WithLoops permits self-loops (edges from a vertex to itself).
func WithLoops() GraphOption {
	return func(g *Graph) { g.allowLoops = true }
}

// Graph is a directed, weighted, insertion-ordered graph without parallel edges.
type Graph struct {
	mu sync.RWMutex

	allowLoops bool

	order    []string           // vertex IDs in insertion order
	vertices map[string]*Vertex // vertex ID → Vertex

	out map[string][]*Edge // from → edges, insertion order
	in  map[string][]*Edge // to → edges, insertion order of the edge
	idx map[[2]string]*Edge
	seq []*Edge // all edges, insertion order
}

// NewGraph creates an empty directed Graph. Self-loops are rejected unless
// WithLoops is given.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		vertices: make(map[string]*Vertex),
		out:      make(map[string][]*Edge),
		in:       make(map[string][]*Edge),
		idx:      make(map[[2]string]*Edge),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Looped reports whether self-loops are permitted.
func (g *Graph) Looped() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.allowLoops
}
