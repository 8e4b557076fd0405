// Package dfs defines types and options for depth-first ordering of a
// core.Graph: cancellation, vertex filtering and cycle reporting.
package dfs

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// VertexState represents the DFS visitation state of a vertex.
const (
	White = iota // White: the vertex has not been visited yet.
	Gray         // Gray: the vertex is in the recursion stack (visiting).
	Black        // Black: the vertex and all its descendants have been fully explored.
)

var (
	// ErrGraphNil is returned when a nil *core.Graph is passed.
	ErrGraphNil = errors.New("dfs: graph is nil")

	// ErrCycleDetected indicates that a cycle was encountered during
	// TopologicalSort or Levels.
	ErrCycleDetected = errors.New("dfs: cycle detected")

	// ErrNeighborFetch indicates a failure to retrieve neighbors from the graph.
	ErrNeighborFetch = errors.New("dfs: failed to fetch neighbors")
)

// CycleError carries one offending cycle, closed (first == last).
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dfs: cycle detected: %s", strings.Join(e.Cycle, " → "))
}

// Unwrap exposes ErrCycleDetected to errors.Is.
func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// TopoOption configures optional behavior for TopologicalSort and Levels.
type TopoOption func(*topoOptions)

type topoOptions struct {
	ctx    context.Context   // allows cancellation; defaults to Background
	filter func(string) bool // nil keeps every vertex
}

func defaultTopoOptions() topoOptions {
	return topoOptions{ctx: context.Background()}
}

// WithCancelContext returns a TopoOption that sets the cancellation context.
// Passing a nil context has no effect.
func WithCancelContext(ctx context.Context) TopoOption {
	return func(o *topoOptions) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithVertexFilter restricts the sort to the sub-graph induced by the
// vertices for which keep returns true.
func WithVertexFilter(keep func(id string) bool) TopoOption {
	return func(o *topoOptions) { o.filter = keep }
}
