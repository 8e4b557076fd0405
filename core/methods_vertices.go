// SPDX-License-Identifier: MIT
//
// File: methods_vertices.go
// Role: Vertex lifecycle & queries.
//
// Determinism:
//   - Vertices() returns IDs in insertion order.
//
// Concurrency:
//   - Catalog protected by g.mu.

package core

import "fmt"

// AddVertex inserts a vertex if missing (idempotent).
//
// Implementation:
//   - Stage 1: Validate non-empty ID (ErrEmptyVertexID).
//   - Stage 2: Under the write lock, check presence; if missing, register it
//     and append it to the insertion order.
//
// Behavior highlights:
//   - Idempotent: adding an existing vertex is a no-op.
//   - Initializes Metadata to a non-nil map.
//
// Complexity:
//   - Time O(1) amortized, Space O(1) amortized.
func (g *Graph) AddVertex(id string) error {
	if id == "" {
		return ErrEmptyVertexID
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addVertexLocked(id)

	return nil
}

func (g *Graph) addVertexLocked(id string) {
	if _, exists := g.vertices[id]; exists {
		return
	}
	g.vertices[id] = &Vertex{ID: id, Metadata: make(map[string]any)}
	g.order = append(g.order, id)
}

// HasVertex reports whether the vertex ID exists (empty ID ⇒ false).
// Complexity: O(1).
func (g *Graph) HasVertex(id string) bool {
	if id == "" {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.vertices[id]

	return ok
}

// Vertex returns the stored vertex. The Metadata map is shared, not copied.
func (g *Graph) Vertex(id string) (*Vertex, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.vertices[id]
	if !ok {
		return nil, fmt.Errorf("core.Vertex(%q): %w", id, ErrVertexNotFound)
	}

	return v, nil
}

// SetMetadata stores key=value in the vertex annotation bag.
func (g *Graph) SetMetadata(id, key string, value any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.vertices[id]
	if !ok {
		return fmt.Errorf("core.SetMetadata(%q): %w", id, ErrVertexNotFound)
	}
	v.Metadata[key] = value

	return nil
}

// Vertices returns a snapshot of vertex IDs in insertion order.
// Complexity: O(V).
func (g *Graph) Vertices() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return append([]string(nil), g.order...)
}

// VertexCount returns |V|.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.order)
}

// InDegree and OutDegree count incident directed edges.
func (g *Graph) InDegree(id string) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return 0, fmt.Errorf("core.InDegree(%q): %w", id, ErrVertexNotFound)
	}

	return len(g.in[id]), nil
}

// OutDegree counts edges leaving id.
func (g *Graph) OutDegree(id string) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.vertices[id]; !ok {
		return 0, fmt.Errorf("core.OutDegree(%q): %w", id, ErrVertexNotFound)
	}

	return len(g.out[id]), nil
}
