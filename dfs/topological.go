// Package dfs provides ordering algorithms on directed graphs: topological
// sort, level scheduling and cycle extraction.
//
// TopologicalSort computes a linear ordering of vertices such that for
// every directed edge u→v, u appears before v in the ordering. Among the
// vertices that are ready at the same time, the one inserted first into the
// graph wins, so the order is a pure function of declaration order.
// If the graph contains a cycle (self-loops included), a *CycleError is
// returned.
//
// Complexity:
//
//   - Time:   O(V·log V + E)
//   - Memory: O(V)
package dfs

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/hmmdp/core"
)

// sub is the filtered adjacency view the algorithms run on.
type sub struct {
	ids   []string       // kept vertices, insertion order
	pos   map[string]int // id → index into ids
	succ  [][]int
	indeg []int
}

func buildSub(g *core.Graph, o topoOptions) (*sub, error) {
	all := g.Vertices()
	s := &sub{pos: make(map[string]int, len(all))}
	for _, id := range all {
		if o.filter != nil && !o.filter(id) {
			continue
		}
		s.pos[id] = len(s.ids)
		s.ids = append(s.ids, id)
	}
	s.succ = make([][]int, len(s.ids))
	s.indeg = make([]int, len(s.ids))
	for i, id := range s.ids {
		out, err := g.Successors(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNeighborFetch, err)
		}
		for _, e := range out {
			j, ok := s.pos[e.To]
			if !ok {
				continue
			}
			s.succ[i] = append(s.succ[i], j)
			s.indeg[j]++
		}
	}

	return s, nil
}

// readyQueue is a min-heap of vertex positions (declaration order).
type readyQueue []int

func (q readyQueue) Len() int           { return len(q) }
func (q readyQueue) Less(i, j int) bool { return q[i] < q[j] }
func (q readyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *readyQueue) Push(x any)        { *q = append(*q, x.(int)) }
func (q *readyQueue) Pop() any {
	old := *q
	x := old[len(old)-1]
	*q = old[:len(old)-1]

	return x
}

// TopologicalSort computes a topological ordering of the (filtered) vertices of g.
//
// Implementation:
//   - Stage 1: Build the induced adjacency over kept vertices.
//   - Stage 2: Kahn's algorithm with a declaration-order min-heap.
//   - Stage 3: If vertices remain, extract one cycle by DFS and report it.
//
// Errors: ErrGraphNil, *CycleError (errors.Is ErrCycleDetected), ctx errors.
func TopologicalSort(g *core.Graph, options ...TopoOption) ([]string, error) {
	order, _, err := kahn(g, options)

	return order, err
}

// Levels groups the topological order into dependency levels: level 0 holds
// vertices without kept predecessors, level k those whose deepest kept
// predecessor sits on level k-1. Vertices of one level are independent and
// may be processed concurrently; each level lists vertices in
// topological order.
func Levels(g *core.Graph, options ...TopoOption) ([][]string, error) {
	order, s, err := kahn(g, options)
	if err != nil {
		return nil, err
	}
	level := make([]int, len(s.ids))
	var levels [][]string
	for _, id := range order {
		i := s.pos[id]
		if level[i] >= len(levels) {
			levels = append(levels, nil)
		}
		levels[level[i]] = append(levels[level[i]], id)
		for _, j := range s.succ[i] {
			if level[i]+1 > level[j] {
				level[j] = level[i] + 1
			}
		}
	}

	return levels, nil
}

func kahn(g *core.Graph, options []TopoOption) ([]string, *sub, error) {
	if g == nil {
		return nil, nil, ErrGraphNil
	}
	opts := defaultTopoOptions()
	for _, opt := range options {
		opt(&opts)
	}
	s, err := buildSub(g, opts)
	if err != nil {
		return nil, nil, err
	}

	indeg := append([]int(nil), s.indeg...)
	q := make(readyQueue, 0, len(s.ids))
	for i, d := range indeg {
		if d == 0 {
			q = append(q, i)
		}
	}
	heap.Init(&q)

	order := make([]string, 0, len(s.ids))
	for q.Len() > 0 {
		select {
		case <-opts.ctx.Done():
			return nil, nil, opts.ctx.Err()
		default:
		}
		i := heap.Pop(&q).(int)
		order = append(order, s.ids[i])
		for _, j := range s.succ[i] {
			indeg[j]--
			if indeg[j] == 0 {
				heap.Push(&q, j)
			}
		}
	}
	if len(order) < len(s.ids) {
		return nil, nil, &CycleError{Cycle: s.findCycle(indeg)}
	}

	return order, s, nil
}

// findCycle runs a three-colour DFS restricted to vertices Kahn could not
// release (indeg > 0) and returns the first back-edge cycle it meets.
func (s *sub) findCycle(indeg []int) []string {
	state := make([]int, len(s.ids))
	stack := make([]int, 0, len(s.ids))

	var cycle []string
	var visit func(i int) bool
	visit = func(i int) bool {
		state[i] = Gray
		stack = append(stack, i)
		for _, j := range s.succ[i] {
			if indeg[j] == 0 {
				continue
			}
			if state[j] == Gray {
				start := 0
				for k := len(stack) - 1; k >= 0; k-- {
					if stack[k] == j {
						start = k
						break
					}
				}
				for _, k := range stack[start:] {
					cycle = append(cycle, s.ids[k])
				}
				cycle = append(cycle, s.ids[j])
				return true
			}
			if state[j] == White && visit(j) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = Black

		return false
	}
	for i := range s.ids {
		if indeg[i] > 0 && state[i] == White && visit(i) {
			break
		}
	}

	return cycle
}
