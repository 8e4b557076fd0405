package dfs_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hmmdp/core"
	"github.com/katalvlaran/hmmdp/dfs"
)

func TestTopologicalSort_DeclarationTies(t *testing.T) {
	g := core.NewGraph()
	for _, id := range []string{"c", "b", "a", "d"} {
		require.NoError(t, g.AddVertex(id))
	}
	require.NoError(t, g.AddEdge("a", "d", 1))
	require.NoError(t, g.AddEdge("b", "d", 1))

	order, err := dfs.TopologicalSort(g)
	require.NoError(t, err)
	// c, b, a are all ready initially; declaration order decides.
	assert.Equal(t, []string{"c", "b", "a", "d"}, order)
}

func TestTopologicalSort_Filter(t *testing.T) {
	g := core.NewGraph(core.WithLoops())
	require.NoError(t, g.AddEdge("e1", "e1", 1)) // loop on a filtered-out vertex
	require.NoError(t, g.AddEdge("e1", "s1", 1))
	require.NoError(t, g.AddEdge("s2", "s1", 1))

	silent := func(id string) bool { return strings.HasPrefix(id, "s") }
	order, err := dfs.TopologicalSort(g, dfs.WithVertexFilter(silent))
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1"}, order)
}

func TestTopologicalSort_Cycle(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("x", "a", 1))
	require.NoError(t, g.AddEdge("a", "b", 1))
	require.NoError(t, g.AddEdge("b", "c", 1))
	require.NoError(t, g.AddEdge("c", "a", 1))

	_, err := dfs.TopologicalSort(g)
	require.ErrorIs(t, err, dfs.ErrCycleDetected)
	var ce *dfs.CycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"a", "b", "c", "a"}, ce.Cycle)
	assert.Contains(t, ce.Error(), "a → b → c → a")
}

func TestTopologicalSort_SelfLoop(t *testing.T) {
	g := core.NewGraph(core.WithLoops())
	require.NoError(t, g.AddEdge("q", "q", 1))
	_, err := dfs.TopologicalSort(g)
	var ce *dfs.CycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"q", "q"}, ce.Cycle)
}

func TestLevels(t *testing.T) {
	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "c", 1))
	require.NoError(t, g.AddEdge("b", "c", 1))
	require.NoError(t, g.AddEdge("a", "d", 1))
	require.NoError(t, g.AddEdge("c", "e", 1))
	require.NoError(t, g.AddEdge("d", "e", 1))

	levels, err := dfs.Levels(g)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, levels)
}

func TestTopologicalSort_Errors(t *testing.T) {
	_, err := dfs.TopologicalSort(nil)
	assert.ErrorIs(t, err, dfs.ErrGraphNil)

	g := core.NewGraph()
	require.NoError(t, g.AddEdge("a", "b", 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = dfs.TopologicalSort(g, dfs.WithCancelContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}
