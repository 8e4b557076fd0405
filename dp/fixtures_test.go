// SPDX-License-Identifier: MIT

package dp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dist"
	"github.com/katalvlaran/hmmdp/markov"
)

// loopModel is Start→A(emits 'x' w.p. 1; self 0.5, →End 0.5).
func loopModel(t testing.TB) *markov.Model {
	t.Helper()
	a, err := alphabet.New("x", "xy")
	require.NoError(t, err)
	d, err := dist.FromMap(a, map[rune]float64{'x': 1})
	require.NoError(t, err)
	b, err := markov.NewBuilder(a)
	require.NoError(t, err)
	st := markov.NewEmitting("A", d, 1)
	require.NoError(t, b.AddState(st))
	require.NoError(t, b.SetTransition(b.Start(), st, 1))
	require.NoError(t, b.SetTransition(st, st, 0.5))
	require.NoError(t, b.SetTransition(st, b.End(), 0.5))
	m, err := b.Build()
	require.NoError(t, err)

	return m
}

// casinoModel is the fair/loaded die model; L favours '6'.
func casinoModel(t testing.TB) *markov.Model {
	t.Helper()
	dice, err := alphabet.New("dice", "123456")
	require.NoError(t, err)
	fair, err := dist.Uniform(dice)
	require.NoError(t, err)
	loaded, err := dist.NewSimple(dice, []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.5})
	require.NoError(t, err)

	b, err := markov.NewBuilder(dice)
	require.NoError(t, err)
	f, l := markov.NewEmitting("F", fair, 1), markov.NewEmitting("L", loaded, 1)
	require.NoError(t, b.AddStates(f, l))
	for _, tr := range []struct {
		from, to *markov.State
		p        float64
	}{
		{b.Start(), f, 0.5}, {b.Start(), l, 0.5},
		{f, f, 0.94}, {f, l, 0.05}, {f, b.End(), 0.01},
		{l, l, 0.89}, {l, f, 0.1}, {l, b.End(), 0.01},
	} {
		require.NoError(t, b.SetTransition(tr.from, tr.to, tr.p))
	}
	m, err := b.Build()
	require.NoError(t, err)

	return m
}

// pairModel is a three-state pair HMM over DNA: M (1,1), X (1,0), Y (0,1).
func pairModel(t testing.TB) *markov.Model {
	t.Helper()
	dna := alphabet.DNA()
	pair, err := alphabet.CrossProduct(dna, dna)
	require.NoError(t, err)
	w := make([]float64, pair.Size())
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i == j {
				w[i*4+j] = 0.2
			} else {
				w[i*4+j] = 0.2 / 12
			}
		}
	}
	match, err := dist.NewSimple(pair, w)
	require.NoError(t, err)
	gap, err := dist.Uniform(dna)
	require.NoError(t, err)

	b, err := markov.NewBuilder(dna, dna)
	require.NoError(t, err)
	m := markov.NewEmitting("M", match, 1, 1)
	x := markov.NewEmitting("X", gap, 1, 0)
	y := markov.NewEmitting("Y", gap, 0, 1)
	require.NoError(t, b.AddStates(m, x, y))
	for _, tr := range []struct {
		from, to *markov.State
		p        float64
	}{
		{b.Start(), m, 0.8}, {b.Start(), x, 0.1}, {b.Start(), y, 0.1},
		{m, m, 0.8}, {m, x, 0.05}, {m, y, 0.05}, {m, b.End(), 0.1},
		{x, m, 0.7}, {x, x, 0.2}, {x, b.End(), 0.1},
		{y, m, 0.7}, {y, y, 0.2}, {y, b.End(), 0.1},
	} {
		require.NoError(t, b.SetTransition(tr.from, tr.to, tr.p))
	}
	model, err := b.Build()
	require.NoError(t, err)

	return model
}

// profileModel is a three-column DNA profile; its delete states give the
// lattice chains of silent states.
func profileModel(t testing.TB) *markov.ProfileHMM {
	t.Helper()
	dna := alphabet.DNA()
	cols := []map[rune]float64{
		{'A': 0.7, 'C': 0.1, 'G': 0.1, 'T': 0.1},
		{'A': 0.1, 'C': 0.7, 'G': 0.1, 'T': 0.1},
		{'A': 0.1, 'C': 0.1, 'G': 0.1, 'T': 0.7},
	}
	match := make([]dist.Distribution, len(cols))
	for k, c := range cols {
		d, err := dist.FromMap(dna, c)
		require.NoError(t, err)
		match[k] = d
	}
	ins, err := dist.Uniform(dna)
	require.NoError(t, err)
	p, err := markov.NewProfileHMM(dna, len(cols),
		func(k int) dist.Distribution { return match[k-1] }, ins, markov.DefaultProfileTransitions())
	require.NoError(t, err)

	return p
}

func parse(t testing.TB, a *alphabet.Alphabet, s string) *alphabet.SymbolList {
	t.Helper()
	l, err := alphabet.Parse(a, s)
	require.NoError(t, err)

	return l
}
