// SPDX-License-Identifier: MIT

package dp_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dist"
	"github.com/katalvlaran/hmmdp/dp"
	"github.com/katalvlaran/hmmdp/markov"
)

const rolls = "315116246446644245311321631164152133625144543631656626566666"

func score(t *testing.T, e *dp.Engine, alg dp.Algorithm, seqs ...*alphabet.SymbolList) float64 {
	t.Helper()
	m, err := e.NewMatrix(alg, seqs...)
	require.NoError(t, err)
	s, err := m.Score()
	require.NoError(t, err)

	return s
}

func TestViterbi_LoopScenario(t *testing.T) {
	model := loopModel(t)
	e, err := dp.New(model)
	require.NoError(t, err)
	seq := parse(t, model.Alphabet(0), "xxx")

	m, err := e.NewMatrix(dp.Viterbi, seq)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m.ScoreIfFilled()))
	assert.Equal(t, []int{4, 3}, m.Dims())

	s, err := m.Score()
	require.NoError(t, err)
	want := 3*math.Log(1.0) + 2*math.Log(0.5) + math.Log(0.5)
	assert.InDelta(t, want, s, 1e-12)
	assert.Equal(t, s, m.ScoreIfFilled())

	path, err := m.Traceback()
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "A", "A", "A", "end"}, path.Labels())
	assert.Equal(t, "start → A → A → A → end", path.String())
	assert.Equal(t, [2]int{3, 0}, path.Advance())
	assert.Equal(t, [2]int{0, 0}, path.Steps[0].Pos)
	assert.Equal(t, [2]int{2, 0}, path.Steps[2].Pos)
	assert.Equal(t, 1, path.Steps[1].StateIndex)
	assert.InDelta(t, math.Log(0.5), path.Steps[2].Score, 1e-12)
	assert.Equal(t, s, path.Score)

	// Only one path exists, so all three algorithms agree.
	assert.InDelta(t, want, score(t, e, dp.Forward, seq), 1e-12)
	assert.InDelta(t, want, score(t, e, dp.Backward, seq), 1e-12)
}

func TestClosedForm_SingleState(t *testing.T) {
	dna := alphabet.DNA()
	w := map[rune]float64{'A': 0.1, 'C': 0.2, 'G': 0.3, 'T': 0.4}
	d, err := dist.FromMap(dna, w)
	require.NoError(t, err)
	b, err := markov.NewBuilder(dna)
	require.NoError(t, err)
	s := markov.NewEmitting("S", d, 1)
	require.NoError(t, b.AddState(s))
	require.NoError(t, b.SetTransition(b.Start(), s, 1))
	require.NoError(t, b.SetTransition(s, s, 0.9))
	require.NoError(t, b.SetTransition(s, b.End(), 0.1))
	model, err := b.Build()
	require.NoError(t, err)
	e, err := dp.New(model)
	require.NoError(t, err)

	const text = "ACGTTGNA"
	want := math.Log(1) + 7*math.Log(0.9) + math.Log(0.1)
	for _, r := range text {
		if r == 'N' {
			continue // sums to 1 under the Sum policy
		}
		want += math.Log(w[r])
	}
	seq := parse(t, dna, text)
	for _, alg := range []dp.Algorithm{dp.Viterbi, dp.Forward, dp.Backward} {
		assert.InDelta(t, want, score(t, e, alg, seq), 1e-9, alg.String())
	}
}

func TestZeroLength(t *testing.T) {
	a, err := alphabet.New("x", "xy")
	require.NoError(t, err)
	d, err := dist.Uniform(a)
	require.NoError(t, err)
	b, err := markov.NewBuilder(a)
	require.NoError(t, err)
	s := markov.NewEmitting("S", d, 1)
	require.NoError(t, b.AddState(s))
	require.NoError(t, b.SetTransition(b.Start(), s, 0.7))
	require.NoError(t, b.SetTransition(b.Start(), b.End(), 0.3))
	require.NoError(t, b.SetTransition(s, b.End(), 1))
	model, err := b.Build()
	require.NoError(t, err)
	e, err := dp.New(model)
	require.NoError(t, err)
	empty := parse(t, a, "")

	for _, alg := range []dp.Algorithm{dp.Viterbi, dp.Forward, dp.Backward} {
		assert.InDelta(t, math.Log(0.3), score(t, e, alg, empty), 1e-12, alg.String())
	}
	path, err := e.Viterbi(context.Background(), empty)
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "end"}, path.Labels())

	// Without a direct start→end edge there is no path at all.
	loop, err := dp.New(loopModel(t))
	require.NoError(t, err)
	m, err := loop.NewMatrix(dp.Viterbi, parse(t, loop.Model().Alphabet(0), ""))
	require.NoError(t, err)
	s0, err := m.Score()
	assert.True(t, math.IsInf(s0, -1))
	var npe *dp.NoPathError
	require.ErrorAs(t, err, &npe)
	assert.Equal(t, []int{0}, npe.Lengths)
	_, err = m.Traceback()
	assert.ErrorIs(t, err, dp.ErrNoPath)
}

func TestNoPath_ZeroEmission(t *testing.T) {
	model := loopModel(t)
	e, err := dp.New(model)
	require.NoError(t, err)
	seq := parse(t, model.Alphabet(0), "xyx")

	_, err = e.Score(context.Background(), dp.Forward, seq)
	assert.ErrorIs(t, err, dp.ErrNoPath)
	_, err = e.Viterbi(context.Background(), seq)
	assert.ErrorIs(t, err, dp.ErrNoPath)
	_, err = e.Posterior(context.Background(), seq)
	assert.ErrorIs(t, err, dp.ErrNoPath)
}

func TestForwardDominatesViterbi_AndBackwardDuality(t *testing.T) {
	casino := casinoModel(t)
	profile := profileModel(t)
	pair := pairModel(t)
	dna := alphabet.DNA()

	cases := []struct {
		name  string
		model *markov.Model
		seqs  []*alphabet.SymbolList
	}{
		{"casino", casino, []*alphabet.SymbolList{parse(t, casino.Alphabet(0), rolls)}},
		{"profile", profile.Model, []*alphabet.SymbolList{parse(t, dna, "ACGTAT")}},
		{"profile short", profile.Model, []*alphabet.SymbolList{parse(t, dna, "T")}},
		{"profile ambiguous", profile.Model, []*alphabet.SymbolList{parse(t, dna, "ANRT")}},
		{"pair", pair, []*alphabet.SymbolList{parse(t, dna, "ACGT"), parse(t, dna, "AGT")}},
		{"pair ambiguous", pair, []*alphabet.SymbolList{parse(t, dna, "ACNGT"), parse(t, dna, "AYT")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := dp.New(tc.model)
			require.NoError(t, err)
			v := score(t, e, dp.Viterbi, tc.seqs...)
			f := score(t, e, dp.Forward, tc.seqs...)
			b := score(t, e, dp.Backward, tc.seqs...)

			assert.False(t, math.IsInf(v, 0))
			assert.GreaterOrEqual(t, f, v)
			assert.InDelta(t, f, b, 1e-9)
		})
	}
}

func TestTracebackReplay(t *testing.T) {
	casino := casinoModel(t)
	profile := profileModel(t)
	pair := pairModel(t)
	dna := alphabet.DNA()

	cases := []struct {
		name  string
		model *markov.Model
		seqs  []*alphabet.SymbolList
	}{
		{"casino", casino, []*alphabet.SymbolList{parse(t, casino.Alphabet(0), rolls)}},
		{"profile", profile.Model, []*alphabet.SymbolList{parse(t, dna, "AACGGTT")}},
		{"pair", pair, []*alphabet.SymbolList{parse(t, dna, "ACGT"), parse(t, dna, "AGT")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := dp.New(tc.model)
			require.NoError(t, err)
			path, err := e.Viterbi(context.Background(), tc.seqs...)
			require.NoError(t, err)

			replayed, err := dp.PathScore(tc.model, path, tc.seqs...)
			require.NoError(t, err)
			assert.Equal(t, path.Score, replayed)
			assert.Same(t, tc.model.Start(), path.Steps[0].State)
			assert.Same(t, tc.model.End(), path.Steps[path.Len()-1].State)
		})
	}
}

func TestPairwise_AdvanceSum(t *testing.T) {
	model := pairModel(t)
	dna := alphabet.DNA()
	e, err := dp.New(model)
	require.NoError(t, err)
	a, b := parse(t, dna, "ACGT"), parse(t, dna, "AGT")

	m, err := e.NewMatrix(dp.Viterbi, a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 4, 5}, m.Dims())
	s, err := m.Score()
	require.NoError(t, err)
	assert.False(t, math.IsInf(s, 0))

	path, err := m.Traceback()
	require.NoError(t, err)
	assert.Equal(t, [2]int{4, 3}, path.Advance())
	assert.Equal(t, [2]int{4, 3}, path.Steps[path.Len()-1].Pos)

	mState, err := model.StateByLabel("M")
	require.NoError(t, err)
	c, err := m.Cell(mState, 1, 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(0.8)+math.Log(0.2), c, 1e-12)
}

func TestViterbi_TieBreakFirstDeclared(t *testing.T) {
	a, err := alphabet.New("x", "x")
	require.NoError(t, err)
	d, err := dist.Uniform(a)
	require.NoError(t, err)
	b, err := markov.NewBuilder(a)
	require.NoError(t, err)
	p, q := markov.NewEmitting("P", d, 1), markov.NewEmitting("Q", d, 1)
	require.NoError(t, b.AddStates(p, q))
	require.NoError(t, b.SetTransition(b.Start(), p, 0.5))
	require.NoError(t, b.SetTransition(b.Start(), q, 0.5))
	require.NoError(t, b.SetTransition(p, b.End(), 1))
	require.NoError(t, b.SetTransition(q, b.End(), 1))
	model, err := b.Build()
	require.NoError(t, err)
	e, err := dp.New(model)
	require.NoError(t, err)

	path, err := e.Viterbi(context.Background(), parse(t, a, "x"))
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "P", "end"}, path.Labels())
}

func TestProfile_SilentDeletes(t *testing.T) {
	p := profileModel(t)
	dna := alphabet.DNA()
	e, err := dp.New(p.Model)
	require.NoError(t, err)

	// "AT" fits m-1, skips column 2 through d-2, then m-3.
	path, err := e.Viterbi(context.Background(), parse(t, dna, "AT"))
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "m-1", "d-2", "m-3", "end"}, path.Labels())
	assert.Equal(t, [2]int{1, 0}, path.Steps[2].Pos)
	assert.InDelta(t, math.Log(0.9*0.7*0.05*0.6*0.7*0.95), path.Score, 1e-12)
}

func TestPosterior(t *testing.T) {
	model := casinoModel(t)
	e, err := dp.New(model)
	require.NoError(t, err)
	seq := parse(t, model.Alphabet(0), rolls[:20])

	post, err := e.Posterior(context.Background(), seq)
	require.NoError(t, err)
	assert.InDelta(t, score(t, e, dp.Forward, seq), post.Total(), 1e-12)

	start, err := post.At(model.Start(), 0)
	require.NoError(t, err)
	assert.InDelta(t, 1, start, 1e-9)
	end, err := post.At(model.End(), seq.Len())
	require.NoError(t, err)
	assert.InDelta(t, 1, end, 1e-9)

	f, _ := model.StateByLabel("F")
	l, _ := model.StateByLabel("L")
	for i := 1; i <= seq.Len(); i++ {
		pf, err := post.At(f, i)
		require.NoError(t, err)
		pl, err := post.At(l, i)
		require.NoError(t, err)
		assert.InDelta(t, 1, pf+pl, 1e-9, "position %d", i)
	}

	_, err = post.At(f, seq.Len()+1)
	assert.ErrorIs(t, err, alphabet.ErrOutOfRange)
	_, err = post.At(f, 1, 1)
	assert.ErrorIs(t, err, dp.ErrSequences)
}

func TestTwoRowsAndWorkersMatchFullMatrix(t *testing.T) {
	dna := alphabet.DNA()
	cases := []struct {
		name  string
		model *markov.Model
		seqs  []*alphabet.SymbolList
	}{
		{"profile", profileModel(t).Model, []*alphabet.SymbolList{parse(t, dna, "ACGTACGTTA")}},
		{"pair", pairModel(t), []*alphabet.SymbolList{parse(t, dna, "ACGTTAGC"), parse(t, dna, "AGTTAC")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			full, err := dp.New(tc.model)
			require.NoError(t, err)
			rolling, err := dp.New(tc.model, dp.WithMemoryMode(dp.TwoRows))
			require.NoError(t, err)
			parallel, err := dp.New(tc.model, dp.WithWorkers(3))
			require.NoError(t, err)

			for _, alg := range []dp.Algorithm{dp.Forward, dp.Backward, dp.Viterbi} {
				want, err := full.Score(context.Background(), alg, tc.seqs...)
				require.NoError(t, err)
				got, err := rolling.Score(context.Background(), alg, tc.seqs...)
				require.NoError(t, err)
				assert.Equal(t, want, got, "two rows %s", alg)
				got, err = parallel.Score(context.Background(), alg, tc.seqs...)
				require.NoError(t, err)
				assert.Equal(t, want, got, "workers %s", alg)
			}
		})
	}
}
