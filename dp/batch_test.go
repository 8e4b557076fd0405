// SPDX-License-Identifier: MIT

package dp_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dp"
)

func TestRunBatch(t *testing.T) {
	model := casinoModel(t)
	e, err := dp.New(model, dp.WithParallelism(2))
	require.NoError(t, err)
	dice := model.Alphabet(0)

	queries := []dp.Query{
		{ID: "a", Seqs: []*alphabet.SymbolList{parse(t, dice, rolls[:10])}},
		{ID: "b", Seqs: []*alphabet.SymbolList{parse(t, dice, rolls[10:30])}},
		{ID: "bad", Seqs: []*alphabet.SymbolList{parse(t, alphabet.DNA(), "ACGT")}},
		{ID: "c", Seqs: []*alphabet.SymbolList{parse(t, dice, rolls)}},
	}

	res, err := e.RunBatch(context.Background(), dp.Forward, queries)
	require.NoError(t, err)
	require.Len(t, res, len(queries))
	for k, q := range queries {
		assert.Equal(t, q.ID, res[k].ID)
		if q.ID == "bad" {
			assert.ErrorIs(t, res[k].Err, alphabet.ErrAlphabetMismatch)
			assert.True(t, math.IsNaN(res[k].Score))
			continue
		}
		require.NoError(t, res[k].Err)
		want, err := e.Score(context.Background(), dp.Forward, q.Seqs...)
		require.NoError(t, err)
		assert.Equal(t, want, res[k].Score)
	}

	vit, err := e.RunBatch(context.Background(), dp.Viterbi, queries[:2])
	require.NoError(t, err)
	for _, r := range vit {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Path)
		assert.Equal(t, r.Path.Score, r.Score)
	}
}

func TestRunBatch_Canceled(t *testing.T) {
	model := casinoModel(t)
	e, err := dp.New(model)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = e.RunBatch(ctx, dp.Forward, []dp.Query{
		{ID: "a", Seqs: []*alphabet.SymbolList{parse(t, model.Alphabet(0), rolls)}},
	})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = e.RunBatch(context.Background(), dp.Algorithm(-1), nil)
	assert.ErrorIs(t, err, dp.ErrAlgorithm)
}
