// SPDX-License-Identifier: MIT

package dp_test

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dp"
	"github.com/katalvlaran/hmmdp/markov"
)

func TestNew_Errors(t *testing.T) {
	_, err := dp.New(nil)
	assert.ErrorIs(t, err, dp.ErrNilModel)
	_, err = dp.New(loopModel(t), dp.WithWorkers(-1))
	assert.ErrorIs(t, err, dp.ErrOptions)
	_, err = dp.New(loopModel(t), dp.WithMemoryMode(dp.MemoryMode(7)))
	assert.ErrorIs(t, err, dp.ErrOptions)
}

func TestNewMatrix_InputErrors(t *testing.T) {
	model := loopModel(t)
	e, err := dp.New(model)
	require.NoError(t, err)
	seq := parse(t, model.Alphabet(0), "xx")

	_, err = e.NewMatrix(dp.Algorithm(9), seq)
	assert.ErrorIs(t, err, dp.ErrAlgorithm)
	_, err = e.NewMatrix(dp.Forward)
	assert.ErrorIs(t, err, dp.ErrSequences)
	_, err = e.NewMatrix(dp.Forward, seq, seq)
	assert.ErrorIs(t, err, dp.ErrSequences)
	_, err = e.NewMatrix(dp.Forward, nil)
	assert.ErrorIs(t, err, dp.ErrSequences)

	_, err = e.NewMatrix(dp.Forward, parse(t, alphabet.DNA(), "AC"))
	var ame *alphabet.AlphabetMismatchError
	require.ErrorAs(t, err, &ame)
	assert.Equal(t, "x", ame.Want)
	assert.Equal(t, "DNA", ame.Got)
}

func TestNewMatrix_ResourceBudget(t *testing.T) {
	model := loopModel(t)
	e, err := dp.New(model, dp.WithMaxCells(10))
	require.NoError(t, err)
	seq := parse(t, model.Alphabet(0), "xxx")

	_, err = e.NewMatrix(dp.Viterbi, seq)
	var ree *dp.ResourceExhaustedError
	require.ErrorAs(t, err, &ree)
	assert.ErrorIs(t, err, dp.ErrResourceExhausted)
	assert.Equal(t, []int{4, 3}, ree.Dims)
	assert.Equal(t, 12, ree.Cells)
	assert.Equal(t, 10, ree.Limit)

	// Two rolling rows fit the same budget.
	rolling, err := dp.New(model, dp.WithMaxCells(10), dp.WithMemoryMode(dp.TwoRows))
	require.NoError(t, err)
	s, err := rolling.Score(context.Background(), dp.Forward, seq)
	require.NoError(t, err)
	assert.InDelta(t, 3*math.Log(0.5), s, 1e-12)
}

func TestMatrix_Lifecycle(t *testing.T) {
	model := loopModel(t)
	e, err := dp.New(model)
	require.NoError(t, err)
	seq := parse(t, model.Alphabet(0), "xx")

	m, err := e.NewMatrix(dp.Forward, seq)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, m.ID())
	assert.Equal(t, dp.Forward, m.Algorithm())

	// Cell triggers the fill.
	a, err := model.StateByLabel("A")
	require.NoError(t, err)
	c, err := m.Cell(a, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, c, 1e-12)
	assert.InDelta(t, 2*math.Log(0.5), m.ScoreIfFilled(), 1e-12)
	c, err = m.Cell(model.Start(), 1)
	require.NoError(t, err)
	assert.True(t, math.IsInf(c, -1))

	_, err = m.Cell(a, 3)
	assert.ErrorIs(t, err, alphabet.ErrOutOfRange)
	_, err = m.Cell(a, 1, 1)
	assert.ErrorIs(t, err, dp.ErrSequences)
	_, err = m.Cell(markov.NewSilent("ghost"), 0)
	assert.ErrorIs(t, err, markov.ErrUnknownState)
	_, err = m.Traceback()
	assert.ErrorIs(t, err, dp.ErrAlgorithm)

	m.Release()
	s, err := m.Score()
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Log(0.5), s, 1e-12)
	_, err = m.Cell(a, 1)
	assert.ErrorIs(t, err, dp.ErrReleased)

	unfilled, err := e.NewMatrix(dp.Viterbi, seq)
	require.NoError(t, err)
	unfilled.Release()
	assert.ErrorIs(t, unfilled.Fill(context.Background()), dp.ErrReleased)
	_, err = unfilled.Traceback()
	assert.ErrorIs(t, err, dp.ErrReleased)
}

func TestMatrix_CanceledFillIsCached(t *testing.T) {
	model := casinoModel(t)
	e, err := dp.New(model)
	require.NoError(t, err)
	m, err := e.NewMatrix(dp.Forward, parse(t, model.Alphabet(0), rolls))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.Fill(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, m.Fill(context.Background()), context.Canceled)
	assert.True(t, math.IsNaN(m.ScoreIfFilled()))
	_, err = m.Score()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatrix_FillOnce(t *testing.T) {
	model := casinoModel(t)
	e, err := dp.New(model)
	require.NoError(t, err)
	m, err := e.NewMatrix(dp.Backward, parse(t, model.Alphabet(0), rolls))
	require.NoError(t, err)

	require.NoError(t, m.Fill(context.Background()))
	first, err := m.Score()
	require.NoError(t, err)
	// A canceled context no longer matters once the fill is cached.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, m.Fill(ctx))
	again, err := m.Score()
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestPathScore_Errors(t *testing.T) {
	model := loopModel(t)
	e, err := dp.New(model)
	require.NoError(t, err)
	seq := parse(t, model.Alphabet(0), "xxx")
	path, err := e.Viterbi(context.Background(), seq)
	require.NoError(t, err)

	_, err = dp.PathScore(model, nil, seq)
	assert.ErrorIs(t, err, dp.ErrInvalidPath)
	_, err = dp.PathScore(model, path)
	assert.ErrorIs(t, err, dp.ErrSequences)
	_, err = dp.PathScore(model, path, parse(t, model.Alphabet(0), "xx"))
	assert.ErrorIs(t, err, dp.ErrInvalidPath)

	broken := &dp.Path{Steps: append([]dp.Step(nil), path.Steps...)}
	broken.Steps[2].Pos = [2]int{3, 0}
	_, err = dp.PathScore(model, broken, seq)
	assert.ErrorIs(t, err, dp.ErrInvalidPath)

	skipped := &dp.Path{Steps: []dp.Step{path.Steps[0], path.Steps[4]}}
	skipped.Steps[1].Pos = [2]int{3, 0}
	_, err = dp.PathScore(model, skipped, seq)
	assert.ErrorIs(t, err, dp.ErrInvalidPath)
}

func TestAccumulatePath_ViterbiTraining(t *testing.T) {
	model := loopModel(t)
	e, err := dp.New(model)
	require.NoError(t, err)
	seq := parse(t, model.Alphabet(0), "xxx")
	path, err := e.Viterbi(context.Background(), seq)
	require.NoError(t, err)

	tr := markov.NewTrainer(model)
	require.NoError(t, dp.AccumulatePath(tr, path, seq))
	trained, err := tr.Train(0)
	require.NoError(t, err)
	a, err := trained.StateByLabel("A")
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3, trained.TransitionScore(a, a), 1e-12)
	assert.InDelta(t, 1.0/3, trained.TransitionScore(a, trained.End()), 1e-12)

	assert.ErrorIs(t, dp.AccumulatePath(nil, path, seq), dp.ErrNilModel)
}

func TestErrorMessages(t *testing.T) {
	npe := &dp.NoPathError{Algorithm: dp.Viterbi, Lengths: []int{3}}
	assert.Equal(t, "dp: no path with nonzero probability (viterbi, lengths [3])", npe.Error())

	ree := &dp.ResourceExhaustedError{Dims: []int{4, 3}, Cells: 12, Limit: 10}
	assert.Equal(t, "dp: lattice [4 3] needs 12 cells, limit is 10", ree.Error())
	assert.ErrorIs(t, &dp.ResourceExhaustedError{Err: context.Canceled}, context.Canceled)
}
