// SPDX-License-Identifier: MIT

package markov_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dist"
	"github.com/katalvlaran/hmmdp/markov"
)

func newProfile(t *testing.T, columns int, tr markov.ProfileTransitions) (*markov.ProfileHMM, error) {
	t.Helper()
	dna := alphabet.DNA()
	u, err := dist.Uniform(dna)
	require.NoError(t, err)

	return markov.NewProfileHMM(dna, columns, func(int) dist.Distribution { return u }, u, tr)
}

func TestProfileHMM_Layout(t *testing.T) {
	p, err := newProfile(t, 2, markov.DefaultProfileTransitions())
	require.NoError(t, err)

	assert.Equal(t, 2, p.Columns())
	assert.Equal(t, 9, p.NumStates())

	labels := make([]string, 0, p.NumStates())
	for _, s := range p.States() {
		labels = append(labels, s.Label())
	}
	assert.Equal(t, []string{"start", "i-0", "m-1", "i-1", "d-1", "m-2", "i-2", "d-2", "end"}, labels)

	m0, err := p.Match(0)
	require.NoError(t, err)
	assert.Same(t, p.Start(), m0)
	m3, err := p.Match(3)
	require.NoError(t, err)
	assert.Same(t, p.End(), m3)

	m2, _ := p.Match(2)
	d2, _ := p.Delete(2)
	i2, _ := p.Insert(2)
	assert.Equal(t, 2, p.Annotation(m2)["column"])
	assert.True(t, d2.IsSilent())
	assert.InDelta(t, 0.95, p.TransitionScore(m2, p.End()), 1e-12)
	assert.InDelta(t, 0.9, p.TransitionScore(d2, p.End()), 1e-12)
	assert.InDelta(t, 0.3, p.TransitionScore(i2, i2), 1e-12)

	_, err = p.Match(4)
	assert.ErrorIs(t, err, markov.ErrColumnRange)
	_, err = p.Insert(3)
	assert.ErrorIs(t, err, markov.ErrColumnRange)
	_, err = p.Delete(0)
	assert.ErrorIs(t, err, markov.ErrColumnRange)
}

func TestProfileHMM_BitScore(t *testing.T) {
	p, err := newProfile(t, 1, markov.DefaultProfileTransitions())
	require.NoError(t, err)
	a, _ := alphabet.DNA().Symbol('A')

	m1, _ := p.Match(1)
	bits, err := p.BitScore(m1, a)
	require.NoError(t, err)
	assert.InDelta(t, -2, bits, 1e-12)

	d1, _ := p.Delete(1)
	_, err = p.BitScore(d1, a)
	assert.ErrorIs(t, err, markov.ErrSilentState)
	_, err = p.BitScore(markov.NewSilent("zz"), a)
	assert.ErrorIs(t, err, markov.ErrUnknownState)

	assert.InDelta(t, 1, markov.Bits(math.Ln2), 1e-12)
	assert.InDelta(t, -3, markov.Bits(math.Log(0.125)), 1e-12)
}

func TestProfileHMM_Errors(t *testing.T) {
	_, err := newProfile(t, 0, markov.DefaultProfileTransitions())
	assert.ErrorIs(t, err, markov.ErrColumnRange)

	bad := markov.DefaultProfileTransitions()
	bad.MM = 1.5
	_, err = newProfile(t, 2, bad)
	assert.ErrorIs(t, err, markov.ErrModelInconsistency)

	short := markov.DefaultProfileTransitions()
	short.MM = 0.5
	_, err = newProfile(t, 2, short)
	var mie *markov.ModelInconsistencyError
	require.ErrorAs(t, err, &mie)
	assert.Equal(t, "start", mie.State)
}
