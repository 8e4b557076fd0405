package alphabet_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hmmdp/alphabet"
)

// TestNew_ConcreteAndAmbiguity checks dense indices and ambiguity resolution.
func TestNew_ConcreteAndAmbiguity(t *testing.T) {
	a, err := alphabet.New("bin", "01", alphabet.WithAmbiguity('?', "01"))
	require.NoError(t, err)
	assert.Equal(t, 2, a.Size())

	zero, err := a.Symbol('0')
	require.NoError(t, err)
	assert.Equal(t, 0, zero.Index())
	assert.False(t, zero.IsAmbiguous())
	assert.Equal(t, []*alphabet.Symbol{zero}, zero.Matches())

	q, err := a.Symbol('?')
	require.NoError(t, err)
	assert.True(t, q.IsAmbiguous())
	assert.Equal(t, -1, q.Index())
	assert.Len(t, q.Matches(), 2)
	assert.Len(t, a.Ambiguities(), 1)
}

// TestNew_Errors covers empty, duplicate and unresolved ambiguity declarations.
func TestNew_Errors(t *testing.T) {
	_, err := alphabet.New("empty", "")
	assert.ErrorIs(t, err, alphabet.ErrEmptyAlphabet)

	_, err = alphabet.New("dup", "AA")
	assert.ErrorIs(t, err, alphabet.ErrDuplicateToken)

	_, err = alphabet.New("amb", "AC", alphabet.WithAmbiguity('N', "ACG"))
	assert.ErrorIs(t, err, alphabet.ErrIllegalSymbol)

	_, err = alphabet.New("clash", "AC", alphabet.WithAmbiguity('A', "C"))
	assert.ErrorIs(t, err, alphabet.ErrDuplicateToken)
}

// TestSymbol_Illegal verifies the typed error carries the token.
func TestSymbol_Illegal(t *testing.T) {
	_, err := alphabet.DNA().Symbol('X')
	require.Error(t, err)
	var ise *alphabet.IllegalSymbolError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 'X', ise.Token)
	assert.Equal(t, "DNA", ise.Alphabet)
}

// TestDNA_Shared verifies the preset is built once and carries IUPAC codes.
func TestDNA_Shared(t *testing.T) {
	assert.Same(t, alphabet.DNA(), alphabet.DNA())
	assert.Equal(t, 4, alphabet.DNA().Size())
	n, err := alphabet.DNA().Symbol('N')
	require.NoError(t, err)
	assert.Len(t, n.Matches(), 4)

	assert.Equal(t, 20, alphabet.Protein().Size())
	x, err := alphabet.Protein().Symbol('X')
	require.NoError(t, err)
	assert.Len(t, x.Matches(), 20)
}

// TestCrossProduct_Canonical checks memoization and mixed-radix indexing.
func TestCrossProduct_Canonical(t *testing.T) {
	dna := alphabet.DNA()
	pair, err := alphabet.CrossProduct(dna, dna)
	require.NoError(t, err)
	again, err := alphabet.CrossProduct(dna, dna)
	require.NoError(t, err)
	assert.Same(t, pair, again)
	assert.Equal(t, 16, pair.Size())

	c, _ := dna.Symbol('C')
	g, _ := dna.Symbol('G')
	cg, err := pair.Tuple(c, g)
	require.NoError(t, err)
	assert.Equal(t, 1*4+2, cg.Index())
	assert.Equal(t, "(C G)", cg.Name())
	assert.Equal(t, []*alphabet.Symbol{c, g}, cg.Components())
	assert.Equal(t, []*alphabet.Alphabet{dna, dna}, pair.Parts())
}

// TestCrossProduct_AmbiguousTuple expands ambiguity components.
func TestCrossProduct_AmbiguousTuple(t *testing.T) {
	dna := alphabet.DNA()
	pair, err := alphabet.CrossProduct(dna, dna)
	require.NoError(t, err)

	a, _ := dna.Symbol('A')
	r, _ := dna.Symbol('R') // {A,G}
	ar, err := pair.Tuple(a, r)
	require.NoError(t, err)
	assert.True(t, ar.IsAmbiguous())
	require.Len(t, ar.Matches(), 2)
	assert.Equal(t, "(A A)", ar.Matches()[0].Name())
	assert.Equal(t, "(A G)", ar.Matches()[1].Name())

	cached, err := pair.Tuple(a, r)
	require.NoError(t, err)
	assert.Same(t, ar, cached)
}

// TestTuple_Errors covers arity and foreign-component failures.
func TestTuple_Errors(t *testing.T) {
	dna := alphabet.DNA()
	pair, err := alphabet.CrossProduct(dna, dna)
	require.NoError(t, err)
	a, _ := dna.Symbol('A')

	_, err = pair.Tuple(a)
	assert.ErrorIs(t, err, alphabet.ErrIllegalSymbol)

	_, err = dna.Tuple(a, a)
	assert.ErrorIs(t, err, alphabet.ErrIllegalSymbol)

	p, _ := alphabet.Protein().Symbol('A')
	_, err = pair.Tuple(a, p)
	assert.ErrorIs(t, err, alphabet.ErrAlphabetMismatch)

	_, err = alphabet.CrossProduct()
	assert.ErrorIs(t, err, alphabet.ErrEmptyAlphabet)
}
