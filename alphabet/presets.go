// SPDX-License-Identifier: MIT

package alphabet

import "sync"

// IUPAC nucleotide ambiguity codes.
var iupacDNA = []struct {
	token   rune
	members string
}{
	{'R', "AG"}, {'Y', "CT"}, {'S', "GC"}, {'W', "AT"},
	{'K', "GT"}, {'M', "AC"}, {'B', "CGT"}, {'D', "AGT"},
	{'H', "ACT"}, {'V', "ACG"}, {'N', "ACGT"},
}

const (
	dnaTokens     = "ACGT"
	proteinTokens = "ACDEFGHIKLMNPQRSTVWY"
)

var (
	dnaOnce     sync.Once
	dnaAlpha    *Alphabet
	proteinOnce sync.Once
	proteinAlph *Alphabet
)

// DNA returns the shared nucleotide alphabet: A, C, G, T plus the IUPAC
// ambiguity codes R Y S W K M B D H V N.
func DNA() *Alphabet {
	dnaOnce.Do(func() {
		opts := make([]Option, 0, len(iupacDNA))
		for _, c := range iupacDNA {
			opts = append(opts, WithAmbiguity(c.token, c.members))
		}
		dnaAlpha = mustNew("DNA", dnaTokens, opts...)
	})

	return dnaAlpha
}

// Protein returns the shared amino-acid alphabet (20 residues) with the
// ambiguity codes B = {D,N}, Z = {E,Q} and X = any residue.
func Protein() *Alphabet {
	proteinOnce.Do(func() {
		proteinAlph = mustNew("PROTEIN", proteinTokens,
			WithAmbiguity('B', "DN"),
			WithAmbiguity('Z', "EQ"),
			WithAmbiguity('X', proteinTokens),
		)
	})

	return proteinAlph
}

// mustNew panics on malformed package-level tables only.
func mustNew(name, tokens string, opts ...Option) *Alphabet {
	a, err := New(name, tokens, opts...)
	if err != nil {
		panic(err)
	}

	return a
}
