// Package alphabet defines the finite token sets that sequences and emission
// distributions are expressed over.
//
// 🚀 What lives here?
//
//	• Alphabet   — an immutable, ordered set of concrete Symbols plus optional
//	               ambiguity Symbols (IUPAC-style "N" = {A,C,G,T}).
//	• Symbol     — a token identity. Concrete symbols carry a dense index
//	               0..Size()-1; ambiguity symbols carry index -1 and resolve to
//	               their concrete members via Matches().
//	• CrossProduct — canonical product alphabets (e.g. DNA×DNA for pairwise
//	               match states, or symbol×quality). Identical parts always
//	               yield the same *Alphabet pointer.
//	• SymbolList — an immutable, 1-indexed ordered sequence over one Alphabet.
//
// ✨ Sharing model:
//
//	Alphabets are built once and shared by pointer across every model,
//	distribution and sequence that uses them. Identity comparisons
//	(a == b) are the alphabet-equality test used throughout hmmdp.
//
// ⚙️ Usage:
//
//	dna := alphabet.DNA()
//	seq, err := alphabet.Parse(dna, "ACGTN")
//	if err != nil {
//	  // *IllegalSymbolError carries the offending token and position
//	}
//	pair, _ := alphabet.CrossProduct(dna, dna)
//	ac, _ := pair.Tuple(mustSym(dna, 'A'), mustSym(dna, 'C'))
//
// Errors:
//
//	ErrIllegalSymbol     — token/symbol not part of the alphabet (*IllegalSymbolError).
//	ErrAlphabetMismatch  — symbol belongs to a different alphabet (*AlphabetMismatchError).
//	ErrEmptyAlphabet     — no concrete tokens supplied.
//	ErrDuplicateToken    — a token was declared twice.
//	ErrOutOfRange        — 1-based SymbolList index outside 1..Len().
package alphabet
