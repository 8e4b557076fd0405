// Package dist provides probability distributions over a finite alphabet,
// used as the emission tables of HMM states.
//
// A Distribution maps every concrete Symbol of its Alphabet to a weight in
// [0,1]; the weights sum to 1 within a tolerance. Ambiguity symbols resolve
// through an AmbiguityPolicy (Sum by default, Max on request).
//
// Implementations in this package are immutable once constructed. Updates go
// through copy-on-write helpers (Simple.WithWeights) so that a DP run holding
// a model never observes a change mid-fill.
//
// Types:
//
//	Simple   — explicit weight vector indexed by concrete symbol index.
//	Product  — independent joint distribution over a CrossProduct alphabet,
//	           e.g. the match state of a pairwise alignment model.
//
// Errors:
//
//	ErrInvalidWeights — wrong length, negative, NaN or ±Inf weights.
//	ErrNotNormalized  — weights do not sum to 1 within tolerance.
//	alphabet.ErrAlphabetMismatch — querying a symbol from another alphabet.
package dist
