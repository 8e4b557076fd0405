// Package dp runs the HMM dynamic-programming recursions (Forward, Backward,
// Viterbi) over one sequence or a pair of sequences.
//
// An Engine compiles a markov.Model once into index-based transition lists
// and log-emission tables and may then serve any number of concurrent runs.
// Each run owns a lattice of (len1+1)[×(len2+1)]×|S| natural-log scores
// stored flat in a matrix.Dense (offset = cell*|S| + state, cell =
// i*(len2+1) + j). Position 0 is the boundary before the first symbol;
// (0,…,0, Start) is seeded with log 1 and every other cell starts at -Inf.
//
// Per cell, emitting states are scored first from the cells they advance
// from, then silent states in the model's topological silent order:
//
//	emitting: f[c][s] = e_s(sym(c)) + LSE_p(f[c-adv_s][p] + t(p,s))
//	silent:   f[c][s] = LSE_p(f[c][p] + t(p,s))
//
// Viterbi replaces LSE by max; on equal scores the predecessor with the
// lowest state index wins. Backward visits cells in reverse and silent
// states in reverse topological order. Pairwise runs cost O(n·m·|S|) time
// and memory; Options.MaxCells bounds the allocation and
// MemoryMode TwoRows brings Engine.Score down to O(m·|S|).
//
// Matrices fill lazily and at most once; Score, Cell and Traceback read the
// cached result. Cancellation is checked between rows.
//
// Errors:
//
//	*NoPathError              — terminal score is -Inf (ErrNoPath).
//	*ResourceExhaustedError   — lattice over budget or unallocatable (ErrResourceExhausted).
//	*alphabet.AlphabetMismatchError, *alphabet.IllegalSymbolError — bad input sequences.
//
// Each fill emits an OpenTelemetry span ("dp.Fill"), Prometheus metrics
// (hmmdp_fill_total, hmmdp_fill_duration_seconds, hmmdp_matrix_cells) and
// slog debug records tagged with the run id.
package dp
