// Package hmmdp is a dynamic-programming engine for hidden Markov models:
// Viterbi, Forward and Backward over one sequence or a pair of sequences,
// in log space, with profile-HMM construction and bit scoring on top.
//
// 🚀 What is inside?
//
//	alphabet/ — symbols, IUPAC-style ambiguity codes, cross-product alphabets, symbol lists
//	dist/     — emission distributions (Simple, Uniform) with an ambiguity policy
//	markov/   — states, the immutable MarkovModel, builders, YAML definitions,
//	            profile HMMs, sampling and count-based training
//	dp/       — the DP lattice, Forward/Backward/Viterbi, tracebacks,
//	            posteriors and batch scoring
//	core/, bfs/, dfs/ — the model topology graph and its reachability and
//	            silent-state ordering checks
//	matrix/   — the dense float64 storage behind the lattice
//	cmd/hmmdp — a command-line front end
//
// ✨ Guarantees
//
//   - Built models are immutable and safe to share across goroutines.
//   - Silent states never form a cycle, so every recursion has a fixed order.
//   - Viterbi ties resolve to the lowest state index; results are reproducible
//     regardless of worker count or memory mode.
//   - All scores are natural logs; markov.Bits converts to base 2.
//
// Quick start:
//
//	d, _ := markov.LoadDefinition(f)
//	model, _ := d.Build()
//	e, _ := dp.New(model, dp.WithMemoryMode(dp.TwoRows))
//	score, err := e.Score(ctx, dp.Forward, alphabet.MustParse(alphabet.DNA(), "ACGT"))
package hmmdp
