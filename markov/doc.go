// Package markov defines HMM states and the immutable Model consumed by
// the dp engine.
//
// A Model is a directed graph over States with per-edge transition
// probabilities. Every model owns exactly one silent Start state (index 0)
// and one silent End state (last index); all other states are indexed in
// declaration order. States are either Silent (consume nothing) or
// Emitting (consume Advance[h] symbols from head h and score them with a
// dist.Distribution).
//
// Models are assembled with a Builder and frozen by Build, which checks:
//
//   - outgoing probabilities of every non-End state sum to 1 (± tolerance);
//   - each emitting state has a distribution over EmissionAlphabet(advance);
//   - nothing enters Start and nothing leaves End;
//   - every state is reachable from Start and reaches End (bfs);
//   - the silent sub-graph is acyclic, silent self-loops included (dfs).
//
// Violations surface as *ModelInconsistencyError (errors.Is
// ErrModelInconsistency). A built Model is read-only and safe to share
// across concurrent DP runs.
//
// Also provided:
//
//	ProfileHMM  — match/insert/delete column layout with bit scoring.
//	Trainer     — count accumulation and re-estimation into a new Model.
//	Definition  — YAML model description (LoadDefinition, Build).
//	Generate    — sampling sequences from a single-head model.
package markov
