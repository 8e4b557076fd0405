// SPDX-License-Identifier: MIT

package dp

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/markov"
	"github.com/katalvlaran/hmmdp/matrix"
)

// Score runs alg over seqs and returns only the terminal log score, using
// Options.MemoryMode: with TwoRows the lattice never holds more than two
// rows of the first head.
// Errors: as NewMatrix, ctx errors, *NoPathError for a -Inf score.
func (e *Engine) Score(ctx context.Context, alg Algorithm, seqs ...*alphabet.SymbolList) (float64, error) {
	if !alg.valid() {
		return math.NaN(), fmt.Errorf("dp.Score(%s): %w", alg, ErrAlgorithm)
	}
	in, err := e.prepare(seqs)
	if err != nil {
		return math.NaN(), err
	}
	_, score, err := e.execute(ctx, uuid.New(), alg, in, e.opts.MemoryMode)
	if err != nil {
		return math.NaN(), err
	}
	if math.IsInf(score, -1) {
		return score, &NoPathError{Algorithm: alg, Lengths: in.lengths}
	}

	return score, nil
}

// Viterbi returns the most probable state path through seqs.
func (e *Engine) Viterbi(ctx context.Context, seqs ...*alphabet.SymbolList) (*Path, error) {
	m, err := e.NewMatrix(Viterbi, seqs...)
	if err != nil {
		return nil, err
	}
	defer m.Release()
	if err = m.Fill(ctx); err != nil {
		return nil, err
	}

	return m.Traceback()
}

// Posterior holds per-cell state occupation probabilities
// P(state at position | sequences) = exp(f + b - total).
type Posterior struct {
	model   *markov.Model
	lengths []int
	m1      int
	probs   *matrix.Dense
	total   float64
}

// Posterior runs Forward and Backward concurrently over seqs and combines
// them. Errors: as NewMatrix, ctx errors, *NoPathError.
func (e *Engine) Posterior(ctx context.Context, seqs ...*alphabet.SymbolList) (*Posterior, error) {
	in, err := e.prepare(seqs)
	if err != nil {
		return nil, err
	}
	var fwd, bwd *lattice
	var total float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fwd, total, err = e.execute(gctx, uuid.New(), Forward, in, FullMatrix)
		return err
	})
	g.Go(func() error {
		var err error
		bwd, _, err = e.execute(gctx, uuid.New(), Backward, in, FullMatrix)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	if math.IsInf(total, -1) {
		return nil, &NoPathError{Algorithm: Forward, Lengths: in.lengths}
	}

	// Reuse the forward buffer for the result.
	f, b := fwd.scores.Data(), bwd.scores.Data()
	for k := range f {
		f[k] = math.Exp(f[k] + b[k] - total)
	}

	return &Posterior{model: e.model, lengths: in.lengths, m1: in.m + 1, probs: fwd.scores, total: total}, nil
}

// Total returns the log probability of the sequences.
func (p *Posterior) Total() float64 { return p.total }

// At returns the posterior probability of state at pos (one coordinate per head).
func (p *Posterior) At(state *markov.State, pos ...int) (float64, error) {
	s := p.model.Index(state)
	if s < 0 {
		return 0, fmt.Errorf("dp.Posterior.At(%v): %w", state, markov.ErrUnknownState)
	}
	if len(pos) != len(p.lengths) {
		return 0, fmt.Errorf("dp.Posterior.At: %d coordinates for %d heads: %w", len(pos), len(p.lengths), ErrSequences)
	}
	for h, x := range pos {
		if x < 0 || x > p.lengths[h] {
			return 0, fmt.Errorf("dp.Posterior.At: position %d of head %d: %w", x, h, alphabet.ErrOutOfRange)
		}
	}
	cell := pos[0] * p.m1
	if len(pos) == 2 {
		cell += pos[1]
	}

	return p.probs.At(cell, s)
}

// Query is one independent run of a batch.
type Query struct {
	ID   string
	Seqs []*alphabet.SymbolList
}

// Result is the outcome of one Query. Err holds a per-query failure
// (illegal symbol, no path, resource limits); it never aborts the batch.
type Result struct {
	ID    string
	Score float64
	Path  *Path // Viterbi only
	Err   error
}

// RunBatch runs alg over every query, at most Options.Parallelism at a time
// (0 = all at once). Results are in query order. Only cancellation of ctx
// aborts the batch, and its error is returned.
func (e *Engine) RunBatch(ctx context.Context, alg Algorithm, queries []Query) ([]Result, error) {
	if !alg.valid() {
		return nil, fmt.Errorf("dp.RunBatch(%s): %w", alg, ErrAlgorithm)
	}
	results := make([]Result, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	if e.opts.Parallelism > 0 {
		g.SetLimit(e.opts.Parallelism)
	}
	for k, q := range queries {
		k, q := k, q
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := Result{ID: q.ID, Score: math.NaN()}
			if alg == Viterbi {
				path, err := e.Viterbi(gctx, q.Seqs...)
				if err == nil {
					res.Path, res.Score = path, path.Score
				}
				res.Err = err
			} else {
				res.Score, res.Err = e.Score(gctx, alg, q.Seqs...)
			}
			if ctxErr := gctx.Err(); ctxErr != nil && res.Err != nil {
				return ctxErr
			}
			results[k] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("dp.RunBatch: %w", err)
	}

	return results, nil
}
