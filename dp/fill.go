// SPDX-License-Identifier: MIT

package dp

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/hmmdp/alphabet"
)

// run is one lattice fill. Workers share the read-only engine and input and
// write disjoint state slots of the current cell.
type run struct {
	e       *Engine
	alg     Algorithm
	in      *input
	lat     *lattice
	scratch [][]float64 // one term buffer per worker
}

func (e *Engine) newRun(alg Algorithm, in *input, lat *lattice) *run {
	w := e.opts.Workers
	if w < 1 {
		w = 1
	}
	deg := 1
	for s := 0; s < e.states; s++ {
		deg = max(deg, len(e.in[s]), len(e.out[s]))
	}
	r := &run{e: e, alg: alg, in: in, lat: lat, scratch: make([][]float64, w)}
	for k := range r.scratch {
		r.scratch[k] = make([]float64, 0, deg)
	}

	return r
}

// logSumExp is floats.LogSumExp with the empty sum defined as log 0.
func logSumExp(terms []float64) float64 {
	if len(terms) == 0 {
		return negInf
	}

	return floats.LogSumExp(terms)
}

// each applies fn to every state in idx, splitting idx into Workers chunks
// when intra-cell parallelism is enabled.
func (r *run) each(idx []int, fn func(s int, buf []float64) error) error {
	w := len(r.scratch)
	if w <= 1 || len(idx) < 2 {
		for _, s := range idx {
			if err := fn(s, r.scratch[0]); err != nil {
				return err
			}
		}
		return nil
	}

	chunk := (len(idx) + w - 1) / w
	var g errgroup.Group
	for k, lo := 0, 0; lo < len(idx); k, lo = k+1, lo+chunk {
		part, buf := idx[lo:min(lo+chunk, len(idx))], r.scratch[k]
		g.Go(func() error {
			for _, s := range part {
				if err := fn(s, buf); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// symbols returns the head symbols consumed by a state advancing (di, dj)
// into position (i, j).
func (r *run) symbols(i, j, di, dj int) (x, y *alphabet.Symbol) {
	if di == 1 {
		x = r.in.a[i-1]
	}
	if dj == 1 {
		y = r.in.b[j-1]
	}

	return x, y
}

// fill runs the recursion over the whole lattice. Positions are visited in
// row-major order (reverse for Backward); ctx is checked between rows.
func (r *run) fill(ctx context.Context) error {
	n, m := r.in.n, r.in.m
	rolling := r.lat.rows < n+1
	if r.alg == Backward {
		for i := n; i >= 0; i-- {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("dp: %s canceled at row %d: %w", r.alg, i, err)
			}
			if rolling && i <= n-2 {
				r.lat.resetRow(i)
			}
			for j := m; j >= 0; j-- {
				if err := r.backwardCell(i, j); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for i := 0; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("dp: %s canceled at row %d: %w", r.alg, i, err)
		}
		if rolling && i >= 2 {
			r.lat.resetRow(i)
		}
		for j := 0; j <= m; j++ {
			if err := r.forwardCell(i, j); err != nil {
				return err
			}
		}
	}

	return nil
}

// forwardCell fills (i, j) for Forward and Viterbi: emitting states first
// (their predecessors live in earlier cells), then silent states level by
// level in topological order.
func (r *run) forwardCell(i, j int) error {
	e := r.e
	cur := r.lat.cell(i, j)
	if i == 0 && j == 0 {
		cur[e.start] = 0
	}
	if err := r.each(e.emitting, func(s int, buf []float64) error {
		return r.forwardEmitting(i, j, cur, s, buf)
	}); err != nil {
		return err
	}
	for _, lvl := range e.levels {
		if err := r.each(lvl, func(s int, buf []float64) error {
			r.forwardSilent(i, j, cur, s, buf)
			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}

func (r *run) forwardEmitting(i, j int, cur []float64, s int, buf []float64) error {
	em := r.e.emit[s]
	di, dj := em.adv[0], em.adv[1]
	if i < di || j < dj {
		return nil
	}
	x, y := r.symbols(i, j, di, dj)
	es, err := em.score(x, y)
	if err != nil {
		return fmt.Errorf("dp: state %q at (%d,%d): %w", r.e.model.StateAt(s).Label(), i, j, err)
	}
	if math.IsInf(es, -1) {
		cur[s] = negInf
		return nil
	}
	prev := r.lat.cell(i-di, j-dj)

	if r.alg == Viterbi {
		best, arg := negInf, -1
		for _, t := range r.e.in[s] {
			if v := prev[t.From] + t.LogProb; v > best {
				best, arg = v, t.From
			}
		}
		if arg < 0 {
			return nil
		}
		cur[s] = es + best
		if r.lat.back != nil {
			*r.lat.bp(i, j, s) = backPointer{prev: int32(arg), di: int8(di), dj: int8(dj)}
		}
		return nil
	}

	terms := buf[:0]
	for _, t := range r.e.in[s] {
		terms = append(terms, prev[t.From]+t.LogProb)
	}
	cur[s] = es + logSumExp(terms)

	return nil
}

func (r *run) forwardSilent(i, j int, cur []float64, s int, buf []float64) {
	if s == r.e.start {
		return
	}
	if r.alg == Viterbi {
		best, arg := negInf, -1
		for _, t := range r.e.in[s] {
			if v := cur[t.From] + t.LogProb; v > best {
				best, arg = v, t.From
			}
		}
		if arg < 0 {
			return
		}
		cur[s] = best
		if r.lat.back != nil {
			*r.lat.bp(i, j, s) = backPointer{prev: int32(arg)}
		}
		return
	}

	terms := buf[:0]
	for _, t := range r.e.in[s] {
		terms = append(terms, cur[t.From]+t.LogProb)
	}
	cur[s] = logSumExp(terms)
}

// backwardCell fills (i, j) for Backward: silent states in reverse
// topological order first (emitting states read them at the same cell),
// then emitting states.
func (r *run) backwardCell(i, j int) error {
	e := r.e
	cur := r.lat.cell(i, j)
	if i == r.in.n && j == r.in.m {
		cur[e.end] = 0
	}
	for _, lvl := range e.revLevel {
		if err := r.each(lvl, func(s int, buf []float64) error {
			if s == e.end {
				return nil
			}
			return r.backwardState(i, j, cur, s, buf)
		}); err != nil {
			return err
		}
	}

	return r.each(e.emitting, func(s int, buf []float64) error {
		return r.backwardState(i, j, cur, s, buf)
	})
}

// backwardState sums over the successors q of s: silent q at the same cell,
// emitting q at the cell q advances into, weighted by q's emission there.
func (r *run) backwardState(i, j int, cur []float64, s int, buf []float64) error {
	terms := buf[:0]
	for _, t := range r.e.out[s] {
		q := t.To
		em := r.e.emit[q]
		if em == nil {
			terms = append(terms, cur[q]+t.LogProb)
			continue
		}
		ni, nj := i+em.adv[0], j+em.adv[1]
		if ni > r.in.n || nj > r.in.m {
			continue
		}
		next := r.lat.cell(ni, nj)[q]
		if math.IsInf(next, -1) {
			continue
		}
		x, y := r.symbols(ni, nj, em.adv[0], em.adv[1])
		es, err := em.score(x, y)
		if err != nil {
			return fmt.Errorf("dp: state %q at (%d,%d): %w", r.e.model.StateAt(q).Label(), ni, nj, err)
		}
		terms = append(terms, t.LogProb+es+next)
	}
	cur[s] = logSumExp(terms)

	return nil
}

// terminal reads the run's total: End at the last cell, or Start at the
// origin for Backward.
func (r *run) terminal() float64 {
	if r.alg == Backward {
		return r.lat.cell(0, 0)[r.e.start]
	}

	return r.lat.cell(r.in.n, r.in.m)[r.e.end]
}
