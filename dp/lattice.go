// SPDX-License-Identifier: MIT

package dp

import (
	"fmt"
	"math"

	"github.com/katalvlaran/hmmdp/matrix"
)

var negInf = math.Inf(-1)

// backPointer names the Viterbi predecessor of a cell: state prev at
// position (i-di, j-dj). prev is -1 when the cell is unreachable.
type backPointer struct {
	prev   int32
	di, dj int8
}

// lattice stores one run's scores as a matrix.Dense with one row per
// position cell and one column per state: offset = cell*|S| + state with
// cell = i*(m+1) + j. In TwoRows mode only rows i%2 of the first axis exist.
type lattice struct {
	scores *matrix.Dense
	back   []backPointer // Viterbi in FullMatrix mode only
	m1     int           // m+1
	rows   int           // stored first-axis rows
	states int
}

// cell returns the borrowed score row of position (i, j).
func (l *lattice) cell(i, j int) []float64 {
	return l.scores.Row((i%l.rows)*l.m1 + j)
}

// bp returns the back-pointer slot of state s at (i, j).
func (l *lattice) bp(i, j, s int) *backPointer {
	return &l.back[(i*l.m1+j)*l.states+s]
}

// resetRow clears a reused first-axis row in TwoRows mode.
func (l *lattice) resetRow(i int) {
	for j := 0; j < l.m1; j++ {
		row := l.cell(i, j)
		for s := range row {
			row[s] = negInf
		}
	}
}

// budget returns the stored first-axis rows and cell count for in under
// mode, enforcing Options.MaxCells against what is actually stored.
func (e *Engine) budget(in *input, mode MemoryMode) (rows, cells int, err error) {
	dims := e.dims(in)
	rows = in.n + 1
	if mode == TwoRows && rows > 2 {
		rows = 2
	}
	cells, err = matrix.Size(rows, in.m+1, e.states)
	if err != nil {
		return 0, 0, &ResourceExhaustedError{Dims: dims, Err: err}
	}
	if e.opts.MaxCells > 0 && cells > e.opts.MaxCells {
		return 0, 0, &ResourceExhaustedError{Dims: dims, Cells: cells, Limit: e.opts.MaxCells}
	}

	return rows, cells, nil
}

// allocate sizes and allocates the lattice for in. Allocator panics
// surface as *ResourceExhaustedError.
func (e *Engine) allocate(in *input, alg Algorithm, mode MemoryMode) (l *lattice, err error) {
	dims := e.dims(in)
	rows, cells, err := e.budget(in, mode)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			l = nil
			err = &ResourceExhaustedError{Dims: dims, Cells: cells, Err: fmt.Errorf("%v", r)}
		}
	}()

	scores, err := matrix.NewFilled(rows*(in.m+1), e.states, negInf)
	if err != nil {
		return nil, &ResourceExhaustedError{Dims: dims, Cells: cells, Err: err}
	}
	l = &lattice{scores: scores, m1: in.m + 1, rows: rows, states: e.states}
	if alg == Viterbi && mode == FullMatrix {
		l.back = make([]backPointer, cells)
		for k := range l.back {
			l.back[k].prev = -1
		}
	}

	return l, nil
}
