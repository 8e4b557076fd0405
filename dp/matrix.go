// SPDX-License-Identifier: MIT

package dp

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/markov"
)

// Matrix is the full DP lattice of one run: (len1+1)[×(len2+1)]×|S| log
// scores, plus back-pointers for Viterbi. A Matrix is owned by one caller;
// its methods serialize on an internal lock.
//
// The fill is lazy and happens at most once: Score, Cell and Traceback
// trigger it on first use and every later call reads the cached result,
// including a cached failure.
type Matrix struct {
	e    *Engine
	alg  Algorithm
	in   *input
	id   uuid.UUID
	dims []int

	mu       sync.Mutex
	filled   bool
	released bool
	err      error
	score    float64
	lat      *lattice
}

// NewMatrix prepares an unfilled lattice for alg over seqs (one per head).
//
// Errors: ErrAlgorithm, ErrSequences, *alphabet.AlphabetMismatchError,
// *alphabet.IllegalSymbolError, *ResourceExhaustedError when the lattice
// exceeds Options.MaxCells or int.
func (e *Engine) NewMatrix(alg Algorithm, seqs ...*alphabet.SymbolList) (*Matrix, error) {
	if !alg.valid() {
		return nil, fmt.Errorf("dp.NewMatrix(%s): %w", alg, ErrAlgorithm)
	}
	in, err := e.prepare(seqs)
	if err != nil {
		return nil, err
	}
	if _, _, err = e.budget(in, FullMatrix); err != nil {
		return nil, err
	}

	return &Matrix{
		e:     e,
		alg:   alg,
		in:    in,
		id:    uuid.New(),
		dims:  e.dims(in),
		score: math.NaN(),
	}, nil
}

// ID returns the run id used in logs and spans.
func (m *Matrix) ID() uuid.UUID { return m.id }

// Algorithm returns the recursion this matrix is filled with.
func (m *Matrix) Algorithm() Algorithm { return m.alg }

// Dims returns (len1+1)[, (len2+1)], |S|.
func (m *Matrix) Dims() []int { return append([]int(nil), m.dims...) }

// Fill runs the recursion if it has not run yet and returns its error.
// A canceled ctx aborts between rows and releases the partial lattice.
func (m *Matrix) Fill(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.fillLocked(ctx)
}

func (m *Matrix) fillLocked(ctx context.Context) error {
	if m.filled {
		return m.err
	}
	if m.released {
		return ErrReleased
	}
	m.filled = true
	m.lat, m.score, m.err = m.e.execute(ctx, m.id, m.alg, m.in, FullMatrix)

	return m.err
}

// Score returns the terminal log score, filling the matrix first if needed:
// End at the last cell for Forward and Viterbi, Start at the origin for
// Backward. A score of -Inf is reported as *NoPathError.
func (m *Matrix) Score() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fillLocked(context.Background()); err != nil {
		return math.NaN(), err
	}
	if math.IsInf(m.score, -1) {
		return m.score, &NoPathError{Algorithm: m.alg, Lengths: append([]int(nil), m.in.lengths...)}
	}

	return m.score, nil
}

// ScoreIfFilled returns the terminal score without triggering a fill; NaN
// until a fill has completed successfully.
func (m *Matrix) ScoreIfFilled() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.filled || m.err != nil {
		return math.NaN()
	}

	return m.score
}

// Cell returns the log score of state at position pos (one coordinate per
// head, each in 0..len), filling the matrix first if needed.
func (m *Matrix) Cell(state *markov.State, pos ...int) (float64, error) {
	s := m.e.model.Index(state)
	if s < 0 {
		return 0, fmt.Errorf("dp.Cell(%v): %w", state, markov.ErrUnknownState)
	}
	i, j, err := m.position(pos)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err = m.fillLocked(context.Background()); err != nil {
		return 0, err
	}
	if m.lat == nil {
		return 0, ErrReleased
	}

	return m.lat.cell(i, j)[s], nil
}

func (m *Matrix) position(pos []int) (i, j int, err error) {
	if len(pos) != m.e.heads {
		return 0, 0, fmt.Errorf("dp.Cell: %d coordinates for %d heads: %w", len(pos), m.e.heads, ErrSequences)
	}
	for h, p := range pos {
		if p < 0 || p > m.in.lengths[h] {
			return 0, 0, fmt.Errorf("dp.Cell: position %d of head %d outside 0..%d: %w",
				p, h, m.in.lengths[h], alphabet.ErrOutOfRange)
		}
	}
	i = pos[0]
	if len(pos) == 2 {
		j = pos[1]
	}

	return i, j, nil
}

// Traceback follows the Viterbi back-pointers from End at the last cell to
// Start at the origin.
// Errors: ErrAlgorithm for non-Viterbi matrices, *NoPathError, ErrReleased.
func (m *Matrix) Traceback() (*Path, error) {
	if m.alg != Viterbi {
		return nil, fmt.Errorf("dp.Traceback on a %s matrix: %w", m.alg, ErrAlgorithm)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fillLocked(context.Background()); err != nil {
		return nil, err
	}
	if math.IsInf(m.score, -1) {
		return nil, &NoPathError{Algorithm: m.alg, Lengths: append([]int(nil), m.in.lengths...)}
	}
	if m.lat == nil {
		return nil, ErrReleased
	}

	return m.e.traceback(m.lat, m.in, m.score)
}

// Release drops the lattice buffers. The cached score stays readable;
// Cell and Traceback fail with ErrReleased afterwards.
func (m *Matrix) Release() {
	m.mu.Lock()
	m.lat = nil
	m.released = true
	m.mu.Unlock()
}
