// SPDX-License-Identifier: MIT

package dp

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MemoryMode controls how Engine.Score stores the lattice.
//
//   - FullMatrix — keep every position; required for traceback and Cell.
//     Memory: O(n·m·|S|).
//   - TwoRows    — keep the current and previous row of the first head
//     only. Memory: O(m·|S|). Score only.
//
// Matrices created with NewMatrix are always FullMatrix.
type MemoryMode int

const (
	// FullMatrix stores the whole lattice.
	FullMatrix MemoryMode = iota
	// TwoRows rolls two rows over the first head's axis.
	TwoRows
)

// String implements fmt.Stringer.
func (m MemoryMode) String() string {
	switch m {
	case FullMatrix:
		return "full"
	case TwoRows:
		return "two_rows"
	default:
		return fmt.Sprintf("MemoryMode(%d)", int(m))
	}
}

// DefaultMaxCells caps a lattice at 2^27 cells (1 GiB of float64 scores).
const DefaultMaxCells = 1 << 27

// Options configures an Engine.
//
// Fields:
//   - MemoryMode  — storage used by Engine.Score.
//   - Workers     — goroutines sharing one cell's states; values <= 1 fill
//     sequentially. Only worth it for models with many states.
//   - Parallelism — concurrent runs in RunBatch; 0 means one per query.
//   - MaxCells    — cell budget per lattice ((n+1)·(m+1)·|S|); 0 disables it.
//   - Logger      — structured logger; nil means slog.Default().
type Options struct {
	MemoryMode  MemoryMode
	Workers     int
	Parallelism int
	MaxCells    int
	Logger      *slog.Logger
}

// DefaultOptions returns sequential, full-matrix options with DefaultMaxCells.
func DefaultOptions() Options {
	return Options{
		MemoryMode:  FullMatrix,
		Workers:     1,
		Parallelism: 4,
		MaxCells:    DefaultMaxCells,
	}
}

// Option mutates Options.
type Option func(*Options)

// WithMemoryMode sets the storage used by Engine.Score.
func WithMemoryMode(m MemoryMode) Option { return func(o *Options) { o.MemoryMode = m } }

// WithWorkers sets intra-cell parallelism.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithParallelism bounds concurrent runs in RunBatch.
func WithParallelism(n int) Option { return func(o *Options) { o.Parallelism = n } }

// WithMaxCells sets the per-lattice cell budget (0 = unlimited).
func WithMaxCells(n int) Option { return func(o *Options) { o.MaxCells = n } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithOptions replaces the whole option set, e.g. one produced by LoadOptions.
func WithOptions(src Options) Option { return func(o *Options) { *o = src } }

// optionsFile is the YAML form of Options.
type optionsFile struct {
	MemoryMode  string `yaml:"memory_mode" validate:"omitempty,oneof=full two_rows"`
	Workers     *int   `yaml:"workers" validate:"omitempty,gte=0,lte=1024"`
	Parallelism *int   `yaml:"parallelism" validate:"omitempty,gte=0,lte=4096"`
	MaxCells    *int   `yaml:"max_cells" validate:"omitempty,gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadOptions reads YAML options on top of DefaultOptions:
//
//	memory_mode: two_rows   # full | two_rows
//	workers: 4
//	parallelism: 8
//	max_cells: 100000000
//
// Unknown keys are rejected. Logger is not configurable from YAML.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	var f optionsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return opts, fmt.Errorf("dp.LoadOptions: %w: %v", ErrOptions, err)
	}
	if err := validate.Struct(f); err != nil {
		return opts, fmt.Errorf("dp.LoadOptions: %w: %v", ErrOptions, err)
	}
	if f.MemoryMode == "two_rows" {
		opts.MemoryMode = TwoRows
	}
	if f.Workers != nil {
		opts.Workers = *f.Workers
	}
	if f.Parallelism != nil {
		opts.Parallelism = *f.Parallelism
	}
	if f.MaxCells != nil {
		opts.MaxCells = *f.MaxCells
	}

	return opts, nil
}

func (o Options) check() error {
	if o.MemoryMode != FullMatrix && o.MemoryMode != TwoRows {
		return fmt.Errorf("dp: memory mode %d: %w", int(o.MemoryMode), ErrOptions)
	}
	if o.Workers < 0 || o.Parallelism < 0 || o.MaxCells < 0 {
		return fmt.Errorf("dp: negative workers/parallelism/max cells: %w", ErrOptions)
	}

	return nil
}
