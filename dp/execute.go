// SPDX-License-Identifier: MIT

package dp

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// execute allocates and fills one lattice and returns it with the terminal
// score. On failure the partial lattice is dropped.
//
// Observability: one span per fill, hmmdp_fill_* metrics, debug records at
// start and finish.
func (e *Engine) execute(ctx context.Context, id uuid.UUID, alg Algorithm, in *input, mode MemoryMode) (*lattice, float64, error) {
	dims := e.dims(in)
	ctx, span := tracer.Start(ctx, "dp.Fill",
		trace.WithAttributes(
			attribute.String("run_id", id.String()),
			attribute.String("algorithm", alg.String()),
			attribute.IntSlice("dims", dims),
			attribute.String("memory_mode", mode.String()),
			attribute.Int("workers", e.opts.Workers),
		),
	)
	defer span.End()

	log := e.log.With(slog.String("run_id", id.String()), slog.String("algorithm", alg.String()))
	log.Debug("fill started", slog.Any("dims", dims), slog.String("memory_mode", mode.String()))
	began := time.Now()

	fail := func(err error) (*lattice, float64, error) {
		result := resultError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result = resultCanceled
		}
		fillTotal.WithLabelValues(alg.String(), result).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug("fill failed", slog.String("error", err.Error()), slog.Duration("elapsed", time.Since(began)))
		return nil, math.NaN(), err
	}

	lat, err := e.allocate(in, alg, mode)
	if err != nil {
		return fail(err)
	}
	matrixCells.Observe(float64(lat.scores.Rows() * lat.scores.Cols()))

	r := e.newRun(alg, in, lat)
	if err = r.fill(ctx); err != nil {
		return fail(err)
	}
	score := r.terminal()

	elapsed := time.Since(began)
	result := resultOK
	if math.IsInf(score, -1) {
		result = resultNoPath
		span.AddEvent("no_path")
	}
	fillTotal.WithLabelValues(alg.String(), result).Inc()
	fillDuration.WithLabelValues(alg.String()).Observe(elapsed.Seconds())
	span.SetAttributes(attribute.Float64("score", score))
	log.Debug("fill finished", slog.Float64("score", score), slog.Duration("elapsed", elapsed))

	return lat, score, nil
}
