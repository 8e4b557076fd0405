// SPDX-License-Identifier: MIT

package dp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("hmmdp.dp")

var (
	// fillTotal counts lattice fills by algorithm and result.
	fillTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hmmdp_fill_total",
		Help: "Total DP lattice fills by algorithm and result",
	}, []string{"algorithm", "result"})

	// fillDuration tracks fill latency.
	fillDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hmmdp_fill_duration_seconds",
		Help:    "DP lattice fill duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
	}, []string{"algorithm"})

	// matrixCells tracks lattice size (positions × states) per fill.
	matrixCells = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hmmdp_matrix_cells",
		Help:    "Number of lattice cells (positions x states) per fill",
		Buckets: prometheus.ExponentialBuckets(16, 8, 10),
	})
)

// Result labels for fillTotal.
const (
	resultOK       = "ok"
	resultNoPath   = "no_path"
	resultCanceled = "canceled"
	resultError    = "error"
)
