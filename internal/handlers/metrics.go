package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// diffsTotal counts POST /api/diffs requests.
	// Labels: status (ok, invalid, malformed, error)
	diffsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scorediff",
		Subsystem: "api",
		Name:      "diffs_total",
		Help:      "Total diff requests by outcome",
	}, []string{"status"})

	diffDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scorediff",
		Subsystem: "api",
		Name:      "diff_duration_seconds",
		Help:      "Time spent annotating and diffing one pair",
		Buckets:   prometheus.DefBuckets,
	})

	diffSER = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scorediff",
		Subsystem: "api",
		Name:      "symbol_error_rate",
		Help:      "Distribution of symbol error rates of successful diffs",
		Buckets:   []float64{0, 0.01, 0.025, 0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1, 2},
	})

	unsupportedEntities = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scorediff",
		Subsystem: "api",
		Name:      "unsupported_entities_total",
		Help:      "Entities skipped while building annotation trees",
	})
)
