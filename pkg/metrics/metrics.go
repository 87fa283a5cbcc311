// Package metrics provides Prometheus metrics for the summarization core.
// Recording is cheap enough to stay on unconditionally; scraping or pushing
// them is the embedding application's concern.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SummarizeCalls counts summarize calls.
	// Labels: kind (glance/tidy/augment), type_tag, status (success/error)
	SummarizeCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prism_summarize_calls_total",
			Help: "Total number of summarize calls",
		},
		[]string{"kind", "type_tag", "status"},
	)

	// SummarizeErrors counts failures by error category.
	// Labels: kind, type_tag, error_type
	SummarizeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prism_summarize_errors_total",
			Help: "Total number of summarize failures by error category",
		},
		[]string{"kind", "type_tag", "error_type"},
	)

	// SummarizeLatency tracks the latency of summarize calls in seconds.
	// Adapters dominate this; the dispatch overhead itself is sub-microsecond.
	SummarizeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prism_summarize_duration_seconds",
			Help:    "Latency of summarize calls",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
		},
		[]string{"kind", "type_tag"},
	)

	// AlignedNAFills counts missing markers written by the row aligner for
	// rows excluded from fitting.
	AlignedNAFills = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prism_align_na_fills_total",
			Help: "Missing markers written for rows excluded from fitting",
		},
		[]string{"type_tag"},
	)
)

// Timer tracks the duration of a single summarize call
type Timer struct {
	start   time.Time
	kind    string
	typeTag string
}

// NewTimer starts a timer for a summarize call
func NewTimer(kind, typeTag string) *Timer {
	return &Timer{start: time.Now(), kind: kind, typeTag: typeTag}
}

// Stop records the elapsed duration and returns it
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	SummarizeLatency.WithLabelValues(t.kind, t.typeTag).Observe(elapsed.Seconds())
	return elapsed
}
