package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Import outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDenied  = "denied"
)

// ImportMetrics records catalog import runs.
type ImportMetrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	entries  *prometheus.CounterVec
}

// NewImportMetrics registers the catalog import metrics on the provided registerer.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sticker_import_duration_seconds",
		Help:    "Duration of catalog imports in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sticker_import_runs_total",
		Help: "Catalog import runs by outcome.",
	}, []string{"outcome"})
	entries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sticker_import_entries_total",
		Help: "Feed entries processed by catalog imports.",
	}, []string{"result"})
	reg.MustRegister(duration, runs, entries)
	return &ImportMetrics{
		duration: duration,
		runs:     runs,
		entries:  entries,
	}
}

// ObserveRun records a finished run and its duration.
func (m *ImportMetrics) ObserveRun(outcome string, elapsed time.Duration) {
	if m == nil || m.runs == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// AddEntries adds per-entry counts for a successful run.
func (m *ImportMetrics) AddEntries(fetched, inserted, skipped int) {
	if m == nil || m.entries == nil {
		return
	}
	m.entries.WithLabelValues("fetched").Add(float64(fetched))
	m.entries.WithLabelValues("inserted").Add(float64(inserted))
	m.entries.WithLabelValues("skipped").Add(float64(skipped))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
