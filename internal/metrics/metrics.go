// Package metrics exports Prometheus instrumentation for the comparison
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors shared by the API handlers and the
// event worker. Label "source" distinguishes http from event traffic.
type Metrics struct {
	comparisonsTotal   *prometheus.CounterVec
	comparisonDuration prometheus.Histogram
	comparisonOptions  prometheus.Histogram
	storeErrors        *prometheus.CounterVec
	eventsPublished    *prometheus.CounterVec
}

// New registers the collectors with reg. Pass a fresh registry in tests
// to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		comparisonsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "decision_comparisons_total",
				Help: "Comparison runs by source and outcome.",
			},
			[]string{"source", "status"},
		),
		comparisonDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "decision_comparison_duration_seconds",
				Help:    "End-to-end time to score, analyze and persist a comparison.",
				Buckets: prometheus.DefBuckets,
			},
		),
		comparisonOptions: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "decision_comparison_options",
				Help:    "Number of options per comparison request.",
				Buckets: []float64{2, 3, 4, 5, 7, 10, 15, 20},
			},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "decision_store_errors_total",
				Help: "Storage failures by operation.",
			},
			[]string{"operation"},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "decision_events_published_total",
				Help: "Event publish attempts by event type and outcome.",
			},
			[]string{"event", "status"},
		),
	}
}

// RecordComparison counts one comparison run and, on success, observes
// its duration and option count.
func (m *Metrics) RecordComparison(source, status string, duration time.Duration, optionCount int) {
	m.comparisonsTotal.WithLabelValues(source, status).Inc()
	if status == "success" {
		m.comparisonDuration.Observe(duration.Seconds())
		m.comparisonOptions.Observe(float64(optionCount))
	}
}

func (m *Metrics) RecordStoreError(operation string) {
	m.storeErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordEventPublish(event string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.eventsPublished.WithLabelValues(event, status).Inc()
}
