// Package metrics defines the Prometheus metric collectors used by the
// vectorizer pipeline and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Phase label values.
const (
	PhaseNormalize       = "normalize"
	PhaseBuildVocabulary = "build_vocabulary"
	PhaseVectorize       = "vectorize"
)

// Metrics holds all Prometheus collectors for a pipeline run.
type Metrics struct {
	RecordsTotal   *prometheus.CounterVec
	PhaseDuration  *prometheus.HistogramVec
	VocabularySize prometheus.Gauge
	DistinctNGrams prometheus.Gauge
	NGramsTotal    *prometheus.CounterVec
	SinkWrites     *prometheus.CounterVec
	SinkDuration   *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates all collectors and registers them on reg. A nil reg uses a
// fresh private registry, which keeps repeated runs in one process and tests
// from colliding on the global one.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		RecordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textvec_records_total",
				Help: "Records processed by pipeline phase.",
			},
			[]string{"phase"},
		),
		PhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "textvec_phase_duration_seconds",
				Help:    "Wall time of each pipeline phase in seconds.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
			},
			[]string{"phase"},
		),
		VocabularySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "textvec_vocabulary_size",
				Help: "Number of n-grams in the frozen vocabulary.",
			},
		),
		DistinctNGrams: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "textvec_distinct_ngrams",
				Help: "Distinct n-grams counted before the minimum support cutoff.",
			},
		),
		NGramsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textvec_ngrams_total",
				Help: "N-grams seen while vectorizing, by vocabulary membership.",
			},
			[]string{"result"},
		),
		SinkWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textvec_sink_writes_total",
				Help: "Result writes by sink and status.",
			},
			[]string{"sink", "status"},
		),
		SinkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "textvec_sink_write_duration_seconds",
				Help:    "Time spent writing a result to a sink.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"sink"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.RecordsTotal,
		m.PhaseDuration,
		m.VocabularySize,
		m.DistinctNGrams,
		m.NGramsTotal,
		m.SinkWrites,
		m.SinkDuration,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for these metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
