// Package metrics exposes mining and verification outcomes as Prometheus collectors.
package metrics

import (
	"net/http"

	"coverage-miner/internal/errs"
	"coverage-miner/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "miner"

// Metrics owns a private registry so several instances can coexist in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	repositories  *prometheus.CounterVec
	methods       *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	verifications *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		repositories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repositories_total",
			Help:      "Repositories processed, by final status.",
		}, []string{"status"}),
		methods: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "methods_total",
			Help:      "Covered methods found in coverage reports, by whether they were harvested or skipped.",
		}, []string{"result"}),
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Wall-clock duration of instrumented builds.",
			Buckets:   []float64{30, 60, 120, 300, 600, 1200, 1800, 3600, 5400},
		}, []string{"project"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Predictions verified, by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.repositories, m.methods, m.buildDuration, m.verifications)

	// every status is exported from the start, at zero
	m.repositories.WithLabelValues(model.StatusSuccess)
	m.repositories.WithLabelValues(string(errs.CauseUnknown))
	for _, cause := range errs.Causes() {
		m.repositories.WithLabelValues(string(cause))
	}
	return m
}

// ObserveRepository counts a mined repository and, when known, its build time.
func (m *Metrics) ObserveRepository(record *model.RepositoryRecord) {
	if m == nil {
		return
	}
	m.repositories.WithLabelValues(record.Status).Inc()
	if record.Time.Valid {
		m.buildDuration.WithLabelValues(record.Project).Observe(float64(record.Time.Value))
	}
}

func (m *Metrics) MethodHarvested() {
	if m == nil {
		return
	}
	m.methods.WithLabelValues("harvested").Inc()
}

func (m *Metrics) MethodSkipped() {
	if m == nil {
		return
	}
	m.methods.WithLabelValues("skipped").Inc()
}

func (m *Metrics) ObserveVerification(outcome model.VerificationOutcome) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(string(outcome)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
