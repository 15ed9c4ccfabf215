package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Hashing metrics
	Hashes       prometheus.Counter
	HashErrors   prometheus.Counter
	HashDuration prometheus.Histogram

	// Verification metrics
	Verifications *prometheus.CounterVec

	// Checks of a stored hash against the password
	ExistingChecks *prometheus.CounterVec

	// Output metrics
	Statements prometheus.Counter
}

// New creates all metrics in a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		Hashes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "adminpw_hashes_total",
				Help: "Total number of password hashes generated",
			},
		),

		HashErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "adminpw_hash_errors_total",
				Help: "Total number of failed hash generations",
			},
		),

		HashDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "adminpw_hash_duration_seconds",
				Help:    "Duration of bcrypt hash generation",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),

		Verifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adminpw_verifications_total",
				Help: "Total number of hash verifications by result",
			},
			[]string{"result"}, // success, failed
		),

		ExistingChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adminpw_existing_hash_checks_total",
				Help: "Total number of stored hash checks by result",
			},
			[]string{"result"}, // match, mismatch, malformed
		),

		Statements: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "adminpw_statements_total",
				Help: "Total number of SQL statements rendered",
			},
		),
	}

	return m
}

// RecordHash records a successful hash generation
func (m *Metrics) RecordHash(duration float64) {
	m.Hashes.Inc()
	m.HashDuration.Observe(duration)
}

// RecordHashError records a failed hash generation
func (m *Metrics) RecordHashError() {
	m.HashErrors.Inc()
}

// RecordVerification records the outcome of a verification
func (m *Metrics) RecordVerification(success bool) {
	result := "success"
	if !success {
		result = "failed"
	}
	m.Verifications.WithLabelValues(result).Inc()
}

// RecordExistingCheck records the outcome of checking a stored hash
func (m *Metrics) RecordExistingCheck(matched, malformed bool) {
	result := "mismatch"
	switch {
	case malformed:
		result = "malformed"
	case matched:
		result = "match"
	}
	m.ExistingChecks.WithLabelValues(result).Inc()
}

// RecordStatement records a rendered SQL statement
func (m *Metrics) RecordStatement() {
	m.Statements.Inc()
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node_exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
