package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Attempt labels distinguish the primary call from the strict retry.
const (
	AttemptPrimary = "primary"
	AttemptRetry   = "retry"
)

// Attempt outcome labels.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeTimeout     = "timeout"
	OutcomeCancelled   = "cancelled"
)

// Metrics holds the prometheus collectors for the generation core.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	attempts        *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	generations     *prometheus.CounterVec
	healthProbes    *prometheus.CounterVec
	routing         *prometheus.CounterVec
	validations     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// Passing prometheus.NewRegistry() keeps tests isolated from the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratagem_provider_attempts_total",
				Help: "Provider calls by attempt (primary, retry) and outcome",
			},
			[]string{"provider", "attempt", "outcome"},
		),
		attemptDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stratagem_provider_attempt_duration_seconds",
				Help:    "Wall time spent waiting for a provider call",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 90},
			},
			[]string{"provider", "attempt"},
		),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratagem_generations_total",
				Help: "Structured-generation calls by final result",
			},
			[]string{"provider", "result"},
		),
		healthProbes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratagem_health_probes_total",
				Help: "Provider health probes by result",
			},
			[]string{"provider", "healthy"},
		),
		routing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratagem_router_resolutions_total",
				Help: "Router resolutions by preference and selected provider",
			},
			[]string{"preference", "provider"},
		),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratagem_visualization_validations_total",
				Help: "Visualization validations by framework and result",
			},
			[]string{"framework", "ok"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.attempts, m.attemptDuration, m.generations, m.healthProbes, m.routing, m.validations)
	}
	return m
}

// ObserveAttempt records one provider call.
func (m *Metrics) ObserveAttempt(provider, attempt, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(provider, attempt, outcome).Inc()
	m.attemptDuration.WithLabelValues(provider, attempt).Observe(elapsed.Seconds())
}

// ObserveGeneration records the final result of a GenerateJSON call.
// result is OutcomeSuccess or an error kind.
func (m *Metrics) ObserveGeneration(provider, result string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(provider, result).Inc()
}

// ObserveHealth records a health probe.
func (m *Metrics) ObserveHealth(provider string, healthy bool) {
	if m == nil {
		return
	}
	m.healthProbes.WithLabelValues(provider, boolLabel(healthy)).Inc()
}

// ObserveRouting records a router resolution. provider is "none" on failure.
func (m *Metrics) ObserveRouting(preference, provider string) {
	if m == nil {
		return
	}
	m.routing.WithLabelValues(preference, provider).Inc()
}

// ObserveValidation records a visualization validation.
func (m *Metrics) ObserveValidation(framework string, ok bool) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(framework, boolLabel(ok)).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
