// Package metrics exposes Prometheus instrumentation for races, provider
// calls, and health probes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "arbiter"

// Metrics holds all collectors registered for the process.
//
// Series:
//   - arbiter_races_total{reason, status}
//   - arbiter_race_duration_seconds{reason}
//   - arbiter_race_wins_total{provider}
//   - arbiter_provider_errors_total{provider, error_kind}
//   - arbiter_provider_latency_seconds{provider, model}
//   - arbiter_provider_health{provider}
type Metrics struct {
	registry *prometheus.Registry

	races           *prometheus.CounterVec
	raceDuration    *prometheus.HistogramVec
	raceWins        *prometheus.CounterVec
	providerErrors  *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	providerHealth  *prometheus.GaugeVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		races: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "races_total",
				Help:      "Total races by routing reason and outcome status",
			},
			[]string{"reason", "status"},
		),

		raceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "race_duration_seconds",
				Help:      "Wall-clock duration of whole races",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"reason"},
		),

		raceWins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "race_wins_total",
				Help:      "Races won per provider",
			},
			[]string{"provider"},
		),

		providerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_errors_total",
				Help:      "Provider failures by error kind",
			},
			[]string{"provider", "error_kind"},
		),

		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_latency_seconds",
				Help:      "Winning provider call latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider", "model"},
		),

		providerHealth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "provider_health",
				Help:      "Provider health from the last probe (1=healthy, 0=unhealthy, -1=unknown)",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		m.races,
		m.raceDuration,
		m.raceWins,
		m.providerErrors,
		m.providerLatency,
		m.providerHealth,
	)

	return m
}

// RecordRace records one finished race.
func (m *Metrics) RecordRace(reason string, success bool, duration time.Duration) {
	status := "failure"
	if success {
		status = "success"
	}
	m.races.WithLabelValues(reason, status).Inc()
	m.raceDuration.WithLabelValues(reason).Observe(duration.Seconds())
}

// RecordWin records which provider won a race and how fast its call was.
func (m *Metrics) RecordWin(provider, model string, latency time.Duration) {
	m.raceWins.WithLabelValues(provider).Inc()
	m.providerLatency.WithLabelValues(provider, model).Observe(latency.Seconds())
}

// RecordProviderError counts one classified provider failure.
func (m *Metrics) RecordProviderError(provider, errorKind string) {
	m.providerErrors.WithLabelValues(provider, errorKind).Inc()
}

// UpdateHealth reflects a probe result on the health gauge.
func (m *Metrics) UpdateHealth(provider string, status string) {
	value := -1.0
	switch status {
	case "healthy":
		value = 1.0
	case "unhealthy":
		value = 0.0
	}
	m.providerHealth.WithLabelValues(provider).Set(value)
}

// Handler returns the scrape endpoint handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
