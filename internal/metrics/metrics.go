// Package metrics exposes ingestion counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shelterscanner"

// Metrics groups the collectors updated by the ingestion pipeline. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	fetchTotal     *prometheus.CounterVec
	listingsTotal  *prometheus.CounterVec
	alertsTotal    prometheus.Counter
	runDuration    prometheus.Histogram
	lastRunSuccess prometheus.Gauge
}

// New builds the collectors on a dedicated registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingestion_runs_total",
		Help:      "Number of ingestion runs by outcome",
	}, []string{"status"})
	m.fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_fetches_total",
		Help:      "Adapter invocations by source and reachability",
	}, []string{"source", "status"})
	m.listingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_total",
		Help:      "Listings processed by outcome",
	}, []string{"outcome"})
	m.alertsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_sent_total",
		Help:      "Critical alerts handed to the notifier",
	})
	m.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ingestion_run_duration_seconds",
		Help:      "Wall time of an ingestion run",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})
	m.lastRunSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last run that reached at least one source",
	})

	m.registry.MustRegister(
		m.runsTotal, m.fetchTotal, m.listingsTotal,
		m.alertsTotal, m.runDuration, m.lastRunSuccess,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFetch records one adapter invocation.
func (m *Metrics) ObserveFetch(source string, reachable bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !reachable {
		status = "unreachable"
	}
	m.fetchTotal.WithLabelValues(source, status).Inc()
}

// ObserveListings adds n listings under the given outcome label
// (persisted, duplicate, discarded, failed).
func (m *Metrics) ObserveListings(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.listingsTotal.WithLabelValues(outcome).Add(float64(n))
}

// ObserveAlerts counts notifications dispatched.
func (m *Metrics) ObserveAlerts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.alertsTotal.Add(float64(n))
}

// ObserveRun records the outcome and duration of a whole run.
func (m *Metrics) ObserveRun(status string, elapsed time.Duration, finished time.Time) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(elapsed.Seconds())
	if status == "ok" {
		m.lastRunSuccess.Set(float64(finished.Unix()))
	}
}
