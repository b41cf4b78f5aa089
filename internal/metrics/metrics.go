package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/factcheck/internal/model"
)

const namespace = "factcheck"

// Metrics holds the Prometheus collectors for checks, lookups, and verdicts.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	// checks counts completed checks.
	// Labels: source (text, url), status (ok, error)
	checks *prometheus.CounterVec

	// checkDuration measures end-to-end check latency.
	// Labels: source
	checkDuration *prometheus.HistogramVec

	// verdicts counts per-claim verdicts.
	// Labels: verdict
	verdicts *prometheus.CounterVec

	// lookups counts knowledge lookups by outcome.
	// Labels: source, outcome (found, not_found, disambiguation, error)
	lookups *prometheus.CounterVec

	// lookupDuration measures knowledge lookup latency.
	// Labels: source
	lookupDuration *prometheus.HistogramVec

	// cacheRequests counts summary cache hits and misses.
	// Labels: source, result (hit, miss)
	cacheRequests *prometheus.CounterVec

	// corrections counts generated rewrites of contradicted claims
	corrections prometheus.Counter
}

// New registers the collectors with reg
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		gatherer: reg,
		checks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Total completed checks",
		}, []string{"source", "status"}),
		checkDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "End-to-end check latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"source"}),
		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Total per-claim verdicts",
		}, []string{"verdict"}),
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "knowledge",
			Name:      "lookups_total",
			Help:      "Total knowledge lookups by outcome",
		}, []string{"source", "outcome"}),
		lookupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "knowledge",
			Name:      "lookup_duration_seconds",
			Help:      "Knowledge lookup latency in seconds",
			Buckets:   []float64{0.005, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"source"}),
		cacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "knowledge",
			Name:      "cache_requests_total",
			Help:      "Summary cache hits and misses",
		}, []string{"source", "result"}),
		corrections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrections_total",
			Help:      "Total generated corrections",
		}),
	}

	// Every verdict series is exported from the first scrape
	for _, v := range model.AllVerdicts() {
		m.verdicts.WithLabelValues(string(v))
	}
	return m
}

// ObserveLookup records one knowledge lookup
func (m *Metrics) ObserveLookup(source, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(source, outcome).Inc()
	m.lookupDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveCache records a summary cache hit or miss
func (m *Metrics) ObserveCache(source string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequests.WithLabelValues(source, result).Inc()
}

// ObserveReport records a finished check and its verdicts
func (m *Metrics) ObserveReport(report *model.Report, elapsed time.Duration) {
	if m == nil || report == nil {
		return
	}
	m.checks.WithLabelValues(report.Source, "ok").Inc()
	m.checkDuration.WithLabelValues(report.Source).Observe(elapsed.Seconds())
	for _, r := range report.Results {
		m.verdicts.WithLabelValues(string(r.Verdict)).Inc()
		if r.Correction != "" {
			m.corrections.Inc()
		}
	}
}

// ObserveFailure records a check that did not produce a report
func (m *Metrics) ObserveFailure(source string) {
	if m == nil {
		return
	}
	m.checks.WithLabelValues(source, "error").Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
