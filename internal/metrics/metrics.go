// Package metrics exposes gitfeed's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gitfeed"

// Collector owns a registry and every gitfeed metric. It satisfies the
// observer interfaces of the git, timeline and webhook packages.
type Collector struct {
	registry *prometheus.Registry

	gitCommands *prometheus.CounterVec
	gitDuration *prometheus.HistogramVec

	recordsSkipped *prometheus.CounterVec

	syncRequests  *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector registers all metrics on a fresh registry, together with the
// Go runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		gitCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "git",
			Name:      "commands_total",
			Help:      "git invocations by subcommand and outcome.",
		}, []string{"subcommand", "outcome"}),
		gitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "git",
			Name:      "command_duration_seconds",
			Help:      "git invocation latency.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		}, []string{"subcommand"}),
		recordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "records_skipped_total",
			Help:      "Malformed log records skipped while building the timeline.",
		}, []string{"reason"}),
		syncRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "requests_total",
			Help:      "Sync requests by outcome (fetched or coalesced).",
		}, []string{"outcome"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "fetches_total",
			Help:      "Fetches run by result.",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "fetch_duration_seconds",
			Help:      "Fetch latency.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.gitCommands, c.gitDuration,
		c.recordsSkipped,
		c.syncRequests, c.fetches, c.fetchDuration,
		c.httpRequests, c.httpDuration,
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveCommand records one git invocation.
func (c *Collector) ObserveCommand(subcommand, outcome string, elapsed time.Duration) {
	c.gitCommands.WithLabelValues(subcommand, outcome).Inc()
	c.gitDuration.WithLabelValues(subcommand).Observe(elapsed.Seconds())
}

// RecordSkipped counts a skipped log record.
func (c *Collector) RecordSkipped(reason string) {
	c.recordsSkipped.WithLabelValues(reason).Inc()
}

// RecordSyncRequest counts a sync request.
func (c *Collector) RecordSyncRequest(outcome string) {
	c.syncRequests.WithLabelValues(outcome).Inc()
}

// RecordFetch records one fetch.
func (c *Collector) RecordFetch(result string, elapsed time.Duration) {
	c.fetches.WithLabelValues(result).Inc()
	c.fetchDuration.Observe(elapsed.Seconds())
}

// RecordHTTP records one served HTTP request.
func (c *Collector) RecordHTTP(method string, code int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	c.httpDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
