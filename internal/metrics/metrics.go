// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates the application metrics. Workers and services
// record through it; the serve command exposes it on /metrics.
type Collector struct {
	importRuns       prometheus.Counter
	articlesCreated  prometheus.Counter
	articlesUpdated  prometheus.Counter
	entriesSkipped   prometheus.Counter
	providerRequests *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	billingEvents    *prometheus.CounterVec
	httpStatus       *prometheus.CounterVec
	requestLatency   prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		importRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweeezy_import_runs_total",
			Help: "Total number of feed import runs.",
		}),
		articlesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweeezy_import_articles_created_total",
			Help: "Total number of articles created by imports.",
		}),
		articlesUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweeezy_import_articles_updated_total",
			Help: "Total number of articles updated by imports.",
		}),
		entriesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweeezy_import_entries_skipped_total",
			Help: "Total number of feed entries skipped during imports.",
		}),
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweeezy_job_provider_requests_total",
			Help: "Job provider requests by provider.",
		}, []string{"provider"}),
		providerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweeezy_job_provider_failures_total",
			Help: "Job provider requests that yielded no usable listings.",
		}, []string{"provider"}),
		billingEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweeezy_billing_events_total",
			Help: "Billing webhook events by type.",
		}, []string{"type"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweeezy_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sweeezy_http_request_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.importRuns,
		c.articlesCreated,
		c.articlesUpdated,
		c.entriesSkipped,
		c.providerRequests,
		c.providerFailures,
		c.billingEvents,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordImportRun records one completed import with its counters.
func (c *Collector) RecordImportRun(created, updated, skipped int) {
	c.importRuns.Inc()
	c.articlesCreated.Add(float64(created))
	c.articlesUpdated.Add(float64(updated))
	c.entriesSkipped.Add(float64(skipped))
}

// RecordProviderRequest records one job provider request.
func (c *Collector) RecordProviderRequest(provider string) {
	c.providerRequests.WithLabelValues(provider).Inc()
}

// RecordProviderFailure records a provider request that produced no listings.
func (c *Collector) RecordProviderFailure(provider string) {
	c.providerFailures.WithLabelValues(provider).Inc()
}

// RecordBillingEvent records one received billing webhook event.
func (c *Collector) RecordBillingEvent(eventType string) {
	c.billingEvents.WithLabelValues(eventType).Inc()
}

// RecordHTTPStatus records a served HTTP status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency records the duration of a served HTTP request.
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler returns an HTTP handler serving the gatherer's metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute returns a handler exposing /metrics for scraping.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
