// Package metrics collects Prometheus metrics for API calls and session changes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by the API client and session store.
type Recorder interface {
	RecordAPICall(endpoint, method, outcome string, duration time.Duration)
	RecordSessionChange(event string)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	apiRequests    *prometheus.CounterVec
	apiDuration    *prometheus.HistogramVec
	sessionChanges *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogdesk_api_requests_total",
			Help: "Blog API calls by endpoint, method and outcome.",
		}, []string{"endpoint", "method", "outcome"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blogdesk_api_request_duration_seconds",
			Help:    "Blog API call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		sessionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogdesk_session_changes_total",
			Help: "Session store transitions by event.",
		}, []string{"event"}),
	}

	reg.MustRegister(c.apiRequests, c.apiDuration, c.sessionChanges)
	return c
}

// RecordAPICall records one completed API call.
func (c *Collector) RecordAPICall(endpoint, method, outcome string, duration time.Duration) {
	c.apiRequests.WithLabelValues(endpoint, method, outcome).Inc()
	c.apiDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordSessionChange records a hydrate, login or logout.
func (c *Collector) RecordSessionChange(event string) {
	c.sessionChanges.WithLabelValues(event).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordAPICall(string, string, string, time.Duration) {}
func (NopRecorder) RecordSessionChange(string)                          {}
