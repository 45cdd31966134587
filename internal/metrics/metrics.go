// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the application's Prometheus metrics.
type Collector struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	classifierLatency prometheus.Histogram
	classifierErrors  prometheus.Counter
	analyses          *prometheus.CounterVec
	logins            *prometheus.CounterVec
	registrations     prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentiment_board_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentiment_board_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		classifierLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentiment_board_classifier_latency_seconds",
			Help:    "Latency of calls to the sentiment classifier.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		classifierErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentiment_board_classifier_errors_total",
			Help: "Failed calls to the sentiment classifier.",
		}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentiment_board_analyses_total",
			Help: "Saved analyses by sentiment label.",
		}, []string{"label"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentiment_board_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentiment_board_registrations_total",
			Help: "Successful user registrations.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.classifierLatency,
		c.classifierErrors,
		c.analyses,
		c.logins,
		c.registrations,
	)

	return c
}

// RecordHTTPRequest records one served request. route is the matched route
// pattern, not the raw path, to keep label cardinality bounded.
//
// All recording methods are no-ops on a nil *Collector.
func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveClassifier records the latency and outcome of one classifier call.
func (c *Collector) ObserveClassifier(d time.Duration, err error) {
	if c == nil {
		return
	}
	c.classifierLatency.Observe(d.Seconds())
	if err != nil {
		c.classifierErrors.Inc()
	}
}

func (c *Collector) RecordAnalysis(label string) {
	if c == nil {
		return
	}
	c.analyses.WithLabelValues(label).Inc()
}

func (c *Collector) RecordLogin(success bool) {
	if c == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRegistration() {
	if c == nil {
		return
	}
	c.registrations.Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
