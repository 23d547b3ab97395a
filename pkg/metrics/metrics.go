// Package metrics provides Prometheus metrics for the txt2metadata connector
// and its HTTP transport.
//
// # Overview
//
// Connector level metrics are labelled by operation (article, articles,
// text) and outcome (success or the error type of the failed call).
// Transport level metrics are labelled by HTTP method and host and count
// every attempt, including retries.
//
// # Basic Usage
//
//	timer := metrics.NewTimer("article")
//	suggestions, err := connector.GetMetadataForArticle(ctx, id)
//	metrics.ObserveCall("article", metrics.Outcome(err), timer.Stop(), len(suggestions))
//
// All metrics are registered with the default Prometheus registry and can
// be exposed with promhttp.Handler().
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts connector calls.
	// Labels: operation (article/articles/text), outcome (success or error type)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txt2metadata_requests_total",
			Help: "Total number of txt2metadata connector calls",
		},
		[]string{"operation", "outcome"},
	)

	// RequestDuration tracks the wall-clock duration of connector calls in
	// seconds, retries and backoff included.
	// Labels: operation
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "txt2metadata_request_duration_seconds",
			Help: "Duration of txt2metadata connector calls in seconds",
			Buckets: []float64{
				0.005, // 5ms - local service
				0.05,  // 50ms
				0.25,  // 250ms - typical classification
				1,     // 1s
				5,     // 5s
				15,    // 15s - one retry
				70,    // 70s - full retry budget
			},
		},
		[]string{"operation"},
	)

	// SuggestionsReturned tracks how many suggestions successful calls return.
	// Labels: operation
	SuggestionsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txt2metadata_suggestions_returned",
			Help:    "Number of metadata suggestions returned per call",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"operation"},
	)

	// RetriesTotal counts retried attempts.
	// Labels: method, reason (transport or the HTTP status code)
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txt2metadata_retries_total",
			Help: "Total number of retried HTTP attempts",
		},
		[]string{"method", "reason"},
	)

	// HTTPRequestsTotal counts individual HTTP attempts.
	// Labels: method, host, outcome (status class or error)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txt2metadata_http_requests_total",
			Help: "Total number of HTTP attempts made by the transport",
		},
		[]string{"method", "host", "outcome"},
	)

	// HTTPRequestDuration tracks single attempt latency in seconds.
	// Labels: method, host
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txt2metadata_http_request_duration_seconds",
			Help:    "Duration of single HTTP attempts in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "host"},
	)
)

// ObserveCall records a finished connector call
func ObserveCall(operation, outcome string, elapsed time.Duration, suggestions int) {
	RequestsTotal.WithLabelValues(operation, outcome).Inc()
	RequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if outcome == OutcomeSuccess {
		SuggestionsReturned.WithLabelValues(operation).Observe(float64(suggestions))
	}
}

// ObserveHTTP records a single HTTP attempt
func ObserveHTTP(method, host, outcome string, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, host, outcome).Inc()
	HTTPRequestDuration.WithLabelValues(method, host).Observe(elapsed.Seconds())
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the name the timer was created with
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation. It can be called
// repeatedly.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ElapsedMilliseconds returns the elapsed time in whole milliseconds
func (t *Timer) ElapsedMilliseconds() int64 {
	return t.Stop().Milliseconds()
}
