package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "testforge"

// Metrics groups the service counters. All methods are safe on a nil receiver,
// which turns them into no-ops for tests and tools that do not export metrics.
type Metrics struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	storiesExtracted   *prometheus.CounterVec
	extractionFailures *prometheus.CounterVec
	generations        *prometheus.CounterVec
	tokensUsed         *prometheus.CounterVec
	modelDiscovery     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		storiesExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stories_extracted_total",
			Help:      "Stories extracted from uploaded files by format.",
		}, []string{"format"}),
		extractionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_failures_total",
			Help:      "Uploaded files that could not be parsed, by format.",
		}, []string{"format"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generation calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		tokensUsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_tokens_total",
			Help:      "Tokens reported by the model provider.",
		}, []string{"provider"}),
		modelDiscovery: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_discovery_total",
			Help:      "Model discovery calls by provider and availability.",
		}, []string{"provider", "available"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.storiesExtracted,
		m.extractionFailures,
		m.generations,
		m.tokensUsed,
		m.modelDiscovery,
	)
	return m
}

// ObserveHTTP records one finished request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveExtraction records a successful parse of one file
func (m *Metrics) ObserveExtraction(format string, stories int) {
	if m == nil {
		return
	}
	m.storiesExtracted.WithLabelValues(format).Add(float64(stories))
}

// ObserveExtractionFailure records a file that could not be parsed
func (m *Metrics) ObserveExtractionFailure(format string) {
	if m == nil {
		return
	}
	m.extractionFailures.WithLabelValues(format).Inc()
}

// ObserveGeneration records one provider call and the tokens it used
func (m *Metrics) ObserveGeneration(provider string, err error, tokens int) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.generations.WithLabelValues(provider, outcome).Inc()
	if tokens > 0 {
		m.tokensUsed.WithLabelValues(provider).Add(float64(tokens))
	}
}

// ObserveModelDiscovery records one discovery attempt
func (m *Metrics) ObserveModelDiscovery(provider string, available bool) {
	if m == nil {
		return
	}
	m.modelDiscovery.WithLabelValues(provider, strconv.FormatBool(available)).Inc()
}
