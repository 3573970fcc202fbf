package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIMetrics covers the HTTP surface and the query pipeline.
type APIMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	queriesTotal       *prometheus.CounterVec
	queryDuration      *prometheus.HistogramVec
	retrievedChunks    *prometheus.HistogramVec
	extractedItems     *prometheus.HistogramVec
	parseFailuresTotal *prometheus.CounterVec
}

func NewAPIMetrics(service string) *APIMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "specrag",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "specrag",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "specrag",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "specrag",
			Subsystem: "query",
			Name:      "total",
			Help:      "Total spec queries by classified type and outcome.",
		},
		[]string{"service", "query_type", "outcome"},
	)
	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "specrag",
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Full pipeline duration per query in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "query_type"},
	)
	retrievedChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "specrag",
			Subsystem: "query",
			Name:      "context_chunks",
			Help:      "Distribution of context chunks per answered query.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8, 13},
		},
		[]string{"service"},
	)
	extractedItems := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "specrag",
			Subsystem: "query",
			Name:      "spec_items",
			Help:      "Distribution of deduplicated spec items per answered query.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	parseFailuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "specrag",
			Subsystem: "query",
			Name:      "parse_failures_total",
			Help:      "Total queries where the model output was unparseable.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal, requestDuration, requestInFlight,
		queriesTotal, queryDuration, retrievedChunks, extractedItems, parseFailuresTotal,
	)

	return &APIMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		queriesTotal:       queriesTotal,
		queryDuration:      queryDuration,
		retrievedChunks:    retrievedChunks,
		extractedItems:     extractedItems,
		parseFailuresTotal: parseFailuresTotal,
	}
}

func (m *APIMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *APIMetrics) ObserveRequest(service, method, path, status string, duration time.Duration) {
	m.requestTotal.WithLabelValues(service, method, path, status).Inc()
	m.requestDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

func (m *APIMetrics) RequestStarted()  { m.requestInFlight.Inc() }
func (m *APIMetrics) RequestFinished() { m.requestInFlight.Dec() }

func (m *APIMetrics) ObserveQuery(service, queryType string, duration time.Duration, contextChunks, items int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.queriesTotal.WithLabelValues(service, queryType, outcome).Inc()
	if err != nil {
		return
	}
	m.queryDuration.WithLabelValues(service, queryType).Observe(duration.Seconds())
	m.retrievedChunks.WithLabelValues(service).Observe(float64(contextChunks))
	m.extractedItems.WithLabelValues(service).Observe(float64(items))
}

func (m *APIMetrics) QueryParseFailure(service string) {
	m.parseFailuresTotal.WithLabelValues(service).Inc()
}
