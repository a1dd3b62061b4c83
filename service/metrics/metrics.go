package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
// Following the explicit dependency injection pattern, this struct
// is passed to all components that need to record metrics.
type Metrics struct {
	// Upstream transaction provider metrics
	solanaRPCCallsTotal      *prometheus.CounterVec
	solanaRPCCallDuration    *prometheus.HistogramVec
	paginationPagesPerFetch  *prometheus.HistogramVec
	paginationStopsTotal     *prometheus.CounterVec
	transactionsFetchedTotal *prometheus.CounterVec

	// Pipeline metrics
	transactionsFilteredTotal *prometheus.CounterVec
	summariesBuiltTotal       *prometheus.CounterVec
	summaryBuildDuration      *prometheus.HistogramVec

	// Token metadata metrics
	metadataLookupsTotal   *prometheus.CounterVec
	metadataLookupDuration *prometheus.HistogramVec

	// HTTP Metrics
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec

	// NATS Metrics
	natsMessagesPublished *prometheus.CounterVec
	natsPublishDuration   *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		solanaRPCCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solana_rpc_calls_total",
				Help: "Total number of upstream transaction RPC calls by method and status",
			},
			[]string{"method", "status", "endpoint"},
		),
		solanaRPCCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solana_rpc_call_duration_seconds",
				Help:    "Duration of upstream transaction RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "endpoint"},
		),
		paginationPagesPerFetch: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagination_pages_per_fetch",
				Help:    "Number of pages requested per wallet history fetch",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
			},
			[]string{"endpoint"},
		),
		paginationStopsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagination_stops_total",
				Help: "Total number of completed paginations by stop reason",
			},
			[]string{"endpoint", "reason"},
		),
		transactionsFetchedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_fetched_total",
				Help: "Total number of transactions fetched from the upstream provider",
			},
			[]string{"endpoint"},
		),

		transactionsFilteredTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_filtered_total",
				Help: "Total number of transactions removed by the filter",
			},
			[]string{"reason"},
		),
		summariesBuiltTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "summaries_built_total",
				Help: "Total number of summary builds by outcome",
			},
			[]string{"outcome"},
		),
		summaryBuildDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "summary_build_duration_seconds",
				Help:    "Duration of a full summary build in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"outcome"},
		),

		metadataLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "token_metadata_lookups_total",
				Help: "Total number of token metadata lookups by source and result",
			},
			[]string{"source", "result"},
		),
		metadataLookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "token_metadata_lookup_duration_seconds",
				Help:    "Duration of token metadata lookups in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"source"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"handler", "method", "status"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),

		natsMessagesPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nats_messages_published_total",
				Help: "Total number of NATS messages published",
			},
			[]string{"subject", "status"},
		),
		natsPublishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nats_publish_duration_seconds",
				Help:    "Duration of NATS publish operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"subject"},
		),
	}
}

// Upstream metric helpers

// RecordRPCCall records an upstream RPC call with duration.
func (m *Metrics) RecordRPCCall(method, status, endpoint string, duration float64) {
	m.solanaRPCCallsTotal.WithLabelValues(method, status, endpoint).Inc()
	m.solanaRPCCallDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordPagination records how many pages a fetch took and why it stopped.
func (m *Metrics) RecordPagination(endpoint, reason string, pages int) {
	m.paginationPagesPerFetch.WithLabelValues(endpoint).Observe(float64(pages))
	m.paginationStopsTotal.WithLabelValues(endpoint, reason).Inc()
}

// RecordTransactionsFetched records transactions fetched from the provider.
func (m *Metrics) RecordTransactionsFetched(endpoint string, count int) {
	m.transactionsFetchedTotal.WithLabelValues(endpoint).Add(float64(count))
}

// Pipeline metric helpers

// RecordTransactionsFiltered records transactions removed by the filter.
func (m *Metrics) RecordTransactionsFiltered(reason string, count int) {
	m.transactionsFilteredTotal.WithLabelValues(reason).Add(float64(count))
}

// RecordSummaryBuilt records a summary build with duration.
func (m *Metrics) RecordSummaryBuilt(outcome string, duration float64) {
	m.summariesBuiltTotal.WithLabelValues(outcome).Inc()
	m.summaryBuildDuration.WithLabelValues(outcome).Observe(duration)
}

// RecordMetadataLookup records a token metadata lookup against one source.
func (m *Metrics) RecordMetadataLookup(source, result string, duration float64) {
	m.metadataLookupsTotal.WithLabelValues(source, result).Inc()
	m.metadataLookupDuration.WithLabelValues(source).Observe(duration)
}

// HTTP metric helpers

// RecordHTTPRequest records an HTTP request with duration.
func (m *Metrics) RecordHTTPRequest(handler, method string, statusCode int, duration float64) {
	status := statusCodeToString(statusCode)
	m.httpRequestDuration.WithLabelValues(handler, method, status).Observe(duration)
	m.httpRequestsTotal.WithLabelValues(handler, method, status).Inc()
}

// NATS metric helpers

// RecordNATSPublish records a NATS publish operation.
func (m *Metrics) RecordNATSPublish(subject, status string, duration float64) {
	m.natsMessagesPublished.WithLabelValues(subject, status).Inc()
	m.natsPublishDuration.WithLabelValues(subject).Observe(duration)
}

// Helper functions

func statusCodeToString(code int) string {
	// Group status codes by class
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "unknown"
	}
}
