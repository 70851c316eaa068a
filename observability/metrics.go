package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Journal metrics
	TradesOpenedTotal *prometheus.CounterVec
	TradesClosedTotal *prometheus.CounterVec
	TradeRMultiple    prometheus.Histogram
	TradeHoldTime     prometheus.Histogram
	ValidationRejects *prometheus.CounterVec
	ImportRowsTotal   *prometheus.CounterVec
	AnalyticsDuration *prometheus.HistogramVec
	CritiqueRequests  *prometheus.CounterVec

	// External API metrics
	ExternalAPIRequestsTotal *prometheus.CounterVec
	ExternalAPIErrorsTotal   *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryTotal    *prometheus.CounterVec
	DBErrorsTotal   *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// rMultipleBuckets cover the realistic range of risk multiples
var rMultipleBuckets = []float64{-5, -3, -2, -1, -0.5, 0, 0.5, 1, 2, 3, 5, 10}

// holdTimeBuckets are in minutes, from scalps to multi-week holds
var holdTimeBuckets = []float64{1, 5, 15, 60, 240, 1440, 4320, 10080, 43200}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		// Journal metrics
		TradesOpenedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_journal",
				Subsystem: "journal",
				Name:      "trades_opened_total",
				Help:      "Total number of trades opened",
			},
			[]string{"direction", "asset_class"},
		),
		TradesClosedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_journal",
				Subsystem: "journal",
				Name:      "trades_closed_total",
				Help:      "Total number of trades closed, by outcome",
			},
			[]string{"direction", "outcome"},
		),
		TradeRMultiple: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "trade_journal",
				Subsystem: "journal",
				Name:      "r_multiple",
				Help:      "Distribution of realized risk multiples",
				Buckets:   rMultipleBuckets,
			},
		),
		TradeHoldTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "trade_journal",
				Subsystem: "journal",
				Name:      "hold_time_minutes",
				Help:      "Distribution of trade hold times in minutes",
				Buckets:   holdTimeBuckets,
			},
		),
		ValidationRejects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_journal",
				Subsystem: "journal",
				Name:      "validation_rejects_total",
				Help:      "Total number of trade submissions rejected by validation",
			},
			[]string{"operation"},
		),
		ImportRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_journal",
				Subsystem: "import",
				Name:      "rows_total",
				Help:      "Total number of CSV import rows processed",
			},
			[]string{"status"},
		),
		AnalyticsDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "trade_journal",
				Subsystem: "analytics",
				Name:      "duration_seconds",
				Help:      "Duration of analytics aggregations in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"report"},
		),
		CritiqueRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_journal",
				Subsystem: "critique",
				Name:      "requests_total",
				Help:      "Total number of AI trade critique requests",
			},
			[]string{"provider", "status"},
		),

		// External API metrics
		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_journal",
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"service", "operation"},
		),
		ExternalAPIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_journal",
				Subsystem: "external_api",
				Name:      "errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"service", "operation", "error_type"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "trade_journal",
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of external API calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"service", "operation"},
		),

		// Database metrics
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "trade_journal",
				Subsystem: "database",
				Name:      "query_duration_seconds",
				Help:      "Duration of database queries in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"operation", "table"},
		),
		DBQueryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_journal",
				Subsystem: "database",
				Name:      "queries_total",
				Help:      "Total number of database queries",
			},
			[]string{"operation", "table"},
		),
		DBErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_journal",
				Subsystem: "database",
				Name:      "errors_total",
				Help:      "Total number of database errors",
			},
			[]string{"operation", "table"},
		),

		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_journal",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "trade_journal",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),

		// Circuit breaker metrics
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "trade_journal",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_journal",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"service"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// RecordTradeOpened records a newly opened trade
func (m *Metrics) RecordTradeOpened(direction, assetClass string) {
	m.TradesOpenedTotal.WithLabelValues(direction, assetClass).Inc()
}

// RecordTradeClosed records a closed trade with its realized metrics
func (m *Metrics) RecordTradeClosed(direction, outcome string, rMultiple *float64, holdTimeMinutes int) {
	m.TradesClosedTotal.WithLabelValues(direction, outcome).Inc()
	if rMultiple != nil {
		m.TradeRMultiple.Observe(*rMultiple)
	}
	m.TradeHoldTime.Observe(float64(holdTimeMinutes))
}

// RecordValidationReject records a submission rejected by validation
func (m *Metrics) RecordValidationReject(operation string) {
	m.ValidationRejects.WithLabelValues(operation).Inc()
}

// RecordImportRow records a processed CSV import row
func (m *Metrics) RecordImportRow(status string) {
	m.ImportRowsTotal.WithLabelValues(status).Inc()
}

// RecordAnalyticsDuration records the duration of an analytics aggregation
func (m *Metrics) RecordAnalyticsDuration(report string, duration time.Duration) {
	m.AnalyticsDuration.WithLabelValues(report).Observe(duration.Seconds())
}

// RecordCritiqueRequest records an AI critique request
func (m *Metrics) RecordCritiqueRequest(provider, status string) {
	m.CritiqueRequests.WithLabelValues(provider, status).Inc()
}

// RecordExternalAPIRequest records an external API request
func (m *Metrics) RecordExternalAPIRequest(service, operation string) {
	m.ExternalAPIRequestsTotal.WithLabelValues(service, operation).Inc()
}

// RecordExternalAPIError records an external API error
func (m *Metrics) RecordExternalAPIError(service, operation, errorType string) {
	m.ExternalAPIErrorsTotal.WithLabelValues(service, operation, errorType).Inc()
}

// RecordExternalAPIDuration records the duration of an external API call
func (m *Metrics) RecordExternalAPIDuration(service, operation string, duration time.Duration) {
	m.ExternalAPIDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordDBQuery records a database query with its duration
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration) {
	m.DBQueryTotal.WithLabelValues(operation, table).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordDBError records a database error
func (m *Metrics) RecordDBError(operation, table string) {
	m.DBErrorsTotal.WithLabelValues(operation, table).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCircuitBreakerState records the current state of a circuit breaker
func (m *Metrics) RecordCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(service string) {
	m.CircuitBreakerTrips.WithLabelValues(service).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// ObserveExternalAPI records the external API duration
func (t *Timer) ObserveExternalAPI(service, operation string) {
	t.metrics.RecordExternalAPIDuration(service, operation, time.Since(t.start))
}

// ObserveDB records the database query duration
func (t *Timer) ObserveDB(operation, table string) {
	t.metrics.RecordDBQuery(operation, table, time.Since(t.start))
}

// ObserveAnalytics records the analytics aggregation duration
func (t *Timer) ObserveAnalytics(report string) {
	t.metrics.RecordAnalyticsDuration(report, time.Since(t.start))
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
