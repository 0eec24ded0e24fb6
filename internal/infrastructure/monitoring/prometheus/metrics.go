package prometheus

import (
	"fmt"
	"strconv"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPRequestSize     HistogramVec
	HTTPResponseSize    HistogramVec
	HTTPActiveRequests  GaugeVec

	// Canonicalization Layer
	CanonicalizationsTotal   CounterVec
	CanonicalizationDuration HistogramVec
	CanonicalizationAtoms    HistogramVec
	ValidationFailuresTotal  CounterVec

	// Registry Layer
	RegistrationsTotal  CounterVec
	RegistryEntries     GaugeVec
	RegistryEventsTotal CounterVec

	// Infrastructure Layer
	DBConnectionPoolSize   GaugeVec
	DBConnectionPoolActive GaugeVec
	DBQueryDuration        HistogramVec
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	MessageQueueDepth      GaugeVec
	MessageProcessDuration HistogramVec

	// System Health
	ServiceUptime     GaugeVec
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultCanonDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5}
	DefaultAtomCountBuckets     = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}
	DefaultSizeBuckets          = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
	DefaultDBDurationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPRequestSize = collector.RegisterHistogram("http_request_size_bytes", "HTTP request size", DefaultSizeBuckets, "method", "path")
	m.HTTPResponseSize = collector.RegisterHistogram("http_response_size_bytes", "HTTP response size", DefaultSizeBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Canonicalization
	m.CanonicalizationsTotal = collector.RegisterCounter("canonicalizations_total", "Canonicalization runs", "status")
	m.CanonicalizationDuration = collector.RegisterHistogram("canonicalization_duration_seconds", "Canonicalization duration", DefaultCanonDurationBuckets, "status")
	m.CanonicalizationAtoms = collector.RegisterHistogram("canonicalization_atom_count", "Atom count per canonicalization", DefaultAtomCountBuckets)
	m.ValidationFailuresTotal = collector.RegisterCounter("validation_failures_total", "Stereo validation failures", "condition")

	// Registry
	m.RegistrationsTotal = collector.RegisterCounter("registrations_total", "Registry registrations", "outcome")
	m.RegistryEntries = collector.RegisterGauge("registry_entries", "Registered molecules", "source")
	m.RegistryEventsTotal = collector.RegisterCounter("registry_events_total", "Registry events published", "topic", "status")

	// Infrastructure
	m.DBConnectionPoolSize = collector.RegisterGauge("db_pool_size", "Database connection pool size", "db")
	m.DBConnectionPoolActive = collector.RegisterGauge("db_pool_active", "Database active connections", "db")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.MessageQueueDepth = collector.RegisterGauge("mq_depth", "Message queue depth", "queue")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultHTTPDurationBuckets, "queue", "message_type")

	// System Health
	m.ServiceUptime = collector.RegisterGauge("service_uptime_seconds", "Service uptime", "service")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type", "severity")

	return m
}

// RegisterAppMetrics is an alias for NewAppMetrics.
func RegisterAppMetrics(collector MetricsCollector) *AppMetrics {
	return NewAppMetrics(collector)
}

// Helpers. All tolerate a nil *AppMetrics so callers need no guard.

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration, reqSize, respSize int64) {
	if metrics == nil {
		return
	}
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	metrics.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

func RecordCanonicalization(metrics *AppMetrics, duration time.Duration, atoms int, err error) {
	if metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.CanonicalizationsTotal.WithLabelValues(status).Inc()
	metrics.CanonicalizationDuration.WithLabelValues(status).Observe(duration.Seconds())
	metrics.CanonicalizationAtoms.WithLabelValues().Observe(float64(atoms))
}

func RecordValidationFailure(metrics *AppMetrics, condition string) {
	if metrics == nil {
		return
	}
	metrics.ValidationFailuresTotal.WithLabelValues(condition).Inc()
}

func RecordRegistration(metrics *AppMetrics, outcome string) {
	if metrics == nil {
		return
	}
	metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

func RecordRegistryEvent(metrics *AppMetrics, topic string, err error) {
	if metrics == nil {
		return
	}
	metrics.RegistryEventsTotal.WithLabelValues(topic, strconv.FormatBool(err == nil)).Inc()
}

func RecordDBQuery(metrics *AppMetrics, db, operation string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	metrics.DBQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(db, "query_error", "error").Inc()
	}
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if metrics == nil {
		return
	}
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordError(metrics *AppMetrics, component, errorType, severity string) {
	if metrics == nil {
		return
	}
	metrics.ErrorsTotal.WithLabelValues(component, errorType, severity).Inc()
}
