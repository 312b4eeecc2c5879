package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
)

// PrometheusMetrics provides metrics collection for the shell server.
type PrometheusMetrics struct {
	// Render metrics
	rendersTotal   *prometheus.CounterVec
	renderDuration prometheus.Histogram
	documentBytes  prometheus.Histogram

	// Cache metrics
	cacheOperations *prometheus.CounterVec

	// HTTP metrics
	httpRequests *prometheus.CounterVec

	// Error metrics
	errorsTotal *prometheus.CounterVec

	logger      *zap.Logger
	httpHandler func(*fasthttp.RequestCtx)
}

// NewPrometheusMetrics creates a Prometheus-based metrics collector.
func NewPrometheusMetrics(namespace string, logger *zap.Logger) *PrometheusMetrics {
	return NewPrometheusMetricsWithRegistry(namespace, prometheus.DefaultRegisterer, logger)
}

// NewPrometheusMetricsWithRegistry creates a metrics collector with a
// custom registry (used by tests to avoid duplicate registration).
func NewPrometheusMetricsWithRegistry(namespace string, registerer prometheus.Registerer, logger *zap.Logger) *PrometheusMetrics {
	pm := &PrometheusMetrics{
		logger: logger,
	}

	pm.rendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shell",
		Name:      "renders_total",
		Help:      "Total number of document shell renders",
	}, []string{"status"}) // status: success, error, cached

	pm.renderDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "shell",
		Name:      "render_duration_seconds",
		Help:      "Time spent rendering document shells",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
	})

	pm.documentBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "shell",
		Name:      "document_bytes",
		Help:      "Size of rendered documents in bytes",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
	})

	pm.cacheOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shell",
		Name:      "cache_operations_total",
		Help:      "Render cache operations by result",
	}, []string{"result"}) // result: hit, miss, error

	pm.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shell",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint and status",
	}, []string{"endpoint", "status"})

	pm.errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shell",
		Name:      "errors_total",
		Help:      "Total errors by type",
	}, []string{"type"}) // type: validation, render, internal

	registerer.MustRegister(
		pm.rendersTotal,
		pm.renderDuration,
		pm.documentBytes,
		pm.cacheOperations,
		pm.httpRequests,
		pm.errorsTotal,
	)

	gatherer, ok := registerer.(prometheus.Gatherer)
	if !ok {
		gatherer = prometheus.DefaultGatherer
	}
	pm.httpHandler = fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	logger.Info("Shell server Prometheus metrics initialized")
	return pm
}

// RecordRender records a render outcome.
func (pm *PrometheusMetrics) RecordRender(status string) {
	pm.rendersTotal.WithLabelValues(status).Inc()
}

// RecordRenderDuration records render duration in seconds.
func (pm *PrometheusMetrics) RecordRenderDuration(seconds float64) {
	pm.renderDuration.Observe(seconds)
}

// RecordDocumentBytes records the size of a rendered document.
func (pm *PrometheusMetrics) RecordDocumentBytes(size int) {
	pm.documentBytes.Observe(float64(size))
}

// RecordCacheOperation records a cache operation result.
func (pm *PrometheusMetrics) RecordCacheOperation(result string) {
	pm.cacheOperations.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records an HTTP request.
func (pm *PrometheusMetrics) RecordHTTPRequest(endpoint, status string) {
	pm.httpRequests.WithLabelValues(endpoint, status).Inc()
}

// RecordError records an error by type.
func (pm *PrometheusMetrics) RecordError(errorType string) {
	pm.errorsTotal.WithLabelValues(errorType).Inc()
}

// ServeHTTP serves Prometheus metrics via HTTP.
func (pm *PrometheusMetrics) ServeHTTP(ctx *fasthttp.RequestCtx) {
	pm.httpHandler(ctx)
}
