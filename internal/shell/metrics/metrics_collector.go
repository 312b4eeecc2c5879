package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// MetricsCollector centralizes all metrics recording for the shell server.
type MetricsCollector struct {
	prometheus *PrometheusMetrics
	logger     *zap.Logger
}

// NewMetricsCollector creates a new MetricsCollector instance.
func NewMetricsCollector(namespace string, logger *zap.Logger) *MetricsCollector {
	return &MetricsCollector{
		prometheus: NewPrometheusMetrics(namespace, logger),
		logger:     logger,
	}
}

// NewMetricsCollectorWithRegistry creates a collector backed by a custom
// registry. Tests use this to avoid polluting the default registry.
func NewMetricsCollectorWithRegistry(namespace string, registerer prometheus.Registerer, logger *zap.Logger) *MetricsCollector {
	return &MetricsCollector{
		prometheus: NewPrometheusMetricsWithRegistry(namespace, registerer, logger),
		logger:     logger,
	}
}

// RecordRenderSuccess records a successful render.
func (mc *MetricsCollector) RecordRenderSuccess() {
	mc.prometheus.RecordRender("success")
}

// RecordRenderError records a failed render.
func (mc *MetricsCollector) RecordRenderError() {
	mc.prometheus.RecordRender("error")
	mc.prometheus.RecordError("render")
}

// RecordRenderCached records a render served from cache.
func (mc *MetricsCollector) RecordRenderCached() {
	mc.prometheus.RecordRender("cached")
}

// RecordRenderDuration records render duration in seconds.
func (mc *MetricsCollector) RecordRenderDuration(seconds float64) {
	mc.prometheus.RecordRenderDuration(seconds)
}

// RecordDocumentBytes records the rendered document size.
func (mc *MetricsCollector) RecordDocumentBytes(size int) {
	mc.prometheus.RecordDocumentBytes(size)
}

// RecordCacheHit records a render cache hit.
func (mc *MetricsCollector) RecordCacheHit() {
	mc.prometheus.RecordCacheOperation("hit")
}

// RecordCacheMiss records a render cache miss.
func (mc *MetricsCollector) RecordCacheMiss() {
	mc.prometheus.RecordCacheOperation("miss")
}

// RecordCacheError records a render cache failure.
func (mc *MetricsCollector) RecordCacheError() {
	mc.prometheus.RecordCacheOperation("error")
}

// RecordHTTPRequest records an HTTP request.
func (mc *MetricsCollector) RecordHTTPRequest(endpoint, status string) {
	mc.prometheus.RecordHTTPRequest(endpoint, status)
}

// RecordValidationError records a request validation error.
func (mc *MetricsCollector) RecordValidationError() {
	mc.prometheus.RecordError("validation")
}

// RecordInternalError records an internal error.
func (mc *MetricsCollector) RecordInternalError() {
	mc.prometheus.RecordError("internal")
}

// ServeHTTP serves Prometheus metrics via HTTP.
func (mc *MetricsCollector) ServeHTTP(ctx *fasthttp.RequestCtx) {
	mc.prometheus.ServeHTTP(ctx)
}
