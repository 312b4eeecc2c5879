package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/iknowcss/htmlshell/internal/common/config"
	"github.com/iknowcss/htmlshell/internal/common/httputil"
	"github.com/iknowcss/htmlshell/internal/common/requestid"
	"github.com/iknowcss/htmlshell/internal/shell/cache"
	"github.com/iknowcss/htmlshell/internal/shell/document"
	"github.com/iknowcss/htmlshell/internal/shell/metrics"
	"github.com/iknowcss/htmlshell/pkg/types"
)

var serviceStart = time.Now()

// cacheOpTimeout bounds each redis cache operation. Cache calls never use
// the fasthttp request context: go-redis polls Done() and RequestCtx is
// not safe to use as a context.Context outside the server's ownership.
const cacheOpTimeout = 5 * time.Second

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	MemoryRSS     uint64  `json:"memory_rss_bytes,omitempty"`
	Goroutines    int     `json:"goroutines"`
}

// writeJSONResponse writes a JSON response with proper error handling
func writeJSONResponse(ctx *fasthttp.RequestCtx, statusCode int, response interface{}, path string, metricsCollector *metrics.MetricsCollector, logger *zap.Logger) {
	if err := httputil.WriteJSON(ctx, statusCode, response); err != nil {
		httputil.WriteJSONError(ctx, fasthttp.StatusInternalServerError, "Failed to marshal response")
		metricsCollector.RecordHTTPRequest(path, "500")
		logger.Error("Failed to marshal JSON response",
			zap.String("path", path),
			zap.Error(err))
		return
	}

	metricsCollector.RecordHTTPRequest(path, fmt.Sprintf("%d", statusCode))
}

// writeErrorResponse writes an error response with consistent formatting.
// errorCategory is for metrics (validation, render, internal);
// structuredErrorType is the types.ErrorType* constant for clients.
func writeErrorResponse(ctx *fasthttp.RequestCtx, statusCode int, errorMsg string, requestID string, metricsCollector *metrics.MetricsCollector, errorCategory string, structuredErrorType string, logger *zap.Logger) {
	resp := types.RenderResponse{
		RequestID: requestID,
		Success:   false,
		Error:     errorMsg,
		ErrorType: structuredErrorType,
		Timestamp: time.Now().UTC(),
	}

	writeJSONResponse(ctx, statusCode, resp, "/render", metricsCollector, logger)

	switch errorCategory {
	case "validation":
		metricsCollector.RecordValidationError()
	case "render":
		metricsCollector.RecordRenderError()
	case "internal":
		metricsCollector.RecordInternalError()
	}
}

// writeHTMLResponse writes rendered HTML with an ETag, honoring
// If-None-Match and Accept-Encoding: gzip.
func writeHTMLResponse(ctx *fasthttp.RequestCtx, htmlContent []byte, requestID string, metricsCollector *metrics.MetricsCollector, logger *zap.Logger) {
	etag := fmt.Sprintf("\"%016x\"", xxhash.Sum64(htmlContent))
	ctx.Response.Header.Set(fasthttp.HeaderETag, etag)
	ctx.Response.Header.Set("X-Request-ID", requestID)

	if string(ctx.Request.Header.Peek(fasthttp.HeaderIfNoneMatch)) == etag {
		ctx.SetStatusCode(fasthttp.StatusNotModified)
		metricsCollector.RecordHTTPRequest("/render", "304")
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("text/html; charset=utf-8")

	if ctx.Request.Header.HasAcceptEncoding("gzip") && len(htmlContent) >= types.CompressionMinSize {
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(htmlContent); err == nil && w.Close() == nil {
			ctx.Response.Header.Set(fasthttp.HeaderContentEncoding, "gzip")
			ctx.SetBody(buf.Bytes())
			metricsCollector.RecordHTTPRequest("/render", "200")
			return
		}
		logger.Warn("Response gzip compression failed, sending identity",
			zap.String("request_id", requestID))
	}

	ctx.SetBody(htmlContent)
	metricsCollector.RecordHTTPRequest("/render", "200")
}

// HandleRender processes POST /render requests
func HandleRender(ctx *fasthttp.RequestCtx, cfg *config.ShellConfig, renderCache *cache.RenderCache, metricsCollector *metrics.MetricsCollector, logger *zap.Logger) {
	startTime := time.Now().UTC()

	var req types.RenderRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeErrorResponse(ctx, fasthttp.StatusBadRequest, "Invalid JSON body", "", metricsCollector, "validation", types.ErrorTypeInvalidRequest, logger)
		logger.Warn("Invalid request body",
			zap.String("url", string(ctx.RequestURI())),
			zap.Error(err))
		return
	}

	requestID := requestid.Generate(req.RequestID)
	opts := config.MergeDocumentDefaults(req.Options, cfg.Documents.Defaults)

	// Cache keys are derived from the merged request without the request
	// id, so identical documents share an entry.
	var cacheKey string
	if renderCache != nil {
		keyReq := req
		keyReq.RequestID = ""
		keyReq.Options = opts

		key, err := cache.Key(&keyReq)
		if err == nil {
			cacheKey = key
			getCtx, getCancel := context.WithTimeout(context.Background(), cacheOpTimeout)
			cached, found, getErr := renderCache.Get(getCtx, cacheKey)
			getCancel()
			if getErr != nil {
				metricsCollector.RecordCacheError()
				logger.Warn("Cache lookup failed",
					zap.String("request_id", requestID),
					zap.Error(getErr))
			} else if found {
				metricsCollector.RecordCacheHit()
				metricsCollector.RecordRenderCached()
				writeHTMLResponse(ctx, cached, requestID, metricsCollector, logger)
				logger.Info("Render served from cache",
					zap.String("request_id", requestID),
					zap.Int("html_bytes", len(cached)))
				return
			} else {
				metricsCollector.RecordCacheMiss()
			}
		}
	}

	htmlContent, err := document.RenderBytes(opts, req.Body, document.ContributionsFromTags(req.Head))

	duration := time.Since(startTime).Seconds()
	metricsCollector.RecordRenderDuration(duration)

	if err != nil {
		writeErrorResponse(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("Rendering failed: %v", err), requestID, metricsCollector, "render", types.ErrorTypeSerialization, logger)
		logger.Error("Render failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		return
	}

	metricsCollector.RecordDocumentBytes(len(htmlContent))

	if renderCache != nil && cacheKey != "" {
		setCtx, setCancel := context.WithTimeout(context.Background(), cacheOpTimeout)
		setErr := renderCache.Set(setCtx, cacheKey, htmlContent)
		setCancel()
		if setErr != nil {
			metricsCollector.RecordCacheError()
			logger.Warn("Cache store failed",
				zap.String("request_id", requestID),
				zap.Error(setErr))
		}
	}

	writeHTMLResponse(ctx, htmlContent, requestID, metricsCollector, logger)
	metricsCollector.RecordRenderSuccess()

	logger.Info("Render successful",
		zap.String("request_id", requestID),
		zap.Float64("duration", duration),
		zap.Int("html_bytes", len(htmlContent)),
		zap.Int("head_tags", len(req.Head)))
}

// HandleHealth returns the current health status and process statistics
func HandleHealth(ctx *fasthttp.RequestCtx, metricsCollector *metrics.MetricsCollector, logger *zap.Logger) {
	resp := HealthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(serviceStart).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil {
			resp.MemoryRSS = memInfo.RSS
		}
	}

	writeJSONResponse(ctx, fasthttp.StatusOK, resp, "/health", metricsCollector, logger)
}
