package service

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/iknowcss/htmlshell/internal/common/config"
	"github.com/iknowcss/htmlshell/internal/shell/cache"
	"github.com/iknowcss/htmlshell/internal/shell/metrics"
)

// CreateHTTPHandler creates the main HTTP request handler with routing
func CreateHTTPHandler(cfg *config.ShellConfig, renderCache *cache.RenderCache, metricsCollector *metrics.MetricsCollector, logger *zap.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		method := string(ctx.Method())

		switch {
		case method == "POST" && path == "/render":
			HandleRender(ctx, cfg, renderCache, metricsCollector, logger)
		case method == "GET" && path == "/health":
			HandleHealth(ctx, metricsCollector, logger)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			ctx.SetBodyString("Not Found")
			metricsCollector.RecordHTTPRequest(path, "404")
		}
	}
}
