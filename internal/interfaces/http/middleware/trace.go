package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"newsletter-headline-api/pkg/logger"
)

// TraceIDHeader 响应中回写的 trace id
const TraceIDHeader = "X-Trace-ID"

// 探针与指标端点不建 span
var untracedPaths = []string{"/health", "/ready", "/live", "/metrics"}

// Trace OpenTelemetry 追踪中间件
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return !isUntraced(r.URL.Path)
		}),
	)
}

func isUntraced(path string) bool {
	for _, p := range untracedPaths {
		if strings.EqualFold(path, p) {
			return true
		}
	}
	return false
}

// TraceContext 把 trace_id / span_id 写入 gin 与日志上下文，并回写响应头
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := trace.SpanFromContext(c.Request.Context()).SpanContext()
		if !sc.IsValid() {
			c.Next()
			return
		}

		traceID := sc.TraceID().String()
		spanID := sc.SpanID().String()
		c.Set("trace_id", traceID)
		c.Set("span_id", spanID)

		ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
		ctx = logger.WithContext(ctx, logger.SpanIDKey, spanID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}
