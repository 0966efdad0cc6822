package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing creates a server span per request via otelgin. Register
// TracingAttributes after it to enrich the span.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributes adds request, store and user attributes to the active
// span and marks 5xx responses as errors. Must run inside the Tracing span,
// after the identity middlewares have populated the context.
func TracingAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		if requestID := GetRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if storeID := GetStoreID(c); storeID != "" {
			span.SetAttributes(attribute.String("store_id", storeID))
		}
		if userID := GetJWTUserID(c); userID != "" {
			span.SetAttributes(attribute.String("user_id", userID))
		}

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
