package middleware

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/multistore/backend/internal/infrastructure/telemetry"
)

type httpMetrics struct {
	requestsTotal   *telemetry.Counter
	requestDuration *telemetry.Histogram
	requestsActive  *telemetry.Gauge
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestsTotal, err := telemetry.NewCounter(
		meter,
		"multistore_http_requests_total",
		"Total number of HTTP requests",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "multistore_http_request_duration_seconds",
		Description: "HTTP request duration",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	requestsActive, err := telemetry.NewGauge(
		meter,
		"multistore_http_requests_active",
		"Number of HTTP requests currently in flight",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
		requestsActive:  requestsActive,
	}, nil
}

// HTTPMetrics records request count, latency and in-flight gauge per route.
// Returns a pass-through middleware when disabled or on meter errors.
func HTTPMetrics(meter metric.Meter, enabled bool, log *zap.Logger) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	m, err := newHTTPMetrics(meter)
	if err != nil {
		if log != nil {
			log.Error("Failed to create HTTP metrics, disabling", zap.Error(err))
		}
		return func(c *gin.Context) { c.Next() }
	}

	var active atomic.Int64

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		m.requestsActive.Record(ctx, active.Add(1))

		c.Next()

		m.requestsActive.Record(ctx, active.Add(-1))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		attrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
			telemetry.AttrHTTPStatusCode.String(strconv.Itoa(c.Writer.Status())),
		}
		if storeID := GetStoreID(c); storeID != "" {
			attrs = append(attrs, telemetry.AttrStoreID.String(storeID))
		}

		m.requestsTotal.Inc(ctx, attrs...)
		m.requestDuration.RecordDuration(ctx, time.Since(start), attrs...)
	}
}
