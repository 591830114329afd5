package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const unmatchedRoute = "unmatched"

// HTTPMetrics holds the request instruments of the API router.
type HTTPMetrics struct {
	requests  metric.Int64Counter
	durations metric.Float64Histogram
	sizes     metric.Int64Histogram
}

// NewHTTPMetrics creates the request counter, the latency histogram and the
// request body size histogram, all prefixed with namespace.
func NewHTTPMetrics(meterProvider metric.MeterProvider, namespace string) (*HTTPMetrics, error) {
	meter := meterProvider.Meter(namespace)

	requests, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request counter: %w", err)
	}

	durations, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http duration histogram: %w", err)
	}

	// Vault bodies grow with the number of entries; buckets run from 1 KiB to 64 MiB.
	sizes, err := meter.Int64Histogram(
		fmt.Sprintf("%s_http_request_size_bytes", namespace),
		metric.WithDescription("HTTP request body size in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(1<<10, 16<<10, 256<<10, 1<<20, 4<<20, 16<<20, 64<<20),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http size histogram: %w", err)
	}

	return &HTTPMetrics{requests: requests, durations: durations, sizes: sizes}, nil
}

// Middleware records every request under its route pattern, so image hashes in
// the path never become label values.
func (h *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)

		ctx := c.Request.Context()
		h.requests.Add(ctx, 1, attrs)
		h.durations.Record(ctx, time.Since(start).Seconds(), attrs)
		if c.Request.ContentLength > 0 {
			h.sizes.Record(ctx, c.Request.ContentLength, attrs)
		}
	}
}
