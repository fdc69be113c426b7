package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetricsMiddleware returns a Gin middleware that records HTTP request
// metrics on provider's registry. Tracks total requests and request
// durations with method, path, and status_code labels. The path is
// sanitized to route patterns (e.g. "/") to prevent high cardinality.
func HTTPMetricsMiddleware(provider *Provider, namespace string) gin.HandlerFunc {
	requestCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "path", "status_code"})

	durationHisto := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
	}, []string{"method", "path", "status_code"})

	if err := provider.registry.Register(requestCounter); err != nil {
		return func(c *gin.Context) { c.Next() }
	}
	if err := provider.registry.Register(durationHisto); err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		method := c.Request.Method
		path := sanitizePath(c.FullPath())
		statusCode := strconv.Itoa(c.Writer.Status())

		requestCounter.WithLabelValues(method, path, statusCode).Inc()
		durationHisto.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
	}
}

// sanitizePath returns the matched route pattern, or "unknown" if the
// request matched no route.
func sanitizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
