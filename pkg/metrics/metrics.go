// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the authorization core.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	authzDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Authorization decisions by outcome and internal reason.",
		},
		[]string{"decision", "reason"},
	)
)

// Init registers all collectors with the default registry.
func Init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, authzDecisionsTotal)
}

// Handler returns the Prometheus scrape handler for the /metrics route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware records request counts and latencies. The route template is
// used as the path label so parameterized routes do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// AuthzAllowed counts a granted authorization decision.
func AuthzAllowed(reason string) {
	authzDecisionsTotal.WithLabelValues("allow", reason).Inc()
}

// AuthzDenied counts a denied authorization decision.
func AuthzDenied(reason string) {
	authzDecisionsTotal.WithLabelValues("deny", reason).Inc()
}
