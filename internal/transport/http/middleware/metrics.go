package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "techzon", Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "techzon",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "techzon", Name: "rate_limited_total", Help: "Requests rejected by a rate limiter"},
		[]string{"limiter"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency, rateLimited) }

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpReqTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes the default registry.
func MetricsHandler() http.Handler { return promhttp.Handler() }
