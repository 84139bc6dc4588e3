package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"techzon-blog/internal/ratelimit"
	resp "techzon-blog/internal/transport/http/response"
)

// RateLimit is a process-wide token bucket.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		rateLimited.WithLabelValues("global").Inc()
		resp.Abort(c, http.StatusTooManyRequests, "")
	}
}

// RateLimitPerIP throttles each client IP through l.
func RateLimitPerIP(name string, l ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.Allow(c.Request.Context(), name+":"+c.ClientIP()) {
			c.Next()
			return
		}
		rateLimited.WithLabelValues(name).Inc()
		resp.Abort(c, http.StatusTooManyRequests, "")
	}
}
