package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "techzon-blog/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests to protect the database pool.
// A request waits for a slot until its context ends.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			resp.Abort(c, http.StatusServiceUnavailable, "")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
