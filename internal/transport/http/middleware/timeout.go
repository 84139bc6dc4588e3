package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	resp "techzon-blog/internal/transport/http/response"
)

// Timeout bounds the request context. Handlers see the deadline through
// c.Request.Context(); a handler that returns without writing after it fires
// gets a 504.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			resp.Abort(c, http.StatusGatewayTimeout, "")
		}
	}
}
