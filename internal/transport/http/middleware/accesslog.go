package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var sensitiveKeys = map[string]struct{}{
	"password": {}, "pwd": {}, "token": {}, "authorization": {},
	"secret": {}, "client_secret": {}, "access_token": {},
}

func maskQuery(kv map[string][]string) map[string][]string {
	out := make(map[string][]string, len(kv))
	for k, v := range kv {
		if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
			out[k] = []string{"****"}
		} else {
			out[k] = v
		}
	}
	return out
}

// AccessLog logs one line per request; server errors are logged at error level.
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("ua", c.Request.UserAgent()),
			zap.Int("size", c.Writer.Size()),
		}
		if q := c.Request.URL.Query(); len(q) > 0 {
			fields = append(fields, zap.Any("query", maskQuery(q)))
		}
		if u, ok := CurrentUser(c); ok {
			fields = append(fields, zap.String("user_id", u.ID))
		}
		if status >= 500 {
			l.Error("HTTP", fields...)
			return
		}
		l.Info("HTTP", fields...)
	}
}
