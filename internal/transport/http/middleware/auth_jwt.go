package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"techzon-blog/internal/core/auth"
	resp "techzon-blog/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
)

// AuthJWT requires a bearer token, and requireRole when it is non-empty.
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Abort(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
