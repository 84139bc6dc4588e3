package middleware

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"

	"techzon-blog/internal/core/session"
	"techzon-blog/internal/domain"
	resp "techzon-blog/internal/transport/http/response"
)

const KeySessionUser = "sessionUser"

// LoadUser resolves the session's user, if any, into the gin context.
// The handler must be wrapped by sm.LoadAndSave.
func LoadUser(sm *scs.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, ok := session.User(c.Request.Context(), sm); ok {
			c.Set(KeySessionUser, u)
		}
		c.Next()
	}
}

// RequireUser rejects requests without an authenticated session.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			resp.Abort(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (domain.SessionUser, bool) {
	v, ok := c.Get(KeySessionUser)
	if !ok {
		return domain.SessionUser{}, false
	}
	u, ok := v.(domain.SessionUser)
	return u, ok
}
