package router

import (
	"net/http"

	"go.uber.org/zap"

	"techzon-blog/internal/core/auth"
	"techzon-blog/internal/domain"
	"techzon-blog/internal/ratelimit"
	"techzon-blog/internal/transport/http/ez"
	mdw "techzon-blog/internal/transport/http/middleware"
)

type AdminDeps struct {
	Log     *zap.Logger
	JWT     *auth.JWTer
	Modules *Registry
	Limits  Limits
	PerIP   ratelimit.Limiter
}

// NewAdminEngine builds the moderation API under /admin/v1. Only the token
// endpoint is reachable without an admin bearer token.
func NewAdminEngine(d AdminDeps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := baseEngine(d.Log, d.Limits)

	admin := r.Group("/admin/v1")
	limited := admin
	if d.PerIP != nil {
		limited = admin.Group("", mdw.RateLimitPerIP("admin", d.PerIP))
	}
	authed := admin.Group("", mdw.AuthJWT(d.JWT, domain.RoleAdmin))

	if d.Modules != nil {
		d.Modules.MountAdmin(ez.Routes{
			Public:  ez.New(admin, d.Log),
			Limited: ez.New(limited, d.Log),
			Authed:  ez.New(authed, d.Log),
		})
	}
	return r
}
