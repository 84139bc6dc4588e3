package router

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"techzon-blog/internal/ratelimit"
	"techzon-blog/internal/transport/http/ez"
	mdw "techzon-blog/internal/transport/http/middleware"
)

// Limits configures the shared middleware chain.
type Limits struct {
	RPS         float64
	Burst       int
	Concurrency int64
	MaxBody     int64
	Timeout     time.Duration
}

var DefaultLimits = Limits{RPS: 200, Burst: 400, Concurrency: 300, MaxBody: 16 << 20, Timeout: 10 * time.Second}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits
	if l.RPS > 0 {
		d.RPS = l.RPS
	}
	if l.Burst > 0 {
		d.Burst = l.Burst
	}
	if l.Concurrency > 0 {
		d.Concurrency = l.Concurrency
	}
	if l.MaxBody > 0 {
		d.MaxBody = l.MaxBody
	}
	if l.Timeout > 0 {
		d.Timeout = l.Timeout
	}
	return d
}

type APIDeps struct {
	Log         *zap.Logger
	Sessions    *scs.SessionManager
	Modules     *Registry
	Limits      Limits
	CORSOrigins []string
	// PerIP throttles credential and mail endpoints; nil disables it.
	PerIP ratelimit.Limiter
}

// baseEngine installs the middleware chain shared by both binaries plus /health and /metrics.
func baseEngine(l *zap.Logger, lim Limits) *gin.Engine {
	lim = lim.withDefaults()
	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.Concurrency),
		mdw.MaxBodyBytes(lim.MaxBody),
		mdw.Timeout(lim.Timeout),
		mdw.Metrics(),
		mdw.AccessLog(l),
		mdw.Recovery(l),
	)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(mdw.MetricsHandler()))
	return r
}

// NewAPIEngine builds the public API under /api. The returned handler loads and
// saves the session around every request.
func NewAPIEngine(d APIDeps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := baseEngine(d.Log, d.Limits)
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(mdw.LoadUser(d.Sessions))

	api := r.Group("/api")
	limited := api
	if d.PerIP != nil {
		limited = api.Group("", mdw.RateLimitPerIP("api", d.PerIP))
	}
	authed := api.Group("", mdw.RequireUser())

	if d.Modules != nil {
		d.Modules.MountAPI(ez.Routes{
			Public:  ez.New(api, d.Log),
			Limited: ez.New(limited, d.Log),
			Authed:  ez.New(authed, d.Log),
		})
	}
	return d.Sessions.LoadAndSave(r)
}
