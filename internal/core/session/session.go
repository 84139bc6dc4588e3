package session

import (
	"context"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"techzon-blog/internal/domain"
)

const keyUser = "user"

func init() { gob.Register(domain.SessionUser{}) }

type Options struct {
	CookieName  string
	Secure      bool
	IdleTimeout time.Duration
	Lifetime    time.Duration
	// Store is optional; sessions live in process memory without one.
	Store scs.Store
}

func NewManager(o Options) *scs.SessionManager {
	sm := scs.New()
	if o.Store != nil {
		sm.Store = o.Store
	} else {
		sm.Store = memstore.New()
	}
	if o.IdleTimeout > 0 {
		sm.IdleTimeout = o.IdleTimeout
	}
	if o.Lifetime > 0 {
		sm.Lifetime = o.Lifetime
	}
	if o.CookieName != "" {
		sm.Cookie.Name = o.CookieName
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = o.Secure
	return sm
}

// Login swaps the session token before storing the user so a token
// issued before authentication cannot be reused.
func Login(ctx context.Context, sm *scs.SessionManager, u domain.SessionUser) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, keyUser, u)
	return nil
}

func Logout(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}

// User returns the authenticated caller, if any.
func User(ctx context.Context, sm *scs.SessionManager) (domain.SessionUser, bool) {
	u, ok := sm.Get(ctx, keyUser).(domain.SessionUser)
	if !ok || u.ID == "" {
		return domain.SessionUser{}, false
	}
	return u, true
}
