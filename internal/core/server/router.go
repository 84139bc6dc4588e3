package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// Run serves until ctx is cancelled, then drains in-flight requests for up to grace.
func Run(ctx context.Context, srv *http.Server, l *zap.Logger, grace time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Info("http starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
