package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"techzon-blog/internal/app"
	"techzon-blog/internal/core/config"
	"techzon-blog/internal/core/logger"
	"techzon-blog/internal/core/server"
	"techzon-blog/internal/core/session"
	"techzon-blog/internal/transport/http/handler"
	"techzon-blog/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	sessOpts := session.Options{
		CookieName:  cfg.Session.CookieName,
		Secure:      cfg.Session.Secure,
		IdleTimeout: cfg.Session.IdleTimeout,
		Lifetime:    cfg.Session.Lifetime,
	}
	if a.Redis != nil {
		sessOpts.Store = session.NewRedisStore(a.Redis, "")
	}
	sm := session.NewManager(sessOpts)

	mods := router.NewRegistry(
		handler.NewAuthHandler(a.Auth, sm),
		handler.NewPostHandler(a.Content),
		handler.NewCommentHandler(a.Content),
		handler.NewContactHandler(a.Contact),
	)
	if a.Images != nil {
		mods.Register(handler.NewUploadHandler(a.Images))
	}

	h := router.NewAPIEngine(router.APIDeps{
		Log:         log,
		Sessions:    sm,
		Modules:     mods,
		Limits:      a.Limits(),
		CORSOrigins: cfg.App.CORSOrigins,
		PerIP:       a.PerIP,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(addr, h, cfg.App.HTTP.ReadTimeout, cfg.App.HTTP.WriteTimeout, cfg.App.HTTP.IdleTimeout)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("blog api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
		zap.Bool("redis", a.Redis != nil),
		zap.Bool("uploads", a.Images != nil),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("blog api stopped with error", zap.Error(err))
		return
	}
	log.Info("blog api stopped gracefully")
}
