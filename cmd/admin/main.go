package main

import (
	"context"
	"flag"
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
	"techzon-blog/internal/core/auth"
	"techzon-blog/internal/core/config"
	"techzon-blog/internal/core/logger"
	"techzon-blog/internal/core/server"
	"techzon-blog/internal/service"
	"techzon-blog/internal/transport/http/handler"
	"techzon-blog/internal/transport/http/router"
)

// Usage:
//
//	admin                  serve the moderation API
//	admin promote <email>  grant the admin role to an existing account
func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jwter, err := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	if err != nil {
		log.Fatal("jwt", zap.Error(err))
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	adminSvc := service.NewAdminService(a.Auth, a.Content, a.Users, a.Subscribers, jwter)

	if flag.Arg(0) == "promote" {
		if flag.NArg() != 2 {
			fmt.Fprintln(os.Stderr, "usage: admin promote <email>")
			os.Exit(2)
		}
		u, err := adminSvc.Promote(ctx, flag.Arg(1))
		if err != nil {
			log.Fatal("promote failed", zap.Error(err))
		}
		log.Info("admin role granted", zap.String("user_id", u.ID), zap.String("email", u.Email))
		return
	}
	h := router.NewAdminEngine(router.AdminDeps{
		Log:     log,
		JWT:     jwter,
		Modules: router.NewRegistry(handler.NewAdminHandler(adminSvc)),
		Limits:  a.Limits(),
		PerIP:   a.PerIP,
	})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, h, 5*time.Second, 10*time.Second, 60*time.Second)

	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("admin api stopped with error", zap.Error(err))
		return
	}
	log.Info("admin api stopped gracefully")
}
