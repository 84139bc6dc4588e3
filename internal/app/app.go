// Package app wires configuration into the collaborators both binaries share.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"techzon-blog/internal/core/cache"
	"techzon-blog/internal/core/config"
	"techzon-blog/internal/core/database"
	"techzon-blog/internal/notify"
	"techzon-blog/internal/ratelimit"
	"techzon-blog/internal/repo"
	"techzon-blog/internal/service"
	"techzon-blog/internal/storage"
	"techzon-blog/internal/transport/http/router"
)

const (
	redisPrefix = "techzon:"
	presignTTL  = 7 * 24 * time.Hour
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Redis *redis.Client // nil without redis.addr

	Users       *repo.UserRepo
	Subscribers *repo.SubscriberRepo

	Auth    *service.AuthService
	Content *service.ContentService
	Contact *service.ContactService
	Images  *service.ImageService // nil without object storage

	PerIP ratelimit.Limiter
}

func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	a := &App{Cfg: cfg, Log: l, DB: db}

	if cfg.RedisEnabled() {
		if a.Redis, err = cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			return nil, err
		}
		l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		if a.PerIP, err = ratelimit.NewFixedWindow(a.Redis, redisPrefix+"ratelimit", cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow); err != nil {
			return nil, err
		}
	} else {
		a.PerIP = ratelimit.NewMemory(cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow)
	}

	mailer, err := newNotifier(cfg, l)
	if err != nil {
		return nil, err
	}

	a.Users = repo.NewUserRepo(db)
	a.Subscribers = repo.NewSubscriberRepo(db)
	a.Auth = service.NewAuthService(a.Users, mailer, l, service.AuthOptions{
		PublicURL: cfg.App.PublicURL,
	})
	a.Content = service.NewContentService(repo.NewPostRepo(db), repo.NewCommentRepo(db),
		cache.New(a.Redis, redisPrefix+"cache:"), cfg.Cache.PostTTL, l)
	a.Contact = service.NewContactService(repo.NewMessageRepo(db), a.Subscribers, mailer, l)

	if cfg.StorageEnabled() {
		st := cfg.Storage
		store, err := storage.OpenBucket(ctx, storage.BucketOptions{
			Endpoint:  st.Endpoint,
			AccessKey: st.AccessKey,
			SecretKey: st.SecretKey,
			Bucket:    st.Bucket,
			Region:    st.Region,
			UseSSL:    st.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		a.Images = service.NewImageService(store, st.PublicBaseURL, presignTTL)
		a.Content.UseImages(a.Images)
		l.Info("object storage ready", zap.String("bucket", st.Bucket))
	}
	return a, nil
}

func newNotifier(cfg *config.Config, l *zap.Logger) (*notify.Notifier, error) {
	var sender notify.Sender
	if cfg.MailEnabled() {
		s, err := notify.NewSMTPSender(notify.SMTPOptions{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			SSL:      cfg.Mail.SSL,
		})
		if err != nil {
			return nil, fmt.Errorf("smtp: %w", err)
		}
		sender = s
	} else {
		l.Warn("mail.host not set; outgoing mail is only logged")
		sender = notify.NewLogSender(l)
	}
	return notify.NewNotifier(sender, cfg.App.Name, cfg.Mail.AdminEmail), nil
}

// Limits maps the ratelimit section onto the shared middleware chain.
func (a *App) Limits() router.Limits {
	return router.Limits{
		RPS:         a.Cfg.RateLimit.RPS,
		Burst:       a.Cfg.RateLimit.Burst,
		Concurrency: a.Cfg.RateLimit.Concurrency,
	}
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
