package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"techzon-blog/internal/domain"
)

var ErrUnsupportedDriver = errors.New("database: unsupported driver")

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
}

func NewGorm(o Opts, l *zap.Logger) (*gorm.DB, error) {
	if l == nil {
		l = zap.NewNop()
	}
	var dial gorm.Dialector
	switch o.Driver {
	case "postgres":
		dial = postgres.Open(o.DSN)
	case "mysql":
		dsn := normalizeMySQLDSN(o.DSN, o.Username, o.Password)
		l.Info("mysql dsn", zap.String("dsn", maskDSN(dsn)))
		dial = mysql.Open(dsn)
	case "sqlite":
		dial = sqlite.Open(o.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
	}
	lvl := logger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         logger.Default.LogMode(lvl),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	db = db.Session(&gorm.Session{
		PrepareStmt:            true,
		CreateBatchSize:        200,
		SkipDefaultTransaction: true, // cascades open their own
	})
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

func maskDSN(dsn string) string {
	at := strings.Index(dsn, "@")
	if at <= 0 {
		return dsn
	}
	if colon := strings.Index(dsn[:at], ":"); colon > 0 {
		return dsn[:colon+1] + "****" + dsn[at:]
	}
	return dsn
}

// normalizeMySQLDSN accepts go-sql-driver DSNs as-is and rewrites
// mysql:// or jdbc:mysql:// URLs into that syntax.
func normalizeMySQLDSN(input, userOverride, passOverride string) string {
	in := strings.TrimSpace(input)
	if in == "" {
		return in
	}
	in = strings.TrimPrefix(in, "jdbc:")
	if !strings.HasPrefix(in, "mysql://") {
		return in
	}

	u, err := url.Parse(in)
	if err != nil {
		return in // let the driver report it
	}
	hostport := u.Host
	dbname := strings.TrimPrefix(u.Path, "/")

	var user, pass string
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	q := u.Query()
	if q.Get("user") != "" {
		user = q.Get("user")
		q.Del("user")
	}
	if q.Get("password") != "" {
		pass = q.Get("password")
		q.Del("password")
	}
	if userOverride != "" {
		user = userOverride
	}
	if passOverride != "" {
		pass = passOverride
	}

	// JDBC-only parameters
	if q.Get("characterEncoding") != "" && q.Get("charset") == "" {
		q.Set("charset", q.Get("characterEncoding"))
	}
	q.Del("characterEncoding")
	q.Del("useUnicode")
	q.Del("zeroDateTimeBehavior")

	if v := strings.ToLower(q.Get("useSSL")); v != "" {
		switch v {
		case "true", "1":
			q.Set("tls", "true")
		case "skip-verify", "preferred":
			q.Set("tls", v)
		default:
			q.Set("tls", "false")
		}
		q.Del("useSSL")
	}
	if tz := q.Get("serverTimezone"); tz != "" {
		q.Set("loc", tz)
		q.Del("serverTimezone")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "true")
	}
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	cred := user
	if pass != "" {
		cred += ":" + pass
	}
	if cred != "" {
		cred += "@"
	}
	dsn := fmt.Sprintf("%stcp(%s)/%s", cred, hostport, dbname)
	if enc := q.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn
}
