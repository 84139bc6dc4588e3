package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type AdminHTTP struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	// PublicURL is where the front end is served; reset links point at it.
	PublicURL   string    `mapstructure:"public_url"`
	CORSOrigins []string  `mapstructure:"cors_origins"`
	HTTP        HTTP      `mapstructure:"http"`
	Admin       AdminHTTP `mapstructure:"admin"`
}

type LogFile struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level string  `mapstructure:"level"`
	JSON  bool    `mapstructure:"json"`
	File  LogFile `mapstructure:"file"`
}

type JWT struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

type Session struct {
	CookieName  string        `mapstructure:"cookie_name"`
	Secure      bool          `mapstructure:"secure"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	Lifetime    time.Duration `mapstructure:"lifetime"`
}

type Mail struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	SSL      bool   `mapstructure:"ssl"`
	// AdminEmail receives contact form submissions.
	AdminEmail string `mapstructure:"admin_email"`
}

type Storage struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type RateLimit struct {
	RPS         float64       `mapstructure:"rps"`
	Burst       int           `mapstructure:"burst"`
	Concurrency int64         `mapstructure:"concurrency"`
	AuthLimit   int           `mapstructure:"auth_limit"`
	AuthWindow  time.Duration `mapstructure:"auth_window"`
}

type Cache struct {
	PostTTL time.Duration `mapstructure:"post_ttl"`
}

type Config struct {
	App       App       `mapstructure:"app"`
	Log       Log       `mapstructure:"log"`
	JWT       JWT       `mapstructure:"jwt"`
	DB        DB        `mapstructure:"db"`
	Redis     Redis     `mapstructure:"redis"`
	Session   Session   `mapstructure:"session"`
	Mail      Mail      `mapstructure:"mail"`
	Storage   Storage   `mapstructure:"storage"`
	RateLimit RateLimit `mapstructure:"ratelimit"`
	Cache     Cache     `mapstructure:"cache"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "TechZon")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.public_url", "http://localhost:8080")
	v.SetDefault("app.cors_origins", []string{})
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.read_timeout", "5s")
	v.SetDefault("app.http.write_timeout", "10s")
	v.SetDefault("app.http.idle_timeout", "60s")
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "techzon-admin")
	v.SetDefault("jwt.ttl", "1h")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "techzon.db?_busy_timeout=5000")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.cookie_name", "techzon_sid")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.idle_timeout", "336h")
	v.SetDefault("session.lifetime", "2160h")

	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.ssl", false)
	v.SetDefault("mail.admin_email", "")

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "techzon-images")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.public_base_url", "")

	v.SetDefault("ratelimit.rps", 200)
	v.SetDefault("ratelimit.burst", 400)
	v.SetDefault("ratelimit.concurrency", 300)
	v.SetDefault("ratelimit.auth_limit", 10)
	v.SetDefault("ratelimit.auth_window", "1m")

	v.SetDefault("cache.post_ttl", "5m")
}

// Load reads path (or $CONFIG_PATH, or ./configs/config.local.yaml).
// APP_-prefixed environment variables override file values, e.g.
// APP_DB_DSN for db.dsn. A missing file is only an error when a path was
// asked for explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = "./configs/config.local.yaml"
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || (!errors.As(err, &notFound) && !os.IsNotExist(err)) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("config: db.dsn is required")
	}
	if c.Session.IdleTimeout <= 0 {
		return errors.New("config: session.idle_timeout must be positive")
	}
	if c.Mail.Host != "" && c.Mail.AdminEmail == "" {
		return errors.New("config: mail.admin_email is required when mail.host is set")
	}
	return nil
}

// MailEnabled reports whether outbound SMTP is configured.
func (c *Config) MailEnabled() bool { return c.Mail.Host != "" }

func (c *Config) RedisEnabled() bool { return c.Redis.Addr != "" }

func (c *Config) StorageEnabled() bool { return c.Storage.Endpoint != "" }
