// Package config loads and validates the job-board service configuration.
package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultServerPort      = 8060
	defaultServerTimeout   = 30
	defaultDatabasePort    = 5432
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5
	defaultRedisAddress    = "localhost:6379"

	defaultJobsWindow  = 15 * time.Minute
	defaultJobsMax     = 100
	defaultAdminWindow = 15 * time.Minute
	defaultAdminMax    = 200
	defaultApplyWindow = time.Hour
	defaultApplyMax    = 5
)

type Config struct {
	Debug     bool            `env:"APP_DEBUG" yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST" yaml:"host"`
	Port         int           `env:"SERVER_PORT" yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST"     yaml:"host"`
	Port            int           `env:"DB_PORT"     yaml:"port"`
	User            string        `env:"DB_USER"     yaml:"user"`
	Password        string        `env:"DB_PASSWORD" yaml:"password"`
	DBName          string        `env:"DB_NAME"     yaml:"dbname"`
	SSLMode         string        `env:"DB_SSLMODE"  yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// AuthConfig carries the admin gate token. The admin routes are open when the
// token is empty, matching the current deployment where authentication is an
// external contract rather than an enforced gate.
type AuthConfig struct {
	AdminToken string `env:"ADMIN_TOKEN" yaml:"admin_token"`
}

// RedisConfig holds the connection used by the shared rate-limit counters.
// When disabled the limiter falls back to in-process counters.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB"       yaml:"db"`
	Enabled  bool   `env:"REDIS_ENABLED"  yaml:"enabled"`
}

// RateLimitConfig configures the fixed windows per route group.
type RateLimitConfig struct {
	Jobs  WindowConfig `yaml:"jobs"`
	Admin WindowConfig `yaml:"admin"`
	Apply WindowConfig `yaml:"apply"`
}

// WindowConfig is a fixed rate-limit window: at most Max requests per Window.
type WindowConfig struct {
	Window time.Duration `yaml:"window"`
	Max    int           `yaml:"max"`
}

func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if c.Server.Port <= 0 {
		return errors.New("server.port is required and must be positive")
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.Port <= 0 {
		return errors.New("database.port is required and must be positive")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.RateLimit.Jobs.Max <= 0 || c.RateLimit.Admin.Max <= 0 || c.RateLimit.Apply.Max <= 0 {
		return errors.New("rate_limit windows must allow at least one request")
	}
	return nil
}

func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("invalid config: %w", validationErr)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout * time.Second
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{
			"http://localhost:3000", // Job board frontend
			"http://localhost:3001", // Admin dashboard
		}
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDatabasePort
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = defaultConnMaxLifetime * time.Minute
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.RateLimit.Jobs.Window == 0 {
		cfg.RateLimit.Jobs.Window = defaultJobsWindow
	}
	if cfg.RateLimit.Jobs.Max == 0 {
		cfg.RateLimit.Jobs.Max = defaultJobsMax
	}
	if cfg.RateLimit.Admin.Window == 0 {
		cfg.RateLimit.Admin.Window = defaultAdminWindow
	}
	if cfg.RateLimit.Admin.Max == 0 {
		cfg.RateLimit.Admin.Max = defaultAdminMax
	}
	if cfg.RateLimit.Apply.Window == 0 {
		cfg.RateLimit.Apply.Window = defaultApplyWindow
	}
	if cfg.RateLimit.Apply.Max == 0 {
		cfg.RateLimit.Apply.Max = defaultApplyMax
	}
}
