package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"campusconnect.db"`
	MySQLDSN     string `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/campusconnect?charset=utf8mb4&parseTime=True&loc=UTC"`
	PostgresDSN  string `env:"POSTGRES_DSN" envDefault:"host=localhost user=postgres password=postgres dbname=campusconnect port=5432 sslmode=disable"`

	RedisAddr string `env:"REDIS_ADDR"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"change-me"`

	ReminderScanInterval time.Duration `env:"REMINDER_SCAN_INTERVAL" envDefault:"15m"`
	GeofenceRadiusMeters float64       `env:"GEOFENCE_RADIUS_METERS" envDefault:"250"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	SwaggerHost string   `env:"SWAGGER_HOST"`
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendSQLite, BackendMySQL, BackendPostgres:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("STORE_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.ReminderScanInterval <= 0 {
		return fmt.Errorf("REMINDER_SCAN_INTERVAL must be positive")
	}
	if c.GeofenceRadiusMeters < 0 {
		return fmt.Errorf("GEOFENCE_RADIUS_METERS must not be negative")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
