package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Host        string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port        int    `env:"SERVER_PORT" envDefault:"8080"`
	Secure      bool   `env:"SERVER_SECURE" envDefault:"false"` // Send HSTS
	Environment string `env:"APP_ENV" envDefault:"development"` // "development", "production", "test"
	Debug       bool   `env:"DEBUG" envDefault:"false"`
}

// StoreConfig selects the backing medium for the record store documents.
type StoreConfig struct {
	Backend     string `env:"STORE_BACKEND" envDefault:"file"` // "file", "postgres", "redis", "sqlite", "mongo"
	DataDir     string `env:"STORE_DATA_DIR" envDefault:"data"`
	OnCorrupt   string `env:"STORE_ON_CORRUPT" envDefault:"fail"` // "fail" or "reset"
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/chatcore.db"`
	RedisPrefix string `env:"STORE_REDIS_PREFIX" envDefault:"chatcore:"`
	// MigrationsDir overrides the embedded migrations with a directory holding
	// postgres/ and sqlite/ subdirectories.
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:""`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"chatcore"`
	Password string `env:"DB_PASSWORD" envDefault:"chatcore"`
	DBName   string `env:"DB_NAME" envDefault:"chatcore"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"` // Rate limiting; implied by the redis store backend
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DB" envDefault:"chatcore"`
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AdminUsername string        `env:"ADMIN_USERNAME" envDefault:""`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:""`
	LoginLimit    int64         `env:"LOGIN_RATE_LIMIT" envDefault:"10"` // Per minute per client IP
}

const defaultJWTSecret = "dev-secret-change-me"

var (
	ErrUnknownBackend            = errors.New("unknown store backend")
	ErrUnknownCorruptPolicy      = errors.New("unknown store corruption policy")
	ErrDefaultSecretInProduction = errors.New("JWT_SECRET must be set in production")
)

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// UsesRedis reports whether a redis connection is needed.
func (c *Config) UsesRedis() bool {
	return c.Redis.Enabled || c.Store.Backend == "redis"
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "file", "postgres", "redis", "sqlite", "mongo":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Store.Backend)
	}
	switch c.Store.OnCorrupt {
	case "fail", "reset":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCorruptPolicy, c.Store.OnCorrupt)
	}
	if c.Server.Environment == "production" && c.Auth.JWTSecret == defaultJWTSecret {
		return ErrDefaultSecretInProduction
	}
	return nil
}
