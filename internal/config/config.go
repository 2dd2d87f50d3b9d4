package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Store          StoreConfig
	Database       DatabaseConfig
	SQLite         SQLiteConfig
	Redis          RedisConfig
	JWT            JWTConfig
	Server         ServerConfig
	RateLimit      RateLimitConfig
	MigrateOnStart bool
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// SQLiteConfig holds the embedded database location.
type SQLiteConfig struct {
	Path string
}

// RedisConfig holds Redis connection settings. An empty Addr disables
// tenant event publishing.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds bearer token settings. An empty Secret disables auth.
type JWTConfig struct {
	Secret string //nolint:gosec // G117: JWT verification secret config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("TENANT_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("TENANT_DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("TENANT_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("TENANT_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("TENANT_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rps, err := getEnvFloat("TENANT_RATE_LIMIT_RPS", 50)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	burst, err := getEnvInt("TENANT_RATE_LIMIT_BURST", 100)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	driver := strings.ToLower(getEnv("TENANT_STORE_DRIVER", DriverPostgres))

	// An embedded database file starts empty, so sqlite migrates unless told not to.
	migrateOnStart, err := getEnvBool("TENANT_MIGRATE_ON_START", driver == DriverSQLite)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("TENANT_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Store: StoreConfig{
			Driver: driver,
		},
		Database: DatabaseConfig{
			Host:     getEnv("TENANT_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("TENANT_DB_USER", "tenants"),
			Password: getEnv("TENANT_DB_PASSWORD", ""),
			DBName:   getEnv("TENANT_DB_NAME", "tenants_dev"),
			SSLMode:  getEnv("TENANT_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		SQLite: SQLiteConfig{
			Path: getEnv("TENANT_SQLITE_PATH", "tenants.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("TENANT_REDIS_ADDR", ""),
			Password: getEnv("TENANT_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("TENANT_JWT_SECRET", ""),
		},
		Server: ServerConfig{
			Addr:         getEnv("TENANT_SERVER_ADDR", ":8081"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: rps,
			Burst:             burst,
		},
		MigrateOnStart: migrateOnStart,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.SSLMode == "disable" {
			log.Warn().Msg("TENANT_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return errors.New("TENANT_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("TENANT_STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Store.Driver)
	}

	// JWT auth is optional, but a configured secret must be strong.
	if c.JWT.Secret != "" && len(c.JWT.Secret) < 32 {
		return errors.New("TENANT_JWT_SECRET must be at least 32 characters")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("TENANT_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("TENANT_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("TENANT_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("TENANT_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("TENANT_RATE_LIMIT_RPS must be positive, got %g", c.RateLimit.RequestsPerSecond)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("TENANT_RATE_LIMIT_BURST must be >= 1, got %d", c.RateLimit.Burst)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
