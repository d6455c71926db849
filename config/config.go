// Package config loads application settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all runtime settings.
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Activity ActivityConfig
}

type AppConfig struct {
	Env             string
	Debug           bool
	Locale          string
	ShutdownTimeout time.Duration
}

type HTTPConfig struct {
	Addr           string
	AllowedOrigins string
	BodyLimit      int
	AccessLog      bool
}

type DatabaseConfig struct {
	Driver string
	Path   string
	DSN    string
	Debug  bool
	// Seed is the number of sample tasks inserted into an empty table.
	Seed int
}

// CacheConfig configures the Redis cache. An empty RedisAddr disables it.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
	TTL           time.Duration
}

// Enabled reports whether a Redis address was configured.
func (c CacheConfig) Enabled() bool {
	return c.RedisAddr != ""
}

type ActivityConfig struct {
	Limit int
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are ignored.
// Variables already set in the environment take precedence.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:             getEnv("APP_ENV", "development"),
			Debug:           getEnvBool("APP_DEBUG", false),
			Locale:          getEnv("APP_LOCALE", "en"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		HTTP: HTTPConfig{
			Addr:           httpAddr(),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			BodyLimit:      getEnvInt("BODY_LIMIT", 1024*1024),
			AccessLog:      getEnvBool("HTTP_ACCESS_LOG", true),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:   getEnv("DB_PATH", "tasks.db"),
			DSN:    getEnv("DATABASE_URL", ""),
			Debug:  getEnvBool("DB_DEBUG", false),
			Seed:   getEnvInt("SEED_TASKS", 0),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			Prefix:        getEnv("CACHE_PREFIX", "task:"),
			TTL:           getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		Activity: ActivityConfig{
			Limit: getEnvInt("ACTIVITY_LIMIT", 100),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations the application cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.Seed < 0 {
		return fmt.Errorf("SEED_TASKS must not be negative, got %d", c.Database.Seed)
	}
	if c.Activity.Limit <= 0 {
		return fmt.Errorf("ACTIVITY_LIMIT must be positive, got %d", c.Activity.Limit)
	}
	if c.Cache.Enabled() && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.Cache.TTL)
	}
	return nil
}

// httpAddr prefers HTTP_ADDR and falls back to PORT.
func httpAddr() string {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		return addr
	}
	return ":" + getEnv("PORT", "3000")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
