// Package config loads the server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPPort        string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	// DBPath selects the memo cache: empty keeps it in memory, anything else
	// (":memory:" included) is a SQLite database.
	DBPath        string
	CacheSize     int
	CacheTTL      time.Duration
	PruneInterval time.Duration

	// MunicipalTable is an optional converter JSON merged into every year's
	// municipal surtax table.
	MunicipalTable string

	ProjectionWorkers   int
	ProjectionMaxPoints int

	LogLevel  string
	LogFormat string

	SentryDSN string
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_NAME", "netpay-engine"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: strings.ToLower(getenv("ENVIRONMENT", EnvDevelopment)),

		HTTPPort:        getenv("HTTP_PORT", "8080"),
		CORSOrigins:     splitList(getenv("CORS_ORIGINS", "*")),
		ShutdownTimeout: getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DBPath:        strings.TrimSpace(os.Getenv("DB_PATH")),
		CacheSize:     getenvInt("CACHE_SIZE", 1024),
		CacheTTL:      getenvDuration("CACHE_TTL", 30*24*time.Hour),
		PruneInterval: getenvDuration("PRUNE_INTERVAL", time.Hour),

		MunicipalTable: strings.TrimSpace(os.Getenv("MUNICIPAL_TABLE")),

		ProjectionWorkers:   getenvInt("PROJECTION_WORKERS", 0),
		ProjectionMaxPoints: getenvInt("PROJECTION_MAX_POINTS", 2500),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getenv("LOG_FORMAT", "json")),

		SentryDSN: strings.TrimSpace(os.Getenv("SENTRY_DSN")),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
