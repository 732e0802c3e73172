package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Backends selectable through CATALOG_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendHTTP     = "http"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port                string
	Backend             string
	FixturePath         string
	DBURL               string
	DBMigrationsDir     string
	UpstreamURL         string
	UpstreamTimeoutSecs int
	RedisAddr           string
	CacheTTLSecs        int
	LogLevel            string
	ReadTimeoutSecs     int
	WriteTimeoutSecs    int
	IdleTimeoutSecs     int
	DBMaxConns          int
	DBMinConns          int
	DBMaxIdleSecs       int
	DBMaxLifeSecs       int
	DBConnTimeoutSecs   int
	DBStatementCache    int
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		Backend:             strings.ToLower(getEnv("CATALOG_BACKEND", BackendMemory)),
		FixturePath:         getEnv("FIXTURE_PATH", "db/movie-data.json"),
		DBURL:               os.Getenv("DB_URL"),
		DBMigrationsDir:     os.Getenv("DB_MIGRATIONS_DIR"),
		UpstreamURL:         os.Getenv("UPSTREAM_URL"),
		UpstreamTimeoutSecs: getEnvInt("UPSTREAM_TIMEOUT_SECS", 5),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		CacheTTLSecs:        getEnvInt("CACHE_TTL_SECS", 900),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		ReadTimeoutSecs:     getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:    getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:     getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBMaxConns:          getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:          getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:       getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:       getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs:   getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:    getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),
	}

	switch cfg.Backend {
	case BackendMemory:
		if cfg.FixturePath == "" {
			return Config{}, fmt.Errorf("FIXTURE_PATH is required for the memory backend")
		}
	case BackendPostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required for the postgres backend")
		}
	case BackendHTTP:
		if cfg.UpstreamURL == "" {
			return Config{}, fmt.Errorf("UPSTREAM_URL is required for the http backend")
		}
	default:
		return Config{}, fmt.Errorf("CATALOG_BACKEND must be one of memory, postgres, http; got %q", cfg.Backend)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", cfg.LogLevel)
	}
	if cfg.UpstreamTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT_SECS must be positive")
	}
	if cfg.CacheTTLSecs <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL_SECS must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMaxConns > 0 && cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
