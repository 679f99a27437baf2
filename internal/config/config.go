package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog sources accepted by CATALOG_SOURCE.
const (
	CatalogEmbedded = "embedded"
	CatalogFile     = "file"
	CatalogPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string
	RedisURL   string
	// PlanTTL is how long an untouched plan survives in Redis. Zero keeps
	// plans forever.
	PlanTTL time.Duration
	// DatabaseURL is optional. Without it the catalog must come from the
	// bundled or file source and snapshots are disabled.
	DatabaseURL      string
	MaxDBConns       int32
	CatalogSource    string
	CatalogPath      string
	SnapshotsEnabled bool
	CacheMaxAge      int
	// PlanCreateRate caps POST /plans per client IP per minute. Zero disables it.
	PlanCreateRate int
	// AllowedOrigins controls HTTP CORS.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "pretty"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		PlanTTL:          time.Duration(getEnvInt("PLAN_TTL_HOURS", 0)) * time.Hour,
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MaxDBConns:       int32(getEnvInt("MAX_DB_CONNS", 8)),
		CatalogSource:    strings.ToLower(getEnv("CATALOG_SOURCE", CatalogEmbedded)),
		CatalogPath:      getEnv("CATALOG_PATH", ""),
		SnapshotsEnabled: getEnvBool("SNAPSHOTS_ENABLED", false),
		CacheMaxAge:      getEnvInt("CATALOG_CACHE_MAX_AGE", 300),
		PlanCreateRate:   getEnvInt("PLAN_CREATE_RATE_PER_MINUTE", 30),
		AllowedOrigins:   parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// UsesDatabase reports whether any configured feature needs Postgres.
func (c *Config) UsesDatabase() bool {
	return c.CatalogSource == CatalogPostgres || c.SnapshotsEnabled
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
