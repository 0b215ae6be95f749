package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings, sourced from the environment with an
// optional .env file.
type Config struct {
	Port         string
	DBPath       string
	JWTSecret    string
	JWTIssuer    string
	JWTAudience  string
	TokenTTL     time.Duration
	ListCacheTTL time.Duration
}

// Load reads .env (if present) and assembles the config with defaults
// suitable for local development.
func Load() *Config {
	// Missing .env is fine; plain env vars still apply.
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8008"),
		DBPath:       getEnv("DB_PATH", "task-tracker.db"),
		JWTSecret:    getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
		JWTIssuer:    getEnv("JWT_ISSUER", "task-tracker"),
		JWTAudience:  getEnv("JWT_AUDIENCE", "task-tracker-clients"),
		TokenTTL:     getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		ListCacheTTL: getEnvAsDuration("LIST_CACHE_TTL", 60*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
