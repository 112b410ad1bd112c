// Package config handles loading and validation of application configuration
// from environment variables. Supports .env files via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        int
	Environment string // "development" | "staging" | "production"

	// Storage
	DataDir    string
	UploadsDir string

	// Security
	JWTSecret       string
	TokenTTLMinutes int
	AllowedOrigins  []string
	RateLimitRPM    int

	// Redis (optional, for shared rate limiting)
	RedisURL string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),

		DataDir:    getEnv("DATA_DIR", "data"),
		UploadsDir: getEnv("UPLOADS_DIR", "uploads"),

		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		TokenTTLMinutes: getEnvInt("TOKEN_TTL_MINUTES", 60),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
		RateLimitRPM:    getEnvInt("RATE_LIMIT_RPM", 60),

		RedisURL: getEnv("REDIS_URL", ""),
	}

	// Validate required fields in production
	if cfg.Environment == "production" {
		if cfg.JWTSecret == "dev-secret-change-in-production" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
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
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
