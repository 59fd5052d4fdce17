package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const devSessionSecret = "dev-session-secret-change-me"

// Config holds the application configuration.
type Config struct {
	ServerPort         int
	DatabasePath       string
	AppEnv             string
	LogLevel           string
	SessionSecret      []byte
	SessionTTL         time.Duration
	SessionCookieName  string
	CORSAllowedOrigins []string
	MaintenanceCron    string // e.g. "0 4 * * *" for 4 AM daily
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment variables")
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttlHours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "720"))
	if err != nil {
		return nil, err
	}
	if ttlHours <= 0 {
		return nil, errors.New("SESSION_TTL_HOURS must be positive")
	}

	cfg := &Config{
		ServerPort:         port,
		DatabasePath:       getEnv("DATABASE_PATH", "./todo.db"),
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SessionTTL:         time.Duration(ttlHours) * time.Hour,
		SessionCookieName:  getEnv("SESSION_COOKIE_NAME", "token"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MaintenanceCron:    getEnv("MAINTENANCE_CRON", "0 4 * * *"),
	}

	secret := getEnv("SESSION_SECRET", "")
	if secret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("SESSION_SECRET must be set in production")
		}
		log.Warn().Msg("SESSION_SECRET not set, using development secret")
		secret = devSessionSecret
	}
	cfg.SessionSecret = []byte(secret)

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
