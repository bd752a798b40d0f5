// Package config loads server and CLI configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Sternrassler/square-menu/pkg/cache"
	"github.com/Sternrassler/square-menu/pkg/square"
	"github.com/Sternrassler/square-menu/pkg/webhook"
)

// Config holds all runtime settings.
type Config struct {
	// HTTP
	Port string

	// Square
	SquareEnvironment   string
	SquareBaseURL       string
	SquareAccessToken   string
	WebhookSignatureKey string
	PublicBaseURL       string

	// Redis
	RedisURL string
	CacheTTL time.Duration

	// Access control
	APIKey             string
	CORSAllowedOrigins []string

	// Environment
	Env       string
	LogLevel  string
	LogPretty bool
}

// Load reads .env files if present, then the process environment. Variables
// already set in the environment take precedence over .env entries.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env.local", ".env"}
	}
	for _, f := range files {
		// missing files are fine
		_ = godotenv.Load(f)
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		SquareEnvironment:   getEnv("SQUARE_ENVIRONMENT", "sandbox"),
		SquareBaseURL:       getEnv("SQUARE_BASE_URL", ""),
		SquareAccessToken:   getEnv("SQUARE_ACCESS_TOKEN", ""),
		WebhookSignatureKey: getEnv("SQUARE_WEBHOOK_SIGNATURE_KEY", ""),
		PublicBaseURL:       getEnv("PUBLIC_BASE_URL", webhook.DefaultPublicBaseURL),
		RedisURL:            getEnv("REDIS_URL", cache.DefaultURL),
		CacheTTL:            time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", int(cache.DefaultTTL/time.Second))) * time.Second,
		APIKey:              getEnv("API_KEY", ""),
		CORSAllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Env:                 getEnv("ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogPretty:           getEnvAsBool("LOG_PRETTY", false),
	}, nil
}

// NotificationURL is the webhook URL Square signs.
func (c *Config) NotificationURL() string {
	return webhook.NotificationURL(c.PublicBaseURL)
}

// Square returns the Square client configuration. SQUARE_BASE_URL, when set,
// overrides the root derived from SQUARE_ENVIRONMENT.
func (c *Config) Square() square.Config {
	sc := square.DefaultConfig(c.SquareEnvironment, c.SquareAccessToken)
	if c.SquareBaseURL != "" {
		sc.BaseURL = c.SquareBaseURL
	}
	return sc
}

// IsProduction reports whether ENV selects production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
