// ABOUTME: Configuration loader for the gateway service
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port               string
	Env                string   // development or production (default: development)
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)

	// Session
	CookieName   string // session cookie name (default: accessToken)
	CookieSecure bool   // Set Secure flag on the session cookie (default: true in production)

	// Upstream API
	UpstreamBaseURL string
	UpstreamTimeout int // seconds, per-request timeout (default: 30)

	// Health
	HealthTTL int // seconds, upstream health probe cache (default: 30)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitAuth    int  // Requests per minute for auth endpoints (default: 5)
	RateLimitWrite   int  // Requests per minute for write endpoints (default: 10)
	RateLimitDefault int  // Requests per minute for all other endpoints (default: 100)
}

// Production returns true when the service runs with production settings.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                env,
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),

		CookieName:   getEnv("SESSION_COOKIE_NAME", "accessToken"),
		CookieSecure: getEnvBool("COOKIE_SECURE", env == "production"),

		UpstreamBaseURL: ensureScheme(os.Getenv("UPSTREAM_BASE_URL")),
		UpstreamTimeout: getEnvInt("UPSTREAM_TIMEOUT", 30),

		HealthTTL: getEnvInt("HEALTH_CACHE_TTL", 30),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitAuth:    getEnvInt("RATE_LIMIT_AUTH", 5),
		RateLimitWrite:   getEnvInt("RATE_LIMIT_WRITE", 10),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),
	}

	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL is required")
	}

	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_AUTH", cfg.RateLimitAuth},
		{"RATE_LIMIT_WRITE", cfg.RateLimitWrite},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	if cfg.UpstreamTimeout < 1 || cfg.UpstreamTimeout > 300 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT must be between 1 and 300, got %d", cfg.UpstreamTimeout)
	}

	return cfg, nil
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

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return strings.TrimRight(url, "/")
}
