package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// the per-concern configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual config files for the
// available environment variables:
//   - api.go: backend API client and the fixture backend
//   - auth.go: sessions and CSRF
//   - redis.go: Redis connection
//   - http.go: HTTP server configuration
//   - observability.go: metrics
type AppConfig struct {
	// IsDev reads templates and static files from disk and enables debug logging.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	HTTP HTTPConfig

	// Backend API configuration
	API    APIConfig    `envPrefix:"API_"`
	DevAPI DevAPIConfig `envPrefix:"DEVAPI_"`

	// Session storage
	Redis   RedisConfig   `envPrefix:"REDIS_"`
	Session SessionConfig `envPrefix:"SESSION_"`
	CSRF    CSRFConfig

	Metrics MetricsConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.API.Sanitize()
	c.DevAPI.Sanitize()
	c.Session.Sanitize()
	c.Metrics.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// UsesRedis reports whether sessions are kept in Redis.
func (c *AppConfig) UsesRedis() bool {
	return c.Session.Backend == SessionBackendRedis
}
