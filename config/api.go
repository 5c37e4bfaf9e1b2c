package config

import (
	"strings"
	"time"
)

// APIConfig points the console at the salon backend.
type APIConfig struct {
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:4000/api"`
	// FallbackURLs are informational; failover is handled by deployment.
	FallbackURLs []string      `env:"FALLBACK_URLS" envDefault:""`
	Timeout      time.Duration `env:"TIMEOUT"       envDefault:"30s"`
}

// Sanitize trims URLs and restores the default timeout.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	urls := c.FallbackURLs[:0]
	for _, u := range c.FallbackURLs {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			urls = append(urls, u)
		}
	}
	c.FallbackURLs = urls
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// DevAPIConfig configures the fixture backend used for local development.
type DevAPIConfig struct {
	Addr      string        `env:"ADDR"       envDefault:":4000"`
	JWTSecret string        `env:"JWT_SECRET" envDefault:"salonhub-dev-secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL"  envDefault:"12h"`
}

// Sanitize restores defaults for blank values.
func (c *DevAPIConfig) Sanitize() {
	if c.Addr = strings.TrimSpace(c.Addr); c.Addr == "" {
		c.Addr = ":4000"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 12 * time.Hour
	}
}
