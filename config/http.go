package config

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the console to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the public URL of the console (e.g., "https://admin.salonhub.dev").
	// An https URL marks session and CSRF cookies Secure.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// CompressionEnabled enables gzip compression for text-based responses.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	// Default is 6 (standard gzip default).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	// Clamp compression level to valid gzip range (1-9)
	if h.CompressionLevel < 1 {
		h.CompressionLevel = 1
	}
	if h.CompressionLevel > 9 {
		h.CompressionLevel = 9
	}
	h.BaseURL = strings.TrimRight(strings.TrimSpace(h.BaseURL), "/")
}

// IsTLS reports whether the console is served over https.
func (h *HTTPConfig) IsTLS() bool {
	return strings.HasPrefix(strings.ToLower(h.BaseURL), "https://")
}

// ValidateCookieDomain rejects a cookie domain browsers would refuse, such as a
// public suffix ("co.uk", "github.io").
func (h *HTTPConfig) ValidateCookieDomain() error {
	d := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h.CookieDomain), "."))
	if d == "" {
		return nil
	}
	suffix, icann := publicsuffix.PublicSuffix(d)
	if suffix == d && (icann || strings.Contains(d, ".")) {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is a public suffix; browsers will drop the session cookie", h.CookieDomain)
	}
	return nil
}
