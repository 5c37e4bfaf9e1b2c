package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects where signed-in sessions are stored.
type SessionBackend string

const (
	// SessionBackendRedis shares sessions between console replicas.
	SessionBackendRedis SessionBackend = "redis"
	// SessionBackendMemory keeps sessions in process (single instance, local development).
	SessionBackendMemory SessionBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: redis, memory)", v)
	}
}

// SessionConfig controls the session store and cookie.
type SessionConfig struct {
	Backend   SessionBackend `env:"BACKEND"     envDefault:"redis"`
	KeyPrefix string         `env:"KEY_PREFIX"  envDefault:"salon:session:"`
	// CacheTTL bounds how long a replica trusts its in-process copy of a session.
	// Negative disables the cache.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5s"`
	// Retention expires stored sessions; zero keeps them until logout.
	Retention  time.Duration `env:"RETENTION"   envDefault:"168h"`
	CookieName string        `env:"COOKIE_NAME" envDefault:"session_id"`
}

// Sanitize normalises session settings.
func (c *SessionConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = SessionBackendRedis
	}
	if c.KeyPrefix = strings.TrimSpace(c.KeyPrefix); c.KeyPrefix == "" {
		c.KeyPrefix = "salon:session:"
	}
	if c.CookieName = strings.TrimSpace(c.CookieName); c.CookieName == "" {
		c.CookieName = "session_id"
	}
	if c.Retention < 0 {
		c.Retention = 0
	}
}

// CSRFConfig controls form protection.
type CSRFConfig struct {
	// AuthKey signs CSRF tokens and must be 32 bytes. Protection is off when empty,
	// which is only acceptable in development.
	AuthKey string `env:"CSRF_AUTH_KEY"`
}

// Validate rejects keys gorilla/csrf cannot use.
func (c CSRFConfig) Validate(isDev bool) error {
	switch n := len(c.AuthKey); {
	case n == 0 && isDev:
		return nil
	case n == 0:
		return errors.New("CSRF_AUTH_KEY is required outside development")
	case n != 32:
		return fmt.Errorf("CSRF_AUTH_KEY must be 32 bytes, got %d", n)
	}
	return nil
}
