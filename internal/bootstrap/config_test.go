package bootstrap

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonhub/salon-admin/config"
)

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("HTTP_COMPRESSION_LEVEL", "99")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, config.SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 9, cfg.HTTP.CompressionLevel, "sanitized")
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_TIMEOUT", "soon")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	assert.Error(t, ValidateConfig(nil))
	assert.NoError(t, ValidateConfig(&config.AppConfig{IsDev: true}))
	assert.Error(t, ValidateConfig(&config.AppConfig{}), "production needs a CSRF key")
	assert.NoError(t, ValidateConfig(&config.AppConfig{CSRF: config.CSRFConfig{AuthKey: "0123456789abcdef0123456789abcdef"}}))
	assert.Error(t, ValidateConfig(&config.AppConfig{IsDev: true, HTTP: config.HTTPConfig{CookieDomain: ".co.uk"}}))
}

func TestSetDebugLogging(t *testing.T) {
	logger := InitLogger()
	SetDebugLogging(true)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
	SetDebugLogging(false)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelDebug))
}
