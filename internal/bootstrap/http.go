package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/salonhub/salon-admin/config"
	httpx "github.com/salonhub/salon-admin/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// ErrCh receives ListenAndServe failures other than ErrServerClosed.
	ErrCh chan<- error
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler, err := BuildHTTPHandler(cfg.Config, cfg.Services, logger)
	if err != nil {
		return nil, err
	}
	return StartServer(logger, handler, cfg.Config.HTTP.Addr, cfg.ErrCh), nil
}

// BuildHTTPHandler maps configuration onto the console router.
func BuildHTTPHandler(appCfg *config.AppConfig, svcs ServiceContainer, logger *slog.Logger) (http.Handler, error) {
	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
	}
	if len(appCfg.CSRF.AuthKey) == 0 {
		logger.Warn("CSRF protection disabled; set CSRF_AUTH_KEY")
	}

	return httpx.NewRouter(httpx.RouterServices{
		API:          svcs.API,
		Sessions:     svcs.Sessions,
		Auth:         svcs.Auth,
		Metrics:      metricsSink(svcs.Metrics),
		Logger:       logger,
		IsDev:        appCfg.IsDev,
		CookieName:   appCfg.Session.CookieName,
		CookieDomain: appCfg.HTTP.CookieDomain,
		SessionTTL:   appCfg.Session.Retention,
		CSRF: httpx.CSRFConfig{
			Key:            []byte(appCfg.CSRF.AuthKey),
			Secure:         appCfg.HTTP.IsTLS(),
			TrustedOrigins: trustedOrigins(appCfg.HTTP.BaseURL),
			CookieDomain:   appCfg.HTTP.CookieDomain,
			Logger:         logger,
		},
		CompressionEnabled: appCfg.HTTP.CompressionEnabled,
		Compression:        httpx.CompressionConfig{Level: appCfg.HTTP.CompressionLevel, Logger: logger},
		HealthChecks:       HealthChecks(svcs),
	})
}

// HealthChecks returns the dependency probes served on /healthz.
func HealthChecks(svcs ServiceContainer) map[string]httpx.HealthCheck {
	checks := map[string]httpx.HealthCheck{}
	if svcs.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return svcs.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

func trustedOrigins(baseURL string) []string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}

// StartServer listens on addr in the background with the console's timeouts.
func StartServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				errCh <- err
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownWaitTimeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
