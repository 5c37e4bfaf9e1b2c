package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salonhub/salon-admin/config"
	"github.com/salonhub/salon-admin/internal/apiclient"
	"github.com/salonhub/salon-admin/internal/observability/statsd"
	"github.com/salonhub/salon-admin/internal/service"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceContainer holds the long-lived dependencies of the console.
type ServiceContainer struct {
	API      *apiclient.Client
	Sessions *service.SessionService
	Auth     *service.AuthService
	Metrics  *statsd.Client
	Redis    redis.UniversalClient
}

// ServiceDeps contains dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	// RedisClient is required for the redis session backend and ignored otherwise.
	RedisClient redis.UniversalClient
	// Transport overrides the backend round tripper; tests point it at httptest servers.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewServices initializes the metrics sink, backend client and session services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metricsClient, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Metrics.IsEnabled(),
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		// Metrics are optional; keep serving without them.
		logger.Warn("metrics disabled", "error", err)
		metricsClient = nil
	}

	api, err := apiclient.New(apiclient.Options{
		BaseURL:      cfg.API.BaseURL,
		FallbackURLs: cfg.API.FallbackURLs,
		Timeout:      cfg.API.Timeout,
		Transport:    deps.Transport,
		Metrics:      metricsSink(metricsClient),
		Logger:       logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("api client: %w", err)
	}

	authSvcs, err := BuildAuthServices(AuthConfig{
		Session:     cfg.Session,
		RedisClient: deps.RedisClient,
		API:         api,
		Metrics:     metricsSink(metricsClient),
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		API:      api,
		Sessions: authSvcs.Sessions,
		Auth:     authSvcs.Auth,
		Metrics:  metricsClient,
		Redis:    deps.RedisClient,
	}, nil
}

// metricsSink keeps a nil client from becoming a non-nil interface.
//
//nolint:ireturn // callers only need the sink.
func metricsSink(c *statsd.Client) statsd.Sink {
	if c == nil {
		return nil
	}
	return c
}

// Close releases the metrics socket.
func (c ServiceContainer) Close() error {
	if c.Metrics == nil {
		return nil
	}
	return c.Metrics.Close()
}

// ServiceOrchestrationConfig contains configuration for running the console.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunWithShutdown starts the HTTP server and blocks until SIGINT/SIGTERM or a
// server failure, then shuts down gracefully.
func RunWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})
	if err != nil {
		return err
	}

	return waitForShutdown(shutdownConfig{
		errCh:      errCh,
		httpServer: server,
		logger:     logger,
	})
}

type shutdownConfig struct {
	errCh      <-chan error
	httpServer *http.Server
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or server error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down...")
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		})
	case err := <-cfg.errCh:
		cfg.logger.Error("HTTP server error", "error", err)
		if stopErr := ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}
