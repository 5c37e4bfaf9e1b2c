package bootstrap

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/salonhub/salon-admin/config"
	"github.com/salonhub/salon-admin/internal/adapters/memstore"
	redisadapter "github.com/salonhub/salon-admin/internal/adapters/redis"
	"github.com/salonhub/salon-admin/internal/apiclient"
	"github.com/salonhub/salon-admin/internal/observability/statsd"
	"github.com/salonhub/salon-admin/internal/ports"
	"github.com/salonhub/salon-admin/internal/service"
)

// AuthConfig contains configuration for the session and auth services.
type AuthConfig struct {
	Session     config.SessionConfig
	RedisClient redis.UniversalClient
	API         *apiclient.Client
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// AuthServices groups the session owner and the sign-in flow built on it.
type AuthServices struct {
	Store    ports.SessionStore
	Sessions *service.SessionService
	Auth     *service.AuthService
}

// BuildSessionStore picks the session store for the configured backend.
//
//nolint:ireturn // the backend is chosen at runtime.
func BuildSessionStore(cfg AuthConfig) (ports.SessionStore, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendMemory:
		if cfg.Logger != nil {
			cfg.Logger.Info("session store: memory")
		}
		return memstore.NewSessionStore(), nil
	case config.SessionBackendRedis, "":
		if cfg.RedisClient == nil {
			return nil, errors.New("redis session backend requires a redis client")
		}
		if cfg.Logger != nil {
			cfg.Logger.Info("session store: redis", "prefix", cfg.Session.KeyPrefix, "retention", cfg.Session.Retention)
		}
		return redisadapter.NewSessionStore(cfg.RedisClient, redisadapter.SessionStoreOptions{
			Prefix:    cfg.Session.KeyPrefix,
			Retention: cfg.Session.Retention,
			Logger:    cfg.Logger,
		}), nil
	default:
		return nil, errors.New("unknown session backend " + string(cfg.Session.Backend))
	}
}

// BuildAuthServices wires the session store, SessionService and AuthService.
func BuildAuthServices(cfg AuthConfig) (AuthServices, error) {
	if cfg.API == nil {
		return AuthServices{}, errors.New("auth services require an API client")
	}
	store, err := BuildSessionStore(cfg)
	if err != nil {
		return AuthServices{}, err
	}
	sessions := service.NewSessionService(service.SessionServiceOptions{
		Store:    store,
		CacheTTL: cfg.Session.CacheTTL,
		Metrics:  cfg.Metrics,
		Logger:   cfg.Logger,
	})
	return AuthServices{
		Store:    store,
		Sessions: sessions,
		Auth:     service.NewAuthService(service.AuthServiceOptions{Backend: cfg.API, Sessions: sessions}),
	}, nil
}
