package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonhub/salon-admin/config"
	"github.com/salonhub/salon-admin/internal/adapters/memstore"
	redisadapter "github.com/salonhub/salon-admin/internal/adapters/redis"
	"github.com/salonhub/salon-admin/internal/apiclient"
	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/testutil"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestBuildSessionStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, err := BuildSessionStore(AuthConfig{
			Session: config.SessionConfig{Backend: config.SessionBackendMemory},
			Logger:  discardLogger(),
		})
		require.NoError(t, err)
		assert.IsType(t, &memstore.SessionStore{}, store)
	})

	t.Run("redis without client", func(t *testing.T) {
		_, err := BuildSessionStore(AuthConfig{
			Session: config.SessionConfig{Backend: config.SessionBackendRedis},
			Logger:  discardLogger(),
		})
		assert.Error(t, err)
	})

	t.Run("redis", func(t *testing.T) {
		client := testutil.SetupTestRedis(t)
		store, err := BuildSessionStore(AuthConfig{
			Session:     config.SessionConfig{Backend: config.SessionBackendRedis, KeyPrefix: "bootstrap-test:"},
			RedisClient: client,
			Logger:      discardLogger(),
		})
		require.NoError(t, err)
		require.IsType(t, &redisadapter.SessionStore{}, store)

		ctx := context.Background()
		sess := testutil.NewSession(domainauth.RoleAdmin)
		require.NoError(t, store.Save(ctx, "sid", sess))
		got, err := store.Get(ctx, "sid")
		require.NoError(t, err)
		assert.Equal(t, sess.Token, got.Token)
		assert.Equal(t, sess.User.Email, got.User.Email)
		require.NoError(t, store.Delete(ctx, "sid"))
	})
}

func TestBuildAuthServices(t *testing.T) {
	_, err := BuildAuthServices(AuthConfig{Session: config.SessionConfig{Backend: config.SessionBackendMemory}})
	require.Error(t, err, "api client is required")

	api, err := apiclient.New(apiclient.Options{BaseURL: "http://127.0.0.1:1/api", Logger: discardLogger()})
	require.NoError(t, err)

	svcs, err := BuildAuthServices(AuthConfig{
		Session: config.SessionConfig{Backend: config.SessionBackendMemory, CacheTTL: -1},
		API:     api,
		Logger:  discardLogger(),
	})
	require.NoError(t, err)
	assert.NotNil(t, svcs.Store)
	assert.NotNil(t, svcs.Sessions)
	assert.NotNil(t, svcs.Auth)
	assert.Nil(t, svcs.Sessions.CurrentUser(context.Background(), "unknown"))
}
