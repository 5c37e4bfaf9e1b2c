package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/ports"
)

func adminSession(token string) domainauth.Session {
	return domainauth.Session{
		Token: token,
		User:  domainauth.User{ID: "u-1", Email: "admin@example.com", Role: domainauth.RoleAdmin},
	}
}

func TestSessionStore_Lifecycle(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "sid")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, "sid", adminSession("a")))
	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Token)

	require.NoError(t, store.Save(ctx, "sid", adminSession("b")))
	got, err = store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Token)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "sid"))
	_, err = store.Get(ctx, "sid")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_RejectsIncompleteSessions(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "", adminSession("a")))
	assert.Error(t, store.Save(ctx, "sid", adminSession("")))

	guest := adminSession("a")
	guest.User.Role = domainauth.RoleGuest
	assert.Error(t, store.Save(ctx, "sid", guest))
	assert.Zero(t, store.Len())
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sid := string(rune('a' + i))
			_ = store.Save(ctx, sid, adminSession("tok"))
			_, _ = store.Get(ctx, sid)
			_ = store.Delete(ctx, sid)
		}()
	}
	wg.Wait()
	assert.Zero(t, store.Len())
}
