package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
)

func TestGetSessionFromContext(t *testing.T) {
	assert.Nil(t, GetSessionFromContext(context.Background()))

	sess := &domainauth.Session{User: domainauth.User{ID: "abc", Role: domainauth.RoleOwner}}
	ctx := SetSessionInContext(context.Background(), sess)
	assert.Same(t, sess, GetSessionFromContext(ctx))

	assert.Equal(t, context.Background(), SetSessionInContext(context.Background(), nil), "nil session leaves the context alone")
}

func TestGetSessionIDFromContext(t *testing.T) {
	assert.Empty(t, GetSessionIDFromContext(context.Background()))
	assert.Equal(t, "sid-1", GetSessionIDFromContext(setSessionIDInContext(context.Background(), "sid-1")))
}

func TestIsGuestUser(t *testing.T) {
	assert.True(t, IsGuestUser(context.Background()))

	guest := &domainauth.Session{User: domainauth.User{ID: "g", Role: domainauth.RoleGuest}}
	assert.True(t, IsGuestUser(SetSessionInContext(context.Background(), guest)))

	for _, role := range []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleOwner, domainauth.RoleCustomer} {
		s := &domainauth.Session{User: domainauth.User{ID: "u", Role: role}}
		assert.False(t, IsGuestUser(SetSessionInContext(context.Background(), s)), role)
	}
}
