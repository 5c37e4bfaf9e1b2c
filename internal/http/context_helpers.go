package httpx

import (
	"context"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
)

type sessionKey struct{}

type sessionIDKey struct{}

// SetSessionInContext stores the authorized session on the context.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session stored by RequireRoles, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && s != nil {
		return s
	}
	return nil
}

func setSessionIDInContext(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sid)
}

// GetSessionIDFromContext returns the session cookie value seen by the gate.
func GetSessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey{}).(string)
	return sid
}

// IsGuestUser reports whether the request carries no usable session.
func IsGuestUser(ctx context.Context) bool {
	s := GetSessionFromContext(ctx)
	return s == nil || s.IsGuest()
}
