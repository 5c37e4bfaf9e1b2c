// Package ports defines the interfaces (hexagonal ports) the console depends on.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore.Get when nothing usable is
// recorded for an id. Stores also return it for corrupt records.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists the signed-in user's token and profile, keyed by the
// browser session id.
type SessionStore interface {
	Save(ctx context.Context, id string, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
