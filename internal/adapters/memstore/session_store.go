// Package memstore holds process-local adapters used in development and tests.
package memstore

import (
	"context"
	"errors"
	"strings"
	"sync"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory session store. Sessions do not survive a
// restart and are not shared between replicas.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *SessionStore) Save(_ context.Context, id string, sess domainauth.Session) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	if strings.TrimSpace(sess.Token) == "" {
		return errors.New("session token cannot be empty")
	}
	if !sess.User.Valid() || sess.User.Role == domainauth.RoleGuest {
		return errors.New("session user is incomplete")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = sess
	return nil
}

func (m *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *SessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *SessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
