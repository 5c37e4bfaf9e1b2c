// Package redis provides Redis-backed adapters for the salon console.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/ports"
)

// DefaultKeyPrefix namespaces session keys.
const DefaultKeyPrefix = "salon:session:"

var _ ports.SessionStore = (*SessionStore)(nil)

// ErrNotFound is returned when no usable session is stored for an id.
var ErrNotFound = ports.ErrSessionNotFound

// SessionStore keeps each session as two keys, the bearer token and the JSON
// user profile. Both keys share a cluster hash tag so they are written and
// removed in one transaction.
type SessionStore struct {
	client    redis.UniversalClient
	prefix    string
	retention time.Duration
	logger    *slog.Logger
}

// SessionStoreOptions configures a SessionStore.
type SessionStoreOptions struct {
	Prefix string
	// Retention expires both keys after the given duration. Zero keeps them
	// until logout; the backend decides when the token itself is stale.
	Retention time.Duration
	Logger    *slog.Logger
}

// NewSessionStore creates a Redis-based session store.
func NewSessionStore(client redis.UniversalClient, opts SessionStoreOptions) *SessionStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		client:    client,
		prefix:    prefix,
		retention: max(opts.Retention, 0),
		logger:    logger,
	}
}

func (s *SessionStore) keys(id string) (token, user string) {
	base := s.prefix + "{" + id + "}"
	return base + ":token", base + ":user"
}

func (s *SessionStore) Save(ctx context.Context, id string, sess domainauth.Session) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	if strings.TrimSpace(sess.Token) == "" {
		return errors.New("session token cannot be empty")
	}
	if !sess.User.Valid() || sess.User.Role == domainauth.RoleGuest {
		return errors.New("session user is incomplete")
	}

	profile, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}

	tokenKey, userKey := s.keys(id)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey, sess.Token, s.retention)
		pipe.Set(ctx, userKey, profile, s.retention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	tokenKey, userKey := s.keys(id)
	vals, err := s.client.MGet(ctx, tokenKey, userKey).Result()
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("redis get session: %w", err)
	}

	token, tokenOK := asString(vals, 0)
	raw, userOK := asString(vals, 1)
	if !tokenOK && !userOK {
		return domainauth.Session{}, ErrNotFound
	}

	sess, ok := decodeSession(token, raw)
	if !ok {
		// Half-written or corrupt records read as signed out.
		s.logger.WarnContext(ctx, "discarding corrupt session", "session_id", id)
		if delErr := s.Delete(ctx, id); delErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup corrupt session: %w", delErr)
		}
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	tokenKey, userKey := s.keys(id)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, tokenKey, userKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func asString(vals []any, i int) (string, bool) {
	if i >= len(vals) || vals[i] == nil {
		return "", false
	}
	s, ok := vals[i].(string)
	return s, ok
}

// decodeSession rebuilds a session from the stored token and profile JSON.
// An unknown role maps to guest, which is rejected here.
func decodeSession(token, raw string) (domainauth.Session, bool) {
	token = strings.TrimSpace(token)
	if token == "" || raw == "" {
		return domainauth.Session{}, false
	}
	var u domainauth.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return domainauth.Session{}, false
	}
	u.Role = domainauth.ParseRole(string(u.Role))
	if !u.Valid() || u.Role == domainauth.RoleGuest {
		return domainauth.Session{}, false
	}
	u.ApprovalStatus = domainauth.ParseApprovalStatus(string(u.ApprovalStatus))
	return domainauth.Session{Token: token, User: u}, true
}
