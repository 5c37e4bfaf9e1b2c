package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/observability/metrics"
	"github.com/salonhub/salon-admin/internal/observability/statsd"
	"github.com/salonhub/salon-admin/internal/ports"
)

// DefaultSessionCacheTTL bounds how long a replica trusts its cached view of a
// session written elsewhere.
const DefaultSessionCacheTTL = 5 * time.Second

const maxCachedSessions = 10_000

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Store    ports.SessionStore
	CacheTTL time.Duration
	Metrics  statsd.Sink
	Logger   *slog.Logger
	Now      func() time.Time
}

type cachedSession struct {
	sess     *domainauth.Session
	loadedAt time.Time
}

// SessionService is the single owner of the signed-in state. Reads go through
// a short-lived process cache; only Login and Logout write.
//
// Every Login and Logout bumps a per-sid epoch. A store read only populates
// the cache if no Login or Logout for that sid happened while it was in
// flight. Sids whose store delete failed stay revoked locally until a delete
// succeeds or the sid signs in again.
type SessionService struct {
	store   ports.SessionStore
	ttl     time.Duration
	metrics statsd.Sink
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	cache   map[string]cachedSession
	seq     uint64
	floor   uint64 // epoch of sids missing from epochs
	epochs  map[string]uint64
	revoked map[string]struct{}
	loads   singleflight.Group
}

// NewSessionService constructs a SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	ttl := opts.CacheTTL
	if ttl < 0 {
		ttl = 0
	} else if ttl == 0 {
		ttl = DefaultSessionCacheTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		store:   opts.Store,
		ttl:     ttl,
		metrics: opts.Metrics,
		logger:  logger,
		now:     now,
		cache:   make(map[string]cachedSession),
		epochs:  make(map[string]uint64),
		revoked: make(map[string]struct{}),
	}
}

// NewSessionID returns a fresh opaque browser session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Login records token and profile for sid, replacing any previous session.
func (s *SessionService) Login(ctx context.Context, sid string, sess domainauth.Session) error {
	if sid == "" {
		return errors.New("session ID is required")
	}
	epoch := s.invalidate(sid, false)
	if err := s.store.Save(ctx, sid, sess); err != nil {
		return err
	}
	cp := sess
	s.rememberAt(sid, epoch, &cp)
	metrics.EmitSessionEvent(s.metrics, "login", string(sess.User.Role))
	return nil
}

// Logout clears both the stored session and the cache entry. Later reads for
// sid report no session even if the store delete failed; the delete is retried
// on the next read.
func (s *SessionService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	epoch := s.invalidate(sid, true)
	if err := s.store.Delete(ctx, sid); err != nil {
		return err
	}
	s.clearRevoked(sid, epoch)
	metrics.EmitSessionEvent(s.metrics, "logout", "")
	return nil
}

// CurrentUser returns the session for sid, or nil when nothing usable is
// recorded. Store failures are logged and read as signed out.
func (s *SessionService) CurrentUser(ctx context.Context, sid string) *domainauth.Session {
	if sid == "" {
		return nil
	}
	if epoch, ok := s.revokedAt(sid); ok {
		s.retryDelete(ctx, sid, epoch)
		return nil
	}
	if sess, ok := s.cached(sid); ok {
		return copySession(sess)
	}

	v, _, _ := s.loads.Do(sid, func() (any, error) {
		epoch := s.epoch(sid)
		sess, err := s.store.Get(ctx, sid)
		switch {
		case err == nil:
			cp := sess
			if !s.rememberAt(sid, epoch, &cp) {
				return (*domainauth.Session)(nil), nil
			}
			return &cp, nil
		case errors.Is(err, ports.ErrSessionNotFound):
			s.rememberAt(sid, epoch, nil)
			return (*domainauth.Session)(nil), nil
		default:
			s.logger.WarnContext(ctx, "session lookup failed", "error", err)
			return (*domainauth.Session)(nil), nil
		}
	})
	sess, _ := v.(*domainauth.Session)
	return copySession(sess)
}

// invalidate drops any cached or in-flight view of sid and starts a new
// epoch, which it returns.
func (s *SessionService) invalidate(sid string, revoke bool) uint64 {
	s.mu.Lock()
	if len(s.epochs) >= maxCachedSessions {
		// Every load started before this point now fails its epoch check.
		clear(s.epochs)
		s.floor = s.seq
	}
	s.seq++
	s.epochs[sid] = s.seq
	epoch := s.seq
	delete(s.cache, sid)
	if revoke {
		s.revoked[sid] = struct{}{}
	} else {
		delete(s.revoked, sid)
	}
	s.mu.Unlock()
	s.loads.Forget(sid)
	return epoch
}

func (s *SessionService) epoch(sid string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epochLocked(sid)
}

func (s *SessionService) epochLocked(sid string) uint64 {
	if e, ok := s.epochs[sid]; ok {
		return e
	}
	return s.floor
}

// revokedAt reports whether sid is locally revoked, with the current epoch.
func (s *SessionService) revokedAt(sid string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[sid]
	return s.epochLocked(sid), ok
}

func (s *SessionService) clearRevoked(sid string, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epochLocked(sid) == epoch {
		delete(s.revoked, sid)
	}
}

// retryDelete repeats a failed Logout delete. Login always issues a fresh sid,
// so the delete cannot race a new session under the same id.
func (s *SessionService) retryDelete(ctx context.Context, sid string, epoch uint64) {
	if err := s.store.Delete(ctx, sid); err != nil {
		s.logger.WarnContext(ctx, "session delete retry failed", "error", err)
		return
	}
	s.clearRevoked(sid, epoch)
}

func (s *SessionService) cached(sid string) (*domainauth.Session, bool) {
	if s.ttl == 0 {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache[sid]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.loadedAt) >= s.ttl {
		delete(s.cache, sid)
		return nil, false
	}
	return e.sess, true
}

// rememberAt caches sess only if no Login or Logout for sid happened since
// epoch was read. It reports whether the read is still current.
func (s *SessionService) rememberAt(sid string, epoch uint64, sess *domainauth.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epochLocked(sid) != epoch {
		return false
	}
	if s.ttl == 0 {
		return true
	}
	now := s.now()
	if len(s.cache) >= maxCachedSessions {
		for k, e := range s.cache {
			if now.Sub(e.loadedAt) >= s.ttl {
				delete(s.cache, k)
			}
		}
	}
	s.cache[sid] = cachedSession{sess: sess, loadedAt: now}
	return true
}

func copySession(sess *domainauth.Session) *domainauth.Session {
	if sess == nil {
		return nil
	}
	cp := *sess
	return &cp
}
