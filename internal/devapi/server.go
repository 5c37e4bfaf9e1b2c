// Package devapi is an in-memory stand-in for the salon backend REST API. It
// serves seeded fixtures with the same envelopes, status codes and bearer
// token rules the console expects, for local development and tests.
package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is the lifetime of issued tokens.
const DefaultTokenTTL = 12 * time.Hour

// Options configures a Server.
type Options struct {
	// Secret signs bearer tokens. Required.
	Secret   []byte
	TokenTTL time.Duration
	// BcryptCost hashes seeded and registered passwords; tests use bcrypt.MinCost.
	BcryptCost int
	Now        func() time.Time
	Logger     *slog.Logger
}

// Server is the fixture backend.
type Server struct {
	store  *store
	tokens tokenIssuerKey
	cost   int
	now    func() time.Time
	logger *slog.Logger
	mux    *http.ServeMux
}

// New seeds a fresh fixture backend.
func New(opts Options) (*Server, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("devapi: token secret is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:  newStore(),
		tokens: tokenIssuerKey{secret: opts.Secret, ttl: ttl, now: now},
		cost:   cost,
		now:    now,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.store.seed(now(), cost)
	s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	anyRole := []string{"admin", "owner", "customer"}
	staff := []string{"admin", "owner"}

	s.mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.mux.HandleFunc("POST /api/auth/login", s.login)
	s.mux.HandleFunc("POST /api/auth/register", s.register)
	s.mux.Handle("GET /api/auth/me", s.require(anyRole, s.me))

	s.mux.Handle("GET /api/customers", s.require(staff, s.listCustomers))
	s.mux.Handle("GET /api/salons", s.require(anyRole, s.listSalons))
	s.mux.Handle("GET /api/appointments", s.require(staff, s.listAppointments))
	s.mux.Handle("GET /api/appointments/mine", s.require([]string{"customer"}, s.listMyAppointments))
	s.mux.Handle("POST /api/appointments", s.require([]string{"customer"}, s.createAppointment))
	s.mux.Handle("PATCH /api/appointments/{id}/status", s.require(staff, s.updateAppointmentStatus))
	s.mux.Handle("GET /api/payments", s.require(staff, s.listPayments))
	s.mux.Handle("GET /api/promotions", s.require(anyRole, s.listPromotions))
	s.mux.Handle("POST /api/promotions", s.require([]string{"owner"}, s.createPromotion))
	s.mux.Handle("PATCH /api/promotions/{id}", s.require([]string{"owner"}, s.setPromotionActive))
	s.mux.Handle("GET /api/owners", s.require([]string{"admin"}, s.listOwners))
	s.mux.Handle("PATCH /api/owners/{id}/approval", s.require([]string{"admin"}, s.setOwnerApproval))
	s.mux.Handle("GET /api/loyalty/me", s.require([]string{"customer"}, s.loyalty))
}

type principalKey struct{}

// principal is a copy of the authenticated user taken under the read lock.
type principal struct {
	ID             string
	Name           string
	Role           string
	ApprovalStatus string
	SalonID        string
}

func principalFrom(ctx context.Context) principal {
	p, _ := ctx.Value(principalKey{}).(principal)
	return p
}

// require authenticates the bearer token and checks the role. Owners that are
// not approved may only read their own profile.
func (s *Server) require(roles []string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		c, err := s.tokens.parse(raw)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Session expired")
			return
		}

		s.store.mu.RLock()
		u := s.store.users[c.Subject]
		var p principal
		if u != nil {
			p = principal{ID: u.ID, Name: u.Name, Role: u.Role, ApprovalStatus: u.ApprovalStatus, SalonID: u.SalonID}
		}
		s.store.mu.RUnlock()

		if u == nil {
			writeMessage(w, http.StatusUnauthorized, "Account no longer exists")
			return
		}
		if !slices.Contains(roles, p.Role) {
			writeMessage(w, http.StatusForbidden, "Not allowed for this account")
			return
		}
		if p.Role == "owner" && p.ApprovalStatus != "approved" && r.URL.Path != "/api/auth/me" {
			writeMessage(w, http.StatusForbidden, "Owner account awaiting approval")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, p)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < len("bearer ") || !strings.EqualFold(h[:len("bearer ")], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[len("bearer "):])
	return tok, tok != ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeFieldError(w http.ResponseWriter, status int, field, msg string) {
	writeJSON(w, status, map[string]string{"message": msg, "field": field})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body")
		return false
	}
	return true
}
