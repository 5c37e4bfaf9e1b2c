package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/salonhub/salon-admin/internal/apiclient"
	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	apperrors "github.com/salonhub/salon-admin/internal/errors"
)

// MinPasswordLength is enforced on registration before contacting the backend.
const MinPasswordLength = 8

// AuthBackend is the part of the backend API that issues tokens.
type AuthBackend interface {
	Login(ctx context.Context, cred apiclient.Credentials) (domainauth.Session, error)
	Register(ctx context.Context, reg apiclient.Registration) (domainauth.Session, error)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Backend  AuthBackend
	Sessions *SessionService
}

// AuthService signs users in against the backend and records the resulting
// session.
type AuthService struct {
	backend  AuthBackend
	sessions *SessionService
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{backend: opts.Backend, sessions: opts.Sessions}
}

// SignInInput groups the login form fields.
type SignInInput struct {
	SessionID string
	Email     string
	Password  string
	// Audience is the role the login page serves; empty accepts any role.
	Audience domainauth.Role
}

// SignIn authenticates with the backend and stores the session under
// in.SessionID. A user whose role does not match the page audience is
// rejected without touching the stored session.
func (s *AuthService) SignIn(ctx context.Context, in SignInInput) (domainauth.Session, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return domainauth.Session{}, apperrors.ValidationField("email", "Email is required")
	}
	if in.Password == "" {
		return domainauth.Session{}, apperrors.ValidationField("password", "Password is required")
	}

	sess, err := s.backend.Login(ctx, apiclient.Credentials{Email: email, Password: in.Password, Role: in.Audience})
	if err != nil {
		if apperrors.IsSession(err) {
			return domainauth.Session{}, apperrors.Unauthorized("Invalid email or password")
		}
		return domainauth.Session{}, err
	}
	if sess.IsGuest() {
		return domainauth.Session{}, apperrors.Forbidden("This account has no console access")
	}
	if in.Audience != "" && sess.User.Role != in.Audience {
		return domainauth.Session{}, apperrors.Forbidden(fmt.Sprintf("This sign-in page is for %s accounts", in.Audience))
	}

	if err := s.sessions.Login(ctx, in.SessionID, sess); err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Could not save your session")
	}
	return sess, nil
}

// SignOut clears the session for sid.
func (s *AuthService) SignOut(ctx context.Context, sid string) error {
	if err := s.sessions.Logout(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RegisterInput groups the registration form fields.
type RegisterInput struct {
	SessionID string
	Name      string
	Email     string
	Password  string
	Role      domainauth.Role
	SalonName string
}

// Validate checks the form before it is sent to the backend.
func (in RegisterInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.ValidationField("name", "Name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return apperrors.ValidationField("email", "Enter a valid email address")
	}
	if len(in.Password) < MinPasswordLength {
		return apperrors.ValidationField("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	switch in.Role {
	case domainauth.RoleCustomer:
	case domainauth.RoleOwner:
		if strings.TrimSpace(in.SalonName) == "" {
			return apperrors.ValidationField("salon_name", "Salon name is required for owners")
		}
	default:
		return apperrors.ValidationField("role", "Choose customer or salon owner")
	}
	return nil
}

// Register creates the account and signs the new user in. Owners land in
// the pending-approval state until an admin approves them.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domainauth.Session, error) {
	if err := in.Validate(); err != nil {
		return domainauth.Session{}, err
	}
	sess, err := s.backend.Register(ctx, apiclient.Registration{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Password:  in.Password,
		Role:      in.Role,
		SalonName: strings.TrimSpace(in.SalonName),
	})
	if err != nil {
		if apperrors.IsConflict(err) && apperrors.GetField(err) == "" {
			return domainauth.Session{}, apperrors.ValidationField("email", apperrors.GetMessage(err))
		}
		return domainauth.Session{}, err
	}
	if err := s.sessions.Login(ctx, in.SessionID, sess); err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Could not save your session")
	}
	return sess, nil
}
