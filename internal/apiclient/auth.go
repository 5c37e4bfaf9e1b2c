package apiclient

import (
	"context"
	"strings"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	apperrors "github.com/salonhub/salon-admin/internal/errors"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Role is the audience of the login page; the backend may reject a mismatch.
	Role domainauth.Role `json:"role,omitempty"`
}

// Registration is the sign-up request body.
type Registration struct {
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Role      domainauth.Role `json:"role"`
	SalonName string          `json:"salon_name,omitempty"`
}

// UserWire is the backend user profile.
type UserWire struct {
	ID             *string `json:"id"`
	Name           *string `json:"name"`
	DisplayName    *string `json:"display_name"`
	Email          *string `json:"email"`
	Role           *string `json:"role"`
	ApprovalStatus *string `json:"approval_status"`
}

// Resolve maps the wire profile into a domain user.
func (w UserWire) Resolve() domainauth.User {
	name := deref(w.DisplayName)
	if name == "" {
		name = deref(w.Name)
	}
	if name == "" {
		name = deref(w.Email)
	}
	return domainauth.User{
		ID:             deref(w.ID),
		DisplayName:    name,
		Email:          deref(w.Email),
		Role:           domainauth.ParseRole(deref(w.Role)),
		ApprovalStatus: domainauth.ParseApprovalStatus(deref(w.ApprovalStatus)),
	}
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserWire `json:"user"`
}

// Session converts the response into a domain session.
func (r AuthResponse) Session() (domainauth.Session, error) {
	sess := domainauth.Session{Token: strings.TrimSpace(r.Token), User: r.User.Resolve()}
	if sess.Token == "" || !sess.User.Valid() {
		return domainauth.Session{}, apperrors.Unavailable("backend returned an incomplete session")
	}
	return sess, nil
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, cred Credentials) (domainauth.Session, error) {
	var resp AuthResponse
	if err := c.Post(ctx, "/auth/login", cred, &resp); err != nil {
		return domainauth.Session{}, err
	}
	return resp.Session()
}

// Register creates an account. Owners start pending approval.
func (c *Client) Register(ctx context.Context, reg Registration) (domainauth.Session, error) {
	var resp AuthResponse
	if err := c.Post(ctx, "/auth/register", reg, &resp); err != nil {
		return domainauth.Session{}, err
	}
	return resp.Session()
}

// Me returns the profile behind the client's token.
func (c *Client) Me(ctx context.Context) (domainauth.User, error) {
	var w UserWire
	if err := c.GetRecord(ctx, "/auth/me", "user", &w); err != nil {
		return domainauth.User{}, err
	}
	return w.Resolve(), nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
