// Package gate decides whether a role-protected page may render for a session.
package gate

import (
	"net/url"
	"slices"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
)

// State is the outcome of a gate evaluation.
type State int

const (
	// Loading is the zero value; nothing protected renders while in this state.
	Loading State = iota
	Authorized
	Unauthorized
	Redirect
)

func (s State) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	case Redirect:
		return "redirect"
	default:
		return "loading"
	}
}

// Login paths per audience.
const (
	AdminLoginPath    = "/admin/login"
	OwnerLoginPath    = "/owner/login"
	CustomerLoginPath = "/login"
)

// Reasons attached to Unauthorized decisions.
const (
	ReasonRole            = "role"
	ReasonPendingApproval = "pending approval"
	ReasonRejected        = "rejected"
)

// Requirement lists the roles allowed to see a page. An empty list admits any
// signed-in user.
type Requirement struct {
	Roles []domainauth.Role
	// ReturnTo is the path the login page should send the user back to.
	ReturnTo string
}

// Require builds a Requirement for the given roles.
func Require(roles ...domainauth.Role) Requirement {
	return Requirement{Roles: roles}
}

// Decision is the evaluated gate result.
type Decision struct {
	State      State
	RedirectTo string
	Reason     string
}

// Evaluate runs the gate synchronously against an already-resolved session.
// A nil session or one without a token always redirects.
func Evaluate(sess *domainauth.Session, req Requirement) Decision {
	if sess == nil || sess.Token == "" {
		return Decision{State: Redirect, RedirectTo: LoginURL(req.Roles, req.ReturnTo)}
	}
	if len(req.Roles) > 0 && !slices.Contains(req.Roles, sess.User.Role) {
		return Decision{State: Unauthorized, Reason: ReasonRole}
	}
	if sess.User.Role == domainauth.RoleOwner {
		switch sess.User.ApprovalStatus {
		case domainauth.ApprovalPending:
			return Decision{State: Unauthorized, Reason: ReasonPendingApproval}
		case domainauth.ApprovalRejected:
			return Decision{State: Unauthorized, Reason: ReasonRejected}
		}
	}
	return Decision{State: Authorized}
}

// LoginPathFor returns the login page for the first privileged role in roles.
func LoginPathFor(roles []domainauth.Role) string {
	if slices.Contains(roles, domainauth.RoleAdmin) {
		return AdminLoginPath
	}
	if slices.Contains(roles, domainauth.RoleOwner) {
		return OwnerLoginPath
	}
	return CustomerLoginPath
}

// LoginPathForRole returns the login page matching a session role.
func LoginPathForRole(role domainauth.Role) string {
	return LoginPathFor([]domainauth.Role{role})
}

// LoginURL returns the login page with an optional local return path.
func LoginURL(roles []domainauth.Role, returnTo string) string {
	path := LoginPathFor(roles)
	if !IsLocalPath(returnTo) {
		return path
	}
	return path + "?redirect_uri=" + url.QueryEscape(returnTo)
}

// IsLocalPath reports whether p is a same-origin absolute path.
func IsLocalPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
		return false
	}
	u, err := url.Parse(p)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// HomePath returns the landing page for a role after login.
func HomePath(role domainauth.Role) string {
	switch role {
	case domainauth.RoleAdmin:
		return "/admin"
	case domainauth.RoleOwner:
		return "/owner"
	default:
		return "/account/appointments"
	}
}
