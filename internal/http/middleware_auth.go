package httpx

import (
	"context"
	"net/http"
	"net/url"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/domain/gate"
)

// SessionReader resolves the signed-in state for a session id.
type SessionReader interface {
	CurrentUser(ctx context.Context, sid string) *domainauth.Session
}

// GateConfig wires RequireRoles.
type GateConfig struct {
	Sessions   SessionReader
	CookieName string
	// Denied renders the unauthorized view; a plain 403 when nil.
	Denied func(http.ResponseWriter, *http.Request, gate.Decision)
}

// RequireRoles evaluates the auth gate before the page handler runs. The
// session is re-read on every request. Unauthenticated requests go to the
// role's login page with the current path as redirect_uri; htmx requests get
// an Hx-Redirect instead of a 303.
func RequireRoles(cfg GateConfig, roles ...domainauth.Role) func(http.Handler) http.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = DefaultSessionCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			var sess *domainauth.Session
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				sid = c.Value
				sess = cfg.Sessions.CurrentUser(r.Context(), sid)
			}

			req := gate.Requirement{Roles: roles, ReturnTo: redirectPathForRequest(r)}
			decision := gate.Evaluate(sess, req)
			ctx := setSessionIDInContext(r.Context(), sid)
			if sess != nil {
				ctx = SetSessionInContext(ctx, sess)
			}
			r = r.WithContext(ctx)

			switch decision.State {
			case gate.Authorized:
				next.ServeHTTP(w, r)
			case gate.Redirect:
				Navigate(w, r, decision.RedirectTo)
			default:
				if cfg.Denied != nil {
					cfg.Denied(w, r, decision)
					return
				}
				http.Error(w, "Access denied", http.StatusForbidden)
			}
		})
	}
}

// OptionalSession loads the session, when there is one, for public pages that
// adapt to a signed-in user.
func OptionalSession(sessions SessionReader, cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = DefaultSessionCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				ctx := setSessionIDInContext(r.Context(), c.Value)
				ctx = SetSessionInContext(ctx, sessions.CurrentUser(ctx, c.Value))
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// redirectPathForRequest picks the page to return to after login. For htmx
// requests that is the browser URL rather than the fragment endpoint.
func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(HXCurrentURL(r)); current != "" {
			return current
		}
	}
	if r.Method != http.MethodGet {
		if ref := safeRedirectFromURL(r.Referer()); ref != "" {
			return ref
		}
		return ""
	}
	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Host != "" && !u.IsAbs() {
		return ""
	}
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}
	return safeRedirectPath(raw)
}

// safeRedirectPath returns p when it is a same-origin path, otherwise "".
func safeRedirectPath(p string) string {
	if !gate.IsLocalPath(p) {
		return ""
	}
	return p
}
