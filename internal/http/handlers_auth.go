package httpx

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/domain/gate"
	apperrors "github.com/salonhub/salon-admin/internal/errors"
	"github.com/salonhub/salon-admin/internal/service"
)

// Audience is one login page and the role it signs in.
type Audience struct {
	Role  domainauth.Role
	Path  string
	Title string
}

// Login audiences.
var (
	AdminAudience    = Audience{Role: domainauth.RoleAdmin, Path: gate.AdminLoginPath, Title: "Admin sign in"}
	OwnerAudience    = Audience{Role: domainauth.RoleOwner, Path: gate.OwnerLoginPath, Title: "Salon owner sign in"}
	CustomerAudience = Audience{Role: domainauth.RoleCustomer, Path: gate.CustomerLoginPath, Title: "Sign in"}
)

const errMsgFixBelow = "Please fix the errors below."

// formStatus keeps htmx swapping the re-rendered form; plain posts get 422.
func formStatus(r *http.Request) int {
	if IsHTMX(r) {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

// formErrors splits an error into inline field errors and a banner message.
func formErrors(err error) (map[string]string, string) {
	if field := apperrors.GetField(err); field != "" {
		return map[string]string{field: apperrors.GetMessage(err)}, errMsgFixBelow
	}
	switch {
	case apperrors.IsSession(err), apperrors.IsUserFacing(err):
		return nil, apperrors.GetMessage(err)
	case apperrors.IsTransient(err):
		return nil, "The salon service is unavailable right now. Try again in a moment."
	default:
		return nil, "Something went wrong. Please try again."
	}
}

// postLoginTarget honors a same-origin redirect_uri, otherwise the role's home.
func postLoginTarget(raw string, role domainauth.Role) string {
	if p := safeRedirectPath(raw); p != "" && !isAuthPath(p) {
		return p
	}
	return gate.HomePath(role)
}

func isAuthPath(p string) bool {
	u, err := url.Parse(p)
	if err != nil {
		return true
	}
	switch u.Path {
	case gate.AdminLoginPath, gate.OwnerLoginPath, gate.CustomerLoginPath, "/register", "/logout", "/signed-out":
		return true
	}
	return false
}

// LoginPage renders the sign-in form for an audience. A user already signed in
// with that role goes straight to the destination.
func (h *UIHandlers) LoginPage(aud Audience) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirectURI := r.URL.Query().Get("redirect_uri")
		if sess := GetSessionFromContext(r.Context()); sess != nil && sess.User.Role == aud.Role {
			Navigate(w, r, postLoginTarget(redirectURI, aud.Role))
			return
		}
		data := h.loginData(r, aud, redirectURI).Build()
		h.renderPage(w, r, data)
	}
}

func (h *UIHandlers) loginData(r *http.Request, aud Audience, redirectURI string) *TemplateDataBuilder {
	return NewTemplateData(r, PageMeta{Title: aud.Title, CurrentPage: PageLogin}).
		With("Audience", aud).
		With("RedirectURI", safeRedirectPath(redirectURI)).
		With("ShowRegister", aud.Role != domainauth.RoleAdmin)
}

// LoginSubmit authenticates against the backend and stores the session under a
// fresh id, replacing any previous one.
func (h *UIHandlers) LoginSubmit(aud Audience) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		email := strings.TrimSpace(r.PostFormValue("email"))
		redirectURI := r.PostFormValue("redirect_uri")

		sid := service.NewSessionID()
		sess, err := h.Auth.SignIn(r.Context(), service.SignInInput{
			SessionID: sid,
			Email:     email,
			Password:  r.PostFormValue("password"),
			Audience:  aud.Role,
		})
		if err != nil {
			h.logger().InfoContext(r.Context(), "sign in rejected", "audience", aud.Role, "code", apperrors.GetCode(err))
			fieldErrs, msg := formErrors(err)
			data := h.loginData(r, aud, redirectURI).
				With("Email", email).
				WithFieldErrors(fieldErrs).
				WithError(msg).
				Build()
			h.renderStatus(w, r, formStatus(r), data)
			return
		}

		h.replaceSession(w, r, sid)
		Navigate(w, r, postLoginTarget(redirectURI, sess.User.Role))
	}
}

// replaceSession drops the previous session, if any, and issues the cookie for sid.
func (h *UIHandlers) replaceSession(w http.ResponseWriter, r *http.Request, sid string) {
	if c, err := r.Cookie(h.cookieName()); err == nil && c.Value != "" && c.Value != sid {
		if err := h.Auth.SignOut(r.Context(), c.Value); err != nil {
			h.logger().WarnContext(r.Context(), "dropping previous session failed", "error", err)
		}
	}
	h.setSessionCookie(w, r, sid)
}

// RegisterPage renders the sign-up form.
func (h *UIHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != string(domainauth.RoleOwner) {
		role = string(domainauth.RoleCustomer)
	}
	data := NewTemplateData(r, PageMeta{Title: "Create an account", CurrentPage: PageRegister}).
		With("Form", map[string]string{"role": role}).
		Build()
	h.renderPage(w, r, data)
}

// RegisterSubmit creates the account and signs the user in. Validation and
// duplicate-email errors render inline next to the field.
func (h *UIHandlers) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in := service.RegisterInput{
		SessionID: service.NewSessionID(),
		Name:      r.PostFormValue("name"),
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
		Role:      domainauth.Role(r.PostFormValue("role")),
		SalonName: r.PostFormValue("salon_name"),
	}
	sess, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		fieldErrs, msg := formErrors(err)
		data := NewTemplateData(r, PageMeta{Title: "Create an account", CurrentPage: PageRegister}).
			With("Form", map[string]string{
				"name":       in.Name,
				"email":      in.Email,
				"role":       string(in.Role),
				"salon_name": in.SalonName,
			}).
			WithFieldErrors(fieldErrs).
			WithError(msg).
			Build()
		h.renderStatus(w, r, formStatus(r), data)
		return
	}

	h.replaceSession(w, r, in.SessionID)
	Navigate(w, r, gate.HomePath(sess.User.Role))
}

// Logout clears the session and shows the signed-out page.
// POST /logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	role := domainauth.RoleCustomer
	if c, err := r.Cookie(h.cookieName()); err == nil && c.Value != "" {
		if sess := h.Sessions.CurrentUser(r.Context(), c.Value); sess != nil {
			role = sess.User.Role
		}
		if err := h.Auth.SignOut(r.Context(), c.Value); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.clearSessionCookie(w, r)

	u := url.URL{Path: "/signed-out", RawQuery: url.Values{"as": {string(role)}}.Encode()}
	Navigate(w, r, u.String())
}

// SignedOut confirms the sign out and links back to the right login page.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	role := domainauth.ParseRole(r.URL.Query().Get("as"))
	data := NewTemplateData(r, PageMeta{Title: "Signed out", CurrentPage: PageSignedOut}).
		With("LoginPath", gate.LoginPathForRole(role)).
		Build()
	h.renderPage(w, r, data)
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || isForwardedHTTPS(r)
}

// setSessionCookie writes the opaque session id cookie.
func (h *UIHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, sid string) {
	c := &http.Cookie{
		Name:     h.cookieName(),
		Value:    sid,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
	if h.SessionTTL > 0 {
		c.MaxAge = int(h.SessionTTL.Seconds())
	}
	http.SetCookie(w, c)
}

// clearSessionCookie expires the session cookie, mirroring the attributes it
// was set with.
func (h *UIHandlers) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName(),
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
