package httpx

import (
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/salonhub/salon-admin/internal/apiclient"
	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/domain/gate"
	"github.com/salonhub/salon-admin/internal/http/ui/viewmodel"
	"github.com/salonhub/salon-admin/internal/observability/statsd"
	"github.com/salonhub/salon-admin/internal/service"
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T        *TemplateRenderer
	API      *apiclient.Client
	Sessions *service.SessionService
	Auth     *service.AuthService
	Metrics  statsd.Sink
	Logger   *slog.Logger
	// IsDev renders template errors inline.
	IsDev bool
	// CookieName is the session cookie; DefaultSessionCookieName when empty.
	CookieName   string
	CookieDomain string
	// SessionTTL sets the cookie Max-Age; a browser-session cookie when zero.
	SessionTTL time.Duration
	Now        func() time.Time
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *UIHandlers) cookieName() string {
	if h.CookieName != "" {
		return h.CookieName
	}
	return DefaultSessionCookieName
}

// backend returns an API client carrying the bearer token of the request's session.
func (h *UIHandlers) backend(r *http.Request) *apiclient.Client {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		return h.API
	}
	return h.API.WithToken(sess.Token)
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

var (
	adminNav = []viewmodel.NavItem{
		{Label: "Dashboard", Href: "/admin", Page: PageAdminDashboard},
		{Label: "Salons", Href: "/admin/salons", Page: PageAdminSalons},
		{Label: "Owners", Href: "/admin/owners", Page: PageAdminOwners},
		{Label: "Customers", Href: "/admin/customers", Page: PageAdminCustomers},
		{Label: "Payments", Href: "/admin/payments", Page: PageAdminPayments},
		{Label: "Revenue", Href: "/admin/reports/revenue", Page: PageAdminRevenue},
	}
	ownerNav = []viewmodel.NavItem{
		{Label: "Dashboard", Href: "/owner", Page: PageOwnerDashboard},
		{Label: "Appointments", Href: "/owner/appointments", Page: PageOwnerAppointments},
		{Label: "Customers", Href: "/owner/customers", Page: PageOwnerCustomers},
		{Label: "Promotions", Href: "/owner/promotions", Page: PageOwnerPromotions},
		{Label: "Reports", Href: "/owner/reports", Page: PageOwnerReports},
	}
	customerNav = []viewmodel.NavItem{
		{Label: "My appointments", Href: "/account/appointments", Page: PageMyAppointments},
		{Label: "Book", Href: "/account/book", Page: PageBook},
		{Label: "Loyalty", Href: "/account/loyalty", Page: PageLoyalty},
	}
)

// navFor returns the sidebar for a role. Pending owners get no sidebar.
func navFor(sess *domainauth.Session) []viewmodel.NavItem {
	if sess == nil || !sess.Approved() {
		return nil
	}
	switch sess.User.Role {
	case domainauth.RoleAdmin:
		return adminNav
	case domainauth.RoleOwner:
		return ownerNav
	case domainauth.RoleCustomer:
		return customerNav
	default:
		return nil
	}
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}
	if layout.PageTitle == "" {
		layout.PageTitle = meta.Title
	}

	if session := GetSessionFromContext(r.Context()); session != nil && !session.IsGuest() {
		layout.User = &viewmodel.User{
			Name:  session.User.DisplayName,
			Email: session.User.Email,
			Role:  string(session.User.Role),
		}
		layout.IsAuthenticated = true
		layout.Nav = navFor(session)
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title + " · SalonHub",
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"Nav":             layout.Nav,
		"CSRFToken":       layout.CSRFToken,
		"CSRFFieldName":   CSRFFieldName,
		"Errors":          map[string]string{},
		"Path":            r.URL.Path,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// renderPage renders a full page, or for htmx requests the content section
// plus out-of-band title updates.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	h.renderStatus(w, r, http.StatusOK, data)
}

// renderStatus renders a page with the given status.
func (h *UIHandlers) renderStatus(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	partial := WantsPartial(r)
	if partial {
		SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}

	render, context := h.T.RenderFull, "full page render"
	if partial {
		render, context = h.T.RenderPartial, "partial content render"
	}
	if err := render(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, context)
	}
}

// NotFound renders the not-found page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Not found", CurrentPage: PageNotFound}).Build()
	h.renderStatus(w, r, http.StatusNotFound, data)
}

// Denied renders the unauthorized or pending-approval view for a gate decision.
func (h *UIHandlers) Denied(w http.ResponseWriter, r *http.Request, d gate.Decision) {
	meta := PageMeta{Title: "Access denied", CurrentPage: PageUnauthorized}
	switch d.Reason {
	case gate.ReasonPendingApproval:
		meta = PageMeta{Title: "Awaiting approval", CurrentPage: PagePending}
	case gate.ReasonRejected:
		meta = PageMeta{Title: "Application declined", CurrentPage: PagePending}
	}
	data := NewTemplateData(r, meta).With("Reason", d.Reason)
	if sess := GetSessionFromContext(r.Context()); sess != nil {
		data.With("HomePath", gate.HomePath(sess.User.Role))
	}
	h.renderStatus(w, r, http.StatusForbidden, data.Build())
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().ErrorContext(r.Context(), "template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="template-error"><h2>Template rendering error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`))
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
