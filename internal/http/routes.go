package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	salonadmin "github.com/salonhub/salon-admin"
	"github.com/salonhub/salon-admin/internal/apiclient"
	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/domain/gate"
	"github.com/salonhub/salon-admin/internal/observability/statsd"
	"github.com/salonhub/salon-admin/internal/service"
)

// RouterServices holds everything the console router needs.
type RouterServices struct {
	API      *apiclient.Client
	Sessions *service.SessionService
	Auth     *service.AuthService
	Metrics  statsd.Sink
	Logger   *slog.Logger

	IsDev        bool // templates and static files from disk, reparsed per request
	CookieName   string
	CookieDomain string
	SessionTTL   time.Duration

	CSRF               CSRFConfig
	CompressionEnabled bool
	Compression        CompressionConfig

	// TemplateFS and StaticFS override the embedded or on-disk assets.
	TemplateFS   fs.FS
	StaticFS     fs.FS
	AssetVersion string
	Now          func() time.Time

	// HealthChecks run on every /healthz request.
	HealthChecks map[string]HealthCheck
}

// NewRouter builds the console handler: auth pages, role-gated admin, owner
// and customer pages, health and static assets, wrapped in recovery, request
// logging, compression and CSRF protection.
func NewRouter(s RouterServices) (http.Handler, error) {
	if s.API == nil || s.Sessions == nil || s.Auth == nil {
		return nil, errors.New("router requires API, Sessions and Auth")
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, staticFS, err := assetFS(s)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS:   templateFS,
		DevMode:      s.IsDev,
		AssetVersion: s.AssetVersion,
		Logger:       logger,
		Now:          s.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("template renderer: %w", err)
	}

	h := &UIHandlers{
		T:            tr,
		API:          s.API,
		Sessions:     s.Sessions,
		Auth:         s.Auth,
		Metrics:      s.Metrics,
		Logger:       logger,
		IsDev:        s.IsDev,
		CookieName:   s.CookieName,
		CookieDomain: s.CookieDomain,
		SessionTTL:   s.SessionTTL,
		Now:          s.Now,
	}

	mux := http.NewServeMux()
	health := healthHandler(s.HealthChecks)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	mux.Handle("GET /static/", staticHandler(staticFS, s.IsDev))
	registerUIRoutes(mux, h)

	var handler http.Handler = mux
	if s.CSRF.Logger == nil {
		s.CSRF.Logger = logger
	}
	handler = CSRFProtection(s.CSRF)(handler)
	if s.CompressionEnabled {
		if s.Compression.Logger == nil {
			s.Compression.Logger = logger
		}
		handler = Compression(s.Compression)(handler)
	}
	handler = Logging(logger)(handler)
	return Recover(logger)(handler), nil
}

// assetFS picks template and static filesystems: explicit overrides, then
// disk in dev mode, then the embedded copies.
func assetFS(s RouterServices) (fs.FS, fs.FS, error) {
	templates, static := s.TemplateFS, s.StaticFS
	if templates == nil {
		if s.IsDev {
			templates = os.DirFS(TemplatePathFromRoot)
		} else {
			sub, err := fs.Sub(salonadmin.TemplateFS, TemplatePathFromRoot)
			if err != nil {
				return nil, nil, fmt.Errorf("embedded templates: %w", err)
			}
			templates = sub
		}
	}
	if static == nil {
		if s.IsDev {
			static = os.DirFS(StaticPathFromRoot)
		} else {
			sub, err := fs.Sub(salonadmin.StaticFS, StaticPathFromRoot)
			if err != nil {
				return nil, nil, fmt.Errorf("embedded static assets: %w", err)
			}
			static = sub
		}
	}
	return templates, static, nil
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers) {
	optional := OptionalSession(h.Sessions, h.cookieName())
	gateFor := func(roles ...domainauth.Role) func(http.Handler) http.Handler {
		return RequireRoles(GateConfig{Sessions: h.Sessions, CookieName: h.cookieName(), Denied: h.Denied}, roles...)
	}
	admin := gateFor(domainauth.RoleAdmin)
	owner := gateFor(domainauth.RoleOwner)
	customer := gateFor(domainauth.RoleCustomer)

	mux.Handle("GET /{$}", optional(http.HandlerFunc(h.Home)))
	for _, aud := range []Audience{AdminAudience, OwnerAudience, CustomerAudience} {
		mux.Handle("GET "+aud.Path, optional(h.LoginPage(aud)))
		mux.Handle("POST "+aud.Path, optional(h.LoginSubmit(aud)))
	}
	mux.Handle("GET /register", optional(http.HandlerFunc(h.RegisterPage)))
	mux.Handle("POST /register", optional(http.HandlerFunc(h.RegisterSubmit)))
	mux.HandleFunc("POST /logout", h.Logout)
	mux.Handle("GET /signed-out", optional(http.HandlerFunc(h.SignedOut)))

	mux.Handle("GET /admin", admin(http.HandlerFunc(h.AdminDashboard)))
	mux.Handle("GET /admin/salons", admin(http.HandlerFunc(h.AdminSalons)))
	mux.Handle("GET /admin/owners", admin(http.HandlerFunc(h.AdminOwners)))
	mux.Handle("POST /admin/owners/{id}/approve", admin(h.OwnerDecision(true)))
	mux.Handle("POST /admin/owners/{id}/reject", admin(h.OwnerDecision(false)))
	mux.Handle("GET /admin/customers", admin(http.HandlerFunc(h.AdminCustomers)))
	mux.Handle("GET /admin/payments", admin(http.HandlerFunc(h.AdminPayments)))
	mux.Handle("GET /admin/reports/revenue", admin(http.HandlerFunc(h.AdminRevenue)))

	mux.Handle("GET /owner", owner(http.HandlerFunc(h.OwnerDashboard)))
	mux.Handle("GET /owner/appointments", owner(http.HandlerFunc(h.OwnerAppointments)))
	mux.Handle("POST /owner/appointments/{id}/status", owner(http.HandlerFunc(h.UpdateAppointmentStatus)))
	mux.Handle("GET /owner/customers", owner(http.HandlerFunc(h.OwnerCustomers)))
	mux.Handle("GET /owner/promotions", owner(http.HandlerFunc(h.OwnerPromotions)))
	mux.Handle("POST /owner/promotions", owner(http.HandlerFunc(h.CreatePromotion)))
	mux.Handle("POST /owner/promotions/{id}/toggle", owner(http.HandlerFunc(h.TogglePromotion)))
	mux.Handle("GET /owner/reports", owner(http.HandlerFunc(h.OwnerReports)))

	mux.Handle("GET /account/appointments", customer(http.HandlerFunc(h.MyAppointments)))
	mux.Handle("GET /account/book", customer(http.HandlerFunc(h.BookPage)))
	mux.Handle("POST /account/book", customer(http.HandlerFunc(h.BookSubmit)))
	mux.Handle("GET /account/loyalty", customer(http.HandlerFunc(h.Loyalty)))

	// Anything unmatched, including wrong methods on known paths.
	mux.Handle("/", optional(http.HandlerFunc(h.NotFound)))
}

// Home sends a signed-in user to their role's landing page and everyone else
// to the customer login.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	if sess := GetSessionFromContext(r.Context()); sess != nil && !sess.IsGuest() {
		Navigate(w, r, gate.HomePath(sess.User.Role))
		return
	}
	Navigate(w, r, gate.CustomerLoginPath)
}

// staticHandler serves /static/*. Embedded assets are cache-busted by the
// ?v= version on every URL; dev assets are never cached.
func staticHandler(fsys fs.FS, isDev bool) http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev || r.URL.Query().Get("v") == "" {
			w.Header().Set("Cache-Control", "no-cache")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		files.ServeHTTP(w, r)
	})
}
