package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
)

const (
	// CSRFCookieName carries the masked CSRF secret.
	CSRFCookieName = "salon_csrf"
	// CSRFFieldName is the hidden form field templates render.
	CSRFFieldName = "csrf_token"
	// CSRFHeaderName is sent by htmx on every non-GET request.
	CSRFHeaderName = "X-CSRF-Token"
)

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	// Key is the 32-byte authentication key. Protection is disabled when empty.
	Key []byte
	// Secure marks the cookie Secure; set it whenever the console is served over TLS.
	Secure bool
	// TrustedOrigins lists extra host[:port] values allowed as Origin/Referer.
	TrustedOrigins []string
	CookieDomain   string
	Logger         *slog.Logger
}

// CSRFProtection wraps gorilla/csrf. Plain-HTTP requests are marked as such so
// local development passes the origin check.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	if len(cfg.Key) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := []csrf.Option{
		csrf.Secure(cfg.Secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.CookieName(CSRFCookieName),
		csrf.FieldName(CSRFFieldName),
		csrf.RequestHeader(CSRFHeaderName),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.WarnContext(r.Context(), "csrf check failed",
				"path", r.URL.Path,
				"reason", csrf.FailureReason(r))
			http.Error(w, "Your form expired. Reload the page and try again.", http.StatusForbidden)
		})),
	}
	if cfg.CookieDomain != "" {
		opts = append(opts, csrf.Domain(cfg.CookieDomain))
	}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}
	protect := csrf.Protect(cfg.Key, opts...)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil && !isForwardedHTTPS(r) {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// isForwardedHTTPS checks if the request was forwarded over HTTPS.
// Handles comma-separated values in X-Forwarded-Proto header.
func isForwardedHTTPS(r *http.Request) bool {
	for proto := range strings.SplitSeq(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

// GetCSRFToken returns the masked token for the current request, or "" when
// protection is disabled.
func GetCSRFToken(r *http.Request) string {
	return csrf.Token(r)
}
