package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"testing"

	domainauth "github.com/salonhub/salon-admin/internal/domain/auth"
	"github.com/salonhub/salon-admin/internal/ports"
	"github.com/salonhub/salon-admin/internal/service"
)

// RequireTemplateRenderer loads the console templates from disk, skipping the
// test when they are not reachable from the working directory.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	if err != nil {
		t.Skipf("templates not available: %v", err)
		return nil
	}
	return tr
}

// SkipIfNoTemplates skips router-level tests that render pages.
func SkipIfNoTemplates(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("templates not available")
	}
}

// ContainsAll reports whether s contains every one of subs.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// CreateUIHandlersForTest returns page handlers backed by store with the
// session cache disabled, so tests observe store writes immediately.
func CreateUIHandlersForTest(t *testing.T, store ports.SessionStore) *UIHandlers {
	t.Helper()
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return nil
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &UIHandlers{
		T:        tr,
		Sessions: service.NewSessionService(service.SessionServiceOptions{Store: store, CacheTTL: -1, Logger: logger}),
		Logger:   logger,
	}
}

// WithSession returns r carrying sid and sess the way RequireRoles leaves them
// for a handler.
func WithSession(r *http.Request, sid string, sess *domainauth.Session) *http.Request {
	ctx := setSessionIDInContext(r.Context(), sid)
	return r.WithContext(SetSessionInContext(ctx, sess))
}

// SessionCookieCleared reports whether resp expires the session cookie.
func SessionCookieCleared(resp *http.Response) bool {
	for _, c := range resp.Cookies() {
		if c.Name == DefaultSessionCookieName && c.MaxAge < 0 {
			return true
		}
	}
	return false
}
