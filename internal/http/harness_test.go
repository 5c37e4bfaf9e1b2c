package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/salonhub/salon-admin/internal/adapters/memstore"
	"github.com/salonhub/salon-admin/internal/apiclient"
	"github.com/salonhub/salon-admin/internal/devapi"
	"github.com/salonhub/salon-admin/internal/service"
)

// console is the full router in front of the fixture backend.
type console struct {
	t       *testing.T
	handler http.Handler
	store   *memstore.SessionStore
}

func newConsole(t *testing.T) *console {
	t.Helper()
	SkipIfNoTemplates(t)

	backend, err := devapi.New(devapi.Options{Secret: []byte("router-test-secret"), BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	api, err := apiclient.New(apiclient.Options{BaseURL: ts.URL + "/api", Timeout: 5 * time.Second})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.NewSessionStore()
	sessions := service.NewSessionService(service.SessionServiceOptions{Store: store, CacheTTL: -1, Logger: logger})
	handler, err := NewRouter(RouterServices{
		API:        api,
		Sessions:   sessions,
		Auth:       service.NewAuthService(service.AuthServiceOptions{Backend: api, Sessions: sessions}),
		Logger:     logger,
		TemplateFS: os.DirFS(TemplatePathFromTest),
		StaticFS:   os.DirFS("../../" + StaticPathFromRoot),
	})
	require.NoError(t, err)
	return &console{t: t, handler: handler, store: store}
}

type reqOpt func(*http.Request)

// asHTMX marks the request as an htmx swap issued from page.
func asHTMX(page string) reqOpt {
	return func(r *http.Request) {
		r.Header.Set("Hx-Request", "true")
		if page != "" {
			r.Header.Set("Hx-Current-Url", "http://console.test"+page)
		}
	}
}

func withCookie(c *http.Cookie) reqOpt {
	return func(r *http.Request) {
		if c != nil {
			r.AddCookie(c)
		}
	}
}

func (c *console) do(r *http.Request, opts ...reqOpt) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, o := range opts {
		o(r)
	}
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, r)
	return rr
}

func (c *console) get(target string, opts ...reqOpt) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, target, nil), opts...)
}

func (c *console) post(target string, form url.Values, opts ...reqOpt) *httptest.ResponseRecorder {
	c.t.Helper()
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(r, opts...)
}

// signIn posts the login form and returns the issued session cookie.
func (c *console) signIn(loginPath, email, password string) *http.Cookie {
	c.t.Helper()
	rr := c.post(loginPath, url.Values{"email": {email}, "password": {password}})
	require.Equal(c.t, http.StatusSeeOther, rr.Code, rr.Body.String())
	cookie := sessionCookie(rr)
	require.NotNil(c.t, cookie, "login should set the session cookie")
	return cookie
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == DefaultSessionCookieName && ck.Value != "" {
			return ck
		}
	}
	return nil
}

// firstMatch returns the first capture group of pattern in body.
func firstMatch(t *testing.T, body, pattern string) string {
	t.Helper()
	m := regexp.MustCompile(pattern).FindStringSubmatch(body)
	require.Len(t, m, 2, "pattern %q not found", pattern)
	return m[1]
}
