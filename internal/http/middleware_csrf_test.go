package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCSRFKey = []byte("0123456789abcdef0123456789abcdef")

func csrfEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	})
}

func TestCSRFProtection_DisabledWithoutKey(t *testing.T) {
	h := CSRFProtection(CSRFConfig{})(csrfEcho())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestCSRFProtection_PostWithoutTokenFails(t *testing.T) {
	h := CSRFProtection(CSRFConfig{Key: testCSRFKey})(csrfEcho())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCSRFProtection_RoundTrip(t *testing.T) {
	h := CSRFProtection(CSRFConfig{Key: testCSRFKey})(csrfEcho())

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "http://console.test/login", nil))
	require.Equal(t, http.StatusOK, get.Code)
	token := get.Body.String()
	require.NotEmpty(t, token)

	var cookie *http.Cookie
	for _, c := range get.Result().Cookies() {
		if c.Name == CSRFCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "csrf cookie should be issued on GET")
	assert.True(t, cookie.HttpOnly)

	t.Run("form field", func(t *testing.T) {
		form := url.Values{CSRFFieldName: {token}}
		req := httptest.NewRequest(http.MethodPost, "http://console.test/logout", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Origin", "http://console.test")
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("htmx header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://console.test/logout", nil)
		req.Header.Set(CSRFHeaderName, token)
		req.Header.Set("Origin", "http://console.test")
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://console.test/logout", nil)
		req.Header.Set(CSRFHeaderName, token)
		req.Header.Set("Origin", "http://evil.test")
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestIsForwardedHTTPS(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isForwardedHTTPS(r))
	r.Header.Set("X-Forwarded-Proto", "http, https")
	assert.True(t, isForwardedHTTPS(r))
}
