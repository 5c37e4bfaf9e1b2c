package httpx

import (
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompression(t *testing.T) {
	body := strings.Repeat("Hello, salon! ", 500)
	html := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	})

	tests := []struct {
		name           string
		acceptEncoding string
		method         string
		level          int
		expectGzip     bool
	}{
		{name: "client accepts gzip", acceptEncoding: "gzip, deflate", expectGzip: true},
		{name: "client does not accept gzip", acceptEncoding: "deflate"},
		{name: "no accept-encoding header"},
		{name: "gzip disabled by q-value", acceptEncoding: "gzip;q=0, deflate"},
		{name: "fastest level", acceptEncoding: "gzip", level: gzip.BestSpeed, expectGzip: true},
		{name: "invalid level falls back", acceptEncoding: "gzip", level: 42, expectGzip: true},
		{name: "head passes through", acceptEncoding: "gzip", method: http.MethodHead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req := httptest.NewRequest(method, "/", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rr := httptest.NewRecorder()
			Compression(CompressionConfig{Level: tt.level})(html).ServeHTTP(rr, req)

			if !tt.expectGzip {
				assert.Empty(t, rr.Header().Get("Content-Encoding"))
				if method == http.MethodGet {
					assert.Equal(t, body, rr.Body.String())
				}
				return
			}
			assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
			assert.Contains(t, rr.Header().Values("Vary"), "Accept-Encoding")
			zr, err := gzip.NewReader(rr.Body)
			require.NoError(t, err)
			got, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.Equal(t, body, string(got))
		})
	}
}

func TestCompression_SkipsBinaryAndEmptyResponses(t *testing.T) {
	png := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})
	noContent := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for name, h := range map[string]http.Handler{"png": png, "no content": noContent} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			rr := httptest.NewRecorder()
			Compression(CompressionConfig{})(h).ServeHTTP(rr, req)
			assert.Empty(t, rr.Header().Get("Content-Encoding"))
		})
	}
}

func TestCompression_DetectsContentType(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<!DOCTYPE html><html><body>hi</body></html>"))
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	Compression(CompressionConfig{})(h).ServeHTTP(rr, req)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/owner", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "path=/owner")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/salons", nil)
	req.Header.Set("Hx-Request", "true")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/admin/salons")
	assert.Contains(t, out, "htmx=true")
}
