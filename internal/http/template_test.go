package httpx

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_LoadTemplates(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	require.NotNil(t, tr)

	for _, name := range []string{"layout", "content", "error-layout", "toolbar", "pagination", "banner"} {
		assert.True(t, tr.Lookup(name), "template %s should be loaded", name)
	}
}

// Every page routed by ContentTemplateFor must have its content template.
func TestTemplateRenderer_EveryPageHasContent(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	for page, name := range ContentTemplateMap() {
		assert.True(t, tr.Lookup(name), "page %s needs template %s", page, name)
	}
}

func TestTemplateRenderer_FullAndPartial(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	r := httptest.NewRequest(http.MethodGet, "/signed-out", nil)
	data := NewTemplateData(r, PageMeta{Title: "Signed out", CurrentPage: PageSignedOut}).
		With("LoginPath", "/owner/login").
		Build()

	full := httptest.NewRecorder()
	require.NoError(t, tr.RenderFull(full, r, data))
	assert.True(t, ContainsAll(full.Body.String(), []string{"<!doctype html>", `id="main"`, "You're signed out", `href="/owner/login"`}))

	partial := httptest.NewRecorder()
	require.NoError(t, tr.RenderPartial(partial, r, data))
	body := partial.Body.String()
	assert.NotContains(t, body, "<!doctype html>")
	assert.Contains(t, body, "<title>Signed out · SalonHub</title>")
	assert.Contains(t, body, `hx-swap-oob="true"`)
}

// Boosted links, toolbar filters and Retry all swap #main; a newer request
// must abort the one still in flight so a slow response cannot land last.
func TestTemplateRenderer_BodySyncsSwaps(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	r := httptest.NewRequest(http.MethodGet, "/signed-out", nil)
	data := NewTemplateData(r, PageMeta{Title: "Signed out", CurrentPage: PageSignedOut}).Build()

	full := httptest.NewRecorder()
	require.NoError(t, tr.RenderFull(full, r, data))
	body := full.Body.String()
	assert.Contains(t, body, `<body hx-boost="true" hx-target="#main" hx-sync="this:replace"`)
	assert.Equal(t, 1, strings.Count(body, "hx-sync="), "no element may override the body sync strategy")

	files, err := filepath.Glob(filepath.Join(TemplatePathFromTest, "*", "*.tmpl"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		b, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.NotContains(t, string(b), "hx-sync=", f)
	}
}

func TestContentTemplateFor(t *testing.T) {
	assert.Equal(t, "customers-content", ContentTemplateFor(PageAdminCustomers))
	assert.Equal(t, "customers-content", ContentTemplateFor(PageOwnerCustomers))
	assert.Equal(t, "not-found-content", ContentTemplateFor("no-such-page"))
}
