package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	corefuncs "github.com/salonhub/salon-admin/internal/http/templates/core"
)

var templatePatterns = []string{"*.tmpl", "pages/*.tmpl", "partials/*.tmpl"}

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	fsys    fs.FS
	devMode bool
	logger  *slog.Logger
	now     func() time.Time
	version string

	mu sync.RWMutex
	t  *template.Template
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS // Filesystem containing templates (required)
	// DevMode re-parses templates before every render.
	DevMode bool
	// AssetVersion is appended to static URLs for cache busting.
	AssetVersion string
	Logger       *slog.Logger
	Now          func() time.Time
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	r := &TemplateRenderer{
		fsys:    cfg.TemplateFS,
		devMode: cfg.DevMode,
		logger:  logger,
		now:     now,
		version: cfg.AssetVersion,
	}
	t, err := r.parse()
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "initialization"))
		return nil, err
	}
	r.t = t
	return r, nil
}

func (r *TemplateRenderer) parse() (*template.Template, error) {
	var t *template.Template
	funcs := r.funcs(&t)
	parsed, err := template.New("root").Funcs(funcs).ParseFS(r.fsys, templatePatterns...)
	if err != nil {
		return nil, err
	}
	t = parsed
	return t, nil
}

func (r *TemplateRenderer) funcs(t **template.Template) template.FuncMap {
	funcs := template.FuncMap{}
	mergeTemplateFuncs(funcs,
		corefuncs.Funcs(corefuncs.Deps{
			Template:           t,
			ContentTemplateFor: ContentTemplateFor,
			Now:                r.now,
		}),
		template.FuncMap{
			"static": func(path string) string {
				if r.version == "" {
					return "/static/" + path
				}
				return "/static/" + path + "?v=" + r.version
			},
			"isDev": func() bool { return r.devMode },
		},
	)
	return funcs
}

func (r *TemplateRenderer) templates() *template.Template {
	if r.devMode {
		t, err := r.parse()
		if err == nil {
			r.mu.Lock()
			r.t = t
			r.mu.Unlock()
			return t
		}
		r.logger.Error("template reload failed", slog.Any("error", err))
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.t
}

// Lookup reports whether a named template is defined.
func (r *TemplateRenderer) Lookup(name string) bool {
	return r.templates().Lookup(name) != nil
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "layout", data)
}

// RenderPartial renders only the main content area plus out-of-band header updates.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "content", data)
}

// RenderFragment renders a single named template, used for in-place htmx swaps.
func (r *TemplateRenderer) RenderFragment(w http.ResponseWriter, name string, data any) error {
	return r.renderTemplate(w, name, data)
}

// RenderError renders a standalone error page.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "error-layout", data)
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, templateName string, data any) error {
	var buf bytes.Buffer
	if err := r.templates().ExecuteTemplate(&buf, templateName, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", templateName),
			slog.Any("error", err),
		)
		return err
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", templateName),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func mergeTemplateFuncs(dst template.FuncMap, sources ...template.FuncMap) {
	for _, src := range sources {
		maps.Copy(dst, src)
	}
}
