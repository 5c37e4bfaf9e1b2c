package httpx

import (
	"cmp"
	"context"
	"net/http"
	"net/url"

	"github.com/salonhub/salon-admin/internal/domain/gate"
	"github.com/salonhub/salon-admin/internal/fetch"
	"github.com/salonhub/salon-admin/internal/view"
)

// Loader fetches one backend collection with the request's API client.
type Loader[T any] func(ctx context.Context, r *http.Request) ([]T, error)

// DataEnricher adds page-specific data, such as aggregates over the filtered set.
type DataEnricher[T any] func(builder *TemplateDataBuilder, res view.Result[T])

// ListHandlerOpts contains all options needed for the generic collection page.
type ListHandlerOpts[T any] struct {
	// Handler is the UIHandlers instance for rendering (required)
	Handler *UIHandlers
	W       http.ResponseWriter
	R       *http.Request
	// Resource names the collection in logs and metrics.
	Resource string
	Load     Loader[T]
	Spec     view.Spec[T]
	PageMeta PageMeta
	// ItemsKey is the template data key for the current page of items.
	ItemsKey   string
	EnrichData DataEnricher[T]
	// Status overrides 200, for list pages re-rendered with form errors.
	Status int
}

// newPageFetcher builds the per-request fetcher. An auth failure clears the
// stored session and points the page at the role's login.
func newPageFetcher[T any](h *UIHandlers, r *http.Request, resource string, load Loader[T]) *fetch.Fetcher[T] {
	sid := GetSessionIDFromContext(r.Context())
	loginPath := gate.CustomerLoginPath
	if sess := GetSessionFromContext(r.Context()); sess != nil {
		loginPath = gate.LoginPathForRole(sess.User.Role)
	}
	return fetch.New(func(ctx context.Context) ([]T, error) {
		return load(ctx, r)
	}, fetch.Options{
		Name:      resource,
		LoginPath: loginPath,
		OnAuthFailure: func(ctx context.Context) {
			if sid == "" {
				return
			}
			if err := h.Sessions.Logout(ctx, sid); err != nil {
				h.logger().WarnContext(ctx, "clearing rejected session failed", "error", err)
			}
		},
		Metrics: h.Metrics,
		Logger:  h.logger(),
	})
}

// runFetch loads once; refresh=1 drops stale items first.
func runFetch[T any](r *http.Request, f *fetch.Fetcher[T]) fetch.Snapshot[T] {
	if r.URL.Query().Get(ParamRefresh) == "1" {
		return f.Refresh(r.Context(), true)
	}
	return f.Fetch(r.Context())
}

// sessionRejected ends a request whose token the backend refused: the cookie
// is dropped and the browser goes to login.
func (h *UIHandlers) sessionRejected(w http.ResponseWriter, r *http.Request, loginPath string) {
	h.clearSessionCookie(w, r)
	Navigate(w, r, loginRedirect(loginPath, redirectPathForRequest(r)))
}

func loginRedirect(loginPath, returnTo string) string {
	if loginPath == "" {
		loginPath = gate.CustomerLoginPath
	}
	if !gate.IsLocalPath(returnTo) {
		return loginPath
	}
	return loginPath + "?redirect_uri=" + url.QueryEscape(returnTo)
}

// HandleList runs gate-checked pages through fetch, derive and render. The
// gate already ran in middleware; a backend 401/403 still redirects.
func HandleList[T any](opts ListHandlerOpts[T]) {
	h, w, r := opts.Handler, opts.W, opts.R

	snap := runFetch(r, newPageFetcher(h, r, opts.Resource, opts.Load))
	if snap.Status == fetch.Redirect {
		h.sessionRejected(w, r, snap.RedirectTo)
		return
	}

	st := view.ParseState(opts.Spec, r.URL.Query())
	res := opts.Spec.Apply(snap.Items, st)

	builder := NewTemplateData(r, opts.PageMeta).
		With(opts.ItemsKey, res.Items).
		With("Result", res).
		With("Loaded", snap.Status == fetch.Success).
		With("Toolbar", BuildToolbar(r.URL.Path, opts.Spec, res.State)).
		With("Sorts", BuildSortLinks(r.URL.Path, opts.Spec, res.State)).
		WithPagination(res.Page, res.State).
		WithBanner(snap.Message)

	if opts.EnrichData != nil {
		opts.EnrichData(builder, res)
	}
	h.renderStatus(w, r, cmp.Or(opts.Status, http.StatusOK), builder.Build())
}
