package httpx

import (
	"net/http"
	"net/url"

	"github.com/salonhub/salon-admin/internal/http/ui/viewmodel"
	"github.com/salonhub/salon-admin/internal/view"
)

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds pagination links built from the list state.
func (b *TemplateDataBuilder) WithPagination(info view.PageInfo, st view.State) *TemplateDataBuilder {
	b.data["Pagination"] = BuildPagination(b.r.URL.Path, info, st)
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// WithBanner adds a load-failure banner with a retry link to the current URL.
func (b *TemplateDataBuilder) WithBanner(message string) *TemplateDataBuilder {
	if message == "" {
		return b
	}
	b.data["Banner"] = viewmodel.Banner{Message: message, RetryURL: RetryURL(b.r.URL)}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// ParamRefresh marks a retry: the fetcher drops stale items before reloading.
const ParamRefresh = "refresh"

// RetryURL returns u with refresh=1 so the retry reloads from scratch.
func RetryURL(u *url.URL) string {
	q := u.Query()
	q.Set(ParamRefresh, "1")
	return u.Path + "?" + q.Encode()
}

func stateURL(basePath string, st view.State) string {
	if enc := st.Encode(); enc != "" {
		return basePath + "?" + enc
	}
	return basePath
}

// BuildPagination turns page metadata into links that keep search, filters and sort.
func BuildPagination(basePath string, info view.PageInfo, st view.State) viewmodel.Pagination {
	p := viewmodel.Pagination{
		Page:       info.Page,
		TotalPages: info.TotalPages,
		HasPrev:    info.HasPrev(),
		HasNext:    info.HasNext(),
		StartIndex: info.StartRow(),
		EndIndex:   info.EndRow(),
		TotalCount: info.Total,
	}
	if p.HasPrev {
		p.PrevURL = stateURL(basePath, st.WithPage(info.PrevPage()))
	}
	if p.HasNext {
		p.NextURL = stateURL(basePath, st.WithPage(info.NextPage()))
	}
	if info.ShowPagination() {
		for _, n := range info.PageNumbers() {
			p.Pages = append(p.Pages, viewmodel.PageLink{
				Number:  n,
				URL:     stateURL(basePath, st.WithPage(n)),
				Current: n == info.Page,
			})
		}
	}
	return p
}

// BuildSortLinks returns one header link per sort key. Clicking the active
// column flips its direction.
func BuildSortLinks[T any](basePath string, spec view.Spec[T], st view.State) map[string]viewmodel.SortLink {
	links := make(map[string]viewmodel.SortLink, len(spec.Sorts))
	for _, k := range spec.Sorts {
		active := st.Sort == k.Key
		link := viewmodel.SortLink{
			Key:    k.Key,
			Label:  k.Label,
			URL:    stateURL(basePath, st.ToggleSort(k.Key, k.DefaultDir)),
			Active: active,
		}
		if active {
			link.Dir = string(st.Dir)
		}
		links[k.Key] = link
	}
	return links
}

// BuildToolbar describes the search box and facet controls for a list page.
func BuildToolbar[T any](basePath string, spec view.Spec[T], st view.State) viewmodel.Toolbar {
	tb := viewmodel.Toolbar{
		Action:      basePath,
		Search:      st.Search,
		Fingerprint: st.Fingerprint(),
		Sort:        st.Sort,
		Dir:         string(st.Dir),
		Active:      st.Search != "" || len(st.Filters) > 0,
	}
	for _, f := range spec.Facets {
		value := st.Filter(f.Param)
		ctl := viewmodel.Filter{Param: f.Param, Label: f.Label, Kind: string(f.Kind), Value: value}
		for _, o := range f.Options {
			ctl.Options = append(ctl.Options, viewmodel.FilterOption{
				Value:    o.Value,
				Label:    o.Label,
				Selected: o.Value == value,
			})
		}
		tb.Filters = append(tb.Filters, ctl)
	}
	cleared := view.State{Sort: st.Sort, Dir: st.Dir, Page: 1}
	tb.ClearURL = stateURL(basePath, cleared)
	return tb
}
