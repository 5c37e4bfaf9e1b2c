package view

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Query parameter names shared by every list page.
const (
	ParamSearch      = "q"
	ParamSort        = "sort"
	ParamDir         = "dir"
	ParamPage        = "page"
	ParamFingerprint = "fp"
)

// State is the ephemeral search/filter/sort/page input of a list page.
// Values are treated as immutable; the With* methods return copies.
type State struct {
	Search  string
	Filters map[string]string
	Sort    string
	Dir     Dir
	Page    int
}

// Filter returns the value of one facet, or "".
func (s State) Filter(param string) string {
	return s.Filters[param]
}

// WithSearch returns a copy with new search text and the page reset to 1.
func (s State) WithSearch(q string) State {
	out := s.clone()
	out.Search = strings.TrimSpace(q)
	out.Page = 1
	return out
}

// WithFilter returns a copy with one facet set (or cleared when value is empty)
// and the page reset to 1.
func (s State) WithFilter(param, value string) State {
	out := s.clone()
	value = strings.TrimSpace(value)
	if value == "" {
		delete(out.Filters, param)
	} else {
		out.Filters[param] = value
	}
	out.Page = 1
	return out
}

// WithSort returns a copy with a new ordering and the page reset to 1.
func (s State) WithSort(key string, dir Dir) State {
	out := s.clone()
	out.Sort = key
	out.Dir = dir
	out.Page = 1
	return out
}

// WithPage returns a copy on another page; nothing else changes.
func (s State) WithPage(page int) State {
	out := s.clone()
	out.Page = page
	return out
}

// ToggleSort returns the state for clicking a column header: the same key flips
// direction, a new key starts at its default direction.
func (s State) ToggleSort(key string, defaultDir Dir) State {
	if s.Sort == key {
		return s.WithSort(key, s.Dir.Flip())
	}
	return s.WithSort(key, defaultDir)
}

func (s State) clone() State {
	out := s
	out.Filters = make(map[string]string, len(s.Filters))
	maps.Copy(out.Filters, s.Filters)
	return out
}

// Fingerprint hashes everything except the page number. A request whose
// fingerprint differs from the rendered one changed filters and starts at page 1.
func (s State) Fingerprint() string {
	h := xxhash.New()
	_, _ = h.WriteString(strings.ToLower(s.Search))
	_, _ = h.WriteString("\x00")
	for _, k := range slices.Sorted(maps.Keys(s.Filters)) {
		v := s.Filters[k]
		if v == "" {
			continue
		}
		_, _ = h.WriteString(k)
		_, _ = h.WriteString("=")
		_, _ = h.WriteString(v)
		_, _ = h.WriteString("\x00")
	}
	_, _ = h.WriteString(s.Sort)
	_, _ = h.WriteString(string(s.Dir))
	return strconv.FormatUint(h.Sum64(), 36)
}

// Query renders the state as URL parameters, including its fingerprint.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Search != "" {
		q.Set(ParamSearch, s.Search)
	}
	for k, v := range s.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	if s.Sort != "" {
		q.Set(ParamSort, s.Sort)
	}
	if s.Dir != "" {
		q.Set(ParamDir, string(s.Dir))
	}
	if s.Page > 1 {
		q.Set(ParamPage, strconv.Itoa(s.Page))
	}
	q.Set(ParamFingerprint, s.Fingerprint())
	return q
}

// Encode is Query().Encode().
func (s State) Encode() string {
	return s.Query().Encode()
}

// ParseState reads list state from query parameters. Only facets declared by
// spec are kept. When the request carries a fingerprint that no longer matches
// its filters the page is reset to 1.
func ParseState[T any](spec Spec[T], q url.Values) State {
	st := State{
		Search:  strings.TrimSpace(q.Get(ParamSearch)),
		Filters: make(map[string]string),
		Page:    1,
	}
	for _, f := range spec.Facets {
		if v := strings.TrimSpace(q.Get(f.Param)); v != "" {
			st.Filters[f.Param] = v
		}
	}

	st.Sort, st.Dir = spec.resolveSort(q.Get(ParamSort), q.Get(ParamDir))

	if p, err := strconv.Atoi(q.Get(ParamPage)); err == nil && p > 1 {
		st.Page = p
	}
	if fp := q.Get(ParamFingerprint); fp != "" && fp != st.Fingerprint() {
		st.Page = 1
	}
	return st
}
