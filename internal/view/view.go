// Package view derives what a list page shows from a fetched collection:
// free-text search, facet filters, stable sorting, pagination and aggregates.
// Every function here is total; bad input degrades to "no constraint".
package view

import (
	"slices"
	"strings"
)

// Spec declares the searchable fields, facets and sort keys of one page.
type Spec[T any] struct {
	SearchFields []func(T) string
	Facets       []Facet[T]
	Sorts        []SortKey[T]
	DefaultSort  string
	PageSize     int
}

// Result is the derived view of a collection for one State.
type Result[T any] struct {
	// Items is the current page.
	Items []T
	// Filtered is every record that passed search and facets, sorted.
	// Aggregates are computed over this set.
	Filtered []T
	// Total is the size of the raw collection.
	Total int
	Page  PageInfo
	// State is the input with sort resolved and the page clamped.
	State State
}

// Empty reports whether nothing matched.
func (r Result[T]) Empty() bool { return len(r.Filtered) == 0 }

// Filtering reports whether search or facets removed anything.
func (r Result[T]) Filtering() bool { return len(r.Filtered) != r.Total }

func (s Spec[T]) pageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return DefaultPageSize
}

// SortKey returns the sort declared under key.
func (s Spec[T]) SortKey(key string) (SortKey[T], bool) {
	for _, k := range s.Sorts {
		if k.Key == key {
			return k, true
		}
	}
	return SortKey[T]{}, false
}

// resolveSort maps requested sort parameters to a declared key and direction,
// falling back to the default sort.
func (s Spec[T]) resolveSort(key, dir string) (string, Dir) {
	k, ok := s.SortKey(strings.TrimSpace(key))
	if !ok {
		k, ok = s.SortKey(s.DefaultSort)
	}
	if !ok {
		if len(s.Sorts) == 0 {
			return "", ""
		}
		k = s.Sorts[0]
	}
	d, ok := ParseDir(dir)
	if !ok {
		d = k.DefaultDir
	}
	return k.Key, d
}

// Filter applies search and facets. The input is not modified.
func (s Spec[T]) Filter(items []T, st State) []T {
	search := strings.ToLower(strings.TrimSpace(st.Search))

	var preds []func(T) bool
	for _, f := range s.Facets {
		if p, ok := f.Predicate(st.Filter(f.Param)); ok {
			preds = append(preds, p)
		}
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if !s.matchesSearch(item, search) {
			continue
		}
		if !matchesAll(item, preds) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (s Spec[T]) matchesSearch(item T, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range s.SearchFields {
		if strings.Contains(strings.ToLower(field(item)), needle) {
			return true
		}
	}
	return false
}

func matchesAll[T any](item T, preds []func(T) bool) bool {
	for _, p := range preds {
		if !p(item) {
			return false
		}
	}
	return true
}

// Sort returns a stably sorted copy.
func (s Spec[T]) Sort(items []T, key string, dir Dir) []T {
	out := slices.Clone(items)
	k, ok := s.SortKey(key)
	if !ok {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int { return k.Compare(a, b, dir) })
	return out
}

// Apply runs search, facets, sort and pagination.
func (s Spec[T]) Apply(items []T, st State) Result[T] {
	st = st.clone()
	st.Sort, st.Dir = s.resolveSort(st.Sort, string(st.Dir))

	filtered := s.Sort(s.Filter(items, st), st.Sort, st.Dir)
	info := NewPageInfo(st.Page, s.pageSize(), len(filtered))
	st.Page = info.Page

	return Result[T]{
		Items:    Paginate(filtered, info),
		Filtered: filtered,
		Total:    len(items),
		Page:     info,
		State:    st,
	}
}
