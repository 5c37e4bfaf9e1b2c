package view

import (
	"cmp"
	"strings"
	"time"
)

// Dir is a sort direction.
type Dir string

const (
	Asc  Dir = "asc"
	Desc Dir = "desc"
)

// ParseDir normalizes a direction. Anything unrecognised reports false.
func ParseDir(s string) (Dir, bool) {
	switch Dir(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	default:
		return "", false
	}
}

// Flip returns the opposite direction.
func (d Dir) Flip() Dir {
	if d == Desc {
		return Asc
	}
	return Desc
}

// SortKey orders records by one field.
type SortKey[T any] struct {
	Key        string
	Label      string
	DefaultDir Dir
	compare    func(a, b T) int
}

// Ranking marks the key as one where larger values come first by default.
func (s SortKey[T]) Ranking() SortKey[T] {
	s.DefaultDir = Desc
	return s
}

// Compare orders a before b according to dir.
func (s SortKey[T]) Compare(a, b T, dir Dir) int {
	c := s.compare(a, b)
	if dir == Desc {
		return -c
	}
	return c
}

// ByString orders lexicographically, ignoring case.
func ByString[T any](key, label string, get func(T) string) SortKey[T] {
	return SortKey[T]{
		Key:        key,
		Label:      label,
		DefaultDir: Asc,
		compare: func(a, b T) int {
			return strings.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
		},
	}
}

// ByNumber orders numerically.
func ByNumber[T any](key, label string, get func(T) float64) SortKey[T] {
	return SortKey[T]{
		Key:        key,
		Label:      label,
		DefaultDir: Asc,
		compare:    func(a, b T) int { return cmp.Compare(get(a), get(b)) },
	}
}

// ByTime orders chronologically. Zero times sort first ascending.
func ByTime[T any](key, label string, get func(T) time.Time) SortKey[T] {
	return SortKey[T]{
		Key:        key,
		Label:      label,
		DefaultDir: Asc,
		compare:    func(a, b T) int { return get(a).Compare(get(b)) },
	}
}
