// Package model holds the typed records rendered by the console and the wire
// shapes the backend sends. Wire shapes use optional fields; Resolve converts
// them into records with defaults applied once at the fetch boundary.
package model

import (
	"strings"
	"time"
)

// StatusUnknown is used when the backend omits a status.
const StatusUnknown = "unknown"

// Resolver is implemented by every wire shape.
type Resolver[T any] interface {
	Resolve() T
}

// ResolveAll converts a decoded wire collection into records.
func ResolveAll[W Resolver[T], T any](in []W) []T {
	out := make([]T, 0, len(in))
	for _, w := range in {
		out = append(out, w.Resolve())
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseTime accepts the timestamp formats the backend is known to emit.
// Anything else yields the zero time.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func strOr(p *string, def string) string {
	if v := str(p); v != "" {
		return v
	}
	return def
}

func status(p *string) string {
	return strings.ToLower(strOr(p, StatusUnknown))
}

func num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func integer(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func boolean(p *bool) bool {
	return p != nil && *p
}

func tm(p *string) time.Time {
	if p == nil {
		return time.Time{}
	}
	return ParseTime(*p)
}
