package view

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Option is a selectable value for a dropdown facet.
type Option struct {
	Value string
	Label string
}

// Kind tells templates which control renders a facet.
type Kind string

const (
	KindSelect Kind = "select"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
	KindText   Kind = "text"
)

// Facet is one filter dimension keyed by its query parameter.
type Facet[T any] struct {
	Param   string
	Label   string
	Kind    Kind
	Options []Option
	// compile turns a raw value into a predicate, or nil when the value
	// imposes no constraint.
	compile func(value string) func(T) bool
}

// Predicate returns the filter for value and whether the facet is active.
// Empty, unparseable and "all" values leave the facet inactive.
func (f Facet[T]) Predicate(value string) (func(T) bool, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") || f.compile == nil {
		return nil, false
	}
	pred := f.compile(value)
	return pred, pred != nil
}

// Equals matches records whose field equals the value, ignoring case.
func Equals[T any](param, label string, get func(T) string, options ...Option) Facet[T] {
	return Facet[T]{
		Param:   param,
		Label:   label,
		Kind:    KindSelect,
		Options: options,
		compile: func(value string) func(T) bool {
			return func(item T) bool {
				return strings.EqualFold(strings.TrimSpace(get(item)), value)
			}
		},
	}
}

// MinNumber keeps records whose field is at least the bound.
func MinNumber[T any](param, label string, get func(T) float64) Facet[T] {
	return numberFacet(param, label, func(v, bound float64) bool { return v >= bound }, get)
}

// MaxNumber keeps records whose field is at most the bound. The bound is inclusive.
func MaxNumber[T any](param, label string, get func(T) float64) Facet[T] {
	return numberFacet(param, label, func(v, bound float64) bool { return v <= bound }, get)
}

func numberFacet[T any](param, label string, cmp func(v, bound float64) bool, get func(T) float64) Facet[T] {
	return Facet[T]{
		Param: param,
		Label: label,
		Kind:  KindNumber,
		compile: func(value string) func(T) bool {
			bound, ok := ParseNumber(value)
			if !ok {
				return nil
			}
			return func(item T) bool { return cmp(get(item), bound) }
		},
	}
}

// OnDate keeps records whose timestamp falls on the given calendar day.
func OnDate[T any](param, label string, get func(T) time.Time) Facet[T] {
	return dateFacet(param, label, get, func(t, day time.Time) bool {
		return !t.Before(day) && t.Before(day.AddDate(0, 0, 1))
	})
}

// FromDate keeps records on or after the start of the given day.
func FromDate[T any](param, label string, get func(T) time.Time) Facet[T] {
	return dateFacet(param, label, get, func(t, day time.Time) bool {
		return !t.Before(day)
	})
}

// ToDate keeps records on or before the end of the given day.
func ToDate[T any](param, label string, get func(T) time.Time) Facet[T] {
	return dateFacet(param, label, get, func(t, day time.Time) bool {
		return t.Before(day.AddDate(0, 0, 1))
	})
}

func dateFacet[T any](param, label string, get func(T) time.Time, keep func(t, day time.Time) bool) Facet[T] {
	return Facet[T]{
		Param: param,
		Label: label,
		Kind:  KindDate,
		compile: func(value string) func(T) bool {
			day, ok := ParseDay(value)
			if !ok {
				return nil
			}
			return func(item T) bool {
				t := get(item)
				if t.IsZero() {
					return false
				}
				return keep(dayIn(t, day.Location()), day)
			}
		},
	}
}

// Custom builds a facet from an arbitrary matcher. Any non-empty value is active.
func Custom[T any](param, label string, match func(item T, value string) bool) Facet[T] {
	return Facet[T]{
		Param: param,
		Label: label,
		Kind:  KindText,
		compile: func(value string) func(T) bool {
			return func(item T) bool { return match(item, value) }
		},
	}
}

// ParseNumber parses a user-entered bound. Blank or non-numeric input reports false.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseDay parses a YYYY-MM-DD day in UTC.
func ParseDay(s string) (time.Time, bool) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// dayIn re-expresses t in loc, keeping the wall clock of the record.
func dayIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
