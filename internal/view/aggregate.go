package view

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"time"
)

// Avg is an average that may be undefined.
type Avg struct {
	Value float64
	Valid bool
}

// String renders the average with two decimals, or "N/A" when undefined.
func (a Avg) String() string {
	if !a.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(a.Value, 'f', 2, 64)
}

// Sum adds a numeric field over items.
func Sum[T any](items []T, get func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += get(item)
	}
	return total
}

// Average returns the mean of a numeric field; it is undefined for no items.
func Average[T any](items []T, get func(T) float64) Avg {
	if len(items) == 0 {
		return Avg{}
	}
	return Avg{Value: Sum(items, get) / float64(len(items)), Valid: true}
}

// Ratio returns num/den as an Avg, undefined when den is zero.
func Ratio(num, den float64) Avg {
	if den == 0 {
		return Avg{}
	}
	return Avg{Value: num / den, Valid: true}
}

// Count is one bucket of a breakdown.
type Count struct {
	Key   string
	Count int
}

// CountBy groups items by key and returns counts ordered by count descending,
// then key ascending.
func CountBy[T any](items []T, key func(T) string) []Count {
	counts := make(map[string]int)
	for _, item := range items {
		counts[key(item)]++
	}
	out := make([]Count, 0, len(counts))
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, Count{Key: k, Count: counts[k]})
	}
	slices.SortStableFunc(out, func(a, b Count) int { return cmp.Compare(b.Count, a.Count) })
	return out
}

// Granularity is a report bucket width.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity normalizes a granularity, defaulting to day.
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case Week:
		return Week
	case Month:
		return Month
	default:
		return Day
	}
}

// BucketStart truncates t to the start of its bucket in UTC. Weeks start on Monday.
func (g Granularity) BucketStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case Week:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// Label formats a bucket start for display.
func (g Granularity) Label(start time.Time) string {
	switch g {
	case Week:
		return "Week of " + start.Format(time.DateOnly)
	case Month:
		return start.Format("Jan 2006")
	default:
		return start.Format(time.DateOnly)
	}
}

// Bucket is one period of a time series.
type Bucket struct {
	Start time.Time
	Label string
	Count int
	Sum   float64
}

// Average of the bucket's values.
func (b Bucket) Average() Avg { return Ratio(b.Sum, float64(b.Count)) }

// BucketBy groups items into consecutive periods, oldest first. Items with a
// zero timestamp are skipped. Empty periods between the first and last are
// filled so a series has no gaps.
func BucketBy[T any](items []T, at func(T) time.Time, value func(T) float64, g Granularity) []Bucket {
	index := make(map[time.Time]*Bucket)
	var first, last time.Time
	for _, item := range items {
		t := at(item)
		if t.IsZero() {
			continue
		}
		start := g.BucketStart(t)
		b, ok := index[start]
		if !ok {
			b = &Bucket{Start: start, Label: g.Label(start)}
			index[start] = b
		}
		b.Count++
		b.Sum += value(item)
		if first.IsZero() || start.Before(first) {
			first = start
		}
		if start.After(last) {
			last = start
		}
	}
	if len(index) == 0 {
		return nil
	}

	var out []Bucket
	for cur := first; !cur.After(last); cur = g.next(cur) {
		if len(out) >= maxBuckets {
			return sparse(index)
		}
		if b, ok := index[cur]; ok {
			out = append(out, *b)
			continue
		}
		out = append(out, Bucket{Start: cur, Label: g.Label(cur)})
	}
	return out
}

// maxBuckets caps gap filling; wider ranges return only non-empty buckets.
const maxBuckets = 1000

func sparse(index map[time.Time]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(index))
	for _, b := range index {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b Bucket) int { return a.Start.Compare(b.Start) })
	return out
}

func (g Granularity) next(t time.Time) time.Time {
	switch g {
	case Week:
		return t.AddDate(0, 0, 7)
	case Month:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}
