package view

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage_EmptyIsNA(t *testing.T) {
	avg := Average([]row{}, func(r row) float64 { return r.Amount })
	assert.False(t, avg.Valid)
	assert.Equal(t, "N/A", avg.String())
	assert.False(t, math.IsNaN(avg.Value))
	assert.False(t, math.IsInf(avg.Value, 0))
}

func TestAggregates_OverFilteredSet(t *testing.T) {
	spec := rowSpec()
	items := []row{
		{ID: 1, Status: "paid", Amount: 10},
		{ID: 2, Status: "paid", Amount: 30},
		{ID: 3, Status: "failed", Amount: 99},
	}
	res := spec.Apply(items, state(map[string]string{"status": "paid"}))
	amount := func(r row) float64 { return r.Amount }

	assert.InDelta(t, 40, Sum(res.Filtered, amount), 0.0001)
	assert.Equal(t, "20.00", Average(res.Filtered, amount).String())

	none := spec.Apply(items, state(map[string]string{"status": "refunded"}))
	assert.Zero(t, Sum(none.Filtered, amount))
	assert.Equal(t, "N/A", Average(none.Filtered, amount).String())
	assert.Empty(t, CountBy(none.Filtered, func(r row) string { return r.Status }))
}

func TestCountBy_Order(t *testing.T) {
	items := []row{{Status: "b"}, {Status: "a"}, {Status: "b"}, {Status: "c"}, {Status: "a"}}
	got := CountBy(items, func(r row) string { return r.Status })
	assert.Equal(t, []Count{{"a", 2}, {"b", 2}, {"c", 1}}, got)
}

func TestRatio(t *testing.T) {
	assert.Equal(t, "N/A", Ratio(5, 0).String())
	assert.Equal(t, "2.50", Ratio(5, 2).String())
}

func TestBucketBy_FillsGaps(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 15, 0, 0, 0, time.UTC) }
	items := []row{
		{When: day(1), Amount: 10},
		{When: day(1), Amount: 5},
		{When: day(3), Amount: 7},
		{Amount: 100},
	}
	got := BucketBy(items, func(r row) time.Time { return r.When }, func(r row) float64 { return r.Amount }, Day)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-03-01", got[0].Label)
	assert.Equal(t, 2, got[0].Count)
	assert.InDelta(t, 15, got[0].Sum, 0.0001)
	assert.Zero(t, got[1].Count)
	assert.Equal(t, "N/A", got[1].Average().String())
	assert.Equal(t, "2024-03-03", got[2].Label)
}

func TestBucketBy_WeekAndMonth(t *testing.T) {
	// 2024-03-06 is a Wednesday; its week starts Monday 2024-03-04.
	wed := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Week.BucketStart(wed))
	sun := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Week.BucketStart(sun))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Month.BucketStart(wed))

	items := []row{
		{When: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Amount: 1},
		{When: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Amount: 2},
	}
	got := BucketBy(items, func(r row) time.Time { return r.When }, func(r row) float64 { return r.Amount }, Month)
	require.Len(t, got, 3)
	assert.Equal(t, "Feb 2024", got[1].Label)
}

func TestBucketBy_Empty(t *testing.T) {
	assert.Nil(t, BucketBy([]row{}, func(r row) time.Time { return r.When }, func(r row) float64 { return r.Amount }, Day))
}

func TestParseGranularity(t *testing.T) {
	assert.Equal(t, Week, ParseGranularity("week"))
	assert.Equal(t, Month, ParseGranularity("month"))
	assert.Equal(t, Day, ParseGranularity("fortnight"))
}

func TestPageInfo_Navigation(t *testing.T) {
	p := NewPageInfo(3, 10, 95)
	assert.Equal(t, 10, p.TotalPages)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.PageNumbers())
	assert.Equal(t, 21, p.StartRow())
	assert.Equal(t, 30, p.EndRow())
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())

	last := NewPageInfo(10, 10, 95)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, last.PageNumbers())
	assert.Equal(t, 95, last.EndRow())
	assert.False(t, last.HasNext())
	assert.Equal(t, 10, last.NextPage())
}
