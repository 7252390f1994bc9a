package kpi_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/realpulse/realpulse/internal/kpi"
)

func record(t *testing.T, values ...float64) *kpi.Record {
	t.Helper()
	r := kpi.NewRecord("Test KPI", kpi.CategorySales, "", "manual", nil, "units", kpi.FrequencyMonthly)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		r.RecordValue(v, base.AddDate(0, 0, i), "")
	}
	return r
}

func TestRecordValue(t *testing.T) {
	r := record(t, 10, 20)

	assert.Len(t, r.History, 2)
	assert.NotNil(t, r.CurrentValue)
	assert.Equal(t, 20.0, *r.CurrentValue)
	assert.NotNil(t, r.LastCalculated)
}

func TestTrend(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   kpi.Trend
	}{
		{"no data", nil, kpi.TrendInsufficientData},
		{"one point", []float64{10}, kpi.TrendInsufficientData},
		{"flat", []float64{10, 10, 10, 10, 10}, kpi.TrendStable},
		{"increasing", []float64{10, 12, 14, 16, 18}, kpi.TrendIncreasing},
		{"decreasing", []float64{18, 16, 14, 12, 10}, kpi.TrendDecreasing},
		{"tiny drift stays stable", []float64{10, 10.01, 10.02, 10.03, 10.04}, kpi.TrendStable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, record(t, tc.values...).Trend(0))
		})
	}
}

func TestTrend_WindowsOnRecentValues(t *testing.T) {
	// A long decline followed by a short rise: only the window counts.
	r := record(t, 100, 90, 80, 70, 60, 50, 51, 52, 53, 54)
	assert.Equal(t, kpi.TrendIncreasing, r.Trend(5))
}

func TestPerformanceStatus(t *testing.T) {
	tgt := 100.0

	cases := []struct {
		name    string
		current *float64
		target  *float64
		want    kpi.Performance
	}{
		{"no target", f(95), nil, kpi.PerformanceNoTarget},
		{"no value", nil, &tgt, kpi.PerformanceNoTarget},
		{"exceeding", f(110), &tgt, kpi.PerformanceExceeding},
		{"at target", f(100), &tgt, kpi.PerformanceExceeding},
		{"meeting", f(95), &tgt, kpi.PerformanceMeeting},
		{"below", f(75), &tgt, kpi.PerformanceBelow},
		{"poor", f(60), &tgt, kpi.PerformancePoor},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := kpi.NewRecord("KPI", kpi.CategorySales, "", "manual", tc.target, "", kpi.FrequencyMonthly)
			r.CurrentValue = tc.current
			assert.Equal(t, tc.want, r.PerformanceStatus())
		})
	}
}

func f(v float64) *float64 {
	return &v
}

func TestSnapshot(t *testing.T) {
	r := record(t, 80, 85, 90, 95, 99)
	tgt := 100.0
	r.TargetValue = &tgt

	s := r.Snapshot()
	assert.Equal(t, "Test KPI", s.Name)
	assert.Equal(t, kpi.CategorySales, s.Category)
	assert.Equal(t, 99.0, *s.CurrentValue)
	assert.Equal(t, kpi.TrendIncreasing, s.Trend)
	assert.Equal(t, kpi.PerformanceMeeting, s.PerformanceStatus)
	assert.Equal(t, 5, s.HistoricalCount)
}
