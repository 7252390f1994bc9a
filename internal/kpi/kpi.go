package kpi

import (
	"time"

	"github.com/realpulse/realpulse/internal/stats"
)

// Category groups KPIs by business area.
type Category string

const (
	CategorySales       Category = "Sales Performance"
	CategoryRental      Category = "Rental Performance"
	CategoryMarket      Category = "Market Analysis"
	CategoryFinancial   Category = "Financial Metrics"
	CategoryOperational Category = "Operational Efficiency"
	CategoryCustomer    Category = "Customer Satisfaction"
)

// Frequency is how often a KPI is expected to be recalculated.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Trend classifies the recent direction of a KPI.
type Trend string

const (
	TrendIncreasing       Trend = "increasing"
	TrendDecreasing       Trend = "decreasing"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// Performance classifies the current value against the target.
type Performance string

const (
	PerformanceNoTarget  Performance = "no_target"
	PerformanceExceeding Performance = "exceeding"
	PerformanceMeeting   Performance = "meeting"
	PerformanceBelow     Performance = "below"
	PerformancePoor      Performance = "poor"
)

// The trend classification threshold applies to the raw fitted slope
// and is therefore sensitive to each KPI's units; a dollar-valued KPI
// and a ratio-valued KPI are not judged on the same scale.
const trendSlopeThreshold = 0.05

const defaultTrendWindow = 5

// Observation is one recorded KPI measurement.
type Observation struct {
	Time  time.Time `json:"date"`
	Value float64   `json:"value"`
	Note  string    `json:"notes"`
}

// Record is a named metric with a target and an append-only value
// history. Records are never removed, only deactivated.
type Record struct {
	Name              string    `json:"name"`
	Category          Category  `json:"category"`
	Description       string    `json:"description"`
	CalculationMethod string    `json:"calculation_method"`
	TargetValue       *float64  `json:"target_value,omitempty"`
	CurrentValue      *float64  `json:"current_value,omitempty"`
	Unit              string    `json:"unit"`
	Frequency         Frequency `json:"frequency"`

	History []Observation `json:"historical_values,omitempty"`

	CreatedAt      time.Time  `json:"created_at"`
	LastCalculated *time.Time `json:"last_calculated,omitempty"`
	Active         bool       `json:"is_active"`
}

// NewRecord creates an active KPI record. A nil target means the KPI is
// tracked without a performance comparison.
func NewRecord(name string, category Category, description, method string, target *float64, unit string, frequency Frequency) *Record {
	return &Record{
		Name:              name,
		Category:          category,
		Description:       description,
		CalculationMethod: method,
		TargetValue:       target,
		Unit:              unit,
		Frequency:         frequency,
		CreatedAt:         time.Now(),
		Active:            true,
	}
}

// RecordValue appends a measurement to the history and makes it the
// current value.
func (r *Record) RecordValue(value float64, t time.Time, note string) {
	if t.IsZero() {
		t = time.Now()
	}
	r.History = append(r.History, Observation{Time: t, Value: value, Note: note})
	r.CurrentValue = &value
	r.LastCalculated = &t
}

// Trend classifies the direction of the last window measurements by
// fitting their values against position index. Fewer than 2 points in
// the window yields TrendInsufficientData.
func (r *Record) Trend(window int) Trend {
	if window <= 0 {
		window = defaultTrendWindow
	}
	if len(r.History) < 2 {
		return TrendInsufficientData
	}

	recent := r.History
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}
	if len(recent) < 2 {
		return TrendInsufficientData
	}

	values := make([]float64, len(recent))
	for i, obs := range recent {
		values[i] = obs.Value
	}

	slope := stats.LinearSlope(values)
	switch {
	case slope > trendSlopeThreshold:
		return TrendIncreasing
	case slope < -trendSlopeThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// PerformanceStatus compares the current value against the target.
func (r *Record) PerformanceStatus() Performance {
	if r.TargetValue == nil || r.CurrentValue == nil {
		return PerformanceNoTarget
	}

	ratio := *r.CurrentValue / *r.TargetValue
	switch {
	case ratio >= 1.0:
		return PerformanceExceeding
	case ratio >= 0.9:
		return PerformanceMeeting
	case ratio >= 0.7:
		return PerformanceBelow
	default:
		return PerformancePoor
	}
}

// Snapshot is the reporting view of a record.
type Snapshot struct {
	Name              string      `json:"name"`
	Category          Category    `json:"category"`
	Description       string      `json:"description"`
	CurrentValue      *float64    `json:"current_value,omitempty"`
	TargetValue       *float64    `json:"target_value,omitempty"`
	Unit              string      `json:"unit"`
	Frequency         Frequency   `json:"frequency"`
	Trend             Trend       `json:"trend"`
	PerformanceStatus Performance `json:"performance_status"`
	LastCalculated    *time.Time  `json:"last_calculated,omitempty"`
	HistoricalCount   int         `json:"historical_count"`
}

// Snapshot returns the record's current reporting view.
func (r *Record) Snapshot() Snapshot {
	return Snapshot{
		Name:              r.Name,
		Category:          r.Category,
		Description:       r.Description,
		CurrentValue:      r.CurrentValue,
		TargetValue:       r.TargetValue,
		Unit:              r.Unit,
		Frequency:         r.Frequency,
		Trend:             r.Trend(0),
		PerformanceStatus: r.PerformanceStatus(),
		LastCalculated:    r.LastCalculated,
		HistoricalCount:   len(r.History),
	}
}
