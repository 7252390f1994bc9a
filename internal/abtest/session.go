package abtest

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a test session.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Metric selects the primary metric a test is judged on.
type Metric string

const (
	MetricConversionRate Metric = "conversion_rate"
	MetricAverageValue   Metric = "average_value"
)

const (
	// Tolerance on the allocation sum when starting a test.
	allocationTolerance = 0.01
	// Floating slack when accumulating allocations at add time.
	allocationEpsilon = 1e-9

	defaultConfidenceLevel   = 0.95
	defaultMinimumSampleSize = 100
	defaultDurationDays      = 30
)

// Session is a named A/B test over a fixed set of variants. It owns the
// test lifecycle (draft -> running <-> paused, running -> completed,
// any non-terminal -> cancelled) and the traffic-allocation invariants.
// Sessions are not safe for concurrent use; callers exposing one over a
// service boundary must serialize writes per session.
type Session struct {
	ID          string `json:"test_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TestType    string `json:"test_type"`
	Hypothesis  string `json:"hypothesis"`

	Variants         []*Variant `json:"variants"`
	PrimaryMetric    Metric     `json:"primary_metric"`
	SecondaryMetrics []string   `json:"secondary_metrics,omitempty"`

	ConfidenceLevel   float64 `json:"confidence_level"`
	MinimumSampleSize int     `json:"minimum_sample_size"`

	StartTime           *time.Time `json:"start_time,omitempty"`
	EndTime             *time.Time `json:"end_time,omitempty"`
	PlannedDurationDays int        `json:"planned_duration_days"`

	Status       Status   `json:"status"`
	FinalResults *Results `json:"final_results,omitempty"`

	Template  string    `json:"template"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// NewSession creates a draft session with default test parameters.
func NewSession(name, description, testType, hypothesis string) *Session {
	return &Session{
		ID:                  uuid.NewString(),
		Name:                name,
		Description:         description,
		TestType:            testType,
		Hypothesis:          hypothesis,
		PrimaryMetric:       MetricConversionRate,
		ConfidenceLevel:     defaultConfidenceLevel,
		MinimumSampleSize:   defaultMinimumSampleSize,
		PlannedDurationDays: defaultDurationDays,
		Status:              StatusDraft,
		Template:            "custom",
		CreatedAt:           time.Now(),
	}
}

// AllocationSum returns the sum of traffic allocations across variants.
func (s *Session) AllocationSum() float64 {
	var sum float64
	for _, v := range s.Variants {
		sum += v.TrafficAllocation
	}
	return sum
}

// AddVariant appends a variant to a draft session. It rejects duplicate
// variant names and any allocation that would push the total over 1.0.
func (s *Session) AddVariant(v Variant) error {
	if s.Status != StatusDraft {
		return fmt.Errorf("cannot add variant to %s test: %w", s.Status, ErrValidation)
	}
	for _, existing := range s.Variants {
		if existing.Name == v.Name {
			return fmt.Errorf("duplicate variant name %q: %w", v.Name, ErrValidation)
		}
	}
	if s.AllocationSum()+v.TrafficAllocation > 1.0+allocationEpsilon {
		return fmt.Errorf("total traffic allocation cannot exceed 100%%: %w", ErrValidation)
	}
	s.Variants = append(s.Variants, &v)
	return nil
}

// Start transitions the session from draft to running. It requires at
// least 2 variants and a total allocation within 1% of 1.0, stamps the
// start time and computes the planned end time.
func (s *Session) Start() error {
	if s.Status != StatusDraft {
		return fmt.Errorf("cannot start %s test: %w", s.Status, ErrValidation)
	}
	if len(s.Variants) < 2 {
		return fmt.Errorf("test must have at least 2 variants: %w", ErrValidation)
	}
	if math.Abs(s.AllocationSum()-1.0) > allocationTolerance {
		return fmt.Errorf("total traffic allocation must equal 100%%: %w", ErrValidation)
	}

	now := time.Now()
	end := now.AddDate(0, 0, s.PlannedDurationDays)
	s.Status = StatusRunning
	s.StartTime = &now
	s.EndTime = &end
	return nil
}

// Pause suspends a running test. It is a no-op in any other state.
func (s *Session) Pause() {
	if s.Status == StatusRunning {
		s.Status = StatusPaused
	}
}

// Resume continues a paused test. It is a no-op in any other state.
func (s *Session) Resume() {
	if s.Status == StatusPaused {
		s.Status = StatusRunning
	}
}

// Stop completes a running or paused test, stamps the end time and
// freezes a results snapshot.
func (s *Session) Stop() error {
	if s.Status != StatusRunning && s.Status != StatusPaused {
		return fmt.Errorf("cannot stop %s test: %w", s.Status, ErrValidation)
	}

	now := time.Now()
	s.Status = StatusCompleted
	s.EndTime = &now

	results, err := s.Results()
	if err != nil {
		return err
	}
	s.FinalResults = results
	return nil
}

// Cancel moves any non-terminal session to cancelled.
func (s *Session) Cancel() error {
	if s.Status.Terminal() {
		return fmt.Errorf("cannot cancel %s test: %w", s.Status, ErrValidation)
	}
	s.Status = StatusCancelled
	return nil
}

// RecordTrial records a single trial outcome against the named variant.
func (s *Session) RecordTrial(variantName string, converted bool, value float64) error {
	for _, v := range s.Variants {
		if v.Name == variantName {
			v.RecordTrial(converted, value)
			return nil
		}
	}
	return fmt.Errorf("variant %q: %w", variantName, ErrNotFound)
}

// Variant returns the named variant, or nil if it does not exist.
func (s *Session) Variant(name string) *Variant {
	for _, v := range s.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}
