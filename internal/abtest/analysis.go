package abtest

import (
	"fmt"
	"math"
	"time"

	"github.com/realpulse/realpulse/internal/stats"
)

// Results is the full report for a test session: per-variant summaries,
// the statistical analysis of the primary metric, and the winner.
// Computing results never mutates session state.
type Results struct {
	TestID            string           `json:"test_id"`
	TestName          string           `json:"test_name"`
	Status            Status           `json:"status"`
	StartTime         *time.Time       `json:"start_time,omitempty"`
	EndTime           *time.Time       `json:"end_time,omitempty"`
	TotalParticipants int              `json:"total_participants"`
	Variants          []VariantSummary `json:"variants"`
	Analysis          *Analysis        `json:"statistical_analysis,omitempty"`
	Winner            *Winner          `json:"winner,omitempty"`
	ConfidenceLevel   float64          `json:"confidence_level"`
	IsSignificant     bool             `json:"is_significant"`
}

// VariantSummary is the reporting view of a variant, including a Wilson
// score interval for its conversion rate.
type VariantSummary struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	TrafficAllocation float64 `json:"traffic_allocation"`
	Participants      int     `json:"participants"`
	Conversions       int     `json:"conversions"`
	ConversionRate    float64 `json:"conversion_rate"`
	TotalValue        float64 `json:"total_value"`
	AverageValue      float64 `json:"average_value"`
	CILower           float64 `json:"ci_lower"`
	CIUpper           float64 `json:"ci_upper"`
}

// ArmStats describes one arm inside a two-variant analysis.
type ArmStats struct {
	Name           string  `json:"name"`
	Participants   int     `json:"participants"`
	Conversions    int     `json:"conversions,omitempty"`
	ConversionRate float64 `json:"conversion_rate,omitempty"`
	AverageValue   float64 `json:"average_value,omitempty"`
}

// Analysis holds the two-arm significance test output. Recoverable
// conditions like an insufficient sample are surfaced through the Error
// field as data rather than an error return, because tests legitimately
// run before reaching significance.
type Analysis struct {
	Error              string   `json:"error,omitempty"`
	RequiredSampleSize int      `json:"required_sample_size,omitempty"`
	VariantASize       int      `json:"variant_a_size,omitempty"`
	VariantBSize       int      `json:"variant_b_size,omitempty"`
	VariantA           ArmStats `json:"variant_a"`
	VariantB           ArmStats `json:"variant_b"`
	Difference         float64  `json:"difference"`
	RelativeDifference float64  `json:"relative_difference"`
	ZScore             float64  `json:"z_score"`
	PValue             float64  `json:"p_value"`
	IsSignificant      bool     `json:"is_significant"`
	CILower            float64  `json:"ci_lower"`
	CIUpper            float64  `json:"ci_upper"`
	Note               string   `json:"note,omitempty"`
}

// Winner identifies the variant with the best primary-metric value.
type Winner struct {
	Name        string  `json:"winner"`
	Metric      Metric  `json:"metric"`
	Value       float64 `json:"value"`
	Improvement float64 `json:"improvement"`
}

// Results computes the current report for the session. It is a pure
// read: calling it twice without intervening trials yields identical
// output.
func (s *Session) Results() (*Results, error) {
	if len(s.Variants) < 2 {
		return nil, fmt.Errorf("insufficient variants for analysis: %w", ErrValidation)
	}

	results := &Results{
		TestID:          s.ID,
		TestName:        s.Name,
		Status:          s.Status,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		Variants:        make([]VariantSummary, len(s.Variants)),
		ConfidenceLevel: s.ConfidenceLevel,
	}

	for i, v := range s.Variants {
		lower, upper := stats.WilsonInterval(v.Conversions, v.Participants, s.ConfidenceLevel)
		results.TotalParticipants += v.Participants
		results.Variants[i] = VariantSummary{
			Name:              v.Name,
			Description:       v.Description,
			TrafficAllocation: v.TrafficAllocation,
			Participants:      v.Participants,
			Conversions:       v.Conversions,
			ConversionRate:    v.ConversionRate(),
			TotalValue:        v.TotalValue,
			AverageValue:      v.AverageValue(),
			CILower:           lower,
			CIUpper:           upper,
		}
	}

	switch s.PrimaryMetric {
	case MetricAverageValue:
		results.Analysis = analyzeAverageValues(s.Variants)
	default:
		results.Analysis = analyzeConversionRates(s.Variants, s.ConfidenceLevel, s.MinimumSampleSize)
	}

	results.Winner = determineWinner(s.Variants, s.PrimaryMetric)
	results.IsSignificant = results.Analysis != nil && results.Analysis.IsSignificant

	return results, nil
}

// analyzeConversionRates runs a two-proportion z-test between the first
// two variants (control first, challenger second).
func analyzeConversionRates(variants []*Variant, confidence float64, minimumSampleSize int) *Analysis {
	if len(variants) != 2 {
		return &Analysis{Error: "conversion rate analysis supports only 2 variants"}
	}

	a, b := variants[0], variants[1]

	if a.Participants < minimumSampleSize || b.Participants < minimumSampleSize {
		return &Analysis{
			Error:              "insufficient sample size",
			RequiredSampleSize: minimumSampleSize,
			VariantASize:       a.Participants,
			VariantBSize:       b.Participants,
		}
	}

	rateA := a.ConversionRate()
	rateB := b.ConversionRate()
	nA := float64(a.Participants)
	nB := float64(b.Participants)

	// Pooled proportion under the null hypothesis.
	pPool := float64(a.Conversions+b.Conversions) / (nA + nB)
	se := math.Sqrt(pPool * (1 - pPool) * (1/nA + 1/nB))

	z := 0.0
	if se > 0 {
		z = (rateA - rateB) / se
	}

	pValue := stats.TwoTailedPValue(z)

	relative := 0.0
	if rateA > 0 {
		relative = (rateB - rateA) / rateA
	}

	margin := stats.ZCritical(confidence) * se

	return &Analysis{
		VariantA: ArmStats{
			Name:           a.Name,
			Participants:   a.Participants,
			Conversions:    a.Conversions,
			ConversionRate: rateA,
		},
		VariantB: ArmStats{
			Name:           b.Name,
			Participants:   b.Participants,
			Conversions:    b.Conversions,
			ConversionRate: rateB,
		},
		Difference:         rateB - rateA,
		RelativeDifference: relative,
		ZScore:             z,
		PValue:             pValue,
		IsSignificant:      pValue < (1 - confidence),
		CILower:            (rateB - rateA) - margin,
		CIUpper:            (rateB - rateA) + margin,
	}
}

// analyzeAverageValues compares per-arm average values. Individual trial
// values are not retained, so no variance-based hypothesis test is
// possible; the comparison is descriptive only.
func analyzeAverageValues(variants []*Variant) *Analysis {
	if len(variants) != 2 {
		return &Analysis{Error: "average value analysis supports only 2 variants"}
	}

	a, b := variants[0], variants[1]
	avgA := a.AverageValue()
	avgB := b.AverageValue()

	relative := 0.0
	if avgA > 0 {
		relative = (avgB - avgA) / avgA
	}

	return &Analysis{
		VariantA: ArmStats{
			Name:         a.Name,
			Participants: a.Participants,
			AverageValue: avgA,
		},
		VariantB: ArmStats{
			Name:         b.Name,
			Participants: b.Participants,
			AverageValue: avgB,
		},
		Difference:         avgB - avgA,
		RelativeDifference: relative,
		Note:               "descriptive comparison only; a full t-test requires individual data points",
	}
}

// determineWinner picks the variant with the strictly highest value of
// the primary metric. Ties keep the earlier variant in insertion order.
func determineWinner(variants []*Variant, metric Metric) *Winner {
	if len(variants) == 0 {
		return nil
	}

	best := variants[0]
	for _, v := range variants[1:] {
		if v.metricValue(metric) > best.metricValue(metric) {
			best = v
		}
	}

	// Improvement over the best of the remaining variants.
	baseline := 0.0
	for _, v := range variants {
		if v != best && v.metricValue(metric) > baseline {
			baseline = v.metricValue(metric)
		}
	}

	improvement := 0.0
	if baseline > 0 {
		improvement = (best.metricValue(metric) - baseline) / baseline
	}

	return &Winner{
		Name:        best.Name,
		Metric:      metric,
		Value:       best.metricValue(metric),
		Improvement: improvement,
	}
}
