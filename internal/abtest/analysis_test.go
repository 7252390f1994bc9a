package abtest_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realpulse/realpulse/internal/abtest"
)

// fillVariant records participants trials of which conversions convert.
func fillVariant(t *testing.T, s *abtest.Session, name string, participants, conversions int, value float64) {
	t.Helper()
	for i := 0; i < participants; i++ {
		require.NoError(t, s.RecordTrial(name, i < conversions, value))
	}
}

func TestResults_RequiresTwoVariants(t *testing.T) {
	s := abtest.NewSession("Test", "", "", "")
	require.NoError(t, s.AddVariant(abtest.Variant{Name: "Only", TrafficAllocation: 1.0}))

	_, err := s.Results()
	require.Error(t, err)
	assert.True(t, errors.Is(err, abtest.ErrValidation))
}

func TestResults_InsufficientSample(t *testing.T) {
	s := newTwoVariantDraft(t)
	fillVariant(t, s, "Control", 50, 5, 0)
	fillVariant(t, s, "Treatment", 120, 20, 0)

	results, err := s.Results()
	require.NoError(t, err)

	require.NotNil(t, results.Analysis)
	assert.Equal(t, "insufficient sample size", results.Analysis.Error)
	assert.Equal(t, 100, results.Analysis.RequiredSampleSize)
	assert.Equal(t, 50, results.Analysis.VariantASize)
	assert.Equal(t, 120, results.Analysis.VariantBSize)
	assert.False(t, results.IsSignificant)

	// The winner scan is independent of significance.
	require.NotNil(t, results.Winner)
	assert.Equal(t, "Treatment", results.Winner.Name)
}

func TestResults_NotSignificant(t *testing.T) {
	s := newTwoVariantDraft(t)
	fillVariant(t, s, "Control", 100, 12, 0)
	fillVariant(t, s, "Treatment", 100, 18, 0)

	results, err := s.Results()
	require.NoError(t, err)

	a := results.Analysis
	require.NotNil(t, a)
	require.Empty(t, a.Error)

	assert.InDelta(t, 0.12, a.VariantA.ConversionRate, 1e-9)
	assert.InDelta(t, 0.18, a.VariantB.ConversionRate, 1e-9)
	assert.InDelta(t, 0.06, a.Difference, 1e-9)
	assert.InDelta(t, 0.5, a.RelativeDifference, 1e-9)
	assert.InDelta(t, -1.188, a.ZScore, 0.01)
	assert.InDelta(t, 0.235, a.PValue, 0.005)
	assert.False(t, a.IsSignificant)
	assert.False(t, results.IsSignificant)

	// CI is centered on the difference.
	assert.InDelta(t, 0.06, (a.CILower+a.CIUpper)/2, 1e-9)
	assert.Less(t, a.CILower, 0.0)
}

func TestResults_Significant(t *testing.T) {
	s := abtest.NewSession("Big Test", "", "", "")
	require.NoError(t, s.AddVariant(abtest.Variant{Name: "Control", TrafficAllocation: 0.5}))
	require.NoError(t, s.AddVariant(abtest.Variant{Name: "Treatment", TrafficAllocation: 0.5}))
	fillVariant(t, s, "Control", 1000, 100, 0)
	fillVariant(t, s, "Treatment", 1000, 150, 0)

	results, err := s.Results()
	require.NoError(t, err)

	a := results.Analysis
	require.NotNil(t, a)
	assert.InDelta(t, -3.38, a.ZScore, 0.01)
	assert.Less(t, a.PValue, 0.05)
	assert.True(t, a.IsSignificant)
	assert.True(t, results.IsSignificant)

	require.NotNil(t, results.Winner)
	assert.Equal(t, "Treatment", results.Winner.Name)
	assert.InDelta(t, 0.5, results.Winner.Improvement, 1e-9)
}

func TestResults_SymmetryUnderArmSwap(t *testing.T) {
	build := func(first, second string, convFirst, convSecond int) *abtest.Analysis {
		s := abtest.NewSession("Test", "", "", "")
		require.NoError(t, s.AddVariant(abtest.Variant{Name: first, TrafficAllocation: 0.5}))
		require.NoError(t, s.AddVariant(abtest.Variant{Name: second, TrafficAllocation: 0.5}))
		fillVariant(t, s, first, 200, convFirst, 0)
		fillVariant(t, s, second, 200, convSecond, 0)
		results, err := s.Results()
		require.NoError(t, err)
		return results.Analysis
	}

	ab := build("A", "B", 30, 50)
	ba := build("B", "A", 50, 30)

	assert.InDelta(t, -ba.ZScore, ab.ZScore, 1e-9)
	assert.InDelta(t, -ba.Difference, ab.Difference, 1e-9)
	assert.InDelta(t, ba.PValue, ab.PValue, 1e-9)
	assert.Equal(t, ba.IsSignificant, ab.IsSignificant)
}

func TestResults_Idempotent(t *testing.T) {
	s := newTwoVariantDraft(t)
	fillVariant(t, s, "Control", 150, 30, 0)
	fillVariant(t, s, "Treatment", 150, 45, 0)

	first, err := s.Results()
	require.NoError(t, err)
	second, err := s.Results()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResults_ThreeVariantConversionAnalysis(t *testing.T) {
	s := abtest.NewSession("Test", "", "", "")
	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, s.AddVariant(abtest.Variant{Name: name, TrafficAllocation: 1.0 / 3.0}))
	}

	results, err := s.Results()
	require.NoError(t, err)

	require.NotNil(t, results.Analysis)
	assert.Contains(t, results.Analysis.Error, "only 2 variants")
}

func TestResults_AverageValueMetric(t *testing.T) {
	s := newTwoVariantDraft(t)
	s.PrimaryMetric = abtest.MetricAverageValue
	fillVariant(t, s, "Control", 10, 10, 100)
	fillVariant(t, s, "Treatment", 10, 10, 150)

	results, err := s.Results()
	require.NoError(t, err)

	a := results.Analysis
	require.NotNil(t, a)
	assert.InDelta(t, 100, a.VariantA.AverageValue, 1e-9)
	assert.InDelta(t, 150, a.VariantB.AverageValue, 1e-9)
	assert.InDelta(t, 50, a.Difference, 1e-9)
	assert.InDelta(t, 0.5, a.RelativeDifference, 1e-9)
	assert.False(t, a.IsSignificant)
	assert.NotEmpty(t, a.Note)

	require.NotNil(t, results.Winner)
	assert.Equal(t, "Treatment", results.Winner.Name)
	assert.Equal(t, abtest.MetricAverageValue, results.Winner.Metric)
}

func TestWinner_TieKeepsInsertionOrder(t *testing.T) {
	s := newTwoVariantDraft(t)
	fillVariant(t, s, "Control", 100, 20, 0)
	fillVariant(t, s, "Treatment", 100, 20, 0)

	results, err := s.Results()
	require.NoError(t, err)

	require.NotNil(t, results.Winner)
	assert.Equal(t, "Control", results.Winner.Name)
	assert.Equal(t, 0.0, results.Winner.Improvement)
}

func TestResults_WilsonIntervalsPerVariant(t *testing.T) {
	s := newTwoVariantDraft(t)
	fillVariant(t, s, "Control", 100, 50, 0)
	fillVariant(t, s, "Treatment", 100, 0, 0)

	results, err := s.Results()
	require.NoError(t, err)

	control := results.Variants[0]
	assert.Less(t, control.CILower, control.ConversionRate)
	assert.Greater(t, control.CIUpper, control.ConversionRate)

	treatment := results.Variants[1]
	assert.Equal(t, 0.0, treatment.CILower)
	assert.Greater(t, treatment.CIUpper, 0.0)
}
