package abtest_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realpulse/realpulse/internal/abtest"
)

func TestTemplateNames(t *testing.T) {
	names := abtest.TemplateNames()
	assert.Equal(t, []string{"email_campaign", "listing_photos", "pricing_strategy"}, names)
}

func TestLookupTemplate_Unknown(t *testing.T) {
	_, err := abtest.LookupTemplate("does_not_exist")
	require.Error(t, err)
	assert.True(t, errors.Is(err, abtest.ErrNotFound))
}

func TestCreateFromTemplate(t *testing.T) {
	c := abtest.NewCatalog(nil)

	s, err := c.CreateFromTemplate("pricing_strategy", "", "higher price still converts")
	require.NoError(t, err)

	assert.Equal(t, "Pricing Strategy Test", s.Name)
	assert.Equal(t, "pricing_strategy", s.Template)
	assert.Equal(t, abtest.MetricConversionRate, s.PrimaryMetric)
	require.Len(t, s.Variants, 2)
	assert.Equal(t, "Market Price", s.Variants[0].Name)
	assert.Equal(t, "Premium Price", s.Variants[1].Name)
	assert.InDelta(t, 1.0, s.AllocationSum(), 1e-9)

	// Template variants are ready to start as-is.
	require.NoError(t, s.Start())
}

func TestCreateFromTemplate_CustomName(t *testing.T) {
	c := abtest.NewCatalog(nil)

	s, err := c.CreateFromTemplate("listing_photos", "Spring Photos", "")
	require.NoError(t, err)
	assert.Equal(t, "Spring Photos", s.Name)
}

func TestCatalog_GetAndList(t *testing.T) {
	c := abtest.NewCatalog(nil)

	first := c.CreateCustom("First", "", "", "")
	second := c.CreateCustom("Second", "", "", "")

	got, err := c.Get(first.ID)
	require.NoError(t, err)
	assert.Same(t, first, got)

	_, err = c.Get("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, abtest.ErrNotFound))

	all := c.List("")
	require.Len(t, all, 2)
	assert.Same(t, first, all[0])
	assert.Same(t, second, all[1])
}

func TestCatalog_ListByStatus(t *testing.T) {
	c := abtest.NewCatalog(nil)

	draft := c.CreateCustom("Draft", "", "", "")
	running, err := c.CreateFromTemplate("email_campaign", "", "")
	require.NoError(t, err)
	require.NoError(t, running.Start())

	drafts := c.List(abtest.StatusDraft)
	require.Len(t, drafts, 1)
	assert.Same(t, draft, drafts[0])

	assert.Empty(t, c.List(abtest.StatusCompleted))
}

func TestCatalog_Summary(t *testing.T) {
	c := abtest.NewCatalog(nil)
	c.CreateCustom("One", "", "", "")
	c.CreateCustom("Two", "", "", "")

	running, err := c.CreateFromTemplate("pricing_strategy", "", "")
	require.NoError(t, err)
	require.NoError(t, running.Start())

	summary := c.Summary()
	assert.Equal(t, 3, summary.TotalTests)
	assert.Equal(t, 2, summary.StatusBreakdown[abtest.StatusDraft])
	assert.Equal(t, 1, summary.StatusBreakdown[abtest.StatusRunning])
	assert.Equal(t, abtest.TemplateNames(), summary.Templates)
}
