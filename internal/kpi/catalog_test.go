package kpi_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realpulse/realpulse/internal/kpi"
	"github.com/realpulse/realpulse/internal/store"
)

// stubQuerier serves canned tables keyed by a substring of the query.
type stubQuerier struct {
	tables map[string]*store.Table
}

func (s *stubQuerier) Load(ctx context.Context, source, query string, args ...any) (*store.Table, error) {
	for key, table := range s.tables {
		if strings.Contains(query, key) {
			return table, nil
		}
	}
	return &store.Table{}, nil
}

func scalarTable(column string, value float64) *store.Table {
	return &store.Table{
		Columns: []string{column},
		Rows:    [][]any{{value}},
	}
}

func TestNewCatalog_RegistersDefaults(t *testing.T) {
	c := kpi.NewCatalog(&stubQuerier{}, nil)

	records := c.List()
	require.Len(t, records, 9)

	byName := map[string]*kpi.Record{}
	for _, r := range records {
		byName[r.Name] = r
		assert.True(t, r.Active, r.Name)
	}

	dom, ok := byName["Average Days on Market"]
	require.True(t, ok)
	assert.Equal(t, kpi.CategorySales, dom.Category)
	require.NotNil(t, dom.TargetValue)
	assert.Equal(t, 45.0, *dom.TargetValue)

	occ, ok := byName["Occupancy Rate"]
	require.True(t, ok)
	assert.Equal(t, kpi.CategoryRental, occ.Category)
}

func TestCatalog_GetUnknown(t *testing.T) {
	c := kpi.NewCatalog(&stubQuerier{}, nil)

	_, err := c.Get("Does Not Exist")
	require.Error(t, err)
	assert.True(t, errors.Is(err, kpi.ErrNotFound))
}

func TestCalculate_RecordsValue(t *testing.T) {
	q := &stubQuerier{tables: map[string]*store.Table{
		"avg_days": scalarTable("avg_days", 38.5),
	}}
	c := kpi.NewCatalog(q, nil)

	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	value, err := c.Calculate(context.Background(), "Average Days on Market", asOf)
	require.NoError(t, err)
	assert.Equal(t, 38.5, value)

	r, err := c.Get("Average Days on Market")
	require.NoError(t, err)
	require.NotNil(t, r.CurrentValue)
	assert.Equal(t, 38.5, *r.CurrentValue)
	require.Len(t, r.History, 1)
	assert.Equal(t, asOf, r.History[0].Time)
}

func TestCalculate_UnknownKPI(t *testing.T) {
	c := kpi.NewCatalog(&stubQuerier{}, nil)

	_, err := c.Calculate(context.Background(), "Nope", time.Time{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, kpi.ErrNotFound))
}

func TestCalculate_NoData(t *testing.T) {
	c := kpi.NewCatalog(&stubQuerier{}, nil)

	_, err := c.Calculate(context.Background(), "Average Sale Price", time.Time{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, kpi.ErrUnavailable))

	// A failed calculation must not pollute the history.
	r, err := c.Get("Average Sale Price")
	require.NoError(t, err)
	assert.Empty(t, r.History)
	assert.Nil(t, r.CurrentValue)
}

func TestCalculate_CustomRegistration(t *testing.T) {
	c := kpi.NewCatalog(&stubQuerier{}, nil)

	c.Add(kpi.NewRecord("Listings per Agent", kpi.CategoryOperational,
		"", "listings_per_agent", nil, "listings", kpi.FrequencyWeekly))
	c.Register("listings_per_agent", func(ctx context.Context, q store.Querier, asOf time.Time) (float64, error) {
		return 12.0, nil
	})

	value, err := c.Calculate(context.Background(), "Listings per Agent", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 12.0, value)
}

func TestCalculateAll_PartialFailure(t *testing.T) {
	// Only some queries have data; the financial KPIs always compute.
	q := &stubQuerier{tables: map[string]*store.Table{
		"avg_days":       scalarTable("avg_days", 40),
		"avg_price_sqft": scalarTable("avg_price_sqft", 260),
	}}
	c := kpi.NewCatalog(q, nil)

	report := c.CalculateAll(context.Background(), time.Time{})

	assert.Equal(t, 40.0, report.Values["Average Days on Market"])
	assert.Equal(t, 260.0, report.Values["Price per Square Foot"])
	assert.Equal(t, 0.05, report.Values["Revenue Growth Rate"])
	assert.Equal(t, 0.15, report.Values["Profit Margin"])

	assert.Contains(t, report.Failures, "Average Sale Price")
	assert.Contains(t, report.Failures, "Occupancy Rate")
	assert.NotContains(t, report.Values, "Average Sale Price")
	assert.False(t, report.CalculatedAt.IsZero())
}

func TestCalculateAll_SkipsInactive(t *testing.T) {
	q := &stubQuerier{tables: map[string]*store.Table{
		"avg_days": scalarTable("avg_days", 40),
	}}
	c := kpi.NewCatalog(q, nil)
	require.True(t, c.Deactivate("Average Days on Market"))

	report := c.CalculateAll(context.Background(), time.Time{})
	assert.NotContains(t, report.Values, "Average Days on Market")
	assert.NotContains(t, report.Failures, "Average Days on Market")
}

func TestDashboard(t *testing.T) {
	c := kpi.NewCatalog(&stubQuerier{}, nil)
	require.True(t, c.Deactivate("Profit Margin"))

	d := c.Dashboard()
	assert.Equal(t, 9, d.TotalKPIs)
	assert.Equal(t, 8, d.ActiveKPIs)
	assert.Len(t, d.Categories[kpi.CategorySales], 3)
	assert.Len(t, d.Categories[kpi.CategoryRental], 2)
	assert.Len(t, d.Categories[kpi.CategoryFinancial], 1)
}
