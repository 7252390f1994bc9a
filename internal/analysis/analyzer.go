// Package analysis provides descriptive analyses over the data
// platform: market trends, property sales performance and rental
// performance. All output is plain numbers; rendering stays with the
// presentation layer.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/realpulse/realpulse/internal/stats"
	"github.com/realpulse/realpulse/internal/store"
)

// ErrNoData reports that the queried tables held no matching rows.
var ErrNoData = errors.New("no data available")

const dateLayout = "2006-01-02"

// ColumnTrend describes the linear trend of one market metric over the
// analysis window.
type ColumnTrend struct {
	CurrentValue  float64 `json:"current_value"`
	Slope         float64 `json:"trend_slope"`
	Direction     string  `json:"trend_direction"`
	Correlation   float64 `json:"correlation"`
	PercentChange float64 `json:"percentage_change"`
}

// RegionSummary aggregates market metrics for one region.
type RegionSummary struct {
	AvgMedianPrice  float64 `json:"avg_median_price"`
	AvgDaysOnMarket float64 `json:"avg_days_on_market"`
	AvgInventory    float64 `json:"avg_inventory"`
}

// MarketReport is the output of a market-trends analysis.
type MarketReport struct {
	Region          string                   `json:"region"`
	PeriodDays      int                      `json:"time_period_days"`
	DataPoints      int                      `json:"data_points"`
	Trends          map[string]ColumnTrend   `json:"trends"`
	RegionalSummary map[string]RegionSummary `json:"regional_summary,omitempty"`
	AnalyzedAt      time.Time                `json:"analysis_date"`
}

var marketColumns = []string{
	"median_price",
	"average_days_on_market",
	"inventory_count",
	"price_per_sqft",
	"rental_yield",
}

// MarketTrends analyzes market data over the given period. An empty
// region analyzes all regions and adds a per-region summary.
func MarketTrends(ctx context.Context, q store.Querier, region string, periodDays int) (*MarketReport, error) {
	if periodDays <= 0 {
		periodDays = 365
	}

	query := `SELECT date, region, median_price, average_days_on_market,
	       inventory_count, price_per_sqft, rental_yield
	FROM market_data
	WHERE date >= ?`
	args := []any{time.Now().AddDate(0, 0, -periodDays).Format(dateLayout)}
	if region != "" {
		query += " AND region = ?"
		args = append(args, region)
	}
	query += " ORDER BY date"

	table, err := q.Load(ctx, store.DefaultSource, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load market data: %w", err)
	}
	if table.Empty() {
		return nil, ErrNoData
	}

	report := &MarketReport{
		Region:     region,
		PeriodDays: periodDays,
		DataPoints: table.Len(),
		Trends:     make(map[string]ColumnTrend),
		AnalyzedAt: time.Now(),
	}
	if region == "" {
		report.Region = "all_regions"
	}

	for _, col := range marketColumns {
		values := columnValues(table, col)
		if len(values) < 2 {
			continue
		}
		report.Trends[col] = columnTrend(values)
	}

	if region == "" {
		report.RegionalSummary = regionalSummary(table)
	}

	return report, nil
}

func columnValues(table *store.Table, col string) []float64 {
	var values []float64
	for i := 0; i < table.Len(); i++ {
		if v, ok := table.Float(i, col); ok {
			values = append(values, v)
		}
	}
	return values
}

func columnTrend(values []float64) ColumnTrend {
	slope := stats.LinearSlope(values)

	direction := "stable"
	if slope > 0 {
		direction = "increasing"
	} else if slope < 0 {
		direction = "decreasing"
	}

	pctChange := 0.0
	if values[0] != 0 {
		pctChange = (values[len(values)-1] - values[0]) / values[0] * 100
	}

	return ColumnTrend{
		CurrentValue:  values[len(values)-1],
		Slope:         slope,
		Direction:     direction,
		Correlation:   stats.Correlation(values),
		PercentChange: pctChange,
	}
}

func regionalSummary(table *store.Table) map[string]RegionSummary {
	type acc struct {
		price, dom, inventory float64
		n                     int
	}
	byRegion := make(map[string]*acc)

	for i := 0; i < table.Len(); i++ {
		region, ok := table.String(i, "region")
		if !ok {
			continue
		}
		a := byRegion[region]
		if a == nil {
			a = &acc{}
			byRegion[region] = a
		}
		if v, ok := table.Float(i, "median_price"); ok {
			a.price += v
		}
		if v, ok := table.Float(i, "average_days_on_market"); ok {
			a.dom += v
		}
		if v, ok := table.Float(i, "inventory_count"); ok {
			a.inventory += v
		}
		a.n++
	}

	summary := make(map[string]RegionSummary, len(byRegion))
	for region, a := range byRegion {
		if a.n == 0 {
			continue
		}
		n := float64(a.n)
		summary[region] = RegionSummary{
			AvgMedianPrice:  a.price / n,
			AvgDaysOnMarket: a.dom / n,
			AvgInventory:    a.inventory / n,
		}
	}
	return summary
}

// TypePerformance aggregates sales performance for one property type.
type TypePerformance struct {
	TotalListings   int     `json:"total_listings"`
	SoldListings    int     `json:"sold_listings"`
	ConversionRate  float64 `json:"conversion_rate"`
	AvgSalePrice    float64 `json:"avg_sale_price"`
	AvgListingPrice float64 `json:"avg_listing_price"`
	AvgDaysOnMarket float64 `json:"avg_days_on_market"`
}

// PropertyReport is the output of a property-performance analysis.
type PropertyReport struct {
	PropertyType string                     `json:"property_type"`
	ByType       map[string]TypePerformance `json:"by_type"`
	AnalyzedAt   time.Time                  `json:"analysis_date"`
}

// PropertyPerformance analyzes sales performance grouped by property
// type. An empty propertyType covers all types.
func PropertyPerformance(ctx context.Context, q store.Querier, propertyType string) (*PropertyReport, error) {
	query := `SELECT property_type,
	       COUNT(*) AS total_listings,
	       COUNT(sale_date) AS sold_listings,
	       AVG(sale_price) AS avg_sale_price,
	       AVG(listing_price) AS avg_listing_price,
	       AVG(days_on_market) AS avg_days_on_market
	FROM properties`
	var args []any
	if propertyType != "" {
		query += " WHERE property_type = ?"
		args = append(args, propertyType)
	}
	query += " GROUP BY property_type ORDER BY property_type"

	table, err := q.Load(ctx, store.DefaultSource, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load property data: %w", err)
	}
	if table.Empty() {
		return nil, ErrNoData
	}

	report := &PropertyReport{
		PropertyType: propertyType,
		ByType:       make(map[string]TypePerformance),
		AnalyzedAt:   time.Now(),
	}
	if propertyType == "" {
		report.PropertyType = "all_types"
	}

	for i := 0; i < table.Len(); i++ {
		name, ok := table.String(i, "property_type")
		if !ok {
			continue
		}
		total, _ := table.Float(i, "total_listings")
		sold, _ := table.Float(i, "sold_listings")
		avgSale, _ := table.Float(i, "avg_sale_price")
		avgListing, _ := table.Float(i, "avg_listing_price")
		avgDOM, _ := table.Float(i, "avg_days_on_market")

		perf := TypePerformance{
			TotalListings:   int(total),
			SoldListings:    int(sold),
			AvgSalePrice:    avgSale,
			AvgListingPrice: avgListing,
			AvgDaysOnMarket: avgDOM,
		}
		if total > 0 {
			perf.ConversionRate = sold / total
		}
		report.ByType[name] = perf
	}

	return report, nil
}

// RentalReport is the output of a rental-performance analysis.
type RentalReport struct {
	TotalRentals   int       `json:"total_rentals"`
	OccupiedUnits  int       `json:"occupied_units"`
	OccupancyRate  float64   `json:"occupancy_rate"`
	AvgMonthlyRent float64   `json:"avg_monthly_rent"`
	AnalyzedAt     time.Time `json:"analysis_date"`
}

// RentalPerformance summarizes occupancy and rent across the rental
// portfolio.
func RentalPerformance(ctx context.Context, q store.Querier) (*RentalReport, error) {
	table, err := q.Load(ctx, store.DefaultSource,
		`SELECT COUNT(*) AS total_rentals,
		        COUNT(CASE WHEN occupancy_status = 'occupied' THEN 1 END) AS occupied_units,
		        AVG(monthly_rent) AS avg_monthly_rent
		 FROM rental_properties`)
	if err != nil {
		return nil, fmt.Errorf("failed to load rental data: %w", err)
	}

	total, ok := table.Float(0, "total_rentals")
	if !ok || total == 0 {
		return nil, ErrNoData
	}
	occupied, _ := table.Float(0, "occupied_units")
	avgRent, _ := table.Float(0, "avg_monthly_rent")

	return &RentalReport{
		TotalRentals:   int(total),
		OccupiedUnits:  int(occupied),
		OccupancyRate:  occupied / total,
		AvgMonthlyRent: avgRent,
		AnalyzedAt:     time.Now(),
	}, nil
}
