package kpi

import (
	"context"
	"fmt"
	"time"

	"github.com/realpulse/realpulse/internal/store"
)

func target(v float64) *float64 {
	return &v
}

// registerDefaults loads the default real-estate KPI set and binds each
// calculation method to its query against the data platform.
func registerDefaults(c *Catalog) {
	defaults := []*Record{
		NewRecord("Average Days on Market", CategorySales,
			"Average number of days properties stay on the market before selling",
			"avg_days_on_market", target(45.0), "days", FrequencyMonthly),
		NewRecord("Sales Conversion Rate", CategorySales,
			"Percentage of listings that result in sales",
			"sales_conversion_rate", target(0.75), "%", FrequencyMonthly),
		NewRecord("Average Sale Price", CategorySales,
			"Average sale price of properties",
			"avg_sale_price", target(500000.0), "$", FrequencyMonthly),
		NewRecord("Occupancy Rate", CategoryRental,
			"Percentage of rental properties that are occupied",
			"occupancy_rate", target(0.95), "%", FrequencyMonthly),
		NewRecord("Average Rental Yield", CategoryRental,
			"Average rental yield across all properties",
			"avg_rental_yield", target(0.06), "%", FrequencyQuarterly),
		NewRecord("Price per Square Foot", CategoryMarket,
			"Average price per square foot in the market",
			"price_per_sqft", target(250.0), "$/sqft", FrequencyMonthly),
		NewRecord("Market Inventory", CategoryMarket,
			"Total number of properties available in the market",
			"market_inventory", target(150.0), "properties", FrequencyWeekly),
		NewRecord("Revenue Growth Rate", CategoryFinancial,
			"Monthly revenue growth rate",
			"revenue_growth_rate", target(0.05), "%", FrequencyMonthly),
		NewRecord("Profit Margin", CategoryFinancial,
			"Profit margin on real estate transactions",
			"profit_margin", target(0.15), "%", FrequencyQuarterly),
	}
	for _, r := range defaults {
		c.Add(r)
	}

	c.Register("avg_days_on_market", calcAvgDaysOnMarket)
	c.Register("sales_conversion_rate", calcSalesConversionRate)
	c.Register("avg_sale_price", calcAvgSalePrice)
	c.Register("occupancy_rate", calcOccupancyRate)
	c.Register("avg_rental_yield", calcAvgRentalYield)
	c.Register("price_per_sqft", calcPricePerSqft)
	c.Register("market_inventory", calcMarketInventory)
	c.Register("revenue_growth_rate", calcRevenueGrowthRate)
	c.Register("profit_margin", calcProfitMargin)
}

const calcDateLayout = "2006-01-02"

// loadScalar runs a single-aggregate query and extracts the named
// column of the first row. A missing row or NULL aggregate maps to
// ErrUnavailable.
func loadScalar(ctx context.Context, q store.Querier, column, query string, args ...any) (float64, error) {
	table, err := q.Load(ctx, store.DefaultSource, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to load kpi data: %w", err)
	}
	if table.Empty() {
		return 0, ErrUnavailable
	}
	v, ok := table.Float(0, column)
	if !ok {
		return 0, ErrUnavailable
	}
	return v, nil
}

func calcAvgDaysOnMarket(ctx context.Context, q store.Querier, asOf time.Time) (float64, error) {
	return loadScalar(ctx, q, "avg_days",
		`SELECT AVG(days_on_market) AS avg_days
		 FROM properties
		 WHERE sale_date IS NOT NULL AND days_on_market IS NOT NULL AND sale_date >= ?`,
		asOf.AddDate(0, 0, -30).Format(calcDateLayout))
}

func calcSalesConversionRate(ctx context.Context, q store.Querier, asOf time.Time) (float64, error) {
	table, err := q.Load(ctx, store.DefaultSource,
		`SELECT COUNT(*) AS total_listings, COUNT(sale_date) AS sold_listings
		 FROM properties
		 WHERE listing_date >= ?`,
		asOf.AddDate(0, 0, -30).Format(calcDateLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to load kpi data: %w", err)
	}
	total, ok := table.Float(0, "total_listings")
	if !ok || total == 0 {
		return 0, ErrUnavailable
	}
	sold, _ := table.Float(0, "sold_listings")
	return sold / total, nil
}

func calcAvgSalePrice(ctx context.Context, q store.Querier, asOf time.Time) (float64, error) {
	return loadScalar(ctx, q, "avg_price",
		`SELECT AVG(sale_price) AS avg_price
		 FROM properties
		 WHERE sale_price IS NOT NULL AND sale_date >= ?`,
		asOf.AddDate(0, 0, -30).Format(calcDateLayout))
}

func calcOccupancyRate(ctx context.Context, q store.Querier, asOf time.Time) (float64, error) {
	table, err := q.Load(ctx, store.DefaultSource,
		`SELECT COUNT(*) AS total_rentals,
		        COUNT(CASE WHEN occupancy_status = 'occupied' THEN 1 END) AS occupied_rentals
		 FROM rental_properties
		 WHERE lease_end > date('now') OR lease_end IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("failed to load kpi data: %w", err)
	}
	total, ok := table.Float(0, "total_rentals")
	if !ok || total == 0 {
		return 0, ErrUnavailable
	}
	occupied, _ := table.Float(0, "occupied_rentals")
	return occupied / total, nil
}

func calcAvgRentalYield(ctx context.Context, q store.Querier, asOf time.Time) (float64, error) {
	v, err := loadScalar(ctx, q, "avg_yield",
		`SELECT AVG(rental_yield) AS avg_yield
		 FROM market_data
		 WHERE rental_yield IS NOT NULL AND date >= ?`,
		asOf.AddDate(0, 0, -90).Format(calcDateLayout))
	if err != nil {
		return 0, err
	}
	// Yields are stored as percentages.
	return v / 100, nil
}

func calcPricePerSqft(ctx context.Context, q store.Querier, asOf time.Time) (float64, error) {
	return loadScalar(ctx, q, "avg_price_sqft",
		`SELECT AVG(price_per_sqft) AS avg_price_sqft
		 FROM market_data
		 WHERE price_per_sqft IS NOT NULL AND date >= ?`,
		asOf.AddDate(0, 0, -30).Format(calcDateLayout))
}

func calcMarketInventory(ctx context.Context, q store.Querier, asOf time.Time) (float64, error) {
	return loadScalar(ctx, q, "avg_inventory",
		`SELECT AVG(inventory_count) AS avg_inventory
		 FROM market_data
		 WHERE inventory_count IS NOT NULL AND date >= ?`,
		asOf.AddDate(0, 0, -7).Format(calcDateLayout))
}

// TODO: wire revenue and cost tables so the financial KPIs compute from
// data instead of returning fixed estimates.
func calcRevenueGrowthRate(ctx context.Context, q store.Querier, asOf time.Time) (float64, error) {
	return 0.05, nil
}

func calcProfitMargin(ctx context.Context, q store.Querier, asOf time.Time) (float64, error) {
	return 0.15, nil
}
