package analysis_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/realpulse/realpulse/internal/analysis"
	"github.com/realpulse/realpulse/internal/store"
)

func openSeededPlatform(t *testing.T) *store.Platform {
	t.Helper()
	p, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open platform: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func insertMarketRow(t *testing.T, p *store.Platform, date time.Time, region string, medianPrice float64, dom, inventory int) {
	t.Helper()
	_, err := p.DB().Exec(
		`INSERT INTO market_data (date, region, median_price, average_days_on_market, inventory_count, price_per_sqft, rental_yield)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		date.Format("2006-01-02"), region, medianPrice, dom, inventory, medianPrice/1500, 4.5)
	if err != nil {
		t.Fatalf("failed to insert market row: %v", err)
	}
}

func TestMarketTrends_NoData(t *testing.T) {
	p := openSeededPlatform(t)

	_, err := analysis.MarketTrends(context.Background(), p, "", 90)
	if !errors.Is(err, analysis.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestMarketTrends_SingleRegion(t *testing.T) {
	p := openSeededPlatform(t)
	now := time.Now()

	// Steadily rising prices over 6 weeks.
	for week := 0; week < 6; week++ {
		date := now.AddDate(0, 0, -7*(5-week))
		insertMarketRow(t, p, date, "Downtown", 300000+float64(week)*10000, 40-week, 100)
	}
	// A row outside the window must be excluded.
	insertMarketRow(t, p, now.AddDate(0, 0, -120), "Downtown", 900000, 90, 500)

	report, err := analysis.MarketTrends(context.Background(), p, "Downtown", 90)
	if err != nil {
		t.Fatalf("failed to analyze: %v", err)
	}

	if report.Region != "Downtown" {
		t.Errorf("region = %s", report.Region)
	}
	if report.DataPoints != 6 {
		t.Errorf("data points = %d, want 6", report.DataPoints)
	}
	if report.RegionalSummary != nil {
		t.Error("single-region analysis should not carry a regional summary")
	}

	price, ok := report.Trends["median_price"]
	if !ok {
		t.Fatal("missing median_price trend")
	}
	if price.Direction != "increasing" {
		t.Errorf("price direction = %s", price.Direction)
	}
	if math.Abs(price.Slope-10000) > 1e-6 {
		t.Errorf("price slope = %v, want 10000", price.Slope)
	}
	if price.CurrentValue != 350000 {
		t.Errorf("current price = %v", price.CurrentValue)
	}

	dom, ok := report.Trends["average_days_on_market"]
	if !ok {
		t.Fatal("missing days-on-market trend")
	}
	if dom.Direction != "decreasing" {
		t.Errorf("dom direction = %s", dom.Direction)
	}
}

func TestMarketTrends_AllRegionsSummary(t *testing.T) {
	p := openSeededPlatform(t)
	now := time.Now()

	for week := 0; week < 4; week++ {
		date := now.AddDate(0, 0, -7*week)
		insertMarketRow(t, p, date, "Downtown", 400000, 30, 80)
		insertMarketRow(t, p, date, "Suburbs", 250000, 50, 120)
	}

	report, err := analysis.MarketTrends(context.Background(), p, "", 90)
	if err != nil {
		t.Fatalf("failed to analyze: %v", err)
	}

	if report.Region != "all_regions" {
		t.Errorf("region = %s", report.Region)
	}
	if len(report.RegionalSummary) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(report.RegionalSummary))
	}
	downtown := report.RegionalSummary["Downtown"]
	if downtown.AvgMedianPrice != 400000 {
		t.Errorf("downtown avg price = %v", downtown.AvgMedianPrice)
	}
	suburbs := report.RegionalSummary["Suburbs"]
	if suburbs.AvgDaysOnMarket != 50 {
		t.Errorf("suburbs avg dom = %v", suburbs.AvgDaysOnMarket)
	}
}

func TestPropertyPerformance(t *testing.T) {
	p := openSeededPlatform(t)

	insert := func(ptype string, listing, sale float64, sold bool) {
		var saleDate, salePrice any
		if sold {
			saleDate = "2026-08-01"
			salePrice = sale
		}
		_, err := p.DB().Exec(
			`INSERT INTO properties (address, property_type, listing_price, sale_price, listing_date, sale_date, days_on_market)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			fmt.Sprintf("1 %s Way", ptype), ptype, listing, salePrice, "2026-06-01", saleDate, 45)
		if err != nil {
			t.Fatalf("failed to insert property: %v", err)
		}
	}

	insert("Condo", 300000, 290000, true)
	insert("Condo", 320000, 0, false)
	insert("Single Family", 500000, 510000, true)

	report, err := analysis.PropertyPerformance(context.Background(), p, "")
	if err != nil {
		t.Fatalf("failed to analyze: %v", err)
	}
	if report.PropertyType != "all_types" {
		t.Errorf("property type = %s", report.PropertyType)
	}
	if len(report.ByType) != 2 {
		t.Fatalf("expected 2 types, got %d", len(report.ByType))
	}

	condo := report.ByType["Condo"]
	if condo.TotalListings != 2 || condo.SoldListings != 1 {
		t.Errorf("condo counts: %+v", condo)
	}
	if math.Abs(condo.ConversionRate-0.5) > 1e-9 {
		t.Errorf("condo conversion = %v", condo.ConversionRate)
	}
	if condo.AvgSalePrice != 290000 {
		t.Errorf("condo avg sale = %v", condo.AvgSalePrice)
	}

	// Filtered by type.
	report, err = analysis.PropertyPerformance(context.Background(), p, "Single Family")
	if err != nil {
		t.Fatalf("failed to analyze: %v", err)
	}
	if len(report.ByType) != 1 {
		t.Errorf("expected 1 type, got %d", len(report.ByType))
	}

	// Unknown type has no rows.
	_, err = analysis.PropertyPerformance(context.Background(), p, "Castle")
	if !errors.Is(err, analysis.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestRentalPerformance(t *testing.T) {
	p := openSeededPlatform(t)

	_, err := analysis.RentalPerformance(context.Background(), p)
	if !errors.Is(err, analysis.ErrNoData) {
		t.Errorf("expected ErrNoData on empty portfolio, got %v", err)
	}

	for i, status := range []string{"occupied", "occupied", "occupied", "vacant"} {
		_, err := p.DB().Exec(
			`INSERT INTO rental_properties (property_id, monthly_rent, occupancy_status)
			 VALUES (?, ?, ?)`,
			i+1, 2000+float64(i)*100, status)
		if err != nil {
			t.Fatalf("failed to insert rental: %v", err)
		}
	}

	report, err := analysis.RentalPerformance(context.Background(), p)
	if err != nil {
		t.Fatalf("failed to analyze: %v", err)
	}
	if report.TotalRentals != 4 || report.OccupiedUnits != 3 {
		t.Errorf("counts: %+v", report)
	}
	if math.Abs(report.OccupancyRate-0.75) > 1e-9 {
		t.Errorf("occupancy = %v", report.OccupancyRate)
	}
	if math.Abs(report.AvgMonthlyRent-2150) > 1e-9 {
		t.Errorf("avg rent = %v", report.AvgMonthlyRent)
	}
}
