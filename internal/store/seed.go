package store

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

var (
	seedPropertyTypes = []string{"Single Family", "Condo", "Townhouse", "Multi-Family"}
	seedStreets       = []string{"Main", "Oak", "Pine", "Elm"}
	seedRegions       = []string{"Downtown", "Suburbs", "Waterfront", "Historic District"}
)

// Seed fills the properties and market_data tables with generated
// sample data: 100 property listings and a year of weekly market rows
// per region. Existing rows in those tables are replaced.
func (p *Platform) Seed(ctx context.Context, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"properties", "market_data"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i := 0; i < 100; i++ {
		listingDate := now.AddDate(0, 0, -(1 + rng.Intn(365)))
		daysOnMarket := 1 + rng.Intn(180)

		var saleDate, saleDOM, salePrice any
		if rng.Float64() > 0.3 {
			saleDate = listingDate.AddDate(0, 0, daysOnMarket).Format(dateLayout)
			saleDOM = daysOnMarket
			salePrice = 180000 + rng.Intn(570001)
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO properties (address, property_type, bedrooms, bathrooms, square_feet, lot_size,
			   year_built, listing_price, sale_price, listing_date, sale_date, days_on_market, agent_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			fmt.Sprintf("%d %s St", 100+rng.Intn(9900), seedStreets[rng.Intn(len(seedStreets))]),
			seedPropertyTypes[rng.Intn(len(seedPropertyTypes))],
			1+rng.Intn(5),
			1+rng.Intn(4),
			800+rng.Intn(3201),
			0.1+rng.Float64()*1.9,
			1950+rng.Intn(74),
			200000+rng.Intn(600001),
			salePrice,
			listingDate.Format(dateLayout),
			saleDate,
			saleDOM,
			fmt.Sprintf("AGENT_%03d", 1+rng.Intn(20)),
		)
		if err != nil {
			return fmt.Errorf("failed to insert sample property: %w", err)
		}
	}

	// Weekly market data for a year, per region.
	for week := 0; week < 52; week++ {
		date := now.AddDate(0, 0, -7*week).Format(dateLayout)
		for _, region := range seedRegions {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO market_data (date, region, median_price, average_days_on_market,
				   inventory_count, price_per_sqft, rental_yield)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				date,
				region,
				300000+rng.Intn(300001),
				20+rng.Intn(71),
				50+rng.Intn(151),
				150+rng.Intn(251),
				3.0+rng.Float64()*5.0,
			)
			if err != nil {
				return fmt.Errorf("failed to insert sample market data: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return nil
}
