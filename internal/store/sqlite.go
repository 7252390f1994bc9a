package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// Platform is the SQLite-backed data platform. One embedded database is
// registered as the default source; additional SQLite files can be
// attached as named sources.
type Platform struct {
	db      *sql.DB
	sources map[string]*sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS properties (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    address TEXT NOT NULL,
    property_type TEXT,
    bedrooms INTEGER,
    bathrooms INTEGER,
    square_feet REAL,
    lot_size REAL,
    year_built INTEGER,
    listing_price REAL,
    sale_price REAL,
    listing_date TEXT,
    sale_date TEXT,
    days_on_market INTEGER,
    agent_id TEXT,
    created_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS rental_properties (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    property_id INTEGER,
    monthly_rent REAL,
    lease_start TEXT,
    lease_end TEXT,
    tenant_id TEXT,
    occupancy_status TEXT,
    last_maintenance TEXT,
    created_at INTEGER NOT NULL DEFAULT (unixepoch()),
    FOREIGN KEY (property_id) REFERENCES properties (id)
);

CREATE TABLE IF NOT EXISTS market_data (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT,
    region TEXT,
    median_price REAL,
    average_days_on_market INTEGER,
    inventory_count INTEGER,
    price_per_sqft REAL,
    rental_yield REAL,
    created_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_market_data_date ON market_data(date);
CREATE INDEX IF NOT EXISTS idx_market_data_region ON market_data(region);

CREATE TABLE IF NOT EXISTS kpi_tracking (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT,
    kpi_name TEXT NOT NULL,
    kpi_value REAL NOT NULL,
    target_value REAL,
    category TEXT,
    created_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_kpi_tracking_name ON kpi_tracking(kpi_name);

CREATE TABLE IF NOT EXISTS experiments (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    status TEXT NOT NULL,
    payload TEXT NOT NULL,
    created_at INTEGER NOT NULL DEFAULT (unixepoch()),
    updated_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_experiments_name ON experiments(name);
CREATE INDEX IF NOT EXISTS idx_experiments_status ON experiments(status);

CREATE TABLE IF NOT EXISTS clients (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    location TEXT,
    company TEXT,
    contact_email TEXT,
    business_type TEXT,
    analytics_experience TEXT,
    created_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS service_requests (
    id TEXT PRIMARY KEY,
    client_name TEXT NOT NULL,
    service_type TEXT NOT NULL,
    project_type TEXT,
    title TEXT,
    status TEXT NOT NULL,
    priority TEXT,
    deadline INTEGER,
    created_at INTEGER NOT NULL DEFAULT (unixepoch())
);
`

// Open opens (creating if necessary) the embedded database at dbPath,
// enables WAL mode and applies the schema.
func Open(dbPath string) (*Platform, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Platform{
		db:      db,
		sources: map[string]*sql.DB{DefaultSource: db},
	}, nil
}

// AddSource attaches another SQLite file as a named data source.
func (p *Platform) AddSource(name, dbPath string) error {
	if _, ok := p.sources[name]; ok {
		return fmt.Errorf("source %q already registered", name)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open source %q: %w", name, err)
	}
	p.sources[name] = db
	return nil
}

func (p *Platform) Close() error {
	var firstErr error
	for name, db := range p.sources {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close source %q: %w", name, err)
		}
		delete(p.sources, name)
	}
	p.db = nil
	return firstErr
}

// Load runs a query against a named source and returns the result as a
// generic table.
func (p *Platform) Load(ctx context.Context, source, query string, args ...any) (*Table, error) {
	db, ok := p.sources[source]
	if !ok {
		return nil, fmt.Errorf("source %q: %w", source, ErrNotFound)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	table := &Table{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return table, nil
}

// DB returns the underlying default database connection for health
// checks and tests.
func (p *Platform) DB() *sql.DB {
	return p.db
}
