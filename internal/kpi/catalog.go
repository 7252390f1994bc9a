package kpi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/realpulse/realpulse/internal/store"
)

var (
	// ErrNotFound reports an unknown KPI name or calculation method.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable reports that a calculation produced no value, for
	// example because the underlying tables hold no matching rows.
	ErrUnavailable = errors.New("calculation unavailable")
)

// CalcFunc computes one KPI value from the data platform as of a given
// time. Implementations return ErrUnavailable when no value can be
// derived from the available data.
type CalcFunc func(ctx context.Context, q store.Querier, asOf time.Time) (float64, error)

// Catalog is a keyed collection of KPI records with a pluggable
// calculation-function registry. The actual numeric computations run
// against the external data platform through the Querier.
type Catalog struct {
	querier store.Querier
	records map[string]*Record
	order   []string
	calcs   map[string]CalcFunc
	logger  *zap.Logger
}

// NewCatalog creates a catalog pre-loaded with the default real-estate
// KPIs and their calculation functions. A nil logger defaults to a
// no-op.
func NewCatalog(q store.Querier, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{
		querier: q,
		records: make(map[string]*Record),
		calcs:   make(map[string]CalcFunc),
		logger:  logger,
	}
	registerDefaults(c)
	return c
}

// Add registers a KPI record, replacing any record with the same name.
func (c *Catalog) Add(r *Record) {
	if _, ok := c.records[r.Name]; !ok {
		c.order = append(c.order, r.Name)
	}
	c.records[r.Name] = r
}

// Register binds a calculation method name to its function.
func (c *Catalog) Register(method string, fn CalcFunc) {
	c.calcs[method] = fn
}

// Get returns the named KPI record.
func (c *Catalog) Get(name string) (*Record, error) {
	r, ok := c.records[name]
	if !ok {
		return nil, fmt.Errorf("kpi %q: %w", name, ErrNotFound)
	}
	return r, nil
}

// List returns all records in registration order.
func (c *Catalog) List() []*Record {
	out := make([]*Record, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.records[name])
	}
	return out
}

// Deactivate marks a KPI inactive. Records are never deleted.
func (c *Catalog) Deactivate(name string) bool {
	r, ok := c.records[name]
	if !ok {
		return false
	}
	r.Active = false
	return true
}

// Calculate computes one KPI as of the given time and, on success,
// appends the value to the record's history.
func (c *Catalog) Calculate(ctx context.Context, name string, asOf time.Time) (float64, error) {
	r, ok := c.records[name]
	if !ok {
		return 0, fmt.Errorf("kpi %q: %w", name, ErrNotFound)
	}
	fn, ok := c.calcs[r.CalculationMethod]
	if !ok {
		return 0, fmt.Errorf("calculation method %q: %w", r.CalculationMethod, ErrNotFound)
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	value, err := fn(ctx, c.querier, asOf)
	if err != nil {
		return 0, err
	}

	r.RecordValue(value, asOf, "")
	return value, nil
}

// BatchReport collects the outcome of a batch calculation: computed
// values plus per-KPI failure reasons. A failed KPI never aborts the
// batch.
type BatchReport struct {
	Values       map[string]float64 `json:"values"`
	Failures     map[string]string  `json:"failures,omitempty"`
	CalculatedAt time.Time          `json:"calculated_at"`
}

// CalculateAll computes every active KPI, logging and skipping the ones
// that fail.
func (c *Catalog) CalculateAll(ctx context.Context, asOf time.Time) BatchReport {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	report := BatchReport{
		Values:       make(map[string]float64),
		Failures:     make(map[string]string),
		CalculatedAt: asOf,
	}

	for _, name := range c.order {
		r := c.records[name]
		if !r.Active {
			continue
		}
		value, err := c.Calculate(ctx, name, asOf)
		if err != nil {
			c.logger.Warn("kpi calculation failed",
				zap.String("kpi", name),
				zap.String("method", r.CalculationMethod),
				zap.Error(err))
			report.Failures[name] = err.Error()
			continue
		}
		report.Values[name] = value
	}
	return report
}

// Dashboard groups active KPI snapshots by category.
type Dashboard struct {
	TotalKPIs   int                     `json:"total_kpis"`
	ActiveKPIs  int                     `json:"active_kpis"`
	Categories  map[Category][]Snapshot `json:"categories"`
	LastUpdated time.Time               `json:"last_updated"`
}

// Dashboard returns the grouped snapshot view of all active KPIs.
func (c *Catalog) Dashboard() Dashboard {
	d := Dashboard{
		TotalKPIs:   len(c.records),
		Categories:  make(map[Category][]Snapshot),
		LastUpdated: time.Now(),
	}
	for _, name := range c.order {
		r := c.records[name]
		if !r.Active {
			continue
		}
		d.ActiveKPIs++
		d.Categories[r.Category] = append(d.Categories[r.Category], r.Snapshot())
	}
	return d
}
