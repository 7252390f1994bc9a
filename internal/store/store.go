package store

import (
	"context"
	"time"
)

// DefaultSource is the data-source name registered for the embedded
// database at Open time.
const DefaultSource = "default_database"

// Querier is the query interface the analytics core consumes. Results
// are plain named-column tables; the core knows nothing about SQL or
// the underlying engine.
type Querier interface {
	Load(ctx context.Context, source, query string, args ...any) (*Table, error)
}

// Store defines the full data-platform surface: the query interface
// plus the tables the toolkit persists into.
type Store interface {
	Querier

	// Experiment snapshots
	SaveExperiment(ctx context.Context, id, name, status string, payload []byte) error
	GetExperiment(ctx context.Context, key string) (*Experiment, error)
	ListExperiments(ctx context.Context) ([]*Experiment, error)
	DeleteExperiment(ctx context.Context, id string) error

	// KPI tracking
	RecordKPIValue(ctx context.Context, name string, value float64, target *float64, category string, date time.Time) error
	KPIHistory(ctx context.Context, name string) ([]KPIObservation, error)

	// CRM records
	InsertClient(ctx context.Context, c Client) (int64, error)
	ListClients(ctx context.Context) ([]*Client, error)
	InsertServiceRequest(ctx context.Context, r ServiceRequest) error
	ListServiceRequests(ctx context.Context) ([]*ServiceRequest, error)

	// Lifecycle
	Close() error
}
