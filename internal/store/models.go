package store

import "time"

// Table is a generic named-column result set. Callers of the query
// interface see only tables, never SQL types.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

func (t *Table) colIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Float returns the named column of a row as a float64. The second
// return is false for missing columns, NULLs and non-numeric values.
func (t *Table) Float(row int, col string) (float64, bool) {
	i := t.colIndex(col)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return 0, false
	}
	switch v := t.Rows[row][i].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// String returns the named column of a row as a string.
func (t *Table) String(row int, col string) (string, bool) {
	i := t.colIndex(col)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return "", false
	}
	switch v := t.Rows[row][i].(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}

// Experiment is a persisted test-session snapshot. The payload is an
// opaque JSON document owned by the caller.
type Experiment struct {
	ID        string
	Name      string
	Status    string
	Payload   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KPIObservation is one persisted KPI measurement.
type KPIObservation struct {
	Date     time.Time
	Name     string
	Value    float64
	Target   *float64
	Category string
}

// Client is a persisted client record.
type Client struct {
	ID           int64
	Name         string
	Location     string
	Company      string
	ContactEmail string
	BusinessType string
	Experience   string
	CreatedAt    time.Time
}

// ServiceRequest is a persisted service-request record.
type ServiceRequest struct {
	ID          string
	ClientName  string
	ServiceType string
	ProjectType string
	Title       string
	Status      string
	Priority    string
	Deadline    time.Time
	CreatedAt   time.Time
}
