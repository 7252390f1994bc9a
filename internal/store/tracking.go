package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// RecordKPIValue appends a KPI measurement to the tracking table.
func (p *Platform) RecordKPIValue(ctx context.Context, name string, value float64, target *float64, category string, date time.Time) error {
	var targetVal sql.NullFloat64
	if target != nil {
		targetVal = sql.NullFloat64{Float64: *target, Valid: true}
	}

	_, err := p.db.ExecContext(ctx,
		`INSERT INTO kpi_tracking (date, kpi_name, kpi_value, target_value, category)
		 VALUES (?, ?, ?, ?, ?)`,
		date.Format(dateLayout), name, value, targetVal, category,
	)
	if err != nil {
		return fmt.Errorf("failed to record kpi value: %w", err)
	}
	return nil
}

// KPIHistory returns the persisted measurements for one KPI, oldest
// first.
func (p *Platform) KPIHistory(ctx context.Context, name string) ([]KPIObservation, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT date, kpi_name, kpi_value, target_value, category
		 FROM kpi_tracking WHERE kpi_name = ? ORDER BY date, id`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get kpi history: %w", err)
	}
	defer rows.Close()

	var history []KPIObservation
	for rows.Next() {
		var obs KPIObservation
		var dateStr string
		var target sql.NullFloat64
		var category sql.NullString
		if err := rows.Scan(&dateStr, &obs.Name, &obs.Value, &target, &category); err != nil {
			return nil, fmt.Errorf("failed to scan kpi row: %w", err)
		}
		if t, err := time.Parse(dateLayout, dateStr); err == nil {
			obs.Date = t
		}
		if target.Valid {
			v := target.Float64
			obs.Target = &v
		}
		obs.Category = category.String
		history = append(history, obs)
	}
	return history, rows.Err()
}

// InsertClient stores a client record and returns its row ID.
func (p *Platform) InsertClient(ctx context.Context, c Client) (int64, error) {
	result, err := p.db.ExecContext(ctx,
		`INSERT INTO clients (name, location, company, contact_email, business_type, analytics_experience, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Location, c.Company, c.ContactEmail, c.BusinessType, c.Experience, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert client: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// ListClients returns all client records in insertion order.
func (p *Platform) ListClients(ctx context.Context) ([]*Client, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, location, company, contact_email, business_type, analytics_experience, created_at
		 FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*Client
	for rows.Next() {
		var c Client
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Location, &c.Company, &c.ContactEmail, &c.BusinessType, &c.Experience, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		c.CreatedAt = time.Unix(createdAt, 0)
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

// InsertServiceRequest stores a service request record.
func (p *Platform) InsertServiceRequest(ctx context.Context, r ServiceRequest) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO service_requests (id, client_name, service_type, project_type, title, status, priority, deadline, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ClientName, r.ServiceType, r.ProjectType, r.Title, r.Status, r.Priority, r.Deadline.Unix(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert service request: %w", err)
	}
	return nil
}

// ListServiceRequests returns all service requests, newest first.
func (p *Platform) ListServiceRequests(ctx context.Context) ([]*ServiceRequest, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, client_name, service_type, project_type, title, status, priority, deadline, created_at
		 FROM service_requests ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	defer rows.Close()

	var requests []*ServiceRequest
	for rows.Next() {
		var r ServiceRequest
		var deadline, createdAt int64
		if err := rows.Scan(&r.ID, &r.ClientName, &r.ServiceType, &r.ProjectType, &r.Title, &r.Status, &r.Priority, &deadline, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan service request: %w", err)
		}
		r.Deadline = time.Unix(deadline, 0)
		r.CreatedAt = time.Unix(createdAt, 0)
		requests = append(requests, &r)
	}
	return requests, rows.Err()
}
