package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SaveExperiment upserts a test-session snapshot keyed by session ID.
func (p *Platform) SaveExperiment(ctx context.Context, id, name, status string, payload []byte) error {
	now := time.Now().Unix()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO experiments (id, name, status, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   status = excluded.status,
		   payload = excluded.payload,
		   updated_at = excluded.updated_at`,
		id, name, status, string(payload), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save experiment: %w", err)
	}
	return nil
}

// GetExperiment looks a snapshot up by session ID first, then by name.
func (p *Platform) GetExperiment(ctx context.Context, key string) (*Experiment, error) {
	exp, err := p.scanExperiment(p.db.QueryRowContext(ctx,
		`SELECT id, name, status, payload, created_at, updated_at
		 FROM experiments WHERE id = ?`, key))
	if err == nil {
		return exp, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	return p.scanExperiment(p.db.QueryRowContext(ctx,
		`SELECT id, name, status, payload, created_at, updated_at
		 FROM experiments WHERE name = ? ORDER BY created_at DESC LIMIT 1`, key))
}

func (p *Platform) scanExperiment(row *sql.Row) (*Experiment, error) {
	var exp Experiment
	var payload string
	var createdAt, updatedAt int64

	err := row.Scan(&exp.ID, &exp.Name, &exp.Status, &payload, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	exp.Payload = []byte(payload)
	exp.CreatedAt = time.Unix(createdAt, 0)
	exp.UpdatedAt = time.Unix(updatedAt, 0)
	return &exp, nil
}

// ListExperiments returns all snapshots, newest first.
func (p *Platform) ListExperiments(ctx context.Context) ([]*Experiment, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, status, payload, created_at, updated_at
		 FROM experiments ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var experiments []*Experiment
	for rows.Next() {
		var exp Experiment
		var payload string
		var createdAt, updatedAt int64
		if err := rows.Scan(&exp.ID, &exp.Name, &exp.Status, &payload, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		exp.Payload = []byte(payload)
		exp.CreatedAt = time.Unix(createdAt, 0)
		exp.UpdatedAt = time.Unix(updatedAt, 0)
		experiments = append(experiments, &exp)
	}
	return experiments, rows.Err()
}

// DeleteExperiment removes a snapshot by session ID.
func (p *Platform) DeleteExperiment(ctx context.Context, id string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM experiments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete experiment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
