package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/realpulse/realpulse/internal/abtest"
	"github.com/realpulse/realpulse/internal/store"
)

// withStore opens the data platform, executes the function, and handles
// cleanup.
func withStore(fn func(*store.Platform) error) error {
	p, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer p.Close()

	return fn(p)
}

// loadSession fetches a persisted test session by ID or name.
func loadSession(ctx context.Context, p *store.Platform, key string) (*abtest.Session, error) {
	exp, err := p.GetExperiment(ctx, key)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("test '%s' not found", key)
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	var session abtest.Session
	if err := json.Unmarshal(exp.Payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode test snapshot: %w", err)
	}
	return &session, nil
}

// saveSession persists the session snapshot, keyed by its ID.
func saveSession(ctx context.Context, p *store.Platform, session *abtest.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode test snapshot: %w", err)
	}
	if err := p.SaveExperiment(ctx, session.ID, session.Name, string(session.Status), payload); err != nil {
		return err
	}
	return nil
}

func formatPercent(rate float64) string {
	if rate == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}
