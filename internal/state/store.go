// Package state persists the last successful notification date between runs.
//
// The store only has to answer one question: when did we last send? Backends
// range from an in-memory map for tests to a sqlite database for deployments
// that already carry one.
package state

import (
	"context"
	"fmt"
	"time"

	"fintrend/internal/config"
)

// Store tracks the date of the last dispatched notification.
type Store interface {
	// LastSent returns the last dispatch date and whether one is recorded.
	LastSent(ctx context.Context) (time.Time, bool, error)
	// SetLastSent records the given date as the last dispatch.
	SetLastSent(ctx context.Context, day time.Time) error
	Close() error
}

// Open builds the store named by the configuration.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StateBackend {
	case "file", "":
		return NewFileStore(cfg.StatePath), nil
	case "sqlite":
		return NewSQLiteStore(cfg.StateDBPath)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}

// dayLayout stores dates without a time component; the scheduler compares
// calendar days, not instants.
const dayLayout = "2006-01-02"
