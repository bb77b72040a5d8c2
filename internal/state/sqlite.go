package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the dispatch date in a single-row sqlite table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) LastSent(ctx context.Context) (time.Time, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT last_sent_date FROM notify_state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read last sent date: %w", err)
	}

	day, err := time.Parse(dayLayout, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse last sent date %q: %w", raw, err)
	}
	return day, true, nil
}

func (s *SQLiteStore) SetLastSent(ctx context.Context, day time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notify_state (id, last_sent_date, updated_at)
		 VALUES (1, ?, datetime('now'))
		 ON CONFLICT (id) DO UPDATE SET
		   last_sent_date = excluded.last_sent_date,
		   updated_at = excluded.updated_at`,
		day.Format(dayLayout))
	if err != nil {
		return fmt.Errorf("write last sent date: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
