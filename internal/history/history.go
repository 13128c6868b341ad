// Package history keeps a SQLite log of finished runs.
package history

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

// Kind is what a history entry ran.
type Kind string

const (
	// KindProfile is a single profile run.
	KindProfile Kind = "profile"
	// KindWorkspace is a workspace run.
	KindWorkspace Kind = "workspace"
	// KindPlayback is a recording playback.
	KindPlayback Kind = "playback"
	// KindClicker is an auto clicker run.
	KindClicker Kind = "clicker"
	// KindKeyboard is an auto typer run.
	KindKeyboard Kind = "keyboard"
)

// Entry is one finished run.
type Entry struct {
	RunID     string    `json:"runId"`
	Kind      Kind      `json:"kind"`
	Name      string    `json:"name"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	Cancelled bool      `json:"cancelled"`
	Executed  int       `json:"executed"`
	Loops     int       `json:"loops"`
	Skipped   int       `json:"skipped"`
}

// Duration returns how long the run lasted.
func (e Entry) Duration() time.Duration {
	return e.EndedAt.Sub(e.StartedAt)
}

// Store persists entries in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL,
		cancelled INTEGER NOT NULL DEFAULT 0,
		executed INTEGER NOT NULL DEFAULT 0,
		loops INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a finished run. Recording the same run twice keeps the last write.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.RunID == "" {
		return errors.New("run id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_id, kind, name, started_at, ended_at, cancelled, executed, loops, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, string(e.Kind), e.Name, e.StartedAt.UnixMilli(), e.EndedAt.UnixMilli(),
		e.Cancelled, e.Executed, e.Loops, e.Skipped,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", e.RunID, err)
	}
	return nil
}

// List returns the most recent entries first. A non-positive limit means 50.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, kind, name, started_at, ended_at, cancelled, executed, loops, skipped
		 FROM runs ORDER BY started_at DESC, run_id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var kind string
		var started, ended int64
		if err := rows.Scan(&e.RunID, &kind, &e.Name, &started, &ended, &e.Cancelled, &e.Executed, &e.Loops, &e.Skipped); err != nil {
			return nil, err
		}
		e.Kind = Kind(kind)
		e.StartedAt = time.UnixMilli(started)
		e.EndedAt = time.UnixMilli(ended)
		out = append(out, e)
	}
	return out, rows.Err()
}
