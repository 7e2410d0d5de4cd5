// Package journal keeps a local history of pipeline runs in SQLite.
package journal

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

// ErrInvalidEntry indicates an entry without an ID or start time.
var ErrInvalidEntry = errors.New("invalid journal entry")

// Status is the terminal outcome of a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// DefaultLimit is the number of entries Recent returns for a non-positive limit.
const DefaultLimit = 20

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	output      TEXT NOT NULL DEFAULT '',
	strategy    TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	stage       TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	pages       INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at DESC);
`

// Entry is one recorded run.
type Entry struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Source     string        `json:"source,omitempty"`
	Output     string        `json:"output"`
	Strategy   string        `json:"strategy"`
	Status     Status        `json:"status"`
	Stage      string        `json:"stage,omitempty"` // failing stage, empty on success
	Error      string        `json:"error,omitempty"`
	Pages      int           `json:"pages"`
	Duration   time.Duration `json:"durationNs"`
}

// Store is a run journal backed by a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal at path, creating parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	// One connection keeps the pragmas below in effect for every query.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts an entry, replacing any entry with the same ID.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" || e.StartedAt.IsZero() {
		return ErrInvalidEntry
	}
	finished := e.FinishedAt
	if finished.IsZero() {
		finished = e.StartedAt.Add(e.Duration)
	}

	_, err := s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO runs
	(id, started_at, finished_at, source, output, strategy, status, stage, error, pages, duration_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.StartedAt.UnixMilli(),
		finished.UnixMilli(),
		e.Source,
		e.Output,
		e.Strategy,
		string(e.Status),
		e.Stage,
		e.Error,
		e.Pages,
		e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, started_at, finished_at, source, output, strategy, status, stage, error, pages, duration_ms
FROM runs
ORDER BY started_at DESC, id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                 Entry
			started, finished int64
			status            string
			durationMillis    int64
		)
		if err := rows.Scan(&e.ID, &started, &finished, &e.Source, &e.Output, &e.Strategy,
			&status, &e.Stage, &e.Error, &e.Pages, &durationMillis); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		e.StartedAt = time.UnixMilli(started).UTC()
		e.FinishedAt = time.UnixMilli(finished).UTC()
		e.Status = Status(status)
		e.Duration = time.Duration(durationMillis) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading runs: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
