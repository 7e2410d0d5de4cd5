package main

import (
	"context"
	"fmt"

	pdfedit "github.com/alnah/go-pdfedit"
	"github.com/alnah/go-pdfedit/internal/config"
	"github.com/alnah/go-pdfedit/internal/journal"
)

// journalRecorder stores pipeline run records in the SQLite journal.
type journalRecorder struct {
	store *journal.Store
}

// Compile-time interface implementation check.
var _ pdfedit.Recorder = (*journalRecorder)(nil)

func (r *journalRecorder) Record(ctx context.Context, rec pdfedit.RunRecord) error {
	return r.store.Record(ctx, entryFromRecord(rec))
}

// entryFromRecord converts a run record to a journal entry.
func entryFromRecord(rec pdfedit.RunRecord) journal.Entry {
	e := journal.Entry{
		ID:         rec.ID,
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.FinishedAt,
		Source:     rec.Source,
		Output:     rec.Output,
		Strategy:   string(rec.Strategy),
		Status:     journal.StatusSucceeded,
		Pages:      rec.Pages,
		Duration:   rec.Duration(),
	}
	if rec.Err != nil {
		e.Status = journal.StatusFailed
		if pdfedit.IsCanceled(rec.Err) {
			e.Status = journal.StatusCanceled
		}
		e.Stage = string(rec.Stage)
		e.Error = rec.Err.Error()
	}
	return e
}

// journalPath returns the configured journal file or the default location.
func journalPath(cfg *config.Config) (string, error) {
	if cfg.Journal.Path != "" {
		return cfg.Journal.Path, nil
	}
	path, err := config.DefaultJournalPath()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrJournal, err)
	}
	return path, nil
}

// openJournal opens the journal when enabled. The returned close func is
// never nil.
func openJournal(cfg *config.Config, disabled bool) (pdfedit.Recorder, func() error, error) {
	noop := func() error { return nil }
	if disabled || !cfg.Journal.Enabled {
		return nil, noop, nil
	}
	path, err := journalPath(cfg)
	if err != nil {
		return nil, noop, err
	}
	store, err := journal.Open(path)
	if err != nil {
		return nil, noop, fmt.Errorf("%w: %v", ErrJournal, err)
	}
	return &journalRecorder{store: store}, store.Close, nil
}
