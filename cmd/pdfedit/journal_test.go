package main

// Notes:
// - entryFromRecord: status mapping for success, failure, cancellation and
//   deadline. Stage and error text are kept only for failed runs.
// - openJournal: disabled paths return a nil recorder with a usable close
//   func; the enabled path writes through to the SQLite store.

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	pdfedit "github.com/alnah/go-pdfedit"
	"github.com/alnah/go-pdfedit/internal/config"
	"github.com/alnah/go-pdfedit/internal/journal"
)

// ---------------------------------------------------------------------------
// TestEntryFromRecord - Run record to journal entry
// ---------------------------------------------------------------------------

func TestEntryFromRecord(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	base := pdfedit.RunRecord{
		ID:         "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(3 * time.Second),
		Source:     "in.pdf",
		Output:     "out.pdf",
		Strategy:   pdfedit.StrategyStructural,
	}

	tests := []struct {
		name       string
		stage      pdfedit.Stage
		err        error
		pages      int
		wantStatus journal.Status
		wantStage  string
	}{
		{"success", pdfedit.StageCleanup, nil, 2, journal.StatusSucceeded, ""},
		{"failure", pdfedit.StageModelCall, errors.New("refused"), 0, journal.StatusFailed, "model-call"},
		{"canceled", pdfedit.StageConvertIn, fmt.Errorf("run: %w", context.Canceled), 0, journal.StatusCanceled, "convert-in"},
		{"deadline", pdfedit.StageModelCall, context.DeadlineExceeded, 0, journal.StatusCanceled, "model-call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := base
			rec.Stage = tt.stage
			rec.Err = tt.err
			rec.Pages = tt.pages

			e := entryFromRecord(rec)

			if e.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", e.Status, tt.wantStatus)
			}
			if e.Stage != tt.wantStage {
				t.Errorf("Stage = %q, want %q", e.Stage, tt.wantStage)
			}
			if (tt.err == nil) != (e.Error == "") {
				t.Errorf("Error = %q for err %v", e.Error, tt.err)
			}
			if e.ID != "run-1" || e.Source != "in.pdf" || e.Output != "out.pdf" || e.Strategy != "structural" {
				t.Errorf("identity fields not copied: %+v", e)
			}
			if e.Duration != 3*time.Second {
				t.Errorf("Duration = %v, want 3s", e.Duration)
			}
			if e.Pages != tt.pages {
				t.Errorf("Pages = %d, want %d", e.Pages, tt.pages)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestOpenJournal - Enablement and persistence
// ---------------------------------------------------------------------------

func TestOpenJournal(t *testing.T) {
	t.Parallel()

	t.Run("disabled in config", func(t *testing.T) {
		t.Parallel()

		rec, closeFn, err := openJournal(config.DefaultConfig(), false)
		if err != nil {
			t.Fatalf("openJournal() error = %v", err)
		}
		if rec != nil {
			t.Error("recorder should be nil when the journal is disabled")
		}
		if err := closeFn(); err != nil {
			t.Errorf("close error = %v", err)
		}
	})

	t.Run("disabled by flag", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Journal.Enabled = true
		cfg.Journal.Path = filepath.Join(t.TempDir(), "runs.db")

		rec, _, err := openJournal(cfg, true)
		if err != nil {
			t.Fatalf("openJournal() error = %v", err)
		}
		if rec != nil {
			t.Error("recorder should be nil with --no-journal")
		}
	})

	t.Run("records runs", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "runs.db")
		cfg := config.DefaultConfig()
		cfg.Journal.Enabled = true
		cfg.Journal.Path = path

		rec, closeFn, err := openJournal(cfg, false)
		if err != nil {
			t.Fatalf("openJournal() error = %v", err)
		}
		start := time.Now()
		err = rec.Record(context.Background(), pdfedit.RunRecord{
			ID:         "run-1",
			StartedAt:  start,
			FinishedAt: start.Add(time.Second),
			Output:     "out.pdf",
			Strategy:   pdfedit.StrategyStructural,
			Stage:      pdfedit.StageCleanup,
			Pages:      1,
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if err := closeFn(); err != nil {
			t.Fatalf("close error = %v", err)
		}

		store, err := journal.Open(path)
		if err != nil {
			t.Fatalf("journal.Open() error = %v", err)
		}
		defer store.Close()
		entries, err := store.Recent(context.Background(), 10)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(entries) != 1 || entries[0].ID != "run-1" || entries[0].Status != journal.StatusSucceeded {
			t.Errorf("entries = %+v", entries)
		}
	})
}
