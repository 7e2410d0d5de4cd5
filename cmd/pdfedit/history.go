package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pdfedit/internal/fileutil"
	"github.com/alnah/go-pdfedit/internal/journal"
)

// runHistory lists recent runs from the journal.
func runHistory(ctx context.Context, args []string, env *Environment) error {
	f, err := parseHistoryFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if f.limit <= 0 {
		return fmt.Errorf("%w: --limit must be positive, got %d", ErrUsage, f.limit)
	}

	cfg, cfgName, err := loadConfig(f.common.config, loadEnvConfig())
	if err != nil {
		return withHint(err, "", cfgName)
	}
	path, err := journalPath(cfg)
	if err != nil {
		return err
	}

	var entries []journal.Entry
	if fileutil.FileExists(path) {
		store, err := journal.Open(path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrJournal, err)
		}
		defer store.Close()

		if entries, err = store.Recent(ctx, f.limit); err != nil {
			return fmt.Errorf("%w: %v", ErrJournal, err)
		}
	}

	if f.json {
		if entries == nil {
			entries = []journal.Entry{}
		}
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(env.Stdout, "No runs recorded.")
		if !cfg.Journal.Enabled {
			fmt.Fprintln(env.Stdout, "Enable the journal with journal.enabled: true in your config.")
		}
		return nil
	}
	return printHistory(env.Stdout, entries)
}

// printHistory writes entries as an aligned table, newest first.
func printHistory(w io.Writer, entries []journal.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSTATUS\tPAGES\tDURATION\tSOURCE\tOUTPUT")
	for _, e := range entries {
		status := string(e.Status)
		if e.Stage != "" {
			status += " (" + e.Stage + ")"
		}
		source := "-"
		if e.Source != "" {
			source = filepath.Base(e.Source)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%v\t%s\t%s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04"),
			status,
			e.Pages,
			e.Duration.Round(100*time.Millisecond),
			source,
			e.Output,
		)
	}
	return tw.Flush()
}
