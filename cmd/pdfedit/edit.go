package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	pdfedit "github.com/alnah/go-pdfedit"
	"github.com/alnah/go-pdfedit/internal/config"
	"github.com/alnah/go-pdfedit/internal/dateutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// defaultOutputName is used when output.defaultName is empty.
const defaultOutputName = "output.pdf"

// maxContextFileSize caps --context-file.
const maxContextFileSize = 1 << 20

// runEdit runs one pipeline, or a batch when several sources or --out-dir
// are given.
func runEdit(ctx context.Context, args []string, env *Environment) (err error) {
	f, sources, err := parseEditFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	envCfg := loadEnvConfig()
	cfg, cfgName, err := loadConfig(f.common.config, envCfg)
	if err != nil {
		return withHint(err, "", cfgName)
	}
	defer func() { err = withHint(err, cfg.Model.Endpoint, cfgName) }()

	mergeEditFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	workers := f.workers
	if !f.set["workers"] {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	instructions, err := resolveContext(f)
	if err != nil {
		return err
	}

	logger, err := newLogger(env.Stderr, f.common)
	if err != nil {
		return err
	}

	recorder, closeJournal, err := openJournal(cfg, f.noJournal)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeJournal(); cerr != nil {
			logger.Warn("closing journal", "error", cerr)
		}
	}()

	opts, err := pipelineOptions(cfg, logger, env)
	if err != nil {
		return err
	}
	if recorder != nil {
		opts = append([]pdfedit.Option{pdfedit.WithRecorder(recorder)}, opts...)
	}

	if f.outDir != "" || len(sources) > 1 {
		return runEditBatch(ctx, f, sources, instructions, workers, opts, env)
	}

	source := ""
	if len(sources) == 1 {
		source = sources[0]
	}
	out, err := resolveOutputPath(f.output, cfg, env.Now())
	if err != nil {
		return err
	}
	return runEditSingle(ctx, f, pdfedit.Input{SourcePath: source, OutputPath: out, Context: instructions}, opts, env)
}

// mergeEditFlags merges CLI flags into config. CLI values override config values.
func mergeEditFlags(f *editFlags, cfg *config.Config) {
	mergeModelFlags(&f.model, f.set, cfg)
	if f.strategy != "" {
		cfg.Converter.Strategy = f.strategy
	}
	if f.rules != "" {
		cfg.Prompt.Rules = f.rules
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

// resolveContext returns the editing instructions from --context or
// --context-file. Giving both is a usage error.
func resolveContext(f *editFlags) (string, error) {
	if f.contextFile == "" {
		return f.context, nil
	}
	if f.context != "" {
		return "", fmt.Errorf("%w: --context and --context-file are mutually exclusive", ErrUsage)
	}

	info, err := os.Stat(f.contextFile)
	if err != nil {
		return "", fmt.Errorf("reading context file: %w", err)
	}
	if info.Size() > maxContextFileSize {
		return "", fmt.Errorf("%w: context file exceeds %d bytes", ErrUsage, maxContextFileSize)
	}
	data, err := os.ReadFile(f.contextFile) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("reading context file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > pdfedit.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, pdfedit.MaxPoolSize)
	}
	return nil
}

// resolveOutputPath picks the output file for a single run. An existing
// directory given with -o receives the default name. The pipeline appends
// .pdf when missing.
func resolveOutputPath(flagOutput string, cfg *config.Config, now time.Time) (string, error) {
	if flagOutput != "" {
		if info, err := os.Stat(flagOutput); err != nil || !info.IsDir() {
			return flagOutput, nil
		}
	}

	template := cfg.Output.DefaultName
	if template == "" {
		template = defaultOutputName
	}
	name, err := dateutil.ExpandName(template, now)
	if err != nil {
		return "", err
	}

	dir := cfg.Output.DefaultDir
	if flagOutput != "" {
		dir = flagOutput
	}
	return filepath.Join(dir, name), nil
}

// batchJobs maps each source to <outDir>/<base>.pdf. A name already taken
// by an earlier job gets the first free numbered suffix, so no two jobs
// write the same file.
func batchJobs(sources []string, outDir, instructions string) []pdfedit.Input {
	taken := make(map[string]bool, len(sources))
	jobs := make([]pdfedit.Input, 0, len(sources))

	for _, src := range sources {
		base := filepath.Base(src)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		name := stem + ".pdf"
		for n := 2; taken[name]; n++ {
			name = stem + "-" + strconv.Itoa(n) + ".pdf"
		}
		taken[name] = true

		jobs = append(jobs, pdfedit.Input{
			SourcePath: src,
			OutputPath: filepath.Join(outDir, name),
			Context:    instructions,
		})
	}
	return jobs
}

// runEditSingle runs one pipeline on a worker goroutine while this
// goroutine draws progress.
func runEditSingle(ctx context.Context, f *editFlags, in pdfedit.Input, opts []pdfedit.Option, env *Environment) error {
	p, err := pdfedit.New(opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	events := make(chan progressEvent, eventBuffer)
	var (
		res    *pdfedit.Result
		runErr error
	)
	hooks := pdfedit.Hooks{}
	if !f.common.quiet {
		hooks = forwardHooks(events, 0)
	}
	go func() {
		defer close(events)
		res, runErr = p.Run(ctx, in, hooks)
	}()

	line := newProgressLine(env.Stderr)
	for ev := range events {
		line.handle(ev)
	}
	line.finish()

	if runErr != nil {
		return runErr
	}
	printResult(env, f.common, in.SourcePath, res)
	return nil
}

// runEditBatch runs every source through a pipeline pool.
func runEditBatch(ctx context.Context, f *editFlags, sources []string, instructions string, workers int, opts []pdfedit.Option, env *Environment) error {
	switch {
	case len(sources) == 0:
		return ErrNoInput
	case f.output != "":
		return fmt.Errorf("%w: use --out-dir instead of --output for several sources", ErrUsage)
	case f.outDir == "":
		return fmt.Errorf("%w: several sources need --out-dir", ErrUsage)
	}
	if err := os.MkdirAll(f.outDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	jobs := batchJobs(sources, f.outDir, instructions)
	pool := pdfedit.NewPipelinePool(min(pdfedit.ResolvePoolSize(workers), len(jobs)), opts...)
	defer pool.Close()

	events := make(chan progressEvent, eventBuffer)
	var results []pdfedit.BatchResult
	go func() {
		defer close(events)
		results = pdfedit.RunBatch(ctx, pool, jobs, func(i int, _ pdfedit.Input) pdfedit.Hooks {
			if f.common.quiet {
				return pdfedit.Hooks{}
			}
			return forwardHooks(events, i)
		})
	}()

	printer := &batchPrinter{w: env.Stderr, names: sources}
	for ev := range events {
		printer.handle(ev)
	}

	return summarizeBatch(env, f.common, results)
}

// printResult reports a successful run on stdout.
func printResult(env *Environment, f commonFlags, source string, res *pdfedit.Result) {
	if f.quiet {
		return
	}
	if f.verbose {
		from := source
		if from == "" {
			from = "(blank)"
		}
		fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n", from, res.OutputPath, res.Pages, res.Duration.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(env.Stdout, "Created %s\n", res.OutputPath)
}

// summarizeBatch prints per-job outcomes and returns an error when any job
// failed. A batch of one returns that job's error unchanged.
func summarizeBatch(env *Environment, f commonFlags, results []pdfedit.BatchResult) error {
	failed := 0
	var lastErr error
	for _, r := range results {
		if r.Err != nil {
			failed++
			lastErr = r.Err
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Input.SourcePath, r.Err)
			continue
		}
		printResult(env, f, r.Input.SourcePath, r.Result)
	}

	if !f.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	switch {
	case failed == 0:
		return nil
	case len(results) == 1:
		return lastErr
	default:
		return fmt.Errorf("%w: %d of %d", ErrRunsFailed, failed, len(results))
	}
}
