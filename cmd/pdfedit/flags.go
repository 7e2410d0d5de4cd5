package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// Log formats accepted by --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// Extract output formats accepted by --format.
const (
	formatHTML     = "html"
	formatMarkdown = "markdown"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// modelFlags holds text-generation flags. Only flags present in set
// override the configuration.
type modelFlags struct {
	endpoint    string
	name        string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	retries     int
}

// editFlags holds all flags for the edit command.
type editFlags struct {
	common      commonFlags
	model       modelFlags
	output      string
	outDir      string
	context     string
	contextFile string
	strategy    string
	rules       string
	assetPath   string
	workers     int
	noJournal   bool

	set map[string]bool // flags given on the command line
}

// extractFlags holds flags for the extract command.
type extractFlags struct {
	common   commonFlags
	output   string
	format   string
	strategy string
}

// historyFlags holds flags for the history command.
type historyFlags struct {
	common commonFlags
	limit  int
	json   bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	config string
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVar(&f.config, "config", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logFormat, "log-format", logFormatText, "log format: text, json")
}

// addModelFlags adds text-generation flags to a FlagSet.
func addModelFlags(fs *flag.FlagSet, f *modelFlags) {
	fs.StringVar(&f.endpoint, "endpoint", "", "chat completions URL")
	fs.StringVar(&f.name, "model", "", "model identifier")
	fs.Float64Var(&f.temperature, "temperature", 0, "sampling temperature (0-2)")
	fs.IntVar(&f.maxTokens, "max-tokens", 0, "completion token limit")
	fs.DurationVar(&f.timeout, "timeout", 0, "model request timeout (e.g. 5m)")
	fs.IntVar(&f.retries, "retries", 0, "retries after a failed model request (0-10)")
}

// buildEditFlagSet registers every edit flag on a new FlagSet.
// Shared by parseEditFlags and shell completion.
func buildEditFlagSet(f *editFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path")
	fs.StringVar(&f.outDir, "out-dir", "", "output directory for several sources")
	fs.StringVarP(&f.context, "context", "c", "", "editing instructions")
	fs.StringVar(&f.contextFile, "context-file", "", "read editing instructions from a file")
	fs.StringVar(&f.strategy, "strategy", "", "conversion strategy: structural, external")
	fs.StringVar(&f.rules, "rules", "", "rule set name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel pipelines for batches (0 = auto)")
	fs.BoolVar(&f.noJournal, "no-journal", false, "do not record this run")

	addCommonFlags(fs, &f.common)
	addModelFlags(fs, &f.model)
	return fs
}

// buildExtractFlagSet registers every extract flag on a new FlagSet.
func buildExtractFlagSet(f *extractFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.StringVar(&f.format, "format", formatHTML, "output format: html, markdown")
	fs.StringVar(&f.strategy, "strategy", "", "conversion strategy: structural, external")

	addCommonFlags(fs, &f.common)
	return fs
}

// buildHistoryFlagSet registers every history flag on a new FlagSet.
func buildHistoryFlagSet(f *historyFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)

	fs.IntVarP(&f.limit, "limit", "n", 20, "number of runs to show")
	fs.BoolVar(&f.json, "json", false, "print entries as JSON")

	addCommonFlags(fs, &f.common)
	return fs
}

// buildDoctorFlagSet registers every doctor flag on a new FlagSet.
func buildDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)

	fs.StringVar(&f.config, "config", "", "config file name or path")
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	return fs
}

// parseEditFlags parses edit command flags and returns positional args.
func parseEditFlags(args []string, stderr io.Writer) (*editFlags, []string, error) {
	f := &editFlags{set: make(map[string]bool)}
	fs := buildEditFlagSet(f)
	if err := parseFlagSet(fs, args, stderr, printEditUsage); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, fs.Args(), nil
}

// parseExtractFlags parses extract command flags and returns positional args.
func parseExtractFlags(args []string, stderr io.Writer) (*extractFlags, []string, error) {
	f := &extractFlags{}
	fs := buildExtractFlagSet(f)
	if err := parseFlagSet(fs, args, stderr, printExtractUsage); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseHistoryFlags parses history command flags.
func parseHistoryFlags(args []string, stderr io.Writer) (*historyFlags, error) {
	f := &historyFlags{}
	fs := buildHistoryFlagSet(f)
	if err := parseFlagSet(fs, args, stderr, printHistoryUsage); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: history takes no arguments", ErrUsage)
	}
	return f, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := buildDoctorFlagSet(f)
	if err := parseFlagSet(fs, args, stderr, printDoctorUsage); err != nil {
		return nil, err
	}
	return f, nil
}

// parseFlagSet parses args, routing usage text to stderr. -h/--help
// surfaces as flag.ErrHelp; every other failure wraps ErrUsage.
func parseFlagSet(fs *flag.FlagSet, args []string, stderr io.Writer, usage func(io.Writer)) error {
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}
