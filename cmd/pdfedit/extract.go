package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	pdfedit "github.com/alnah/go-pdfedit"
	"github.com/alnah/go-pdfedit/internal/fileutil"
	"github.com/alnah/go-pdfedit/internal/markup"
)

// runExtract converts a source to markup (or Markdown) without calling the model.
func runExtract(ctx context.Context, args []string, env *Environment) (err error) {
	f, positional, err := parseExtractFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: extract takes exactly one source", ErrUsage)
	}

	format := strings.ToLower(f.format)
	if format != formatHTML && format != formatMarkdown {
		return fmt.Errorf("%w: --format %q (must be html or markdown)", ErrUsage, f.format)
	}

	cfg, cfgName, err := loadConfig(f.common.config, loadEnvConfig())
	if err != nil {
		return withHint(err, "", cfgName)
	}
	defer func() { err = withHint(err, cfg.Model.Endpoint, cfgName) }()

	if f.strategy != "" {
		cfg.Converter.Strategy = f.strategy
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(env.Stderr, f.common)
	if err != nil {
		return err
	}
	opts, err := pipelineOptions(cfg, logger, env)
	if err != nil {
		return err
	}

	p, err := pdfedit.New(opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	doc, err := p.Extract(ctx, positional[0])
	if err != nil {
		return err
	}
	if format == formatMarkdown {
		if doc, err = markup.ToMarkdown(doc); err != nil {
			return err
		}
	}
	if !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}

	if f.output == "" {
		_, err = fmt.Fprint(env.Stdout, doc)
		return err
	}
	if err := fileutil.WriteFileAtomic(f.output, []byte(doc), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", f.output)
	}
	return nil
}
