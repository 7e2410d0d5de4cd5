package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	pdfedit "github.com/alnah/go-pdfedit"
	"github.com/alnah/go-pdfedit/internal/config"
	"github.com/alnah/go-pdfedit/internal/model"
)

// loadConfig resolves configuration in precedence order:
// env vars > config file > defaults. Flags are merged by the caller.
// configFlag wins over PDFEDIT_CONFIG for choosing the file.
func loadConfig(configFlag string, env *envConfig) (*config.Config, string, error) {
	name := configFlag
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, name, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, name, nil
}

// mergeModelFlags applies explicitly set model flags to cfg.
func mergeModelFlags(f *modelFlags, set map[string]bool, cfg *config.Config) {
	if set["endpoint"] {
		cfg.Model.Endpoint = f.endpoint
	}
	if set["model"] {
		cfg.Model.Name = f.name
	}
	if set["temperature"] {
		cfg.Model.Temperature = f.temperature
	}
	if set["max-tokens"] {
		cfg.Model.MaxTokens = f.maxTokens
	}
	if set["timeout"] {
		cfg.Model.Timeout = f.timeout
	}
	if set["retries"] {
		cfg.Model.MaxRetries = f.retries
	}
}

// newLogger builds the CLI logger on w. --verbose selects Debug, --quiet
// keeps errors only.
func newLogger(w io.Writer, f commonFlags) (*slog.Logger, error) {
	level := slog.LevelWarn
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(f.logFormat) {
	case "", logFormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case logFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: --log-format %q (must be text or json)", ErrUsage, f.logFormat)
	}
}

// modelConfig maps the file/env/flag configuration onto the client config.
func modelConfig(cfg *config.Config) model.Config {
	return model.Config{
		Endpoint:    cfg.Model.Endpoint,
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
		Timeout:     cfg.Model.Timeout,
		APIKey:      cfg.Model.APIKey,
		MaxRetries:  cfg.Model.MaxRetries,
		Backoff:     cfg.Model.Backoff,
	}
}

// pipelineOptions translates configuration into pipeline options.
// Environment options come last so tests can override any stage.
func pipelineOptions(cfg *config.Config, logger *slog.Logger, env *Environment) ([]pdfedit.Option, error) {
	strategy, err := pdfedit.ParseStrategy(cfg.Converter.Strategy)
	if err != nil {
		return nil, err
	}

	opts := []pdfedit.Option{
		pdfedit.WithStrategy(strategy),
		pdfedit.WithModelConfig(modelConfig(cfg)),
		pdfedit.WithRules(cfg.Prompt.Rules),
		pdfedit.WithLogger(logger),
		pdfedit.WithRenderTimeout(cfg.Converter.RenderTimeout),
		pdfedit.WithTools(pdfedit.Tools{
			PDFToHTML:   cfg.Converter.PDFToHTML,
			WKHTMLToPDF: cfg.Converter.WKHTMLToPDF,
		}),
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, pdfedit.WithAssetPath(cfg.Assets.BasePath))
	}
	return append(opts, env.PipelineOptions...), nil
}
