package pdfedit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alnah/go-pdfedit/internal/assets"
	"github.com/alnah/go-pdfedit/internal/fileutil"
	"github.com/alnah/go-pdfedit/internal/model"
)

// pipelineConfig holds option values resolved by New.
type pipelineConfig struct {
	strategy      Strategy
	model         model.Config
	rules         string
	assetPath     string
	tempDir       string
	renderTimeout time.Duration
	tools         Tools
}

// Pipeline edits documents: source to markup, markup through the model,
// model output back to PDF. Create with New, call Run per document, and
// Close when done. A Pipeline runs one document at a time; use PipelinePool
// for parallel work.
type Pipeline struct {
	cfg       pipelineConfig
	loader    AssetLoader
	extractor Extractor
	renderer  Renderer
	generator Generator
	runner    CommandRunner
	recorder  Recorder
	logger    *slog.Logger

	rules string // resolved rule text
	shell string // document used when no source is given

	running atomic.Bool
}

// New creates a Pipeline with default configuration.
// Use options to customize behavior (e.g., WithStrategy, WithModelConfig, WithRules).
// Returns error if the strategy, model configuration or assets are invalid.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		cfg: pipelineConfig{
			strategy:      StrategyStructural,
			model:         model.DefaultConfig(),
			rules:         assets.DefaultRulesName,
			renderTimeout: DefaultRenderTimeout,
			tools:         DefaultTools(),
		},
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(p)
	}

	strategy, err := ParseStrategy(string(p.cfg.strategy))
	if err != nil {
		return nil, err
	}
	p.cfg.strategy = strategy

	if p.loader == nil {
		resolver, err := assets.NewAssetResolver(p.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		if resolver.HasCustomLoader() {
			p.logger.Debug("loading assets", "path", p.cfg.assetPath)
		}
		p.loader = resolver
	}

	if err := p.resolveRules(); err != nil {
		return nil, err
	}

	p.shell, err = p.loader.LoadShell(assets.BlankShellName)
	if err != nil {
		return nil, fmt.Errorf("loading document shell: %w", err)
	}

	if p.generator == nil {
		if err := p.cfg.model.Validate(); err != nil {
			return nil, err
		}
		p.generator = model.New(p.cfg.model, model.WithLogger(p.logger))
	}

	if p.extractor == nil || p.renderer == nil {
		conv, err := NewConverter(p.cfg.strategy, p.shell, p.cfg.tools, p.runner, p.cfg.renderTimeout)
		if err != nil {
			return nil, err
		}
		if p.extractor == nil {
			p.extractor = conv.Extractor
		}
		if p.renderer == nil {
			p.renderer = conv.Renderer
		}
	}

	return p, nil
}

// resolveRules resolves the rules option to rule text.
// If it looks like a file path, the file is read; otherwise it is treated
// as an asset name.
func (p *Pipeline) resolveRules() error {
	if fileutil.IsFilePath(p.cfg.rules) {
		data, err := os.ReadFile(p.cfg.rules) // #nosec G304 -- user-provided rules path
		if err != nil {
			return fmt.Errorf("reading rules file: %w", err)
		}
		p.rules = strings.TrimSpace(string(data))
		if p.rules == "" {
			return fmt.Errorf("%w: %s", assets.ErrEmptyAsset, p.cfg.rules)
		}
		return nil
	}

	rules, err := p.loader.LoadRules(p.cfg.rules)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	p.rules = rules
	return nil
}

// Strategy returns the conversion strategy in effect.
func (p *Pipeline) Strategy() Strategy {
	return p.cfg.strategy
}

// Run edits one document. Hooks are invoked synchronously, in stage order,
// on the calling goroutine. On failure the returned error is a
// *PipelineError naming the failed stage. Temporary artifacts are removed
// before Run returns, whatever the outcome.
//
// A Pipeline runs one document at a time: a concurrent call returns
// ErrRunInProgress without touching hooks.
func (p *Pipeline) Run(ctx context.Context, in Input, hooks Hooks) (*Result, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer p.running.Store(false)

	return newRun(p, in, hooks).execute(ctx)
}

// Extract runs only the source-to-markup step and returns the markup.
func (p *Pipeline) Extract(ctx context.Context, sourcePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.extractor.ToMarkup(ctx, sourcePath)
}

// Close releases the renderer (headless Chrome browser).
func (p *Pipeline) Close() error {
	if p.renderer != nil {
		return p.renderer.Close()
	}
	return nil
}
