package pdfedit

import (
	"log/slog"
	"time"

	"github.com/alnah/go-pdfedit/internal/model"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// AssetLoader provides rule sets and document shells by name.
type AssetLoader interface {
	LoadRules(name string) (string, error)
	LoadShell(name string) (string, error)
}

// WithStrategy selects the conversion tools. Ignored for directions
// overridden by WithExtractor or WithRenderer.
func WithStrategy(s Strategy) Option {
	return func(p *Pipeline) {
		p.cfg.strategy = s
	}
}

// WithExtractor overrides the source-to-markup conversion.
func WithExtractor(e Extractor) Option {
	return func(p *Pipeline) {
		p.extractor = e
	}
}

// WithRenderer overrides the markup-to-PDF conversion. The pipeline takes
// ownership and closes it in Close.
func WithRenderer(r Renderer) Option {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// WithGenerator overrides the model client.
func WithGenerator(g Generator) Option {
	return func(p *Pipeline) {
		p.generator = g
	}
}

// WithModelConfig sets the configuration of the default model client.
func WithModelConfig(cfg model.Config) Option {
	return func(p *Pipeline) {
		p.cfg.model = cfg
	}
}

// WithRules selects the rule set sent ahead of every prompt: an asset name
// (e.g. "default") or a path to a text file.
func WithRules(nameOrPath string) Option {
	return func(p *Pipeline) {
		p.cfg.rules = nameOrPath
	}
}

// WithAssetPath sets a directory whose rules/ and shells/ entries override
// the embedded assets.
func WithAssetPath(path string) Option {
	return func(p *Pipeline) {
		p.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader. Takes precedence over WithAssetPath.
func WithAssetLoader(l AssetLoader) Option {
	return func(p *Pipeline) {
		p.loader = l
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRecorder receives one RunRecord per finished run.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithTempDir sets the parent directory for per-run artifact directories.
// Empty uses os.TempDir.
func WithTempDir(dir string) Option {
	return func(p *Pipeline) {
		p.cfg.tempDir = dir
	}
}

// WithRenderTimeout bounds page loading in the browser renderer.
func WithRenderTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.cfg.renderTimeout = d
	}
}

// WithTools sets the binaries used by StrategyExternal.
func WithTools(t Tools) Option {
	return func(p *Pipeline) {
		p.cfg.tools = t
	}
}

// WithCommandRunner replaces the process runner used by StrategyExternal.
func WithCommandRunner(r CommandRunner) Option {
	return func(p *Pipeline) {
		p.runner = r
	}
}
