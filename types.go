package pdfedit

import (
	"fmt"
	"strings"
	"time"
)

// Strategy selects the pair of tools used to move between PDF and markup.
type Strategy string

const (
	// StrategyStructural parses PDFs in-process and renders with headless Chrome.
	StrategyStructural Strategy = "structural"
	// StrategyExternal shells out to pdftohtml and wkhtmltopdf.
	StrategyExternal Strategy = "external"
)

// ParseStrategy converts a user-supplied name to a Strategy (case-insensitive).
// An empty name selects StrategyStructural.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "", StrategyStructural:
		return StrategyStructural, nil
	case StrategyExternal:
		return StrategyExternal, nil
	}
	return "", fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidStrategy, name, StrategyStructural, StrategyExternal)
}

// Stage names one step of a pipeline run.
type Stage string

// Stages in execution order.
const (
	StageInit        Stage = "init"
	StageConvertIn   Stage = "convert-in"
	StageStageInput  Stage = "stage-input"
	StageBuildPrompt Stage = "build-prompt"
	StageModelCall   Stage = "model-call"
	StageStageOutput Stage = "stage-output"
	StageConvertOut  Stage = "convert-out"
	StageCleanup     Stage = "cleanup"
)

// Progress checkpoints reported through Hooks.OnProgress.
const (
	progressStart         = 0.0
	progressNewDocument   = 0.05
	progressConverting    = 0.10
	progressConverted     = 0.15
	progressInputStaged   = 0.30
	progressPromptBuilt   = 0.40
	progressAwaitingModel = 0.45
	progressOutputStaged  = 0.60
	progressRendering     = 0.75
	progressDone          = 1.0
)

// Status messages reported through Hooks.OnStatus.
const (
	StatusConverting  = "Converting input…"
	StatusNewDocument = "Creating new document…"
	StatusPrompt      = "Building prompt…"
	StatusModel       = "Waiting for model…"
	StatusRendering   = "Rendering output…"
	StatusDone        = "Done"
)

// Default timeouts.
const (
	DefaultRenderTimeout = 60 * time.Second
)

// Input describes one editing run.
type Input struct {
	SourcePath string // existing document; empty creates a new one
	OutputPath string // destination PDF; ".pdf" is appended when missing
	Context    string // free-text instruction forwarded to the model
}

// Hooks receives run notifications. Nil fields are skipped. All hooks are
// called on the goroutine executing Run.
type Hooks struct {
	OnProgress func(fraction float64)
	OnStatus   func(message string)
	OnComplete func(outputPath string)
	OnError    func(message string)
}

func (h Hooks) progress(p float64) {
	if h.OnProgress != nil {
		h.OnProgress(p)
	}
}

func (h Hooks) status(msg string) {
	if h.OnStatus != nil {
		h.OnStatus(msg)
	}
}

func (h Hooks) complete(path string) {
	if h.OnComplete != nil {
		h.OnComplete(path)
	}
}

func (h Hooks) fail(msg string) {
	if h.OnError != nil {
		h.OnError(msg)
	}
}

// Result describes a successful run.
type Result struct {
	RunID      string
	OutputPath string
	Pages      int
	Duration   time.Duration
}
