package pdfedit

import (
	"context"
	"time"

	"github.com/alnah/go-pdfedit/internal/model"
	"github.com/alnah/go-pdfedit/internal/pipeline"
)

// Extractor turns a source document into an HTML markup document.
// An empty sourcePath yields the empty shell document.
type Extractor interface {
	ToMarkup(ctx context.Context, sourcePath string) (string, error)
}

// Renderer turns a staged markup file into PDF bytes. Renderers never write
// the caller's output path.
type Renderer interface {
	FromMarkup(ctx context.Context, markupPath string) ([]byte, error)
	Close() error
}

// FormatConverter converts in both directions.
type FormatConverter interface {
	Extractor
	Renderer
}

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Compile-time interface implementation checks.
var (
	_ Generator       = (*model.Client)(nil)
	_ FormatConverter = (*Converter)(nil)
	_ Extractor       = (*sourceExtractor)(nil)
	_ Extractor       = (*structuralExtractor)(nil)
	_ Extractor       = (*popplerExtractor)(nil)
	_ Renderer        = (*chromeRenderer)(nil)
	_ Renderer        = (*wkhtmlRenderer)(nil)
)

// Tools names the external binaries used by StrategyExternal.
type Tools struct {
	PDFToHTML   string
	WKHTMLToPDF string
}

// DefaultTools returns the binary names looked up on PATH.
func DefaultTools() Tools {
	return Tools{PDFToHTML: "pdftohtml", WKHTMLToPDF: "wkhtmltopdf"}
}

// Converter pairs the extractor and renderer of one strategy.
type Converter struct {
	Extractor
	Renderer
}

// NewConverter builds the converter for strategy. shell is the document
// returned for an empty source path.
func NewConverter(strategy Strategy, shell string, tools Tools, runner CommandRunner, renderTimeout time.Duration) (*Converter, error) {
	if runner == nil {
		runner = ExecRunner{}
	}
	if tools.PDFToHTML == "" {
		tools.PDFToHTML = DefaultTools().PDFToHTML
	}
	if tools.WKHTMLToPDF == "" {
		tools.WKHTMLToPDF = DefaultTools().WKHTMLToPDF
	}
	if renderTimeout <= 0 {
		renderTimeout = DefaultRenderTimeout
	}

	strategy, err := ParseStrategy(string(strategy))
	if err != nil {
		return nil, err
	}

	var (
		pdfExtractor Extractor
		renderer     Renderer
	)
	if strategy == StrategyExternal {
		pdfExtractor = &popplerExtractor{bin: tools.PDFToHTML, runner: runner}
		renderer = &wkhtmlRenderer{bin: tools.WKHTMLToPDF, runner: runner}
	} else {
		pdfExtractor = &structuralExtractor{}
		renderer = newChromeRenderer(renderTimeout)
	}

	return &Converter{
		Extractor: &sourceExtractor{
			pdf:      pdfExtractor,
			markdown: pipeline.NewMarkdownConverter(),
			shell:    shell,
		},
		Renderer: renderer,
	}, nil
}
