package pdfedit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/alnah/go-pdfedit/internal/pipeline"
)

// MaxSourceSize caps text sources (HTML, Markdown, plain text) read into memory.
const MaxSourceSize = 32 << 20

// sourceKind is the detected format of a source document.
type sourceKind int

const (
	sourceUnknown sourceKind = iota
	sourcePDF
	sourceHTML
	sourceMarkdown
	sourceText
)

func (k sourceKind) String() string {
	switch k {
	case sourcePDF:
		return "pdf"
	case sourceHTML:
		return "html"
	case sourceMarkdown:
		return "markdown"
	case sourceText:
		return "text"
	}
	return "unknown"
}

// markdownExts are matched before content sniffing: Markdown is plain text
// to a MIME detector.
var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
}

// detectSource classifies path by extension and content.
func detectSource(path string) (sourceKind, error) {
	if markdownExts[strings.ToLower(filepath.Ext(path))] {
		return sourceMarkdown, nil
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return sourceUnknown, err
	}

	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is("application/pdf"):
			return sourcePDF, nil
		case m.Is("text/html"):
			return sourceHTML, nil
		case m.Is("text/plain"):
			return sourceText, nil
		}
	}
	return sourceUnknown, nil
}

// sourceExtractor dispatches on the source format. PDFs go to the strategy's
// extractor; text formats are handled in-process.
type sourceExtractor struct {
	pdf      Extractor
	markdown *pipeline.MarkdownConverter
	shell    string
}

// ToMarkup returns the markup document for sourcePath, or the shell when
// sourcePath is empty.
func (s *sourceExtractor) ToMarkup(ctx context.Context, sourcePath string) (string, error) {
	if sourcePath == "" {
		return s.shell, nil
	}

	info, err := os.Stat(sourcePath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, sourcePath)
	}
	if err != nil {
		return "", &ArtifactError{Op: "read", Path: sourcePath, Err: err}
	}
	if info.IsDir() {
		return "", conversionError(DirectionToMarkup, "", "source is a directory", ErrUnsupportedSource)
	}

	kind, err := detectSource(sourcePath)
	if err != nil {
		return "", &ArtifactError{Op: "read", Path: sourcePath, Err: err}
	}

	switch kind {
	case sourcePDF:
		return s.pdf.ToMarkup(ctx, sourcePath)
	case sourceHTML, sourceMarkdown, sourceText:
		if info.Size() > MaxSourceSize {
			return "", conversionError(DirectionToMarkup, kind.String(),
				fmt.Sprintf("source is %d bytes, limit is %d", info.Size(), MaxSourceSize), ErrUnsupportedSource)
		}
		return s.textToMarkup(ctx, sourcePath, kind)
	}

	mt, _ := mimetype.DetectFile(sourcePath)
	diagnostic := ""
	if mt != nil {
		diagnostic = "detected " + mt.String()
	}
	return "", conversionError(DirectionToMarkup, "", diagnostic, ErrUnsupportedSource)
}

// textToMarkup decodes an HTML, Markdown or plain text source. Relative
// references are resolved against the source directory so they survive
// staging in the run's temp directory.
func (s *sourceExtractor) textToMarkup(ctx context.Context, path string, kind sourceKind) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-chosen source document
	if err != nil {
		return "", &ArtifactError{Op: "read", Path: path, Err: err}
	}

	var doc string
	switch kind {
	case sourceHTML:
		doc, err = pipeline.DecodeHTML(data)
	case sourceMarkdown:
		var text string
		if text, _, err = pipeline.DecodeText(data); err == nil {
			var fragment string
			if fragment, err = s.markdown.ToHTML(ctx, []byte(text)); err == nil {
				doc = pipeline.WrapBody(fragment)
			}
		}
	default:
		var text string
		if text, _, err = pipeline.DecodeText(data); err == nil {
			doc = pipeline.TextToHTML(text)
		}
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", conversionError(DirectionToMarkup, kind.String(), err.Error(), ErrConversion)
	}

	if kind == sourceText {
		return doc, nil
	}

	resolved, err := pipeline.ResolveLocalRefs(doc, filepath.Dir(path))
	if err != nil {
		return "", conversionError(DirectionToMarkup, kind.String(), err.Error(), ErrConversion)
	}
	return resolved, nil
}
