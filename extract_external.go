package pdfedit

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/alnah/go-pdfedit/internal/pipeline"
)

// popplerExtractor converts PDFs with the pdftohtml binary from poppler-utils.
type popplerExtractor struct {
	bin    string
	runner CommandRunner
}

// pdftohtmlArgs builds the argument list: single HTML document, no images,
// no frames, UTF-8, written to stdout.
func pdftohtmlArgs(src string) []string {
	return []string{"-s", "-i", "-noframes", "-enc", "UTF-8", "-stdout", src}
}

func (e *popplerExtractor) ToMarkup(ctx context.Context, sourcePath string) (string, error) {
	stdout, stderr, err := e.runner.Run(ctx, e.bin, pdftohtmlArgs(sourcePath)...)
	if err != nil {
		return "", toolError(ctx, DirectionToMarkup, e.bin, stderr, err)
	}

	doc, err := pipeline.DecodeHTML(stdout)
	if err != nil {
		return "", conversionError(DirectionToMarkup, e.bin, err.Error(), ErrConversion)
	}
	if doc == "" {
		return "", conversionError(DirectionToMarkup, e.bin, "tool produced no output", ErrConversion)
	}
	return doc, nil
}

// toolError maps a runner failure to the error surfaced to callers.
// Cancellation is returned as is so the pipeline can report it.
func toolError(ctx context.Context, direction, tool, stderr string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, ErrToolNotFound) {
		return conversionError(direction, tool, "", err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return conversionError(direction, tool, stderr,
			fmt.Errorf("%w: exit status %d", ErrConversion, exitErr.ExitCode()))
	}
	return conversionError(direction, tool, stderr, err)
}
