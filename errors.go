package pdfedit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-pdfedit/internal/model"
)

// Sentinel errors for library operations.
var (
	ErrConversion        = errors.New("document conversion failed")
	ErrArtifact          = errors.New("artifact operation failed")
	ErrRunInProgress     = errors.New("a run is already in progress")
	ErrToolNotFound      = errors.New("conversion tool not found")
	ErrUnsupportedSource = errors.New("unsupported source format")
	ErrSourceNotFound    = errors.New("source document not found")
	ErrInvalidOutput     = errors.New("rendered output is not a valid PDF")
	ErrEmptyOutputPath   = errors.New("output path cannot be empty")
	ErrInvalidStrategy   = errors.New("invalid conversion strategy")
	ErrPoolClosed        = errors.New("pipeline pool is closed")
	ErrInvalidAssetPath  = errors.New("invalid asset path")

	// Browser rendering errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// Conversion directions carried by ConversionError.
const (
	DirectionToMarkup   = "to-markup"
	DirectionFromMarkup = "from-markup"
)

// ModelRequestError is returned when the text-generation service cannot be
// reached, times out, or answers with something other than a completion.
type ModelRequestError = model.RequestError

// ConversionError reports a failed extraction or rendering. Diagnostic holds
// the tool's stderr or the parser error text, trimmed.
type ConversionError struct {
	Direction  string // DirectionToMarkup or DirectionFromMarkup
	Tool       string // binary or library that failed
	Diagnostic string
	Err        error
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "converting %s", e.Direction)
	if e.Tool != "" {
		fmt.Fprintf(&b, " with %s", e.Tool)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Diagnostic != "" {
		fmt.Fprintf(&b, ": %s", e.Diagnostic)
	}
	return b.String()
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is makes every ConversionError match ErrConversion.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// ArtifactError reports a temporary or output file that could not be
// created, written or read.
type ArtifactError struct {
	Op   string // "create", "write", "read"
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("%s artifact %s: %v", e.Op, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// Is makes every ArtifactError match ErrArtifact.
func (e *ArtifactError) Is(target error) bool {
	return target == ErrArtifact
}

// PipelineError is the error returned by Pipeline.Run. Stage names the step
// that failed.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// conversionError builds a ConversionError with a trimmed diagnostic.
func conversionError(direction, tool, diagnostic string, err error) *ConversionError {
	return &ConversionError{
		Direction:  direction,
		Tool:       tool,
		Diagnostic: strings.TrimSpace(diagnostic),
		Err:        err,
	}
}

// IsCanceled reports whether err stems from context cancellation or deadline.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
