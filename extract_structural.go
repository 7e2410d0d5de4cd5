package pdfedit

import (
	"context"
	"os"

	"github.com/alnah/go-pdfedit/internal/pdfmarkup"
)

// structuralToolName identifies the in-process PDF parser in diagnostics.
const structuralToolName = "ledongthuc/pdf"

// structuralExtractor reads PDFs in-process and rebuilds styled markup from
// their glyphs.
type structuralExtractor struct{}

func (e *structuralExtractor) ToMarkup(ctx context.Context, sourcePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(sourcePath) // #nosec G304 -- caller-chosen source document
	if err != nil {
		return "", &ArtifactError{Op: "read", Path: sourcePath, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", &ArtifactError{Op: "read", Path: sourcePath, Err: err}
	}

	doc, _, err := pdfmarkup.Convert(f, info.Size())
	if err != nil {
		return "", conversionError(DirectionToMarkup, structuralToolName, err.Error(), ErrConversion)
	}
	return doc, nil
}
