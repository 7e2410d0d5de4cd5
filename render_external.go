package pdfedit

import (
	"context"
	"os"
	"path/filepath"

	"github.com/alnah/go-pdfedit/internal/fileutil"
)

// wkhtmlRenderer renders markup files with the wkhtmltopdf binary.
type wkhtmlRenderer struct {
	bin    string
	runner CommandRunner
}

// wkhtmltopdfArgs builds the argument list. Local files referenced by the
// markup stay reachable; scripts never run.
func wkhtmltopdfArgs(in, out string) []string {
	return []string{
		"--enable-local-file-access",
		"--disable-smart-shrinking",
		"--disable-javascript",
		"--encoding", "UTF-8",
		in, out,
	}
}

// FromMarkup renders into a scratch file next to markupPath and returns its
// bytes. The scratch file is always removed.
func (r *wkhtmlRenderer) FromMarkup(ctx context.Context, markupPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scratch, err := os.CreateTemp(filepath.Dir(markupPath), "render-*.pdf")
	if err != nil {
		return nil, &ArtifactError{Op: "create", Path: filepath.Dir(markupPath), Err: err}
	}
	outPath := scratch.Name()
	_ = scratch.Close()
	defer func() { _ = fileutil.RemoveIfExists(outPath) }()

	_, stderr, err := r.runner.Run(ctx, r.bin, wkhtmltopdfArgs(markupPath, outPath)...)
	if err != nil {
		return nil, toolError(ctx, DirectionFromMarkup, r.bin, stderr, err)
	}

	data, err := os.ReadFile(outPath) // #nosec G304 -- scratch file created above
	if err != nil {
		return nil, &ArtifactError{Op: "read", Path: outPath, Err: err}
	}
	if len(data) == 0 {
		return nil, conversionError(DirectionFromMarkup, r.bin, stderr, ErrInvalidOutput)
	}
	return data, nil
}

// Close is a no-op: every render is a separate process.
func (r *wkhtmlRenderer) Close() error {
	return nil
}
