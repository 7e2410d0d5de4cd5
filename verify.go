package pdfedit

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

var disablePDFCPUConfig sync.Once

// VerifyPDF checks that data is a readable PDF and returns its page count.
// Failures wrap ErrInvalidOutput.
func VerifyPDF(data []byte) (int, error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return 0, fmt.Errorf("%w: missing %s header", ErrInvalidOutput, pdfMagic)
	}

	// pdfcpu otherwise writes its default configuration under the user config dir.
	disablePDFCPUConfig.Do(api.DisableConfigDir)

	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if pages < 1 {
		return 0, fmt.Errorf("%w: document has no pages", ErrInvalidOutput)
	}
	return pages, nil
}
