package main

import (
	"context"
	"errors"
	"os"

	pdfedit "github.com/alnah/go-pdfedit"
	"github.com/alnah/go-pdfedit/internal/assets"
	"github.com/alnah/go-pdfedit/internal/config"
	"github.com/alnah/go-pdfedit/internal/dateutil"
	"github.com/alnah/go-pdfedit/internal/markup"
	"github.com/alnah/go-pdfedit/internal/model"
)

// Exit codes for the pdfedit CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Successful run
	ExitGeneral    = 1 // General/unexpected error, including cancellation
	ExitUsage      = 2 // Invalid flags, config, or validation
	ExitIO         = 3 // Source missing, artifact failure, permission denied
	ExitBrowser    = 4 // Browser/Chrome errors
	ExitModel      = 5 // Text-generation request failed
	ExitConversion = 6 // Conversion tool or output validation failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is/As on wrapped errors, so the order of checks matters:
// specific causes are tested before the broad ErrConversion category.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		return ExitGeneral
	}

	// Usage errors that travel inside a ConversionError (exit 2)
	if errors.Is(err, pdfedit.ErrUnsupportedSource) {
		return ExitUsage
	}

	// Browser errors (exit 4)
	if errors.Is(err, pdfedit.ErrBrowserConnect) ||
		errors.Is(err, pdfedit.ErrPageCreate) ||
		errors.Is(err, pdfedit.ErrPageLoad) ||
		errors.Is(err, pdfedit.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Model errors (exit 5)
	var reqErr *pdfedit.ModelRequestError
	if errors.As(err, &reqErr) ||
		errors.Is(err, markup.ErrNoMarkup) {
		return ExitModel
	}

	// I/O errors (exit 3)
	if errors.Is(err, pdfedit.ErrSourceNotFound) ||
		errors.Is(err, pdfedit.ErrArtifact) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrJournal) {
		return ExitIO
	}

	// Conversion errors (exit 6)
	if errors.Is(err, pdfedit.ErrConversion) ||
		errors.Is(err, pdfedit.ErrToolNotFound) ||
		errors.Is(err, pdfedit.ErrInvalidOutput) {
		return ExitConversion
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, model.ErrInvalidConfig) ||
		errors.Is(err, pdfedit.ErrInvalidStrategy) ||
		errors.Is(err, pdfedit.ErrEmptyOutputPath) ||
		errors.Is(err, pdfedit.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrRulesNotFound) ||
		errors.Is(err, assets.ErrShellNotFound) ||
		errors.Is(err, assets.ErrEmptyAsset) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, dateutil.ErrInvalidPlaceholder) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
