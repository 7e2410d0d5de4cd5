package main

import (
	"errors"

	pdfedit "github.com/alnah/go-pdfedit"
	"github.com/alnah/go-pdfedit/internal/config"
	"github.com/alnah/go-pdfedit/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrJournal            = errors.New("run journal unavailable")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrRunsFailed         = errors.New("one or more runs failed")
)

// hintFor returns an actionable hint for err, or "" when none applies.
// endpoint and configName come from the resolved configuration.
func hintFor(err error, endpoint, configName string) string {
	var reqErr *pdfedit.ModelRequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Refused():
			return hints.ForModelUnreachable(endpoint)
		case reqErr.Timeout():
			return hints.ForTimeout()
		}
		return ""
	}

	switch {
	case errors.Is(err, pdfedit.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, pdfedit.ErrToolNotFound):
		var convErr *pdfedit.ConversionError
		if errors.As(err, &convErr) {
			return hints.ForToolNotFound(convErr.Tool)
		}
	case errors.Is(err, pdfedit.ErrUnsupportedSource):
		return hints.ForUnsupportedSource()
	case errors.Is(err, config.ErrConfigNotFound) && configName != "":
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	}

	var artErr *pdfedit.ArtifactError
	if errors.As(err, &artErr) && artErr.Op == "write" {
		return hints.ForOutputDirectory()
	}
	return ""
}

// hintedError appends a hint to an error message while keeping the chain.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }

func (e *hintedError) Unwrap() error { return e.err }

// withHint attaches the hint for err, if any. Already hinted errors pass through.
func withHint(err error, endpoint, configName string) error {
	if err == nil {
		return nil
	}
	var h *hintedError
	if errors.As(err, &h) {
		return err
	}
	hint := hintFor(err, endpoint, configName)
	if hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}
