package main

import (
	"io"
	"os"
	"time"

	pdfedit "github.com/alnah/go-pdfedit"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// PipelineOptions are appended after the options built from configuration.
	// Tests use them to swap in fake stages.
	PipelineOptions []pdfedit.Option
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
