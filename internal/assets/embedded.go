package assets

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed rules/*
var rules embed.FS

//go:embed shells/*
var shells embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadRules loads a rule set from embedded assets by name.
func (e *EmbeddedLoader) LoadRules(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := rules.ReadFile("rules/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrRulesNotFound, name)
	}

	return strings.TrimSpace(string(content)), nil
}

// LoadShell loads an HTML shell from embedded assets by name.
func (e *EmbeddedLoader) LoadShell(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := shells.ReadFile("shells/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrShellNotFound, name)
	}

	return strings.TrimSpace(string(content)), nil
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
