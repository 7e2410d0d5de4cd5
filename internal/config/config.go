// Package config loads and validates YAML configuration for pdfedit.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-pdfedit/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory under os.UserConfigDir holding configs and the journal.
const AppDirName = "go-pdfedit"

// Conversion strategies.
const (
	StrategyStructural = "structural"
	StrategyExternal   = "external"
)

// Field length limits.
const (
	MaxURLLength       = 2048
	MaxModelNameLength = 200
	MaxAPIKeyLength    = 512
	MaxPathLength      = 4096
	MaxNameLength      = 255
	MaxTemperature     = 2.0
	MaxRetries         = 10
)

// Config holds all configuration for a pdfedit run.
type Config struct {
	Model     ModelConfig     `yaml:"model"`
	Converter ConverterConfig `yaml:"converter"`
	Prompt    PromptConfig    `yaml:"prompt"`
	Output    OutputConfig    `yaml:"output"`
	Assets    AssetsConfig    `yaml:"assets"`
	Journal   JournalConfig   `yaml:"journal"`
}

// ModelConfig defines the text-generation endpoint.
type ModelConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	Name        string        `yaml:"name"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
	Timeout     time.Duration `yaml:"timeout"`
	APIKey      string        `yaml:"apiKey"`
	MaxRetries  int           `yaml:"maxRetries"`
	Backoff     time.Duration `yaml:"backoff"`
}

// ConverterConfig selects the conversion strategy and its tools.
type ConverterConfig struct {
	Strategy      string        `yaml:"strategy"`      // "structural" or "external"
	RenderTimeout time.Duration `yaml:"renderTimeout"` // per render
	PDFToHTML     string        `yaml:"pdftohtml"`     // binary name or path
	WKHTMLToPDF   string        `yaml:"wkhtmltopdf"`   // binary name or path
}

// PromptConfig defines the fixed rules prepended to every prompt.
type PromptConfig struct {
	Rules string `yaml:"rules"` // embedded rule-set name, or a file path
}

// OutputConfig defines output naming.
type OutputConfig struct {
	DefaultName string `yaml:"defaultName"` // may contain {date} placeholders
	DefaultDir  string `yaml:"defaultDir"`  // empty = working directory
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// JournalConfig controls the run history database.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty = DefaultJournalPath()
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Endpoint:    "http://127.0.0.1:1234/v1/chat/completions",
			Name:        "openai/gpt-oss-20b",
			Temperature: 0.9,
			MaxTokens:   12000,
			Timeout:     300 * time.Second,
			Backoff:     2 * time.Second,
		},
		Converter: ConverterConfig{
			Strategy:      StrategyStructural,
			RenderTimeout: 60 * time.Second,
			PDFToHTML:     "pdftohtml",
			WKHTMLToPDF:   "wkhtmltopdf",
		},
		Prompt: PromptConfig{Rules: "default"},
		Output: OutputConfig{DefaultName: "output.pdf"},
	}
}

// Validate checks value ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	m := c.Model
	if err := validateFieldLength("model.endpoint", m.Endpoint, MaxURLLength); err != nil {
		return err
	}
	if err := validateEndpoint(m.Endpoint); err != nil {
		return err
	}
	if err := validateFieldLength("model.name", m.Name, MaxModelNameLength); err != nil {
		return err
	}
	if m.Name == "" {
		return fmt.Errorf("%w: model.name is required", ErrInvalidValue)
	}
	if err := validateFieldLength("model.apiKey", m.APIKey, MaxAPIKeyLength); err != nil {
		return err
	}
	if m.Temperature < 0 || m.Temperature > MaxTemperature {
		return fmt.Errorf("%w: model.temperature must be between 0 and %.0f, got %.2f", ErrInvalidValue, MaxTemperature, m.Temperature)
	}
	if m.MaxTokens <= 0 {
		return fmt.Errorf("%w: model.maxTokens must be positive, got %d", ErrInvalidValue, m.MaxTokens)
	}
	if m.Timeout <= 0 {
		return fmt.Errorf("%w: model.timeout must be positive, got %s", ErrInvalidValue, m.Timeout)
	}
	if m.MaxRetries < 0 || m.MaxRetries > MaxRetries {
		return fmt.Errorf("%w: model.maxRetries must be between 0 and %d, got %d", ErrInvalidValue, MaxRetries, m.MaxRetries)
	}
	if m.Backoff < 0 {
		return fmt.Errorf("%w: model.backoff must not be negative", ErrInvalidValue)
	}

	switch strings.ToLower(c.Converter.Strategy) {
	case StrategyStructural, StrategyExternal:
	default:
		return fmt.Errorf("%w: converter.strategy %q (must be structural or external)", ErrInvalidValue, c.Converter.Strategy)
	}
	if c.Converter.RenderTimeout < 0 {
		return fmt.Errorf("%w: converter.renderTimeout must not be negative", ErrInvalidValue)
	}
	if err := validateFieldLength("converter.pdftohtml", c.Converter.PDFToHTML, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("converter.wkhtmltopdf", c.Converter.WKHTMLToPDF, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("prompt.rules", c.Prompt.Rules, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultName", c.Output.DefaultName, MaxNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Output.DefaultName, "/\\") {
		return fmt.Errorf("%w: output.defaultName must be a file name, use output.defaultDir for directories", ErrInvalidValue)
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("journal.path", c.Journal.Path, MaxPathLength); err != nil {
		return err
	}

	return nil
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: model.endpoint is required", ErrInvalidValue)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: model.endpoint: %v", ErrInvalidValue, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: model.endpoint must use http or https, got %q", ErrInvalidValue, endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: model.endpoint has no host", ErrInvalidValue)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultJournalPath returns <UserConfigDir>/go-pdfedit/history.db.
func DefaultJournalPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDirName, "history.db"), nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory, then ~/.config/go-pdfedit/.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
