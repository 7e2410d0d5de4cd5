package config

// Notes:
// - LoadConfig name resolution searches the working directory. Tests that
//   exercise it use t.Chdir and therefore cannot run in parallel.
// - Path-based loads use t.TempDir() and run in parallel.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes content to dir/name and returns the path.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestDefaultConfig - Defaults
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Model.Endpoint != "http://127.0.0.1:1234/v1/chat/completions" {
		t.Errorf("Model.Endpoint = %q", cfg.Model.Endpoint)
	}
	if cfg.Model.Name != "openai/gpt-oss-20b" {
		t.Errorf("Model.Name = %q", cfg.Model.Name)
	}
	if cfg.Model.Temperature != 0.9 {
		t.Errorf("Model.Temperature = %v, want 0.9", cfg.Model.Temperature)
	}
	if cfg.Model.MaxTokens != 12000 {
		t.Errorf("Model.MaxTokens = %d, want 12000", cfg.Model.MaxTokens)
	}
	if cfg.Model.Timeout != 300*time.Second {
		t.Errorf("Model.Timeout = %v, want 300s", cfg.Model.Timeout)
	}
	if cfg.Model.MaxRetries != 0 {
		t.Errorf("Model.MaxRetries = %d, want 0", cfg.Model.MaxRetries)
	}
	if cfg.Converter.Strategy != StrategyStructural {
		t.Errorf("Converter.Strategy = %q", cfg.Converter.Strategy)
	}
	if cfg.Output.DefaultName != "output.pdf" {
		t.Errorf("Output.DefaultName = %q", cfg.Output.DefaultName)
	}
	if cfg.Journal.Enabled {
		t.Error("Journal.Enabled = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Ranges and lengths
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero temperature", mutate: func(c *Config) { c.Model.Temperature = 0 }},
		{name: "external strategy", mutate: func(c *Config) { c.Converter.Strategy = "external" }},
		{name: "strategy case insensitive", mutate: func(c *Config) { c.Converter.Strategy = "External" }},
		{name: "negative temperature", mutate: func(c *Config) { c.Model.Temperature = -0.1 }, wantErr: ErrInvalidValue},
		{name: "temperature too high", mutate: func(c *Config) { c.Model.Temperature = 2.5 }, wantErr: ErrInvalidValue},
		{name: "zero max tokens", mutate: func(c *Config) { c.Model.MaxTokens = 0 }, wantErr: ErrInvalidValue},
		{name: "zero timeout", mutate: func(c *Config) { c.Model.Timeout = 0 }, wantErr: ErrInvalidValue},
		{name: "too many retries", mutate: func(c *Config) { c.Model.MaxRetries = 11 }, wantErr: ErrInvalidValue},
		{name: "negative backoff", mutate: func(c *Config) { c.Model.Backoff = -time.Second }, wantErr: ErrInvalidValue},
		{name: "empty endpoint", mutate: func(c *Config) { c.Model.Endpoint = "" }, wantErr: ErrInvalidValue},
		{name: "endpoint without scheme", mutate: func(c *Config) { c.Model.Endpoint = "localhost:1234" }, wantErr: ErrInvalidValue},
		{name: "endpoint ftp scheme", mutate: func(c *Config) { c.Model.Endpoint = "ftp://host/x" }, wantErr: ErrInvalidValue},
		{name: "empty model name", mutate: func(c *Config) { c.Model.Name = "" }, wantErr: ErrInvalidValue},
		{name: "unknown strategy", mutate: func(c *Config) { c.Converter.Strategy = "magic" }, wantErr: ErrInvalidValue},
		{name: "name with directory", mutate: func(c *Config) { c.Output.DefaultName = "out/x.pdf" }, wantErr: ErrInvalidValue},
		{name: "long model name", mutate: func(c *Config) { c.Model.Name = strings.Repeat("m", MaxModelNameLength+1) }, wantErr: ErrFieldTooLong},
		{name: "long api key", mutate: func(c *Config) { c.Model.APIKey = strings.Repeat("k", MaxAPIKeyLength+1) }, wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading
// ---------------------------------------------------------------------------

func TestLoadConfig_Path(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "work.yaml", `
model:
  endpoint: https://llm.internal/v1/chat/completions
  name: qwen3-32b
  temperature: 0
  timeout: 20m
converter:
  strategy: external
output:
  defaultName: answers-{date}.pdf
journal:
  enabled: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Model.Name != "qwen3-32b" {
		t.Errorf("Model.Name = %q", cfg.Model.Name)
	}
	if cfg.Model.Temperature != 0 {
		t.Errorf("Model.Temperature = %v, want explicit 0", cfg.Model.Temperature)
	}
	if cfg.Model.Timeout != 20*time.Minute {
		t.Errorf("Model.Timeout = %v, want 20m", cfg.Model.Timeout)
	}
	if cfg.Model.MaxTokens != 12000 {
		t.Errorf("Model.MaxTokens = %d, want default 12000", cfg.Model.MaxTokens)
	}
	if cfg.Converter.Strategy != StrategyExternal {
		t.Errorf("Converter.Strategy = %q", cfg.Converter.Strategy)
	}
	if cfg.Converter.PDFToHTML != "pdftohtml" {
		t.Errorf("Converter.PDFToHTML = %q, want default", cfg.Converter.PDFToHTML)
	}
	if cfg.Output.DefaultName != "answers-{date}.pdf" {
		t.Errorf("Output.DefaultName = %q", cfg.Output.DefaultName)
	}
	if !cfg.Journal.Enabled {
		t.Error("Journal.Enabled = false, want true")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "unknown field", content: "model:\n  nmae: x\n", wantErr: ErrConfigParse},
		{name: "unknown section", content: "style: technical\n", wantErr: ErrConfigParse},
		{name: "empty file", content: "", wantErr: ErrConfigParse},
		{name: "bad duration", content: "model:\n  timeout: soon\n", wantErr: ErrConfigParse},
		{name: "invalid value", content: "model:\n  temperature: 7\n", wantErr: ErrInvalidValue},
		{name: "oversized", content: "# " + strings.Repeat("x", MaxInputSize) + "\n", wantErr: ErrConfigParse},
	}

	for i, tt := range tests {
		path := writeConfig(t, dir, "c"+string(rune('a'+i))+".yaml", tt.content)

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := LoadConfig(path); !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
		t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
	}

	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := LoadConfig(missing); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig(missing) error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "exam.yml", "prompt:\n  rules: exam\n")
	t.Chdir(dir)

	cfg, err := LoadConfig("exam")
	if err != nil {
		t.Fatalf("LoadConfig(name) error = %v", err)
	}
	if cfg.Prompt.Rules != "exam" {
		t.Errorf("Prompt.Rules = %q, want exam", cfg.Prompt.Rules)
	}

	_, err = LoadConfig("does-not-exist-xyz")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "does-not-exist-xyz.yaml") {
		t.Errorf("error should list tried paths, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestSearchPaths - Lookup order
// ---------------------------------------------------------------------------

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least local paths", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("local paths first, got %v", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, AppDirName) {
			t.Errorf("user path %q missing %s", p, AppDirName)
		}
	}
}
