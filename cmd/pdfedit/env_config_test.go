package main

// Notes:
// - loadEnvConfig: every variable is covered. Invalid or non-positive
//   numbers are ignored, not reported.
// - warnUnknownEnvVars: we test typo detection and that known vars stay quiet.
// - applyEnvConfig: environment values override the config file, unset
//   variables leave it untouched.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-pdfedit/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("model settings", func(t *testing.T) {
		t.Setenv("PDFEDIT_ENDPOINT", "http://localhost:8080/v1/chat/completions")
		t.Setenv("PDFEDIT_MODEL", "qwen")
		t.Setenv("PDFEDIT_TEMPERATURE", "0.2")
		t.Setenv("PDFEDIT_MAX_TOKENS", "4096")
		t.Setenv("PDFEDIT_TIMEOUT", "2m")
		t.Setenv("PDFEDIT_API_KEY", "secret")

		cfg := loadEnvConfig()

		if cfg.Endpoint != "http://localhost:8080/v1/chat/completions" {
			t.Errorf("Endpoint = %q", cfg.Endpoint)
		}
		if cfg.Model != "qwen" {
			t.Errorf("Model = %q, want qwen", cfg.Model)
		}
		if cfg.Temperature == nil || *cfg.Temperature != 0.2 {
			t.Errorf("Temperature = %v, want 0.2", cfg.Temperature)
		}
		if cfg.MaxTokens != 4096 {
			t.Errorf("MaxTokens = %d, want 4096", cfg.MaxTokens)
		}
		if cfg.Timeout != 2*time.Minute {
			t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
		}
		if cfg.APIKey != "secret" {
			t.Errorf("APIKey = %q, want secret", cfg.APIKey)
		}
	})

	t.Run("run settings", func(t *testing.T) {
		t.Setenv("PDFEDIT_CONFIG", "/path/to/config.yaml")
		t.Setenv("PDFEDIT_STRATEGY", "external")
		t.Setenv("PDFEDIT_OUTPUT_DIR", "/output")
		t.Setenv("PDFEDIT_WORKERS", "4")

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "/path/to/config.yaml" {
			t.Errorf("ConfigPath = %q", cfg.ConfigPath)
		}
		if cfg.Strategy != "external" {
			t.Errorf("Strategy = %q, want external", cfg.Strategy)
		}
		if cfg.OutputDir != "/output" {
			t.Errorf("OutputDir = %q, want /output", cfg.OutputDir)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("zero temperature is kept", func(t *testing.T) {
		t.Setenv("PDFEDIT_TEMPERATURE", "0")

		cfg := loadEnvConfig()

		if cfg.Temperature == nil || *cfg.Temperature != 0 {
			t.Errorf("Temperature = %v, want 0", cfg.Temperature)
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		t.Setenv("PDFEDIT_TEMPERATURE", "-1")
		t.Setenv("PDFEDIT_MAX_TOKENS", "lots")
		t.Setenv("PDFEDIT_TIMEOUT", "invalid")
		t.Setenv("PDFEDIT_WORKERS", "-2")

		cfg := loadEnvConfig()

		if cfg.Temperature != nil {
			t.Errorf("Temperature = %v, want nil", *cfg.Temperature)
		}
		if cfg.MaxTokens != 0 {
			t.Errorf("MaxTokens = %d, want 0", cfg.MaxTokens)
		}
		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", cfg.Timeout)
		}
		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0", cfg.Workers)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Run("unknown var warns", func(t *testing.T) {
		t.Setenv("PDFEDIT_ENDPIONT", "http://x")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if !strings.Contains(buf.String(), "PDFEDIT_ENDPIONT") {
			t.Errorf("output = %q, want warning for PDFEDIT_ENDPIONT", buf.String())
		}
	})

	t.Run("known vars silent", func(t *testing.T) {
		t.Setenv("PDFEDIT_MODEL", "qwen")
		t.Setenv("PDFEDIT_CONTAINER", "1")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if strings.Contains(buf.String(), "PDFEDIT_MODEL") || strings.Contains(buf.String(), "PDFEDIT_CONTAINER") {
			t.Errorf("unexpected warning: %q", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Environment over config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("env overrides file", func(t *testing.T) {
		t.Parallel()

		temp := 0.0
		cfg := config.DefaultConfig()
		cfg.Model.Name = "from-file"
		applyEnvConfig(&envConfig{
			Endpoint:    "http://env/v1/chat/completions",
			Model:       "from-env",
			Temperature: &temp,
			MaxTokens:   100,
			Timeout:     time.Minute,
			APIKey:      "k",
			Strategy:    "external",
			OutputDir:   "/env",
		}, cfg)

		if cfg.Model.Endpoint != "http://env/v1/chat/completions" {
			t.Errorf("Endpoint = %q", cfg.Model.Endpoint)
		}
		if cfg.Model.Name != "from-env" {
			t.Errorf("Name = %q, want from-env", cfg.Model.Name)
		}
		if cfg.Model.Temperature != 0 {
			t.Errorf("Temperature = %v, want 0", cfg.Model.Temperature)
		}
		if cfg.Model.MaxTokens != 100 {
			t.Errorf("MaxTokens = %d, want 100", cfg.Model.MaxTokens)
		}
		if cfg.Model.Timeout != time.Minute {
			t.Errorf("Timeout = %v, want 1m", cfg.Model.Timeout)
		}
		if cfg.Model.APIKey != "k" {
			t.Errorf("APIKey = %q, want k", cfg.Model.APIKey)
		}
		if cfg.Converter.Strategy != "external" {
			t.Errorf("Strategy = %q, want external", cfg.Converter.Strategy)
		}
		if cfg.Output.DefaultDir != "/env" {
			t.Errorf("DefaultDir = %q, want /env", cfg.Output.DefaultDir)
		}
	})

	t.Run("empty env keeps file", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		want := *cfg
		applyEnvConfig(&envConfig{}, cfg)

		if *cfg != want {
			t.Errorf("config changed: got %+v, want %+v", *cfg, want)
		}
	})
}
