package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-pdfedit/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // PDFEDIT_CONFIG: config file name or path
	Endpoint    string        // PDFEDIT_ENDPOINT: chat completions URL
	Model       string        // PDFEDIT_MODEL: model identifier
	Temperature *float64      // PDFEDIT_TEMPERATURE: nil when unset or invalid
	MaxTokens   int           // PDFEDIT_MAX_TOKENS
	Timeout     time.Duration // PDFEDIT_TIMEOUT: model request timeout
	APIKey      string        // PDFEDIT_API_KEY: bearer token
	Strategy    string        // PDFEDIT_STRATEGY: structural or external
	OutputDir   string        // PDFEDIT_OUTPUT_DIR: default output directory
	Workers     int           // PDFEDIT_WORKERS: parallel pipelines for batches
}

// knownEnvVars lists valid PDFEDIT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PDFEDIT_CONFIG":      true,
	"PDFEDIT_ENDPOINT":    true,
	"PDFEDIT_MODEL":       true,
	"PDFEDIT_TEMPERATURE": true,
	"PDFEDIT_MAX_TOKENS":  true,
	"PDFEDIT_TIMEOUT":     true,
	"PDFEDIT_API_KEY":     true,
	"PDFEDIT_STRATEGY":    true,
	"PDFEDIT_OUTPUT_DIR":  true,
	"PDFEDIT_WORKERS":     true,
	"PDFEDIT_CONTAINER":   true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable or out-of-range numbers are ignored rather than reported.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("PDFEDIT_CONFIG"),
		Endpoint:   os.Getenv("PDFEDIT_ENDPOINT"),
		Model:      os.Getenv("PDFEDIT_MODEL"),
		APIKey:     os.Getenv("PDFEDIT_API_KEY"),
		Strategy:   os.Getenv("PDFEDIT_STRATEGY"),
		OutputDir:  os.Getenv("PDFEDIT_OUTPUT_DIR"),
	}

	if v := os.Getenv("PDFEDIT_TEMPERATURE"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil && t >= 0 {
			cfg.Temperature = &t
		}
	}
	if v := os.Getenv("PDFEDIT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("PDFEDIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("PDFEDIT_WORKERS"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized PDFEDIT_* variables.
// Helps catch typos like PDFEDIT_ENDPIONT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "PDFEDIT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config file values with environment values.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Endpoint != "" {
		cfg.Model.Endpoint = env.Endpoint
	}
	if env.Model != "" {
		cfg.Model.Name = env.Model
	}
	if env.Temperature != nil {
		cfg.Model.Temperature = *env.Temperature
	}
	if env.MaxTokens > 0 {
		cfg.Model.MaxTokens = env.MaxTokens
	}
	if env.Timeout > 0 {
		cfg.Model.Timeout = env.Timeout
	}
	if env.APIKey != "" {
		cfg.Model.APIKey = env.APIKey
	}
	if env.Strategy != "" {
		cfg.Converter.Strategy = env.Strategy
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
}
