package model

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Defaults match a local LM Studio server running an open-weight model.
const (
	DefaultEndpoint    = "http://127.0.0.1:1234/v1/chat/completions"
	DefaultModel       = "openai/gpt-oss-20b"
	DefaultTemperature = 0.9
	DefaultMaxTokens   = 12000
	DefaultTimeout     = 300 * time.Second
	DefaultBackoff     = 2 * time.Second
)

// Limits accepted by Validate.
const (
	MaxTemperature = 2.0
	MaxRetries     = 10
)

// ErrInvalidConfig indicates a client configuration that cannot be used.
var ErrInvalidConfig = errors.New("invalid model configuration")

// Config holds everything the client needs to reach the text-generation
// service. The zero value is not usable; start from DefaultConfig.
type Config struct {
	Endpoint    string        // full chat completions URL
	Model       string        // model identifier sent in the request body
	Temperature float64       // sampling temperature, 0 to 2
	MaxTokens   int           // max_tokens sent in the request body
	Timeout     time.Duration // per-attempt request timeout
	APIKey      string        // optional bearer token
	MaxRetries  int           // extra attempts after the first, 0 disables retry
	Backoff     time.Duration // base wait between retries, doubled each attempt
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:    DefaultEndpoint,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
		Backoff:     DefaultBackoff,
	}
}

// Validate reports the first unusable field.
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: endpoint %q must be an http(s) URL", ErrInvalidConfig, c.Endpoint)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model cannot be empty", ErrInvalidConfig)
	}
	if c.Temperature < 0 || c.Temperature > MaxTemperature {
		return fmt.Errorf("%w: temperature must be between 0 and %.0f, got %.2f", ErrInvalidConfig, MaxTemperature, c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidConfig, c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, c.Timeout)
	}
	if c.MaxRetries < 0 || c.MaxRetries > MaxRetries {
		return fmt.Errorf("%w: retries must be between 0 and %d, got %d", ErrInvalidConfig, MaxRetries, c.MaxRetries)
	}
	if c.MaxRetries > 0 && c.Backoff <= 0 {
		return fmt.Errorf("%w: backoff must be positive when retries are enabled", ErrInvalidConfig)
	}
	return nil
}
