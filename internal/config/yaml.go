package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (1MB).
const MaxInputSize = 1 << 20

var (
	errEmptyData     = errors.New("empty data")
	errInputTooLarge = errors.New("input exceeds maximum size")
)

// decodeStrict unmarshals data into v, rejecting unknown fields.
// Fields absent from data keep the values already present in v.
func decodeStrict(data []byte, v any) error {
	if len(data) == 0 {
		return errEmptyData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", errInputTooLarge, len(data), MaxInputSize)
	}
	return yaml.UnmarshalWithOptions(data, v, yaml.Strict())
}
