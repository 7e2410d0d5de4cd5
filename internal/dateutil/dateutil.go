// Package dateutil expands date placeholders in output file names.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// ErrInvalidPlaceholder indicates a malformed {date...} placeholder.
var ErrInvalidPlaceholder = errors.New("invalid name placeholder")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used by a bare {date} placeholder.
const DefaultDateFormat = "YYYY-MM-DD"

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching. Tokens are case-sensitive:
// MM is the month, mm the minute.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for file-name-safe date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"compact":  "YYYYMMDD",
	"european": "DD-MM-YYYY",
	"stamp":    "YYYYMMDD-HHmmss",
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss.
// Use brackets to escape literal text: [v] preserves "v" literally.
// Any non-token characters outside brackets are preserved as literals.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has unclosed brackets.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// ExpandName replaces {date} and {date:FORMAT} placeholders in a file name
// template with t formatted accordingly. FORMAT may be a token format or a
// preset name (iso, compact, european, stamp). Text outside placeholders is
// returned unchanged. Expanded values must not introduce path separators.
func ExpandName(template string, t time.Time) (string, error) {
	if !strings.Contains(template, "{") {
		return template, nil
	}

	var out strings.Builder
	rest := template
	for {
		start := strings.Index(rest, "{")
		if start == -1 {
			out.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}")
		if end == -1 {
			return "", fmt.Errorf("%w: unclosed brace in %q", ErrInvalidPlaceholder, template)
		}
		end += start

		out.WriteString(rest[:start])
		value, err := expandPlaceholder(rest[start+1:end], t)
		if err != nil {
			return "", err
		}
		out.WriteString(value)
		rest = rest[end+1:]
	}

	return out.String(), nil
}

// expandPlaceholder resolves the inside of one {...} placeholder.
func expandPlaceholder(body string, t time.Time) (string, error) {
	name, format, hasFormat := strings.Cut(body, ":")
	if name != "date" {
		return "", fmt.Errorf("%w: unknown placeholder {%s}", ErrInvalidPlaceholder, body)
	}

	if !hasFormat {
		format = DefaultDateFormat
	} else if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	goFmt, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}

	value := t.Format(goFmt)
	if strings.ContainsAny(value, "/\\") {
		return "", fmt.Errorf("%w: format %q produces a path separator", ErrInvalidDateFormat, format)
	}
	return value, nil
}
