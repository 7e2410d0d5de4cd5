package pdfmarkup

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// style is the visual identity of a run of glyphs.
type style struct {
	family    string
	size      float64
	color     Color
	bold      bool
	italic    bool
	underline bool
	strike    bool
	shift     shift
}

func glyphStyle(ln line, g Glyph, rules []Rule) style {
	lower := strings.ToLower(g.Font)
	u, s := decoration(g, rules)
	return style{
		family:    cssFamily(g.Font),
		size:      math.Round(g.Size*10) / 10,
		color:     g.Color,
		bold:      containsAny(lower, "bold", "black", "heavy", "semibold", "demi"),
		italic:    containsAny(lower, "italic", "oblique"),
		underline: u,
		strike:    s,
		shift:     ln.shiftOf(g),
	}
}

// css returns the inline declarations for the run's span.
func (s style) css() string {
	var b strings.Builder
	b.WriteString("font-family:")
	b.WriteString(s.family)
	if s.size > 0 {
		b.WriteString("; font-size:")
		b.WriteString(strconv.FormatFloat(s.size, 'f', -1, 64))
		b.WriteString("pt")
	}
	b.WriteString("; color:")
	b.WriteString(s.color.Hex())
	b.WriteString(";")
	return b.String()
}

// cssFamily maps a PDF font name to a CSS font-family list that keeps the
// original face when installed and falls back to a safe font otherwise.
func cssFamily(font string) string {
	name := familyName(font)
	lower := strings.ToLower(strings.ReplaceAll(name, " ", ""))

	switch {
	case containsAny(lower, "courier", "mono", "consol"):
		return "'Courier New', Courier, monospace"
	case containsAny(lower, "times"):
		return "'Times New Roman', Times, serif"
	case containsAny(lower, "arial", "helvetica"):
		return "Arial, Helvetica, sans-serif"
	case containsAny(lower, "verdana"):
		return "Verdana, sans-serif"
	case lower == "":
		return "Arial, sans-serif"
	case containsAny(lower, "georgia", "garamond", "cambria", "palatino", "minion", "bookman", "serif") &&
		!strings.Contains(lower, "sans"):
		return "'" + name + "', 'Times New Roman', serif"
	default:
		return "'" + name + "', Arial, sans-serif"
	}
}

// familyName strips the subset tag, style suffix and vendor markers from a
// PDF base font name and splits CamelCase: "ABCDEF+TimesNewRomanPS-BoldMT"
// becomes "Times New Roman".
func familyName(font string) string {
	if _, after, ok := strings.Cut(font, "+"); ok {
		font = after
	}
	if i := strings.IndexAny(font, "-,"); i >= 0 {
		font = font[:i]
	}
	for _, suffix := range []string{"PSMT", "MT", "PS"} {
		if trimmed := strings.TrimSuffix(font, suffix); trimmed != "" {
			font = trimmed
		}
	}

	var b strings.Builder
	runes := []rune(font)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			continue
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
