package markup

import (
	"errors"
	"html"
	"regexp"
	"strings"
)

// ErrNoMarkup indicates a completion that contains no usable content.
var ErrNoMarkup = errors.New("completion contains no markup")

// shellTemplate wraps fragments and plain text in a minimal document.
const (
	shellOpen  = "<html><body>"
	shellClose = "</body></html>"
)

// reFence matches a fenced code block and captures its body.
var reFence = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \t]*\r?\n(.*?)```")

// Extract returns the markup document contained in a model completion.
//
// Fenced code blocks are unwrapped (the first block containing a tag wins).
// Text before <!DOCTYPE or <html and after the last </html> is dropped.
// A fragment without an <html> element is wrapped in <html><body>, and plain
// text is escaped and wrapped one paragraph per blank-line separated block.
func Extract(completion string) (string, error) {
	s := strings.TrimSpace(completion)
	if s == "" {
		return "", ErrNoMarkup
	}

	for _, m := range reFence.FindAllStringSubmatch(s, -1) {
		if strings.Contains(m[1], "<") {
			s = strings.TrimSpace(m[1])
			break
		}
	}

	if start, ok := documentStart(s); ok {
		ends := reDocEnd.FindAllStringIndex(s[start:], -1)
		if len(ends) > 0 {
			return s[start : start+ends[len(ends)-1][1]], nil
		}
		return s[start:], nil
	}

	if looksLikeMarkup(s) {
		return shellOpen + s + shellClose, nil
	}

	return shellOpen + textToParagraphs(s) + shellClose, nil
}

// Offsets come from matching s itself; case folding can change byte lengths
// outside ASCII.
var (
	reDoctype = regexp.MustCompile(`(?i)<!doctype`)
	reHTML    = regexp.MustCompile(`(?i)<html`)
	reDocEnd  = regexp.MustCompile(`(?i)</html>`)
)

// documentStart returns the offset of <!DOCTYPE, or of <html when there is
// no doctype.
func documentStart(s string) (int, bool) {
	if loc := reDoctype.FindStringIndex(s); loc != nil {
		return loc[0], true
	}
	if loc := reHTML.FindStringIndex(s); loc != nil {
		return loc[0], true
	}
	return 0, false
}

// reTag matches an opening or closing HTML tag.
var reTag = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9]*(\s[^<>]*)?/?>`)

func looksLikeMarkup(s string) bool {
	return reTag.MatchString(s)
}

// textToParagraphs escapes text and emits one <p> per blank-line separated
// block, keeping single newlines as <br>.
func textToParagraphs(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var b strings.Builder
	for _, block := range strings.Split(s, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i := range lines {
			lines[i] = html.EscapeString(strings.TrimSpace(lines[i]))
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
