package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrDecode indicates the source bytes could not be decoded to UTF-8.
var ErrDecode = errors.New("cannot decode source text")

// DecodeText converts raw text bytes to UTF-8 and reports the charset used.
// Valid UTF-8 is returned as is (minus a byte order mark); anything else is
// run through chardet and the matching x/text decoder.
func DecodeText(data []byte) (string, string, error) {
	if utf8.Valid(data) {
		return stripBOM(data), "UTF-8", nil
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	enc, err := lookupEncoding(result.Charset)
	if err != nil {
		return "", "", err
	}
	text, err := decodeWith(enc, data)
	if err != nil {
		return "", "", err
	}
	return text, result.Charset, nil
}

// DecodeHTML converts an HTML document to UTF-8. Valid UTF-8 is kept; other
// input is decoded with the encoding a browser would pick (byte order mark,
// <meta> declaration, then the windows-1252 default).
func DecodeHTML(data []byte) (string, error) {
	enc, name, certain := charset.DetermineEncoding(data, "text/html")
	if !certain && utf8.Valid(data) {
		return stripBOM(data), nil
	}
	if name == "utf-8" {
		return stripBOM(data), nil
	}
	return decodeWith(enc, data)
}

// TextToHTML wraps plain text in a document: blank lines separate
// paragraphs, single newlines become <br>.
func TextToHTML(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i, line := range lines {
			lines[i] = html.EscapeString(line)
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>\n"))
		b.WriteString("</p>\n")
	}
	return WrapBody(b.String())
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	// chardet spells some labels with a hyphen (GB-18030).
	if enc, err := htmlindex.Get(strings.ReplaceAll(name, "-", "")); err == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: unsupported charset %q", ErrDecode, name)
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return stripBOM(out), nil
}

func stripBOM(data []byte) string {
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	}
	return string(out)
}
