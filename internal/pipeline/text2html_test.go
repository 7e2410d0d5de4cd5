package pipeline

// Notes:
// - chardet is statistical; detection tests use inputs long enough for a
//   confident guess and only assert the decoded text, not the charset label.

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ---------------------------------------------------------------------------
// TestDecodeText - Charset detection
// ---------------------------------------------------------------------------

func TestDecodeText_UTF8(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{name: "ascii", input: []byte("hello"), want: "hello"},
		{name: "accents", input: []byte("Réponse à la question"), want: "Réponse à la question"},
		{name: "bom stripped", input: []byte("\xef\xbb\xbfhello"), want: "hello"},
		{name: "empty", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, cs, err := DecodeText(tt.input)
			if err != nil {
				t.Fatalf("DecodeText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeText() = %q, want %q", got, tt.want)
			}
			if cs != "UTF-8" {
				t.Errorf("charset = %q, want UTF-8", cs)
			}
		})
	}
}

func TestDecodeText_Latin1(t *testing.T) {
	t.Parallel()

	original := strings.Repeat("Les élèves répondent à la deuxième question très précisément. ", 8)
	encoded, err := charmap.ISO8859_1.NewEncoder().String(original)
	if err != nil {
		t.Fatal(err)
	}

	got, _, err := DecodeText([]byte(encoded))
	if err != nil {
		t.Fatalf("DecodeText() error = %v", err)
	}
	if got != original {
		t.Errorf("DecodeText() = %q, want %q", got, original)
	}
}

// ---------------------------------------------------------------------------
// TestDecodeHTML - Declared charsets
// ---------------------------------------------------------------------------

func TestDecodeHTML_MetaCharset(t *testing.T) {
	t.Parallel()

	doc := `<html><head><meta charset="windows-1252"></head><body>Caf` + "\xe9" + `</body></html>`

	got, err := DecodeHTML([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeHTML() error = %v", err)
	}
	if !strings.Contains(got, "Café") {
		t.Errorf("DecodeHTML() = %q, want Café", got)
	}
}

func TestDecodeHTML_UTF16BOM(t *testing.T) {
	t.Parallel()

	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.String("<html><body>naïve</body></html>")
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeHTML([]byte(data))
	if err != nil {
		t.Fatalf("DecodeHTML() error = %v", err)
	}
	if !strings.Contains(got, "naïve") {
		t.Errorf("DecodeHTML() = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestTextToHTML - Paragraph wrapping
// ---------------------------------------------------------------------------

func TestTextToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    []string
		exclude []string
	}{
		{name: "paragraphs", text: "First.\n\nSecond.", want: []string{"<p>First.</p>", "<p>Second.</p>"}},
		{name: "line breaks", text: "a\nb", want: []string{"<p>a<br>\nb</p>"}},
		{name: "crlf", text: "a\r\n\r\nb", want: []string{"<p>a</p>", "<p>b</p>"}},
		{name: "escaping", text: "1 < 2 & <b>", want: []string{"1 &lt; 2 &amp; &lt;b&gt;"}, exclude: []string{"<b>"}},
		{name: "blank blocks dropped", text: "\n\n\n\nx\n\n   \n\n", want: []string{"<p>x</p>"}, exclude: []string{"<p></p>", "<p>   </p>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TextToHTML(tt.text)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("TextToHTML(%q) missing %q in %q", tt.text, w, got)
				}
			}
			for _, x := range tt.exclude {
				if strings.Contains(got, x) {
					t.Errorf("TextToHTML(%q) should not contain %q", tt.text, x)
				}
			}
		})
	}
}
