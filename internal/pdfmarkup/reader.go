package pdfmarkup

import (
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable indicates the PDF could not be parsed.
var ErrUnreadable = errors.New("unreadable PDF")

// Read extracts glyphs, fill colors and rectangles from every page of a PDF.
// Pages without a dictionary are skipped.
func Read(r io.ReaderAt, size int64) ([]Page, error) {
	pr, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	n := pr.NumPage()
	pages := make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		p := pr.Page(i)
		if p.V.IsNull() {
			continue
		}
		page, err := readPage(p)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Convert reads a PDF and renders it as an HTML document.
// It returns the document and the number of pages read.
func Convert(r io.ReaderAt, size int64) (string, int, error) {
	pages, err := Read(r, size)
	if err != nil {
		return "", 0, err
	}
	return Render(pages), len(pages), nil
}

// readPage converts one page. The pdf package panics on malformed content
// streams; those panics become ErrUnreadable.
func readPage(p pdf.Page) (page Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	content := p.Content()
	colors := fillColors(p)
	aligned := len(colors) == len(content.Text)

	page.Glyphs = make([]Glyph, 0, len(content.Text))
	for i, t := range content.Text {
		g := Glyph{
			Text: t.S,
			Font: t.Font,
			Size: t.FontSize,
			X:    t.X,
			Y:    t.Y,
			W:    t.W,
		}
		if aligned {
			g.Color = colors[i]
		}
		page.Glyphs = append(page.Glyphs, g)
	}

	for _, r := range content.Rect {
		page.Rules = append(page.Rules, NewRule(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y))
	}
	return page, nil
}
