package pdfmarkup

import (
	"html"
	"strings"
)

const (
	documentHead = "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n</head>\n" +
		"<body style=\"margin:0; padding:0; line-height:1.4;\">\n"
	documentTail = "</body>\n</html>\n"
	pageBreak    = "<div style=\"page-break-after:always;\"></div>\n"
	paragraphTag = "<p style=\"margin:0;\">"
)

// run is a stretch of text sharing one style. Word gaps between glyphs of
// different styles become unstyled runs.
type run struct {
	text  string
	style style
	plain bool
}

// Render builds a complete HTML document from pages.
func Render(pages []Page) string {
	var b strings.Builder
	b.WriteString(documentHead)
	for i, p := range pages {
		if i > 0 {
			b.WriteString(pageBreak)
		}
		for _, ln := range groupLines(p.Glyphs) {
			b.WriteString(paragraphTag)
			for _, r := range lineRuns(ln, p.Rules) {
				b.WriteString(r.html())
			}
			b.WriteString("</p>\n")
		}
	}
	b.WriteString(documentTail)
	return b.String()
}

// lineRuns merges adjacent glyphs with equal style into runs.
func lineRuns(ln line, rules []Rule) []run {
	var runs []run
	for i, g := range ln.glyphs {
		st := glyphStyle(ln, g, rules)

		gap := i > 0 && spaced(ln.glyphs[i-1], g)
		last := len(runs) - 1
		switch {
		case last >= 0 && !runs[last].plain && runs[last].style == st:
			if gap {
				runs[last].text += " "
			}
			runs[last].text += g.Text
			continue
		case gap:
			runs = append(runs, run{text: " ", plain: true})
		}
		runs = append(runs, run{text: g.Text, style: st})
	}
	return runs
}

func (r run) html() string {
	text := html.EscapeString(r.text)
	if r.plain {
		return text
	}

	s := r.style
	if s.bold {
		text = "<b>" + text + "</b>"
	}
	if s.italic {
		text = "<i>" + text + "</i>"
	}
	if s.underline {
		text = "<u>" + text + "</u>"
	}
	if s.strike {
		text = "<s>" + text + "</s>"
	}
	switch s.shift {
	case shiftSuper:
		text = "<sup>" + text + "</sup>"
	case shiftSub:
		text = "<sub>" + text + "</sub>"
	}
	return "<span style=\"" + s.css() + "\">" + text + "</span>"
}
