package pdfmarkup

import "fmt"

// Color is an RGB fill color.
type Color struct {
	R, G, B uint8
}

// Black is the default fill color.
var Black = Color{}

// Hex returns the color as an uppercase #RRGGBB string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Glyph is one shown character with its position in page space.
// Y is the baseline, growing upwards as in PDF user space.
type Glyph struct {
	Text  string
	Font  string // PDF base font name, subset prefix removed
	Size  float64
	X, Y  float64
	W     float64 // advance width, zero when the font has no metrics
	Color Color
}

// Rule is a filled rectangle. Thin horizontal rules crossing glyphs are
// rendered as underline or strikeout.
type Rule struct {
	MinX, MinY, MaxX, MaxY float64
}

// Page holds the glyphs and rules of one page.
type Page struct {
	Glyphs []Glyph
	Rules  []Rule
}

// NewRule builds a Rule from two opposite corners in any order.
func NewRule(x0, y0, x1, y1 float64) Rule {
	return Rule{
		MinX: min(x0, x1), MinY: min(y0, y1),
		MaxX: max(x0, x1), MaxY: max(y0, y1),
	}
}
