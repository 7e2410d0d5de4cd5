package pdfmarkup

import (
	"math"
	"sort"
	"strings"
)

// Thresholds relative to the dominant font size of a line.
const (
	lineTolerance  = 0.6  // max distance to the top of a line to join it
	shiftThreshold = 0.15 // baseline offset that marks sup/sub text
	gapThreshold   = 0.2  // horizontal gap that inserts a space
	avgGlyphWidth  = 0.55 // width estimate when a font has no metrics
)

type shift int

const (
	shiftNone shift = iota
	shiftSuper
	shiftSub
)

// line is a set of glyphs sharing a baseline, sorted left to right.
type line struct {
	top      float64 // highest glyph Y, used while clustering
	size     float64 // largest font size on the line
	baseline float64
	glyphs   []Glyph
}

// groupLines clusters glyphs into lines ordered top to bottom.
func groupLines(glyphs []Glyph) []line {
	sorted := make([]Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if strings.TrimSpace(g.Text) != "" {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines []line
	for _, g := range sorted {
		if n := len(lines); n > 0 {
			cur := &lines[n-1]
			tol := max(lineTolerance*max(cur.size, g.Size), 1.0)
			if cur.top-g.Y <= tol {
				cur.glyphs = append(cur.glyphs, g)
				cur.size = max(cur.size, g.Size)
				continue
			}
		}
		lines = append(lines, line{top: g.Y, size: g.Size, glyphs: []Glyph{g}})
	}

	for i := range lines {
		ln := &lines[i]
		ln.baseline = dominantBaseline(ln.glyphs, ln.size)
		sort.SliceStable(ln.glyphs, func(a, b int) bool {
			return ln.glyphs[a].X < ln.glyphs[b].X
		})
	}
	return lines
}

// dominantBaseline returns the most common Y among the largest glyphs.
func dominantBaseline(glyphs []Glyph, size float64) float64 {
	counts := make(map[float64]int)
	best, bestCount := glyphs[0].Y, 0
	for _, g := range glyphs {
		if g.Size < size {
			continue
		}
		y := math.Round(g.Y*100) / 100
		counts[y]++
		if c := counts[y]; c > bestCount || (c == bestCount && y > best) {
			best, bestCount = y, c
		}
	}
	return best
}

// shiftOf classifies a glyph's vertical offset from the line baseline.
func (ln line) shiftOf(g Glyph) shift {
	d := g.Y - ln.baseline
	thr := shiftThreshold * ln.size
	switch {
	case d > thr:
		return shiftSuper
	case d < -thr:
		return shiftSub
	default:
		return shiftNone
	}
}

// advance returns the glyph's width, estimated when the font has no metrics.
func advance(g Glyph) float64 {
	if g.W > 0 {
		return g.W
	}
	return float64(len([]rune(g.Text))) * g.Size * avgGlyphWidth
}

// spaced reports whether a word gap separates prev and next.
func spaced(prev, next Glyph) bool {
	if strings.HasSuffix(prev.Text, " ") || strings.HasPrefix(next.Text, " ") {
		return false
	}
	gap := next.X - (prev.X + advance(prev))
	return gap > max(gapThreshold*max(prev.Size, next.Size), 1.0)
}

// decoration reports underline and strikeout rules crossing a glyph.
func decoration(g Glyph, rules []Rule) (underline, strike bool) {
	if g.Size <= 0 {
		return false, false
	}
	x0, x1 := g.X, g.X+advance(g)
	for _, r := range rules {
		h := r.MaxY - r.MinY
		if h > 0.15*g.Size || r.MaxX-r.MinX < 2*h {
			continue
		}
		overlap := min(x1, r.MaxX) - max(x0, r.MinX)
		if overlap < 0.5*(x1-x0) {
			continue
		}
		rel := (r.MinY+r.MaxY)/2 - g.Y
		switch {
		case rel >= -0.4*g.Size && rel <= 0.05*g.Size:
			underline = true
		case rel >= 0.15*g.Size && rel <= 0.5*g.Size:
			strike = true
		}
	}
	return underline, strike
}
