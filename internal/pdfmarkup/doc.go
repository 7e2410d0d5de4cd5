// Package pdfmarkup rebuilds an HTML document from the positioned glyphs of
// a PDF, keeping the visual styling a reader would notice: font family, size
// and fill color, bold and italic faces, underline and strikeout rules, and
// superscript or subscript offsets.
//
// Glyphs are grouped into lines by baseline proximity, ordered left to right,
// merged into runs of identical style and emitted as one paragraph per line
// with inline CSS only. Pages are separated by forced page breaks.
//
// Read extracts glyphs, fill colors and filled rectangles from a PDF with
// github.com/ledongthuc/pdf. Render works on plain Page values and can be
// fed from any other source.
package pdfmarkup
