package pdfmarkup

import (
	"math"

	"github.com/ledongthuc/pdf"
)

// fillColors walks the page content stream and returns the non-stroking
// color in effect for each shown glyph, in the order pdf.Page.Content emits
// glyphs (one per decoded rune, spaces excluded). Callers must check the
// length against the glyph count before zipping.
func fillColors(p pdf.Page) []Color {
	var (
		out   []Color
		cur   = Black
		saved []Color
		enc   pdf.TextEncoding
	)

	show := func(v pdf.Value) {
		s := v.RawString()
		if enc != nil {
			s = enc.Decode(s)
		}
		for _, r := range s {
			if r != ' ' {
				out = append(out, cur)
			}
		}
	}

	pdf.Interpret(p.V.Key("Contents"), func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "q":
			saved = append(saved, cur)
		case "Q":
			if k := len(saved); k > 0 {
				cur, saved = saved[k-1], saved[:k-1]
			}
		case "g", "rg", "k", "sc", "scn":
			if c, ok := colorFrom(args); ok {
				cur = c
			}
		case "Tf":
			if n == 2 {
				enc = p.Font(args[0].Name()).Encoder()
			}
		case "Tj", "'":
			if n >= 1 {
				show(args[n-1])
			}
		case "\"":
			if n == 3 {
				show(args[2])
			}
		case "TJ":
			if n == 1 {
				arr := args[0]
				for i := 0; i < arr.Len(); i++ {
					if x := arr.Index(i); x.Kind() == pdf.String {
						show(x)
					}
				}
			}
		}
	})
	return out
}

// colorFrom interprets numeric operands as gray, RGB or CMYK by count.
// Pattern names passed to scn are ignored.
func colorFrom(args []pdf.Value) (Color, bool) {
	nums := make([]float64, 0, len(args))
	for _, a := range args {
		switch a.Kind() {
		case pdf.Integer, pdf.Real:
			nums = append(nums, a.Float64())
		}
	}

	switch len(nums) {
	case 1:
		v := channel(nums[0])
		return Color{v, v, v}, true
	case 3:
		return Color{channel(nums[0]), channel(nums[1]), channel(nums[2])}, true
	case 4:
		c, m, y, k := nums[0], nums[1], nums[2], nums[3]
		return Color{
			channel((1 - c) * (1 - k)),
			channel((1 - m) * (1 - k)),
			channel((1 - y) * (1 - k)),
		}, true
	default:
		return Color{}, false
	}
}

// channel converts a 0..1 component to 0..255.
func channel(v float64) uint8 {
	v = min(max(v, 0), 1)
	return uint8(math.Round(v * 255))
}
