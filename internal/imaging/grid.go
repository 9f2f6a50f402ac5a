package imaging

import (
	"fmt"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultGridColor is used when a grid is requested without a color.
var DefaultGridColor = Color{R: 255}

// Grid describes a coordinate grid drawn over an exported image.
type Grid struct {
	// Spacing is the distance in pixels between lines. Zero means no grid.
	Spacing int

	// Labels prints "x,y" at every intersection.
	Labels bool

	// Color of the lines.
	Color Color
}

// ParseHexColor parses "#RRGGBB" (the leading '#' is optional).
func ParseHexColor(s string) (Color, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Overlay returns a copy of b with g drawn over it. b is not modified.
func Overlay(b *Buffer, g Grid) (*Buffer, error) {
	if g.Spacing < 0 {
		return nil, fmt.Errorf("grid spacing %d: %w", g.Spacing, ErrInvalidGeometry)
	}
	out := b.Clone()
	if g.Spacing == 0 {
		return out, nil
	}

	out.Map(func(x, y int, c Color) Color {
		if (x > 0 && x%g.Spacing == 0) || (y > 0 && y%g.Spacing == 0) {
			return g.Color
		}
		return c
	})

	if g.Labels {
		for y := g.Spacing; y < out.height; y += g.Spacing {
			for x := g.Spacing; x < out.width; x += g.Spacing {
				drawLabel(out, x+2, y+2, strconv.Itoa(x)+","+strconv.Itoa(y), White, Black)
			}
		}
	}
	return out, nil
}

// glyphs is a 3x5 pixel font for digits and comma.
var glyphs = map[rune][5]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

const (
	glyphAdvance = 4
	labelHeight  = 7
)

// drawLabel writes text with its top-left corner at (x, y) on a solid
// background. Pixels falling outside b are skipped.
func drawLabel(b *Buffer, x, y int, text string, fg, bg Color) {
	put := func(px, py int, c Color) {
		if b.Contains(px, py) {
			_ = b.Set(px, py, c)
		}
	}

	width := len(text) * glyphAdvance
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < width; dx++ {
			put(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, line := range glyph {
				for col, bit := range line {
					if bit == '1' {
						put(cx+col, y+row, fg)
					}
				}
			}
		}
		cx += glyphAdvance
	}
}
