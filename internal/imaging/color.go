package imaging

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB Color    `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// Hex formats c as "#RRGGBB".
func (c Color) Hex() string {
	return strings.ToUpper(c.toColorful().Hex())
}

// HSL converts c to whole-number HSL.
func (c Color) HSL() HSLColor {
	h, s, l := c.toColorful().Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)}
}

func (c Color) toColorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
}

// SampleColor returns the color at (x, y) of b in several formats.
//
// Parameters:
//   - b: The buffer to sample.
//   - x: X coordinate (0 = left edge).
//   - y: Y coordinate (0 = top edge).
//
// Returns:
//   - *ColorResult: The color as hex, RGB and HSL.
//   - error: Non-nil if the coordinate is outside b.
//
// # Errors
//
//   - Returns an error wrapping ErrOutOfRange if x or y is negative or not
//     less than the buffer's width or height
//
// # Example
//
//	c, err := imaging.SampleColor(buf, 10, 20)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(c.Hex) // "#FF8040"
func SampleColor(b *Buffer, x, y int) (*ColorResult, error) {
	c, err := b.At(x, y)
	if err != nil {
		return nil, err
	}
	return &ColorResult{
		Hex: c.Hex(),
		RGB: c,
		HSL: c.HSL(),
	}, nil
}

// LabeledPoint is a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int
	Y     int
	Label string
}

// LabeledColorResult combines a color sample with its location and label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// MultiColorResult contains color samples in input order.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti samples several points in one call.
//
// Parameters:
//   - b: The buffer to sample.
//   - points: Coordinates to sample. Each point may carry a label that is
//     echoed in its result.
//
// Returns:
//   - *MultiColorResult: One sample per point, in input order.
//   - error: Non-nil if any point is outside b. On error no partial results
//     are returned.
//
// # Example
//
//	result, err := imaging.SampleColorsMulti(buf, []imaging.LabeledPoint{
//	    {X: 5, Y: 5, Label: "sky"},
//	    {X: 40, Y: 90, Label: "ground"},
//	})
func SampleColorsMulti(b *Buffer, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		color, err := SampleColor(b, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *color,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}
