package filter

import (
	"math"

	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// pixelSize is the block edge length of Pixelize.
const pixelSize = 5

// fishEyeScale caps the displacement of Fish Eye in pixels.
const fishEyeScale = 20

// Neighborhood filters read from a snapshot of the input through
// Buffer.Clamped, so border pixels reuse the nearest edge pixel and no
// read leaves the buffer.

// applySmooth replaces each channel with its mean over the 3x3 neighborhood.
func applySmooth(b *imaging.Buffer) {
	src := b.Clone()
	b.Map(func(x, y int, _ imaging.Color) imaging.Color {
		var r, g, bl int
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				c := src.Clamped(x+kx, y+ky)
				r += int(c.R)
				g += int(c.G)
				bl += int(c.B)
			}
		}
		return imaging.Color{R: uint8(r / 9), G: uint8(g / 9), B: uint8(bl / 9)}
	})
}

// applyPixelize paints every pixelSize x pixelSize block with the color of
// its top-left pixel. Partial blocks at the right and bottom edges are
// handled the same way.
func applyPixelize(b *imaging.Buffer) {
	src := b.Clone()
	b.Map(func(x, y int, _ imaging.Color) imaging.Color {
		return src.Clamped(x-x%pixelSize, y-y%pixelSize)
	})
}

// applyEdgeDetection sets each channel to 255 minus the channel's spread
// (max - min) over the 3x3 neighborhood: flat regions turn white, edges
// dark.
func applyEdgeDetection(b *imaging.Buffer) {
	src := b.Clone()
	b.Map(func(x, y int, _ imaging.Color) imaging.Color {
		lo := [3]int{255, 255, 255}
		hi := [3]int{0, 0, 0}
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				c := src.Clamped(x+kx, y+ky)
				for i, v := range [3]int{int(c.R), int(c.G), int(c.B)} {
					lo[i] = min(lo[i], v)
					hi[i] = max(hi[i], v)
				}
			}
		}
		return imaging.Color{
			R: imaging.ClampChannel(255 - (hi[0] - lo[0])),
			G: imaging.ClampChannel(255 - (hi[1] - lo[1])),
			B: imaging.ClampChannel(255 - (hi[2] - lo[2])),
		}
	})
}

// applyFishEye displaces every pixel by a sine wave over the full width and
// height, pulling content toward the center in the first half of each axis
// and pushing it outward in the second.
func applyFishEye(b *imaging.Buffer) {
	src := b.Clone()
	dx := displacement(b.Width())
	dy := displacement(b.Height())
	b.Map(func(x, y int, _ imaging.Color) imaging.Color {
		return src.Clamped(x+dx[x], y+dy[y])
	})
}

// displacement returns the per-index offset -sin(2*pi*i/n)*s, truncated
// toward zero, with s = min(fishEyeScale, n/8).
func displacement(n int) []int {
	scale := float64(min(fishEyeScale, n/8))
	d := make([]int, n)
	for i := range d {
		d[i] = -int(math.Sin(float64(i)/float64(n)*2*math.Pi) * scale)
	}
	return d
}
