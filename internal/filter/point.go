package filter

import (
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	img "github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// Darker scales channels by darkNum/darkDen; Lighter by the inverse.
const (
	darkNum = 7
	darkDen = 10
)

// lightFloor is what Lighter raises black and near-black channels to,
// since scaling alone cannot brighten zero.
const lightFloor = darkDen / (darkDen - darkNum)

// Threshold bands on the (R+G+B)/3 brightness.
const (
	thresholdLow  = 85
	thresholdHigh = 170
	thresholdMid  = 128
)

// solarizeLimit is the highest channel value Solarize inverts.
const solarizeLimit = 127

func applyDarker(b *img.Buffer) {
	b.Map(func(_, _ int, c img.Color) img.Color {
		return img.Color{
			R: uint8(int(c.R) * darkNum / darkDen),
			G: uint8(int(c.G) * darkNum / darkDen),
			B: uint8(int(c.B) * darkNum / darkDen),
		}
	})
}

// applyLighter undoes Darker's scaling, capped at 255. Black becomes a
// dark gray and non-zero channels below lightFloor are raised to it first.
func applyLighter(b *img.Buffer) {
	lift := func(v uint8) uint8 {
		n := int(v)
		if n > 0 && n < lightFloor {
			n = lightFloor
		}
		return img.ClampChannel(n * darkDen / darkNum)
	}
	b.Map(func(_, _ int, c img.Color) img.Color {
		if c == img.Black {
			return img.Color{R: lightFloor, G: lightFloor, B: lightFloor}
		}
		return img.Color{R: lift(c.R), G: lift(c.G), B: lift(c.B)}
	})
}

func applyThreshold(b *img.Buffer) {
	b.Map(func(_, _ int, c img.Color) img.Color {
		switch v := brightness(c); {
		case v <= thresholdLow:
			return img.Black
		case v <= thresholdHigh:
			return img.Color{R: thresholdMid, G: thresholdMid, B: thresholdMid}
		default:
			return img.White
		}
	})
}

func applyInvert(b *img.Buffer) {
	b.CopyFrom(img.FromImage(effect.Invert(b.Image())))
}

func applySolarize(b *img.Buffer) {
	sol := func(v uint8) uint8 {
		if v <= solarizeLimit {
			return 255 - v
		}
		return v
	}
	b.Map(func(_, _ int, c img.Color) img.Color {
		return img.Color{R: sol(c.R), G: sol(c.G), B: sol(c.B)}
	})
}

func applyMirror(b *img.Buffer) {
	b.CopyFrom(img.FromImage(imaging.FlipH(b.Image())))
}

func applyGrayscale(b *img.Buffer) {
	b.Map(func(_, _ int, c img.Color) img.Color {
		v := uint8(brightness(c))
		return img.Color{R: v, G: v, B: v}
	})
}

// brightness is the unweighted channel mean.
func brightness(c img.Color) int {
	return (int(c.R) + int(c.G) + int(c.B)) / 3
}
