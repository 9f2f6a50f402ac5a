package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// bytesPerPixel is the storage size of one Color (R, G, B).
const bytesPerPixel = 3

// Color is an opaque RGB color with 8-bit channels.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// ClampChannel converts an intermediate channel value to the 0-255 range.
func ClampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Buffer is a mutable rectangular grid of RGB pixels.
//
// Pixels are stored row-major, three bytes per pixel. Coordinates are
// 0-based with the origin at the top-left corner. Every coordinate inside
// [0,Width) x [0,Height) holds a defined color; accesses outside that range
// fail with ErrOutOfRange.
//
// A Buffer is not safe for concurrent mutation.
type Buffer struct {
	width  int
	height int
	pix    []uint8
}

// New allocates a width x height buffer with every pixel black.
func New(width, height int) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("buffer size %dx%d: %w", width, height, ErrInvalidGeometry)
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*bytesPerPixel),
	}, nil
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Bounds returns the buffer rectangle, always anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// Contains reports whether (x, y) addresses a pixel of the buffer.
func (b *Buffer) Contains(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.width + x) * bytesPerPixel
}

// At returns the color at (x, y).
func (b *Buffer) At(x, y int) (Color, error) {
	if !b.Contains(x, y) {
		return Color{}, fmt.Errorf("read (%d,%d) of %dx%d buffer: %w", x, y, b.width, b.height, ErrOutOfRange)
	}
	i := b.offset(x, y)
	return Color{b.pix[i], b.pix[i+1], b.pix[i+2]}, nil
}

// Set stores c at (x, y).
func (b *Buffer) Set(x, y int, c Color) error {
	if !b.Contains(x, y) {
		return fmt.Errorf("write (%d,%d) of %dx%d buffer: %w", x, y, b.width, b.height, ErrOutOfRange)
	}
	i := b.offset(x, y)
	b.pix[i], b.pix[i+1], b.pix[i+2] = c.R, c.G, c.B
	return nil
}

// Clamped returns the color at (x, y) after clamping the coordinate into
// the buffer. It is the read path for neighborhood filters. The buffer must
// not be empty.
func (b *Buffer) Clamped(x, y int) Color {
	x = clamp(x, 0, b.width-1)
	y = clamp(y, 0, b.height-1)
	i := b.offset(x, y)
	return Color{b.pix[i], b.pix[i+1], b.pix[i+2]}
}

// Map replaces every pixel with fn(x, y, old), visiting rows top to bottom
// and each row left to right.
func (b *Buffer) Map(fn func(x, y int, c Color) Color) {
	i := 0
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := fn(x, y, Color{b.pix[i], b.pix[i+1], b.pix[i+2]})
			b.pix[i], b.pix[i+1], b.pix[i+2] = c.R, c.G, c.B
			i += bytesPerPixel
		}
	}
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c Color) {
	b.Map(func(int, int, Color) Color { return c })
}

// Clone returns a deep copy sharing no storage with b.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: pix}
}

// CopyFrom overwrites b with the dimensions and pixels of src.
func (b *Buffer) CopyFrom(src *Buffer) {
	b.width = src.width
	b.height = src.height
	if cap(b.pix) >= len(src.pix) {
		b.pix = b.pix[:len(src.pix)]
	} else {
		b.pix = make([]uint8, len(src.pix))
	}
	copy(b.pix, src.pix)
}

// Equal reports whether b and o have the same dimensions and pixels.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.width == o.width && b.height == o.height && bytes.Equal(b.pix, o.pix)
}

// String describes the buffer size, for logs and status lines.
func (b *Buffer) String() string {
	return fmt.Sprintf("%dx%d", b.width, b.height)
}

// FromImage copies img into a new Buffer. The alpha channel is dropped and
// the image bounds are re-based to the origin.
func FromImage(img image.Image) *Buffer {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	buf := &Buffer{width: w, height: h, pix: make([]uint8, w*h*bytesPerPixel)}
	j := 0
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			buf.pix[j], buf.pix[j+1], buf.pix[j+2] = row[i], row[i+1], row[i+2]
			j += bytesPerPixel
		}
	}
	return buf
}

// Image returns the buffer as an opaque *image.NRGBA.
func (b *Buffer) Image() *image.NRGBA {
	out := image.NewNRGBA(b.Bounds())
	j := 0
	for i := 0; i < len(b.pix); i += bytesPerPixel {
		out.Pix[j] = b.pix[i]
		out.Pix[j+1] = b.pix[i+1]
		out.Pix[j+2] = b.pix[i+2]
		out.Pix[j+3] = 255
		j += 4
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
