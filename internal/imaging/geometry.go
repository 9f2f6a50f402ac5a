package imaging

import "fmt"

// MaxDimension bounds the width and height a geometry operation may produce.
const MaxDimension = 16384

// Margins are the number of pixels a crop removes from each edge.
type Margins struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Top    int `json:"top"`
}

// Validate checks that cropping a width x height buffer by m leaves a
// non-empty buffer.
func (m Margins) Validate(width, height int) error {
	if m.Left < 0 || m.Right < 0 || m.Bottom < 0 || m.Top < 0 {
		return fmt.Errorf("negative crop margins %+v: %w", m, ErrInvalidGeometry)
	}
	// Subtract one margin at a time so huge values cannot wrap around.
	if m.Left >= width || m.Right >= width-m.Left || m.Top >= height || m.Bottom >= height-m.Top {
		return fmt.Errorf("crop %v of %dx%d leaves nothing: %w", m, width, height, ErrInvalidGeometry)
	}
	return nil
}

func (m Margins) String() string {
	return fmt.Sprintf("left=%d right=%d bottom=%d top=%d", m.Left, m.Right, m.Bottom, m.Top)
}

// ValidateEnlarge reports whether a width x height buffer can be enlarged.
func ValidateEnlarge(width, height int) error {
	return checkSize("enlarge", width*2, height*2)
}

// ValidateShrink reports whether a width x height buffer can be shrunk.
func ValidateShrink(width, height int) error {
	return checkSize("shrink", width/2, height/2)
}

func checkSize(op string, w, h int) error {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return fmt.Errorf("%s would produce %dx%d (max %d per side): %w", op, w, h, MaxDimension, ErrInvalidGeometry)
	}
	return nil
}

// Enlarge returns a buffer twice as wide and tall as src. Each source pixel
// becomes a uniform 2x2 block.
func Enlarge(src *Buffer) (*Buffer, error) {
	if err := ValidateEnlarge(src.width, src.height); err != nil {
		return nil, err
	}
	w, h := src.width*2, src.height*2
	out, err := New(w, h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < src.height; y++ {
		for x := 0; x < src.width; x++ {
			c, err := src.At(x, y)
			if err != nil {
				return nil, err
			}
			for _, p := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
				if err := out.Set(x*2+p[0], y*2+p[1], c); err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}

// Shrink returns a buffer half as wide and tall as src. An odd trailing
// row or column is dropped. Each output pixel is the per-channel mean,
// rounded down, of the corresponding 2x2 source block.
func Shrink(src *Buffer) (*Buffer, error) {
	if err := ValidateShrink(src.width, src.height); err != nil {
		return nil, err
	}
	w, h := src.width/2, src.height/2
	out, err := New(w, h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b int
			for _, p := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
				c, err := src.At(x*2+p[0], y*2+p[1])
				if err != nil {
					return nil, err
				}
				r += int(c.R)
				g += int(c.G)
				b += int(c.B)
			}
			if err := out.Set(x, y, Color{uint8(r / 4), uint8(g / 4), uint8(b / 4)}); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Crop removes m from the edges of src. Output pixel (x, y) is source
// pixel (x+m.Left, y+m.Top).
func Crop(src *Buffer, m Margins) (*Buffer, error) {
	if err := m.Validate(src.width, src.height); err != nil {
		return nil, err
	}
	w := src.width - m.Left - m.Right
	h := src.height - m.Top - m.Bottom
	out, err := New(w, h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, err := src.At(x+m.Left, y+m.Top)
			if err != nil {
				return nil, err
			}
			if err := out.Set(x, y, c); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
