package fbdev

import (
	"image"
	"unsafe"
)

// Pixel is a device pixel word. Its size must equal the bytes per pixel of
// the framebuffer it is written to.
type Pixel interface {
	~uint8 | ~uint16 | ~uint32
}

// MaxFillWidth bounds the cached row used by FillRect.
const MaxFillWidth = 1 << 12

// Canvas writes rows of P-sized pixels to a device.
type Canvas[P Pixel] struct {
	d *Dev

	row       []P // Paint row buffer
	cache     []P // FillRect row
	cacheFill P
}

// NewCanvas negotiates the pixel width of P with the device. It fails with
// *FormatMismatch if P is not exactly one device pixel wide.
func NewCanvas[P Pixel](d *Dev) (*Canvas[P], error) {
	if d.halted {
		return nil, ErrHalted
	}
	var p P
	if err := d.geom.checkPixelSize(int(unsafe.Sizeof(p))); err != nil {
		return nil, err
	}
	return &Canvas[P]{d: d}, nil
}

// Rows returns the number of visible rows.
func (c *Canvas[P]) Rows() int {
	return c.d.Rows()
}

// Cols returns the number of visible columns.
func (c *Canvas[P]) Cols() int {
	return c.d.Cols()
}

// Val converts an 8-bit RGB triple to a device pixel.
func (c *Canvas[P]) Val(r, g, b uint8) P {
	return P(c.d.geom.Layout.Val(r, g, b))
}

// WriteRow copies pixels to the visible position (row, col). Like
// Dev.WriteRow it trusts the caller to stay inside the visible area.
// Writes after the device is halted are dropped.
func (c *Canvas[P]) WriteRow(row, col int, pixels []P) {
	if len(pixels) == 0 || c.d.halted {
		return
	}
	size := int(unsafe.Sizeof(pixels[0]))
	c.d.WriteRow(row, col, unsafe.Slice((*byte)(unsafe.Pointer(&pixels[0])), len(pixels)*size))
}

// FillRect sets every pixel in rows [sr, er) and columns [sc, ec) to v.
// A row of v is built once and copied line by line; regions wider than
// MaxFillWidth are copied in chunks.
func (c *Canvas[P]) FillRect(sr, sc, er, ec int, v P) {
	if er <= sr || ec <= sc || c.d.halted {
		return
	}
	n := min(ec-sc, MaxFillWidth)
	if len(c.cache) < n || c.cacheFill != v {
		if cap(c.cache) < n {
			c.cache = make([]P, n)
		}
		c.cache = c.cache[:cap(c.cache)]
		for i := range c.cache {
			c.cache[i] = v
		}
		c.cacheFill = v
	}
	for r := sr; r < er; r++ {
		for col := sc; col < ec; col += n {
			c.WriteRow(r, col, c.cache[:min(n, ec-col)])
		}
	}
}

// Clear fills the visible area with black.
func (c *Canvas[P]) Clear() {
	c.FillRect(0, 0, c.Rows(), c.Cols(), c.Val(0, 0, 0))
}

// Paint converts the part of src that fits the screen, starting at src
// point sp, and writes it to the top left corner of the display.
func (c *Canvas[P]) Paint(src *image.RGBA, sp image.Point) {
	b := src.Bounds()
	if !sp.In(b) || c.d.halted {
		return
	}
	h := min(c.Rows(), b.Max.Y-sp.Y)
	w := min(c.Cols(), b.Max.X-sp.X)
	if h <= 0 || w <= 0 {
		return
	}
	if cap(c.row) < w {
		c.row = make([]P, w)
	}
	row := c.row[:w]
	for y := 0; y < h; y++ {
		i := src.PixOffset(sp.X, sp.Y+y)
		s := src.Pix[i : i+4*w : i+4*w]
		for x := range row {
			row[x] = c.Val(s[4*x], s[4*x+1], s[4*x+2])
		}
		c.WriteRow(y, 0, row)
	}
}
