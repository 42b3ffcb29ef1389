package pixfmt

import (
	"image"
	"image/color"
)

// Packed is an image whose pixels are packed pixel words of a Layout.
//
// Pix may alias device memory; Stride is the line length in bytes and may be
// larger than the visible width times BytesPerPixel.
type Packed struct {
	Pix    []byte          // Pixel data
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
	Layout Layout          // Pixel format
}

// NewPacked allocates a Packed image with the specified bounds and layout.
func NewPacked(r image.Rectangle, l Layout) *Packed {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 || l.BytesPerPixel <= 0 {
		return &Packed{Rect: r, Layout: l}
	}
	stride := w * l.BytesPerPixel
	return &Packed{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
		Layout: l,
	}
}

// ColorModel returns the color model of the image.
func (p *Packed) ColorModel() color.Model {
	return Model(p.Layout)
}

// Bounds returns the image bounds.
func (p *Packed) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
func (p *Packed) At(x, y int) color.Color {
	return Color{V: p.PixelAt(x, y), Layout: p.Layout}
}

// PixelAt returns the raw pixel word at (x, y), or 0 outside the bounds.
func (p *Packed) PixelAt(x, y int) uint32 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	return p.Layout.Load(p.Pix[p.PixOffset(x, y):])
}

// Set sets the color of the pixel at (x, y).
func (p *Packed) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	var v uint32
	if pc, ok := c.(Color); ok && pc.Layout == p.Layout {
		v = pc.V
	} else {
		r, g, b, _ := c.RGBA()
		v = p.Layout.Val(uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
	p.Layout.Put(p.Pix[p.PixOffset(x, y):], v)
}

// SetPixel stores the raw pixel word v at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (p *Packed) SetPixel(x, y int, v uint32) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Layout.Put(p.Pix[p.PixOffset(x, y):], v)
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *Packed) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*p.Layout.BytesPerPixel
}
