package fbdev

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"

	"periph.io/x/conn/v3/display"

	"github.com/flavioheleno/fbdev/internal/logx"
	"github.com/flavioheleno/fbdev/pixfmt"
)

// DefaultDevice is used when neither Opts.Device nor $FRAMEBUFFER is set.
const DefaultDevice = "/dev/fb0"

// Opts is the configuration for opening a framebuffer.
type Opts struct {
	// Device node (default: $FRAMEBUFFER, then /dev/fb0)
	Device string

	// Expected bytes per pixel of the caller's pixel type; 0 accepts any
	// depth. A mismatch fails Open with *FormatMismatch.
	PixelSize int

	// Optional logger for discovery details
	Logger *slog.Logger
}

func (o *Opts) withDefaults() Opts {
	var opts Opts
	if o != nil {
		opts = *o
	}
	if opts.Device == "" {
		opts.Device = os.Getenv("FRAMEBUFFER")
	}
	if opts.Device == "" {
		opts.Device = DefaultDevice
	}
	return opts
}

// device is the kernel side of an open framebuffer.
type device interface {
	getCmap(c *Cmap) error
	putCmap(c *Cmap) error
	unmap(mem []byte) error
	close() error
}

// Dev is the device handle for an open, mapped framebuffer.
//
// A Dev is owned by a single goroutine; it does no locking.
type Dev struct {
	sys  device
	path string
	mem  []byte // mmap'd pixel memory, LineLength*YresVirtual bytes
	geom Geometry

	saved   *Cmap          // Color map found at Open, restored by Halt
	visible *pixfmt.Packed // Lazily built view for Draw
	scratch []byte         // Row buffer for Draw

	halted bool
}

var _ display.Drawer = (*Dev)(nil)

// attach completes Open once the memory is mapped: it saves the current
// color map and installs the linear ramp. On failure everything acquired so
// far is released.
func attach(sys device, opts Opts, g Geometry, mem []byte) (*Dev, error) {
	d := &Dev{
		sys:  sys,
		path: opts.Device,
		mem:  mem,
		geom: g,
	}
	logx.Debug("framebuffer opened", logx.Prov(opts.Logger),
		"device", d.path,
		"resolution", fmt.Sprintf("%dx%d", g.Xres, g.Yres),
		"virtual", fmt.Sprintf("%dx%d", g.XresVirtual, g.YresVirtual),
		"offset", fmt.Sprintf("%d,%d", g.Xoffset, g.Yoffset),
		"line_length", g.LineLength,
		"visual", g.Visual,
		"layout", g.Layout,
	)

	if err := d.SaveRamp(); err != nil {
		return nil, errors.Join(err, d.release())
	}
	if err := d.ProgramRamp(); err != nil {
		return nil, errors.Join(err, d.restoreRamp(), d.release())
	}
	return d, nil
}

// checkPixelSize compares the caller's pixel width with the device depth.
func (g Geometry) checkPixelSize(size int) error {
	if size != 0 && size != g.Layout.BytesPerPixel {
		return &FormatMismatch{Device: g.Layout.BytesPerPixel, Pixel: size}
	}
	return nil
}

// release unmaps the memory and closes the descriptor.
func (d *Dev) release() error {
	var errUnmap error
	if d.mem != nil {
		if err := d.sys.unmap(d.mem); err != nil {
			errUnmap = &MapError{Path: d.path, Size: len(d.mem), Err: err}
		}
		d.mem = nil
		d.visible = nil
	}
	var errClose error
	if err := d.sys.close(); err != nil {
		errClose = &DeviceError{Op: "close", Path: d.path, Err: err}
	}
	return errors.Join(errUnmap, errClose)
}

// Rows returns the number of visible rows.
func (d *Dev) Rows() int {
	return d.geom.Yres
}

// Cols returns the number of visible columns.
func (d *Dev) Cols() int {
	return d.geom.Xres
}

// Mode describes the pixel format for backend negotiation.
type Mode struct {
	BytesPerPixel int
	RedBits       int
	GreenBits     int
	BlueBits      int
}

// Packed returns the mode as bytes-per-pixel<<16 | red<<8 | green<<4 | blue,
// four bits each.
func (m Mode) Packed() uint32 {
	return uint32(m.BytesPerPixel&0x0F)<<16 |
		uint32(m.RedBits&0x0F)<<8 |
		uint32(m.GreenBits&0x0F)<<4 |
		uint32(m.BlueBits&0x0F)
}

func (m Mode) String() string {
	return fmt.Sprintf("%d bytes/pixel %d:%d:%d", m.BytesPerPixel, m.RedBits, m.GreenBits, m.BlueBits)
}

// Mode returns the pixel mode of the device.
func (d *Dev) Mode() Mode {
	r, g, b := d.geom.Layout.Depth()
	return Mode{
		BytesPerPixel: d.geom.Layout.BytesPerPixel,
		RedBits:       r,
		GreenBits:     g,
		BlueBits:      b,
	}
}

// Geometry returns the screen information discovered at Open.
func (d *Dev) Geometry() Geometry {
	return d.geom
}

// Layout returns the pixel layout of the device.
func (d *Dev) Layout() pixfmt.Layout {
	return d.geom.Layout
}

// Visual returns the visual class of the device.
func (d *Dev) Visual() Visual {
	return d.geom.Visual
}

// Val converts an 8-bit RGB triple to the device pixel word.
func (d *Dev) Val(r, g, b uint8) uint32 {
	return d.geom.Layout.Val(r, g, b)
}

// WriteRow copies already encoded pixels to the visible row and column,
// honoring the panning offset and the line length. It does not clip: the
// caller keeps row, col and len(b) inside the visible area. After Halt it
// does nothing.
func (d *Dev) WriteRow(row, col int, b []byte) {
	if d.halted {
		return
	}
	loc := (col+d.geom.Xoffset)*d.geom.Layout.BytesPerPixel + (row+d.geom.Yoffset)*d.geom.LineLength
	copy(d.mem[loc:loc+len(b)], b)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return pixfmt.Model(d.geom.Layout)
}

// Bounds returns the visible area of the display.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.geom.Xres, d.geom.Yres)
}

// Draw draws src onto the display.
// The dst rectangle specifies the destination region on the display.
// The src image is positioned at src point sp within the destination.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return ErrHalted
	}

	// Clip to display bounds
	r := dst.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	sp = sp.Add(r.Min.Sub(dst.Min))

	// Fast path: convert RGBA rows straight into device rows
	if rgba, ok := src.(*image.RGBA); ok {
		d.drawRGBA(r, rgba, sp)
		return nil
	}

	draw.Draw(d.view(), r, src, sp, draw.Src)
	return nil
}

func (d *Dev) drawRGBA(r image.Rectangle, src *image.RGBA, sp image.Point) {
	l := d.geom.Layout
	bpp := l.BytesPerPixel
	w := r.Dx()
	if cap(d.scratch) < w*bpp {
		d.scratch = make([]byte, w*bpp)
	}
	row := d.scratch[:w*bpp]
	sb := src.Bounds()
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < w; x++ {
			var v uint32
			if p := (image.Point{X: sp.X + x, Y: sp.Y + y}); p.In(sb) {
				i := src.PixOffset(p.X, p.Y)
				s := src.Pix[i : i+3 : i+3]
				v = l.Val(s[0], s[1], s[2])
			}
			l.Put(row[x*bpp:], v)
		}
		d.WriteRow(r.Min.Y+y, r.Min.X, row)
	}
}

// view returns the visible area of the mapped memory as a packed image.
func (d *Dev) view() *pixfmt.Packed {
	if d.visible == nil {
		start := d.geom.Yoffset*d.geom.LineLength + d.geom.Xoffset*d.geom.Layout.BytesPerPixel
		d.visible = &pixfmt.Packed{
			Pix:    d.mem[start:],
			Stride: d.geom.LineLength,
			Rect:   d.Bounds(),
			Layout: d.geom.Layout,
		}
	}
	return d.visible
}

// Halt restores the color map, unmaps the memory and closes the device.
// It is safe to call more than once.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	d.halted = true
	return errors.Join(d.restoreRamp(), d.release())
}

// Close is Halt, for io.Closer.
func (d *Dev) Close() error {
	return d.Halt()
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("fbdev.Dev{%s %dx%d %dbpp}", d.path, d.geom.Xres, d.geom.Yres, d.geom.BitsPerPixel)
}
