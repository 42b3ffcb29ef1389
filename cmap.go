package fbdev

import (
	"slices"

	"github.com/flavioheleno/fbdev/pixfmt"
)

// maxCmapLen bounds the color map tables; palette devices have at most 256
// entries per channel.
const maxCmapLen = 256

// Cmap is a hardware color map: one 16-bit intensity table per channel,
// starting at palette index Start.
type Cmap struct {
	Start int
	Red   []uint16
	Green []uint16
	Blue  []uint16
}

func newCmap(n int) *Cmap {
	return &Cmap{
		Red:   make([]uint16, n),
		Green: make([]uint16, n),
		Blue:  make([]uint16, n),
	}
}

// Len returns the number of palette entries.
func (c *Cmap) Len() int {
	return len(c.Red)
}

// Clone returns a deep copy of the color map.
func (c *Cmap) Clone() *Cmap {
	return &Cmap{
		Start: c.Start,
		Red:   slices.Clone(c.Red),
		Green: slices.Clone(c.Green),
		Blue:  slices.Clone(c.Blue),
	}
}

// Equal reports whether both color maps hold the same entries.
func (c *Cmap) Equal(o *Cmap) bool {
	return c.Start == o.Start &&
		slices.Equal(c.Red, o.Red) &&
		slices.Equal(c.Green, o.Green) &&
		slices.Equal(c.Blue, o.Blue)
}

// cmapLen returns the table length for the device: the level count of its
// deepest channel.
func (d *Dev) cmapLen() int {
	l := d.geom.Layout
	n := max(l.Red.Levels(), l.Green.Levels(), l.Blue.Levels())
	return min(n, maxCmapLen)
}

// Ramp returns the linear color map for the device. Each channel gets
// 1<<length levels from its own bitfield.
func (d *Dev) Ramp() *Cmap {
	n := d.cmapLen()
	l := d.geom.Layout
	return &Cmap{
		Red:   pixfmt.Ramp(l.Red.Levels(), n),
		Green: pixfmt.Ramp(l.Green.Levels(), n),
		Blue:  pixfmt.Ramp(l.Blue.Levels(), n),
	}
}

// SaveRamp reads the current color map so that Halt can reinstall it.
// Only the first call reads the hardware. It does nothing on visuals without
// a programmable palette.
func (d *Dev) SaveRamp() error {
	if d.halted {
		return ErrHalted
	}
	if !d.geom.Visual.Programmable() || d.saved != nil {
		return nil
	}
	c := newCmap(d.cmapLen())
	if err := d.sys.getCmap(c); err != nil {
		return &DeviceError{Op: "FBIOGETCMAP", Path: d.path, Err: err}
	}
	d.saved = c
	return nil
}

// ProgramRamp installs the linear ramp returned by Ramp, so that a pixel
// value produced by Val shows the intended intensity. It does nothing on
// visuals without a programmable palette.
func (d *Dev) ProgramRamp() error {
	if d.halted {
		return ErrHalted
	}
	if !d.geom.Visual.Programmable() {
		return nil
	}
	if err := d.sys.putCmap(d.Ramp()); err != nil {
		return &DeviceError{Op: "FBIOPUTCMAP", Path: d.path, Err: err}
	}
	return nil
}

// RestoreRamp reinstalls the color map read by SaveRamp.
func (d *Dev) RestoreRamp() error {
	if d.halted {
		return ErrHalted
	}
	return d.restoreRamp()
}

func (d *Dev) restoreRamp() error {
	if d.saved == nil {
		return nil
	}
	if err := d.sys.putCmap(d.saved); err != nil {
		return &DeviceError{Op: "FBIOPUTCMAP", Path: d.path, Err: err}
	}
	return nil
}
