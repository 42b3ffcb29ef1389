package fbdev

import (
	"errors"
	"fmt"

	"github.com/flavioheleno/fbdev/pixfmt"
)

// ioctl requests from <linux/fb.h>.
const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
	fbioGetCmap        = 0x4604
	fbioPutCmap        = 0x4605
)

// bitfield mirrors struct fb_bitfield.
type bitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// varScreenInfo mirrors struct fb_var_screeninfo.
type varScreenInfo struct {
	Xres         uint32
	Yres         uint32
	XresVirtual  uint32
	YresVirtual  uint32
	Xoffset      uint32
	Yoffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          bitfield
	Green        bitfield
	Blue         bitfield
	Transp       bitfield
	Nonstd       uint32
	Activate     uint32
	Height       uint32
	Width        uint32
	AccelFlags   uint32
	Pixclock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HsyncLen     uint32
	VsyncLen     uint32
	Sync         uint32
	Vmode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

// fixScreenInfo mirrors struct fb_fix_screeninfo. The unsigned long fields
// are uintptr so the padding matches the kernel on 32 and 64 bit.
type fixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// fbCmap mirrors struct fb_cmap.
type fbCmap struct {
	Start  uint32
	Len    uint32
	Red    *uint16
	Green  *uint16
	Blue   *uint16
	Transp *uint16
}

// Visual is the framebuffer visual class (FB_VISUAL_*).
type Visual uint32

const (
	VisualMono01 Visual = iota
	VisualMono10
	VisualTrueColor
	VisualPseudoColor
	VisualDirectColor
	VisualStaticPseudoColor
)

func (v Visual) String() string {
	switch v {
	case VisualMono01:
		return "mono01"
	case VisualMono10:
		return "mono10"
	case VisualTrueColor:
		return "truecolor"
	case VisualPseudoColor:
		return "pseudocolor"
	case VisualDirectColor:
		return "directcolor"
	case VisualStaticPseudoColor:
		return "static-pseudocolor"
	}
	return fmt.Sprintf("visual(%d)", uint32(v))
}

// Programmable reports whether the visual has a writable color map.
func (v Visual) Programmable() bool {
	return v == VisualPseudoColor || v == VisualDirectColor
}

// Geometry is a snapshot of the screen information of a device.
type Geometry struct {
	Xres, Yres               int // Visible resolution
	XresVirtual, YresVirtual int // Virtual resolution
	Xoffset, Yoffset         int // Panning offset of the visible area
	LineLength               int // Bytes per line
	BitsPerPixel             int
	Visual                   Visual
	Layout                   pixfmt.Layout
}

// MapLen returns the number of bytes to map: every line of the virtual screen.
func (g Geometry) MapLen() int {
	return g.LineLength * g.YresVirtual
}

// newGeometry derives the geometry from the two screen info structures.
func newGeometry(vi *varScreenInfo, fi *fixScreenInfo) (Geometry, error) {
	if vi.BitsPerPixel == 0 {
		return Geometry{}, errors.New("zero bits per pixel")
	}
	if fi.LineLength == 0 {
		return Geometry{}, errors.New("zero line length")
	}
	return Geometry{
		Xres:         int(vi.Xres),
		Yres:         int(vi.Yres),
		XresVirtual:  int(vi.XresVirtual),
		YresVirtual:  int(vi.YresVirtual),
		Xoffset:      int(vi.Xoffset),
		Yoffset:      int(vi.Yoffset),
		LineLength:   int(fi.LineLength),
		BitsPerPixel: int(vi.BitsPerPixel),
		Visual:       Visual(fi.Visual),
		Layout: pixfmt.Layout{
			BytesPerPixel: int(vi.BitsPerPixel+7) >> 3,
			Red:           pixfmt.Channel{Offset: uint(vi.Red.Offset), Length: uint(vi.Red.Length)},
			Green:         pixfmt.Channel{Offset: uint(vi.Green.Offset), Length: uint(vi.Green.Length)},
			Blue:          pixfmt.Channel{Offset: uint(vi.Blue.Offset), Length: uint(vi.Blue.Length)},
		},
	}, nil
}
