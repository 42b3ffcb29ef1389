package pixfmt

import (
	"encoding/binary"
	"fmt"
	"image/color"
)

// Channel is the position of one color channel inside a pixel word.
type Channel struct {
	Offset uint // Bit offset of the least significant bit
	Length uint // Number of bits
}

// Levels returns the number of distinct intensities the channel can encode.
func (c Channel) Levels() int {
	return 1 << c.Length
}

func (c Channel) mask() uint32 {
	return uint32(uint64(1)<<c.Length - 1)
}

// pack moves the top Length bits of v to the channel offset.
func (c Channel) pack(v uint8) uint32 {
	if c.Length == 0 {
		return 0
	}
	if c.Length <= 8 {
		return (uint32(v) >> (8 - c.Length)) << c.Offset
	}
	return (uint32(v) << (c.Length - 8)) << c.Offset
}

// unpack extracts the channel from v and widens it to 8 bits by bit
// replication, so that full intensity maps to 0xFF.
func (c Channel) unpack(v uint32) uint8 {
	if c.Length == 0 {
		return 0
	}
	x := (v >> c.Offset) & c.mask()
	if c.Length >= 8 {
		return uint8(x >> (c.Length - 8))
	}
	out := x << (8 - c.Length)
	for s := c.Length; s < 8; s += c.Length {
		out |= out >> s
	}
	return uint8(out)
}

// Layout is the pixel format of a device: its byte width and the bitfields
// of the three color channels.
type Layout struct {
	BytesPerPixel int
	Red           Channel
	Green         Channel
	Blue          Channel
}

// Common layouts.
var (
	RGB565   = Layout{BytesPerPixel: 2, Red: Channel{11, 5}, Green: Channel{5, 6}, Blue: Channel{0, 5}}
	RGB555   = Layout{BytesPerPixel: 2, Red: Channel{10, 5}, Green: Channel{5, 5}, Blue: Channel{0, 5}}
	RGB888   = Layout{BytesPerPixel: 3, Red: Channel{16, 8}, Green: Channel{8, 8}, Blue: Channel{0, 8}}
	XRGB8888 = Layout{BytesPerPixel: 4, Red: Channel{16, 8}, Green: Channel{8, 8}, Blue: Channel{0, 8}}
	XBGR8888 = Layout{BytesPerPixel: 4, Red: Channel{0, 8}, Green: Channel{8, 8}, Blue: Channel{16, 8}}
	// Pseudo8 is the usual report of an 8-bit palette device: all three
	// channels cover the whole index.
	Pseudo8 = Layout{BytesPerPixel: 1, Red: Channel{0, 8}, Green: Channel{0, 8}, Blue: Channel{0, 8}}
)

// Val converts an 8-bit RGB triple to the device pixel word.
func (l Layout) Val(r, g, b uint8) uint32 {
	return l.Red.pack(r) | l.Green.pack(g) | l.Blue.pack(b)
}

// RGB converts a device pixel word back to an 8-bit RGB triple.
func (l Layout) RGB(v uint32) (r, g, b uint8) {
	return l.Red.unpack(v), l.Green.unpack(v), l.Blue.unpack(v)
}

// Depth returns the number of bits per color channel.
func (l Layout) Depth() (r, g, b int) {
	return int(l.Red.Length), int(l.Green.Length), int(l.Blue.Length)
}

// Put stores the low BytesPerPixel bytes of v into b in host byte order.
func (l Layout) Put(b []byte, v uint32) {
	switch l.BytesPerPixel {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.NativeEndian.PutUint16(b, uint16(v))
	case 3:
		if littleEndian {
			b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
		} else {
			b[0], b[1], b[2] = byte(v>>16), byte(v>>8), byte(v)
		}
	default:
		binary.NativeEndian.PutUint32(b, v)
	}
}

// Load reads a pixel word stored by Put.
func (l Layout) Load(b []byte) uint32 {
	switch l.BytesPerPixel {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(binary.NativeEndian.Uint16(b))
	case 3:
		if littleEndian {
			return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
		}
		return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	default:
		return binary.NativeEndian.Uint32(b)
	}
}

// String returns a compact description such as "16bpp r5@11 g6@5 b5@0".
func (l Layout) String() string {
	return fmt.Sprintf("%dbpp r%d@%d g%d@%d b%d@%d", l.BytesPerPixel*8,
		l.Red.Length, l.Red.Offset, l.Green.Length, l.Green.Offset, l.Blue.Length, l.Blue.Offset)
}

var littleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// Ramp returns a color map table of n entries whose first levels entries
// rise linearly over the full 16-bit range. Entries past levels stay at
// full intensity.
func Ramp(levels, n int) []uint16 {
	t := make([]uint16, n)
	if levels <= 1 {
		return t
	}
	for i := range t {
		if i >= levels {
			t[i] = 0xFFFF
			continue
		}
		t[i] = uint16(i * 0xFFFF / (levels - 1))
	}
	return t
}

// Color is a device pixel word tagged with its layout.
type Color struct {
	V      uint32
	Layout Layout
}

// RGBA implements color.Color. Framebuffer pixels are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.Layout.RGB(c.V)
	return uint32(r8) * 0x101, uint32(g8) * 0x101, uint32(b8) * 0x101, 0xFFFF
}

// Model returns a color model converting any color to a Color of layout l.
func Model(l Layout) color.Model {
	return color.ModelFunc(func(c color.Color) color.Color {
		if p, ok := c.(Color); ok && p.Layout == l {
			return p
		}
		r, g, b, _ := c.RGBA()
		return Color{V: l.Val(uint8(r>>8), uint8(g>>8), uint8(b>>8)), Layout: l}
	})
}
