// Package pixfmt describes the packed pixel formats reported by Linux
// framebuffer devices and converts between them and 8-bit RGB.
//
// A framebuffer reports, for each of red, green and blue, the bit offset and
// bit length of the channel inside a pixel word. The same shift arithmetic
// covers every truecolor depth:
//
//	RGB565:  rrrrrggg gggbbbbb   red {11,5} green {5,6} blue {0,5}
//	XRGB8888: xxxxxxxx rrrrrrrr gggggggg bbbbbbbb
//
// A channel value is packed by dropping its low (8 - length) bits and
// shifting the rest to the channel offset:
//
//	l := pixfmt.RGB565
//	l.Val(255, 0, 0) // 0xF800
//	l.Val(255, 255, 255) // 0xFFFF
//
// This package provides:
//
// - Channel and Layout: the bitfield description and the packing math
// - Ramp: linear color map tables for palette (pseudocolor) devices
// - Color and Model: image/color adapters for a Layout
// - Packed: a draw.Image over packed pixel memory, such as an mmap'd framebuffer
//
// Pixel words are stored in host byte order, which is what fbdev drivers expect.
package pixfmt
