// Package fbdev drives a Linux framebuffer device (/dev/fbN) directly,
// without a display server.
//
// The driver opens the device, discovers its geometry and color layout,
// maps the pixel memory and writes rows of native pixels into it. It
// implements the display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - Any packed-pixel depth reported by the kernel: 8, 15/16, 24 and 32 bits per pixel
// - Truecolor visuals with arbitrary channel offsets and lengths (RGB565, RGB555, XRGB8888, ...)
// - Palette visuals (pseudocolor, directcolor) driven through a linear color ramp
// - Virtual resolutions larger than the screen: writes honor the panning offset
// - Line lengths wider than the visible row
//
// # Basic Usage
//
// Example of opening the display and filling a box:
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/flavioheleno/fbdev"
//	)
//
//	func main() {
//		dev, err := fbdev.Open(nil) // $FRAMEBUFFER or /dev/fb0
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer dev.Halt()
//
//		// Negotiate the pixel width; a 32 bpp screen needs uint32 pixels.
//		c, err := fbdev.NewCanvas[uint32](dev)
//		if err != nil {
//			log.Fatal(err) // *fbdev.FormatMismatch on a 16 bpp screen
//		}
//		c.FillRect(0, 0, c.Rows()/2, c.Cols()/2, c.Val(255, 0, 0))
//	}
//
// # Pixel Negotiation
//
// Dev.Mode reports bytes per pixel and bits per channel. Callers pick a pixel
// type of the same width (uint8, uint16 or uint32) and create a Canvas for
// it; NewCanvas rejects any other width. Opts.PixelSize performs the same
// check in Open, before the memory is mapped.
//
// Pixels are produced once with Val (or pixfmt.Layout.Val) and are then copied
// verbatim: for each channel the top bits of the 8-bit input are shifted to
// the channel offset reported by the kernel.
//
// # Writing Pixels
//
// WriteRow copies a slice of pixels to a row and column of the visible
// screen. It is the hot path and does no clipping; the caller keeps its
// writes inside Rows() and Cols(). FillRect fills a rectangle with one pixel
// value by copying a prepared row. Paint converts an *image.RGBA window.
//
// Draw accepts any image.Image, clips it to the screen and converts it.
//
// # Palette Devices
//
// On pseudocolor and directcolor visuals Open saves the current color map
// and installs a linear ramp of 1<<length levels per channel. Halt
// reinstalls the saved color map, so the console palette is returned
// unchanged.
//
// # Teardown
//
// Halt restores the palette, unmaps the memory and closes the descriptor. It
// must run on every exit path; later calls do nothing.
package fbdev
