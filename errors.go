package fbdev

import (
	"errors"
	"fmt"
)

// ErrHalted is returned by operations on a device after Halt.
var ErrHalted = errors.New("fbdev: halted")

// DeviceError reports a failure to open or query the framebuffer device.
type DeviceError struct {
	Op   string // "open", "FBIOGET_VSCREENINFO", ...
	Path string
	Err  error
}

func (e *DeviceError) Error() string {
	return "fbdev: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *DeviceError) Unwrap() error { return e.Err }

// MapError reports a failure to map the device memory.
type MapError struct {
	Path string
	Size int
	Err  error
}

func (e *MapError) Error() string {
	return fmt.Sprintf("fbdev: mmap %s (%d bytes): %v", e.Path, e.Size, e.Err)
}

func (e *MapError) Unwrap() error { return e.Err }

// FormatMismatch reports a pixel width that differs from the device depth.
type FormatMismatch struct {
	Device int // Bytes per pixel of the framebuffer
	Pixel  int // Bytes per pixel requested by the caller
}

func (e *FormatMismatch) Error() string {
	return fmt.Sprintf("fbdev: %d-byte pixels do not match the framebuffer depth of %d bytes per pixel", e.Pixel, e.Device)
}
