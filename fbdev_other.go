//go:build !linux

package fbdev

import "errors"

// Open fails on systems without Linux framebuffer devices.
func Open(opts *Opts) (*Dev, error) {
	o := opts.withDefaults()
	return nil, &DeviceError{Op: "open", Path: o.Device, Err: errors.ErrUnsupported}
}
