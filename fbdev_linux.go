//go:build linux

package fbdev

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Open opens the framebuffer device, reads its screen information, maps its
// memory and, on palette visuals, installs a linear color ramp after saving
// the current one.
//
// The descriptor is close-on-exec. Every failure releases what was acquired
// before returning: *DeviceError for open and ioctl failures, *MapError when
// mmap is refused, *FormatMismatch when opts.PixelSize disagrees with the
// device depth.
//
// opts can be nil to use defaults.
func Open(opts *Opts) (*Dev, error) {
	o := opts.withDefaults()

	fd, err := unix.Open(o.Device, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &DeviceError{Op: "open", Path: o.Device, Err: err}
	}
	f := &fileDevice{fd: fd}

	var vi varScreenInfo
	if err := f.ioctl(fbioGetVScreenInfo, unsafe.Pointer(&vi)); err != nil {
		_ = f.close()
		return nil, &DeviceError{Op: "FBIOGET_VSCREENINFO", Path: o.Device, Err: err}
	}
	var fi fixScreenInfo
	if err := f.ioctl(fbioGetFScreenInfo, unsafe.Pointer(&fi)); err != nil {
		_ = f.close()
		return nil, &DeviceError{Op: "FBIOGET_FSCREENINFO", Path: o.Device, Err: err}
	}
	g, err := newGeometry(&vi, &fi)
	if err != nil {
		_ = f.close()
		return nil, &DeviceError{Op: "FBIOGET_VSCREENINFO", Path: o.Device, Err: err}
	}
	if err := g.checkPixelSize(o.PixelSize); err != nil {
		_ = f.close()
		return nil, err
	}

	mem, err := unix.Mmap(fd, 0, g.MapLen(), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.close()
		return nil, &MapError{Path: o.Device, Size: g.MapLen(), Err: err}
	}
	return attach(f, o, g, mem)
}

// fileDevice is an open framebuffer descriptor.
type fileDevice struct {
	fd int
}

func (f *fileDevice) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(f.fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (f *fileDevice) cmapIoctl(req uintptr, c *Cmap) error {
	if c.Len() == 0 {
		return nil
	}
	raw := fbCmap{
		Start: uint32(c.Start),
		Len:   uint32(c.Len()),
		Red:   &c.Red[0],
		Green: &c.Green[0],
		Blue:  &c.Blue[0],
	}
	err := f.ioctl(req, unsafe.Pointer(&raw))
	runtime.KeepAlive(c)
	return err
}

func (f *fileDevice) getCmap(c *Cmap) error {
	return f.cmapIoctl(fbioGetCmap, c)
}

func (f *fileDevice) putCmap(c *Cmap) error {
	return f.cmapIoctl(fbioPutCmap, c)
}

func (f *fileDevice) unmap(mem []byte) error {
	return unix.Munmap(mem)
}

func (f *fileDevice) close() error {
	return unix.Close(f.fd)
}
