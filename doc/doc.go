// Package doc defines the document backends that render pages for the
// viewer.
//
// A backend registers itself from init; the binary chooses the available
// formats through blank imports:
//
//	import (
//		_ "github.com/flavioheleno/fbdev/doc/djvu"
//		_ "github.com/flavioheleno/fbdev/doc/poppler"
//	)
//
// Pages are rendered into *image.RGBA at the requested zoom (in tenths, 10
// is 100 %) and rotation (degrees, clockwise). Conversion to the device
// pixel format happens later, in fbdev.Canvas.Paint.
package doc

import (
	"context"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flavioheleno/fbdev/internal/errors"
)

var (
	// ErrNoBackend is returned when no registered backend accepts a path.
	ErrNoBackend = errors.New(`no document backend`)
	// ErrPageRange is returned by Render for pages outside [1, Pages()].
	ErrPageRange = errors.New(`page out of range`)
)

// Document is an open document.
type Document interface {
	// Pages returns the number of pages.
	Pages() int
	// Render draws page (1-based) at zoom tenths, rotated clockwise by
	// rotate degrees.
	Render(ctx context.Context, page, zoom, rotate int) (*image.RGBA, error)
	Close() error
}

// Backend opens documents of one format.
type Backend interface {
	Name() string
	// Match reports whether the backend handles path, usually by extension.
	Match(path string) bool
	Open(path string) (Document, error)
}

var (
	backendsMu         sync.Mutex
	backendsRegistered []Backend
)

// Register adds a backend. Backends are tried in registration order.
func Register(b Backend) {
	if b == nil {
		return
	}
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backendsRegistered = append(backendsRegistered, b)
}

// Backends returns the registered backends.
func Backends() []Backend {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	return append([]Backend(nil), backendsRegistered...)
}

// ByName returns the registered backend called name, or nil.
func ByName(name string) Backend {
	for _, b := range Backends() {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

// Open opens path with the named backend, or with the first backend that
// matches when name is empty.
func Open(path, name string) (Document, error) {
	var b Backend
	if len(name) > 0 {
		if b = ByName(name); b == nil {
			return nil, errors.Errorf(`%w %q`, ErrNoBackend, name)
		}
	} else {
		for _, bk := range Backends() {
			if bk.Match(path) {
				b = bk
				break
			}
		}
		if b == nil {
			return nil, errors.Errorf(`%w for %q`, ErrNoBackend, path)
		}
	}
	d, err := b.Open(path)
	if err != nil {
		return nil, errors.WrapPrefix(err, b.Name(), 0)
	}
	return d, nil
}

// CheckPage returns ErrPageRange unless 1 <= page <= pages.
func CheckPage(page, pages int) error {
	if page < 1 || page > pages {
		return errors.Errorf(`%w: %d of %d`, ErrPageRange, page, pages)
	}
	return nil
}

// HasExt reports whether path ends in one of exts, ignoring case.
func HasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
