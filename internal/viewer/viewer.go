// Package viewer implements the interactive page viewer: it renders pages of
// a document, shows the part that fits the screen and moves around in
// response to single key presses.
package viewer

import (
	"context"
	"image"
	"io"
	"log/slog"

	"github.com/flavioheleno/fbdev/doc"
	"github.com/flavioheleno/fbdev/internal/errors"
	"github.com/flavioheleno/fbdev/internal/logx"
)

// Screen is the display the viewer paints on. *fbdev.Canvas satisfies it.
type Screen interface {
	Rows() int
	Cols() int
	// Paint writes the part of src starting at sp to the top left corner.
	Paint(src *image.RGBA, sp image.Point)
	Clear()
}

const (
	// DefaultZoom is the zoom in tenths used at start and by a bare "z".
	DefaultZoom = 15
	// PageSteps is the number of scroll steps per screen.
	PageSteps = 8
)

// Opts is the initial state of the viewer.
type Opts struct {
	Zoom   int // Tenths, 10 = 100 % (default: DefaultZoom)
	Rotate int // Degrees clockwise
	Page   int // First page shown (default: 1)
	Logger *slog.Logger
}

// Viewer is the state of the key loop. It is not safe for concurrent use.
type Viewer struct {
	scr    Screen
	doc    doc.Document
	logger *slog.Logger

	page   int
	zoom   int
	rotate int
	img    *image.RGBA // Rendered page

	head  int // First page row on screen
	left  int // First page column on screen
	count int // Numeric prefix typed so far
}

// New returns a viewer for d on scr.
func New(scr Screen, d doc.Document, opts Opts) *Viewer {
	if opts.Zoom <= 0 {
		opts.Zoom = DefaultZoom
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	return &Viewer{
		scr:    scr,
		doc:    d,
		logger: opts.Logger,
		page:   opts.Page,
		zoom:   opts.Zoom,
		rotate: opts.Rotate,
	}
}

func (v *Viewer) Logger() *slog.Logger { return v.logger }

// Page returns the page on screen.
func (v *Viewer) Page() int { return v.page }

// Zoom returns the current zoom in tenths.
func (v *Viewer) Zoom() int { return v.zoom }

// Rotate returns the current rotation in degrees.
func (v *Viewer) Rotate() int { return v.rotate }

// Position returns the page row and column at the top left of the screen.
func (v *Viewer) Position() (head, left int) { return v.head, v.left }

// Show renders page and draws it from its top. Pages outside the document
// are ignored.
func (v *Viewer) Show(ctx context.Context, page int) error {
	if page < 1 || page > v.doc.Pages() {
		return nil
	}
	img, err := logx.TimeIt2(func() (*image.RGBA, error) {
		return v.doc.Render(ctx, page, v.zoom, v.rotate)
	}, `render`, v, `page`, page, `zoom`, v.zoom, `rotate`, v.rotate)
	if err != nil {
		return errors.New(err)
	}
	v.img = img
	v.page = page
	v.head = 0
	v.clamp()
	v.scr.Clear()
	v.draw()
	return nil
}

func (v *Viewer) draw() {
	if v.img == nil {
		return
	}
	v.scr.Paint(v.img, v.img.Rect.Min.Add(image.Pt(v.left, v.head)))
}

// getcount returns the typed count, or def when none was typed, and resets it.
func (v *Viewer) getcount(def int) int {
	n := def
	if v.count > 0 {
		n = v.count
	}
	v.count = 0
	return n
}

func (v *Viewer) maxHead() int {
	if v.img == nil {
		return 0
	}
	return v.img.Rect.Dy() - v.scr.Rows()
}

func (v *Viewer) maxLeft() int {
	if v.img == nil {
		return 0
	}
	return v.img.Rect.Dx() - v.scr.Cols()
}

func (v *Viewer) clamp() {
	v.head = max(0, min(v.maxHead(), v.head))
	v.left = max(0, min(v.maxLeft(), v.left))
}

func ctrl(c byte) byte { return c & 0x1F }

// Key handles one key press. It reports quit for "q". A failed render
// leaves the previous page on screen and is returned.
func (v *Viewer) Key(ctx context.Context, c byte) (quit bool, err error) {
	step := v.scr.Rows() / PageSteps
	hstep := v.scr.Cols() / PageSteps
	maxHead := v.maxHead()

	switch c {
	case 'j':
		v.head += step * v.getcount(1)
	case 'k':
		v.head -= step * v.getcount(1)
	case 'l':
		v.left += hstep * v.getcount(1)
	case 'h':
		v.left -= hstep * v.getcount(1)
	case 'H':
		v.head = 0
	case 'L':
		v.head = maxHead
	case 'M':
		v.head = maxHead / 2
	case ' ':
		v.head += v.scr.Rows()*v.getcount(1) - step
	case '\b', 0x7F:
		v.head -= v.scr.Rows()*v.getcount(1) - step
	case ctrl('f'), 'J':
		err = v.Show(ctx, v.page+v.getcount(1))
	case ctrl('b'), 'K':
		err = v.Show(ctx, v.page-v.getcount(1))
	case 'G':
		err = v.Show(ctx, v.getcount(v.doc.Pages()))
	case 'z':
		err = v.rerender(ctx, func() { v.zoom = v.getcount(DefaultZoom) })
	case 'r':
		err = v.rerender(ctx, func() { v.rotate = v.getcount(0) })
	case ctrl('l'):
		v.scr.Clear()
	case 'q':
		return true, nil
	case 0x1B:
		v.count = 0
	default:
		if c >= '0' && c <= '9' {
			v.count = v.count*10 + int(c-'0')
		}
	}
	v.clamp()
	v.draw()
	return false, err
}

// rerender applies set and shows the current page again, restoring the old
// zoom and rotation if rendering fails.
func (v *Viewer) rerender(ctx context.Context, set func()) error {
	zoom, rotate := v.zoom, v.rotate
	set()
	if err := v.Show(ctx, v.page); err != nil {
		v.zoom, v.rotate = zoom, rotate
		return err
	}
	return nil
}

// Run shows the start page and handles keys read from r until "q", the end
// of input or the cancellation of ctx.
//
// Keys are read on a separate goroutine so that cancellation does not wait
// for the next key press; that goroutine never touches the screen.
func (v *Viewer) Run(ctx context.Context, r io.Reader) error {
	if err := v.Show(ctx, v.page); err != nil {
		return err
	}
	if v.img == nil {
		return errors.Errorf(`page %d of %d: %w`, v.page, v.doc.Pages(), doc.ErrPageRange)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	keys := make(chan byte)
	readErr := make(chan error, 1)
	go readKeys(ctx, r, keys, readErr)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return errors.New(err)
		case c := <-keys:
			quit, err := v.Key(ctx, c)
			if quit {
				return nil
			}
			logx.IsErr(err, v, slog.LevelError, `page`, v.page)
		}
	}
}

func readKeys(ctx context.Context, r io.Reader, keys chan<- byte, readErr chan<- error) {
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if n == 1 {
			select {
			case keys <- b[0]:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			readErr <- err
			return
		}
	}
}
