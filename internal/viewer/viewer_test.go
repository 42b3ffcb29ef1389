package viewer

import (
	"context"
	"image"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavioheleno/fbdev/doc"
	"github.com/flavioheleno/fbdev/internal/errors"
)

type fakeScreen struct {
	rows, cols int
	painted    []image.Point
	clears     int
}

func (s *fakeScreen) Rows() int { return s.rows }
func (s *fakeScreen) Cols() int { return s.cols }
func (s *fakeScreen) Paint(src *image.RGBA, sp image.Point) {
	s.painted = append(s.painted, sp)
}
func (s *fakeScreen) Clear() { s.clears++ }

func (s *fakeScreen) last() image.Point {
	if len(s.painted) == 0 {
		return image.Pt(-1, -1)
	}
	return s.painted[len(s.painted)-1]
}

var errRender = errors.New(`render failed`)

// fakeDocument pages are 200x800 at zoom 10, scaled by zoom and rotated.
type fakeDocument struct {
	pages   int
	badPage int
	renders []int
}

func (d *fakeDocument) Pages() int { return d.pages }

func (d *fakeDocument) Render(ctx context.Context, page, zoom, rotate int) (*image.RGBA, error) {
	if err := doc.CheckPage(page, d.pages); err != nil {
		return nil, err
	}
	if page == d.badPage {
		return nil, errRender
	}
	d.renders = append(d.renders, page)
	w, h := 200*zoom/10, 800*zoom/10
	if rotate%180 == 90 {
		w, h = h, w
	}
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

func (d *fakeDocument) Close() error { return nil }

// newTestViewer shows page 1 at zoom 15: a 300x1200 page on a 100x80
// screen, so scroll steps are 10 rows and 12 columns.
func newTestViewer(t *testing.T) (*Viewer, *fakeScreen, *fakeDocument) {
	t.Helper()
	scr := &fakeScreen{rows: 80, cols: 100}
	d := &fakeDocument{pages: 5, badPage: 4}
	v := New(scr, d, Opts{})
	require.NoError(t, v.Show(context.Background(), 1))
	return v, scr, d
}

func keys(t *testing.T, v *Viewer, s string) {
	t.Helper()
	for i := 0; i < len(s); i++ {
		quit, err := v.Key(context.Background(), s[i])
		require.False(t, quit)
		require.NoError(t, err, "key %q", s[i])
	}
}

func TestNewDefaults(t *testing.T) {
	v := New(&fakeScreen{}, &fakeDocument{pages: 1}, Opts{})
	assert.Equal(t, DefaultZoom, v.Zoom())
	assert.Equal(t, 1, v.Page())
	assert.Equal(t, 0, v.Rotate())

	v = New(&fakeScreen{}, &fakeDocument{pages: 1}, Opts{Zoom: 10, Page: 3, Rotate: 90})
	assert.Equal(t, 10, v.Zoom())
	assert.Equal(t, 3, v.Page())
	assert.Equal(t, 90, v.Rotate())
}

func TestScrollVertical(t *testing.T) {
	tests := []struct {
		keys string
		head int
	}{
		{`j`, 10},
		{`jj`, 20},
		{`3j`, 30},
		{"3\x1bj", 10},
		{`3jk`, 20},
		{`k`, 0},
		{`500j`, 1120},
		{`L`, 1120},
		{`M`, 560},
		{`LH`, 0},
		{` `, 70},
		{`2 `, 150},
		{" \b", 0},
		{" \x7f", 0},
	}
	for _, tt := range tests {
		v, scr, _ := newTestViewer(t)
		keys(t, v, tt.keys)
		head, _ := v.Position()
		assert.Equal(t, tt.head, head, "keys %q", tt.keys)
		assert.Equal(t, image.Pt(0, tt.head), scr.last(), "keys %q", tt.keys)
	}
}

func TestScrollHorizontal(t *testing.T) {
	tests := []struct {
		keys string
		left int
	}{
		{`l`, 12},
		{`2l`, 24},
		{`lh`, 0},
		{`h`, 0},
		{`20l`, 200},
	}
	for _, tt := range tests {
		v, scr, _ := newTestViewer(t)
		keys(t, v, tt.keys)
		_, left := v.Position()
		assert.Equal(t, tt.left, left, "keys %q", tt.keys)
		assert.Equal(t, image.Pt(tt.left, 0), scr.last(), "keys %q", tt.keys)
	}
}

func TestPageSmallerThanScreen(t *testing.T) {
	scr := &fakeScreen{rows: 2000, cols: 2000}
	v := New(scr, &fakeDocument{pages: 1}, Opts{})
	require.NoError(t, v.Show(context.Background(), 1))
	keys(t, v, `jjlL `)
	head, left := v.Position()
	assert.Zero(t, head)
	assert.Zero(t, left)
}

func TestPageNavigation(t *testing.T) {
	v, scr, d := newTestViewer(t)

	keys(t, v, `jJ`)
	assert.Equal(t, 2, v.Page())
	head, _ := v.Position()
	assert.Zero(t, head, "new page starts at its top")

	keys(t, v, `K`)
	assert.Equal(t, 1, v.Page())

	keys(t, v, "\x06") // ^F
	assert.Equal(t, 2, v.Page())
	keys(t, v, "\x02") // ^B
	assert.Equal(t, 1, v.Page())

	keys(t, v, `G`)
	assert.Equal(t, 5, v.Page())
	keys(t, v, `2G`)
	assert.Equal(t, 2, v.Page())

	// Out of range moves are ignored
	keys(t, v, `9J`)
	assert.Equal(t, 2, v.Page())
	keys(t, v, `9K`)
	assert.Equal(t, 2, v.Page())

	assert.Equal(t, []int{1, 2, 1, 2, 1, 5, 2}, d.renders)
	assert.Equal(t, 7, scr.clears)
}

func TestRenderFailureKeepsPage(t *testing.T) {
	v, _, _ := newTestViewer(t)

	quit, err := v.Key(context.Background(), '4')
	require.NoError(t, err)
	require.False(t, quit)
	_, err = v.Key(context.Background(), 'G')
	assert.ErrorIs(t, err, errRender)
	assert.Equal(t, 1, v.Page())
}

func TestZoomRotate(t *testing.T) {
	v, _, _ := newTestViewer(t)

	keys(t, v, `20z`)
	assert.Equal(t, 20, v.Zoom())
	assert.Equal(t, 1, v.Page())
	keys(t, v, `500j`)
	head, _ := v.Position()
	assert.Equal(t, 1600-80, head)

	keys(t, v, `z`)
	assert.Equal(t, DefaultZoom, v.Zoom())

	keys(t, v, `90r`)
	assert.Equal(t, 90, v.Rotate())
	keys(t, v, `500l`)
	_, left := v.Position()
	assert.Equal(t, 1200-100, left)

	keys(t, v, `r`)
	assert.Equal(t, 0, v.Rotate())
}

func TestZoomFailureRestores(t *testing.T) {
	v, _, d := newTestViewer(t)
	d.badPage = 1

	for _, c := range []byte(`20`) {
		_, err := v.Key(context.Background(), c)
		require.NoError(t, err)
	}
	_, err := v.Key(context.Background(), 'z')
	assert.ErrorIs(t, err, errRender)
	assert.Equal(t, DefaultZoom, v.Zoom())

	_, err = v.Key(context.Background(), 'r')
	assert.ErrorIs(t, err, errRender)
	assert.Equal(t, 0, v.Rotate())
}

func TestRedrawAndQuit(t *testing.T) {
	v, scr, _ := newTestViewer(t)
	clears := scr.clears
	keys(t, v, "\x0c") // ^L
	assert.Equal(t, clears+1, scr.clears)

	quit, err := v.Key(context.Background(), 'q')
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestRun(t *testing.T) {
	scr := &fakeScreen{rows: 80, cols: 100}
	d := &fakeDocument{pages: 5}
	v := New(scr, d, Opts{Page: 2})

	require.NoError(t, v.Run(context.Background(), strings.NewReader(`jjJq j`)))
	assert.Equal(t, 3, v.Page())
	assert.Equal(t, []int{2, 3}, d.renders)
}

func TestRunEOF(t *testing.T) {
	v := New(&fakeScreen{rows: 80, cols: 100}, &fakeDocument{pages: 5}, Opts{})
	require.NoError(t, v.Run(context.Background(), strings.NewReader(`3j`)))
	head, _ := v.Position()
	assert.Equal(t, 30, head)
}

func TestRunCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	v := New(&fakeScreen{rows: 80, cols: 100}, &fakeDocument{pages: 5}, Opts{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx, pr) }()

	_, err := pw.Write([]byte(`j`))
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal(`Run did not return after cancellation`)
	}
}

func TestRunStartErrors(t *testing.T) {
	v := New(&fakeScreen{rows: 80, cols: 100}, &fakeDocument{pages: 5}, Opts{Page: 9})
	assert.ErrorIs(t, v.Run(context.Background(), strings.NewReader(``)), doc.ErrPageRange)

	v = New(&fakeScreen{rows: 80, cols: 100}, &fakeDocument{pages: 5, badPage: 1}, Opts{})
	assert.ErrorIs(t, v.Run(context.Background(), strings.NewReader(``)), errRender)
}
