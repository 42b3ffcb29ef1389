package doc

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavioheleno/fbdev/internal/errors"
)

type testBackend struct {
	name string
	ext  string
	err  error
}

func (b *testBackend) Name() string           { return b.name }
func (b *testBackend) Match(path string) bool { return HasExt(path, b.ext) }
func (b *testBackend) Open(path string) (Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &testDocument{path: path, pages: 3}, nil
}

type testDocument struct {
	path  string
	pages int
}

func (d *testDocument) Pages() int { return d.pages }
func (d *testDocument) Render(ctx context.Context, page, zoom, rotate int) (*image.RGBA, error) {
	if err := CheckPage(page, d.pages); err != nil {
		return nil, err
	}
	return Fill(10, 10, color.White), nil
}
func (d *testDocument) Close() error { return nil }

func TestRegistry(t *testing.T) {
	Register(nil)
	Register(&testBackend{name: `test-a`, ext: `.tsta`})
	Register(&testBackend{name: `test-b`, ext: `.tstb`, err: errors.New(`broken file`)})

	require.NotNil(t, ByName(`test-a`))
	assert.Nil(t, ByName(`test-none`))
	for _, b := range Backends() {
		assert.NotNil(t, b)
	}

	d, err := Open(`/tmp/x.TSTA`, ``)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Pages())
	assert.Equal(t, `/tmp/x.TSTA`, d.(*testDocument).path)

	d, err = Open(`/tmp/x.bin`, `test-a`)
	require.NoError(t, err)
	assert.NotNil(t, d)

	_, err = Open(`/tmp/x.unknown`, ``)
	assert.ErrorIs(t, err, ErrNoBackend)

	_, err = Open(`/tmp/x.tsta`, `test-none`)
	assert.ErrorIs(t, err, ErrNoBackend)

	_, err = Open(`/tmp/x.tstb`, ``)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `test-b`)
	assert.Contains(t, err.Error(), `broken file`)
}

func TestCheckPage(t *testing.T) {
	assert.NoError(t, CheckPage(1, 3))
	assert.NoError(t, CheckPage(3, 3))
	assert.ErrorIs(t, CheckPage(0, 3), ErrPageRange)
	assert.ErrorIs(t, CheckPage(4, 3), ErrPageRange)
	assert.ErrorIs(t, CheckPage(1, 0), ErrPageRange)
}

func TestHasExt(t *testing.T) {
	assert.True(t, HasExt(`a/b.PDF`, `.pdf`))
	assert.True(t, HasExt(`b.djv`, `.djvu`, `.djv`))
	assert.False(t, HasExt(`pdf`, `.pdf`))
}

func TestDPI(t *testing.T) {
	assert.Equal(t, 72, DPI(10))
	assert.Equal(t, 108, DPI(15))
	assert.Equal(t, 144, DPI(20))
}

func TestRGBA(t *testing.T) {
	src := image.NewGray(image.Rect(5, 5, 8, 7))
	src.Set(5, 5, color.White)

	m := RGBA(src)
	assert.Equal(t, image.Rect(0, 0, 3, 2), m.Bounds())
	assert.Equal(t, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, m.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xFF}, m.RGBAAt(1, 0))

	same := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, same, RGBA(same))
}

func TestScale(t *testing.T) {
	red := color.RGBA{0xFF, 0, 0, 0xFF}
	src := Fill(4, 2, red)

	m := Scale(src, 20)
	assert.Equal(t, image.Rect(0, 0, 8, 4), m.Bounds())
	assert.Equal(t, red, m.RGBAAt(7, 3))

	m = Scale(src, 5)
	assert.Equal(t, image.Rect(0, 0, 2, 1), m.Bounds())

	assert.Same(t, src, Scale(src, 10))
}

func TestRotate(t *testing.T) {
	red := color.RGBA{0xFF, 0, 0, 0xFF}
	blue := color.RGBA{0, 0, 0xFF, 0xFF}
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, red)
	src.SetRGBA(1, 0, blue)

	tests := []struct {
		deg    int
		bounds image.Rectangle
		red    image.Point
		blue   image.Point
	}{
		{0, image.Rect(0, 0, 2, 1), image.Pt(0, 0), image.Pt(1, 0)},
		{90, image.Rect(0, 0, 1, 2), image.Pt(0, 0), image.Pt(0, 1)},
		{180, image.Rect(0, 0, 2, 1), image.Pt(1, 0), image.Pt(0, 0)},
		{270, image.Rect(0, 0, 1, 2), image.Pt(0, 1), image.Pt(0, 0)},
		{-90, image.Rect(0, 0, 1, 2), image.Pt(0, 1), image.Pt(0, 0)},
		{450, image.Rect(0, 0, 1, 2), image.Pt(0, 0), image.Pt(0, 1)},
	}
	for _, tt := range tests {
		m := Rotate(src, tt.deg)
		require.Equal(t, tt.bounds, m.Bounds(), "deg %d", tt.deg)
		assert.Equal(t, red, m.RGBAAt(tt.red.X, tt.red.Y), "deg %d", tt.deg)
		assert.Equal(t, blue, m.RGBAAt(tt.blue.X, tt.blue.Y), "deg %d", tt.deg)
	}
}

func TestRotateArbitrary(t *testing.T) {
	m := Rotate(Fill(20, 20, color.Black), 45)
	b := m.Bounds()
	assert.Greater(t, b.Dx(), 20)
	// Corners are outside the rotated square
	assert.Equal(t, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, m.RGBAAt(0, 0))
}
