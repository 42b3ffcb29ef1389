package pattern

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavioheleno/fbdev/doc"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		path    string
		want    int
		wantErr bool
	}{
		{`pattern:`, 1, false},
		{`pattern:7`, 7, false},
		{`pattern:0`, 0, true},
		{`pattern:x`, 0, true},
		{`file.pdf`, 0, true},
	}
	for _, tt := range tests {
		n, err := parsePath(tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, n, tt.path)
	}
}

func TestOpenRegistered(t *testing.T) {
	d, err := doc.Open(`pattern:3`, ``)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Pages())
	assert.NoError(t, d.Close())
}

func TestRender(t *testing.T) {
	d := &document{pages: 2}
	ctx := context.Background()

	m, err := d.Render(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, PageWidth, PageHeight), m.Bounds())
	// Corner margin stays white, the red ramp ends at full red
	assert.Equal(t, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, m.RGBAAt(1, 1))
	r := m.RGBAAt(PageWidth-37, 36+24)
	assert.Greater(t, r.R, uint8(0xF0))
	assert.Less(t, r.G, uint8(0x10))

	m, err = d.Render(ctx, 2, 20, 90)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2*PageHeight, 2*PageWidth), m.Bounds())

	_, err = d.Render(ctx, 3, 10, 0)
	assert.ErrorIs(t, err, doc.ErrPageRange)
}
