// Package pattern provides synthetic test documents for checking a display
// without any document tools installed. The path "pattern:" opens a single
// page, "pattern:N" opens N pages.
//
// Each page shows color ramps for the three channels and gray, a
// checkerboard and a page label, which makes channel order, depth and
// stride problems visible at a glance.
package pattern

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/flavioheleno/fbdev/doc"
	"github.com/flavioheleno/fbdev/internal/errors"
)

// Prefix marks pattern paths.
const Prefix = `pattern:`

// Page size in points (A4).
const (
	PageWidth  = 595
	PageHeight = 842
)

func init() { doc.Register(&backend{}) }

var _ doc.Backend = (*backend)(nil)

type backend struct{}

func (b *backend) Name() string { return `pattern` }

func (b *backend) Match(path string) bool { return strings.HasPrefix(path, Prefix) }

func (b *backend) Open(path string) (doc.Document, error) {
	pages, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	return &document{pages: pages}, nil
}

func parsePath(path string) (int, error) {
	arg, ok := strings.CutPrefix(path, Prefix)
	if !ok {
		return 0, errors.Errorf(`not a pattern path: %q`, path)
	}
	if len(arg) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, errors.Errorf(`invalid page count %q`, arg)
	}
	return n, nil
}

type document struct {
	pages int
}

var _ doc.Document = (*document)(nil)

func (d *document) Pages() int { return d.pages }

func (d *document) Close() error { return nil }

var goFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

var ramps = []struct {
	name  string
	color func(v float64) color.Color
}{
	{`red`, func(v float64) color.Color { return color.RGBA{uint8(v * 255), 0, 0, 0xFF} }},
	{`green`, func(v float64) color.Color { return color.RGBA{0, uint8(v * 255), 0, 0xFF} }},
	{`blue`, func(v float64) color.Color { return color.RGBA{0, 0, uint8(v * 255), 0xFF} }},
	{`gray`, func(v float64) color.Color { return color.Gray{uint8(v * 255)} }},
}

func (d *document) Render(ctx context.Context, page, zoom, rotate int) (*image.RGBA, error) {
	if err := doc.CheckPage(page, d.pages); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.New(err)
	}
	dpi := doc.DPI(zoom)
	w := max(1, PageWidth*dpi/doc.BaseDPI)
	h := max(1, PageHeight*dpi/doc.BaseDPI)
	scale := float64(dpi) / doc.BaseDPI

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	margin := 36 * scale
	barW := float64(w) - 2*margin
	barH := 48 * scale
	for i, r := range ramps {
		grad := gg.NewLinearGradient(margin, 0, margin+barW, 0)
		grad.AddColorStop(0, r.color(0))
		grad.AddColorStop(1, r.color(1))
		dc.SetFillStyle(grad)
		dc.DrawRectangle(margin, margin+float64(i)*(barH+8*scale), barW, barH)
		dc.Fill()
	}

	// Checkerboard below the ramps; cells shift by one per page
	top := margin + float64(len(ramps))*(barH+8*scale) + 16*scale
	cell := 24 * scale
	dc.SetRGB(0, 0, 0)
	for y := 0; top+float64(y+1)*cell <= float64(h)-3*margin; y++ {
		for x := 0; margin+float64(x+1)*cell <= float64(w)-margin; x++ {
			if (x+y+page)%2 == 0 {
				dc.DrawRectangle(margin+float64(x)*cell, top+float64(y)*cell, cell, cell)
			}
		}
	}
	dc.Fill()

	f, err := goFont()
	if err != nil {
		return nil, errors.New(err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: 18, DPI: float64(dpi)})
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(fmt.Sprintf(`page %d of %d`, page, d.pages), float64(w)/2, float64(h)-1.5*margin, 0.5, 0.5)

	return doc.Rotate(dc.Image(), rotate), nil
}
