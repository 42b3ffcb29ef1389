package doc

import (
	"image"
	"image/color"
	stddraw "image/draw"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// BaseDPI is the resolution of a page at zoom 10.
const BaseDPI = 72

// DPI returns the rendering resolution for zoom tenths.
func DPI(zoom int) int {
	return BaseDPI * zoom / 10
}

// RGBA returns img as *image.RGBA with its origin at (0, 0), converting
// when needed.
func RGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	b := img.Bounds()
	m := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(m, m.Rect, img, b.Min, stddraw.Src)
	return m
}

// Scale resizes img by zoom tenths with bilinear interpolation. Zoom 10
// returns img unchanged.
func Scale(img image.Image, zoom int) *image.RGBA {
	if zoom == 10 || zoom <= 0 {
		return RGBA(img)
	}
	b := img.Bounds()
	w := max(1, b.Dx()*zoom/10)
	h := max(1, b.Dy()*zoom/10)
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(m, m.Rect, img, b, draw.Src, nil)
	return m
}

// Rotate turns img clockwise by deg degrees. Right angles are exact; other
// angles are interpolated and the uncovered corners are white.
func Rotate(img image.Image, deg int) *image.RGBA {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	var f gift.Filter
	switch deg {
	case 0:
		return RGBA(img)
	case 90:
		f = gift.Rotate270() // gift turns counter-clockwise
	case 180:
		f = gift.Rotate180()
	case 270:
		f = gift.Rotate90()
	default:
		f = gift.Rotate(float32(360-deg), color.White, gift.LinearInterpolation)
	}
	g := gift.New(f)
	m := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(m, img)
	return RGBA(m)
}

// Fill returns a w x h image painted with c.
func Fill(w, h int, c color.Color) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	stddraw.Draw(m, m.Rect, image.NewUniform(c), image.Point{}, stddraw.Src)
	return m
}
