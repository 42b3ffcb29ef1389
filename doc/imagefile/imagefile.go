// Package imagefile shows image files as documents: a single image is one
// page, every frame of an animated GIF is a page, and a directory is a
// document with one page per image inside it, in name order.
package imagefile

import (
	"context"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/flavioheleno/fbdev/doc"
	"github.com/flavioheleno/fbdev/internal/errors"
)

func init() { doc.Register(&backend{}) }

var exts = []string{`.png`, `.jpg`, `.jpeg`, `.gif`, `.bmp`, `.tif`, `.tiff`, `.webp`}

var _ doc.Backend = (*backend)(nil)

type backend struct{}

func (b *backend) Name() string { return `image` }

func (b *backend) Match(path string) bool {
	if doc.HasExt(path, exts...) {
		return true
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func (b *backend) Open(path string) (doc.Document, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.New(err)
	}
	var files []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, errors.New(err)
		}
		for _, de := range entries {
			if de.IsDir() || !doc.HasExt(de.Name(), exts...) {
				continue
			}
			files = append(files, filepath.Join(path, de.Name()))
		}
		slices.Sort(files)
		if len(files) == 0 {
			return nil, errors.Errorf(`no images in %q`, path)
		}
	} else {
		files = []string{path}
	}

	d := &document{}
	for _, f := range files {
		if !doc.HasExt(f, `.gif`) {
			d.pages = append(d.pages, page{path: f})
			continue
		}
		frames, err := gifFrames(f)
		if err != nil {
			return nil, err
		}
		for i := 0; i < frames; i++ {
			d.pages = append(d.pages, page{path: f, frame: i})
		}
	}
	return d, nil
}

type page struct {
	path  string
	frame int
}

type document struct {
	pages []page
}

var _ doc.Document = (*document)(nil)

func (d *document) Pages() int { return len(d.pages) }

func (d *document) Render(ctx context.Context, n, zoom, rotate int) (*image.RGBA, error) {
	if err := doc.CheckPage(n, len(d.pages)); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.New(err)
	}
	p := d.pages[n-1]
	img, err := p.decode()
	if err != nil {
		return nil, err
	}
	return doc.Rotate(doc.Scale(img, zoom), rotate), nil
}

func (d *document) Close() error { return nil }

func (p page) decode() (image.Image, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, errors.New(err)
	}
	defer f.Close()
	if !doc.HasExt(p.path, `.gif`) {
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, errors.WrapPrefix(err, p.path, 0)
		}
		return img, nil
	}
	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, errors.WrapPrefix(err, p.path, 0)
	}
	if p.frame >= len(g.Image) {
		return nil, errors.Errorf(`%s: frame %d of %d`, p.path, p.frame, len(g.Image))
	}
	return compose(g, p.frame), nil
}

// compose stacks frames 0..n on a white screen, applying the disposal of
// every frame before n.
func compose(g *gif.GIF, n int) *image.RGBA {
	// Frames may cover only part of the logical screen
	m := doc.Fill(g.Config.Width, g.Config.Height, image.White)
	var prev *image.RGBA
	for i, fr := range g.Image[:n+1] {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if i < n && disposal == gif.DisposalPrevious {
			prev = image.NewRGBA(m.Bounds())
			copy(prev.Pix, m.Pix)
		}
		draw.Draw(m, fr.Bounds(), fr, fr.Bounds().Min, draw.Over)
		if i == n {
			break
		}
		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(m, fr.Bounds(), image.White, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(m.Pix, prev.Pix)
		}
	}
	return m
}

func gifFrames(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.New(err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		return 0, errors.WrapPrefix(err, path, 0)
	}
	return len(g.Image), nil
}
