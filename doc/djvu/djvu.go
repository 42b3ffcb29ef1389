// Package djvu renders DjVu documents with the djvulibre command line tools
// (djvused and ddjvu).
package djvu

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/flavioheleno/fbdev/doc"
	"github.com/flavioheleno/fbdev/internal/errors"
	"github.com/flavioheleno/fbdev/internal/exc"
)

func init() { doc.Register(&backend{}) }

var _ doc.Backend = (*backend)(nil)

type backend struct{}

func (b *backend) Name() string { return `djvu` }

func (b *backend) Match(path string) bool { return doc.HasExt(path, `.djvu`, `.djv`) }

func (b *backend) Open(path string) (doc.Document, error) {
	out, err := exc.Output(context.Background(), `djvused`, `-e`, `n`, path)
	if err != nil {
		return nil, err
	}
	pages, err := parsePages(out)
	if err != nil {
		return nil, err
	}
	return &document{path: path, pages: pages}, nil
}

type document struct {
	path  string
	pages int
}

var _ doc.Document = (*document)(nil)

func (d *document) Pages() int { return d.pages }

func (d *document) Render(ctx context.Context, page, zoom, rotate int) (*image.RGBA, error) {
	if err := doc.CheckPage(page, d.pages); err != nil {
		return nil, err
	}
	// TIFF output needs a seekable file
	dir, err := os.MkdirTemp(``, `fbview-djvu-`)
	if err != nil {
		return nil, errors.New(err)
	}
	defer os.RemoveAll(dir)
	outFile := filepath.Join(dir, `page.tif`)

	if _, err := exc.Output(ctx, `ddjvu`, renderArgs(d.path, outFile, page, zoom)...); err != nil {
		return nil, err
	}
	f, err := os.Open(outFile)
	if err != nil {
		return nil, errors.New(err)
	}
	defer f.Close()
	img, err := tiff.Decode(f)
	if err != nil {
		return nil, errors.WrapPrefix(err, `ddjvu output`, 0)
	}
	return doc.Rotate(img, rotate), nil
}

func (d *document) Close() error { return nil }

func renderArgs(path, outFile string, page, zoom int) []string {
	return []string{
		`-format=tiff`,
		`-page=` + strconv.Itoa(page),
		`-scale=` + strconv.Itoa(doc.DPI(zoom)),
		path, outFile,
	}
}

// parsePages reads the page count printed by `djvused -e n`.
func parsePages(out []byte) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, errors.WrapPrefix(err, `djvused`, 0)
	}
	if n < 1 {
		return 0, errors.Errorf(`document has %d pages`, n)
	}
	return n, nil
}
