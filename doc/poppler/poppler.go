// Package poppler renders PDF documents with the poppler command line tools
// (pdfinfo and pdftoppm).
package poppler

import (
	"bufio"
	"bytes"
	"context"
	"image"
	"image/png"
	"strconv"
	"strings"

	"github.com/flavioheleno/fbdev/doc"
	"github.com/flavioheleno/fbdev/internal/errors"
	"github.com/flavioheleno/fbdev/internal/exc"
)

func init() { doc.Register(&backend{}) }

var _ doc.Backend = (*backend)(nil)

type backend struct{}

func (b *backend) Name() string { return `poppler` }

func (b *backend) Match(path string) bool { return doc.HasExt(path, `.pdf`) }

func (b *backend) Open(path string) (doc.Document, error) {
	out, err := exc.Output(context.Background(), `pdfinfo`, path)
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
	out, err := exc.Output(ctx, `pdftoppm`, renderArgs(d.path, page, zoom)...)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, errors.WrapPrefix(err, `pdftoppm output`, 0)
	}
	return doc.Rotate(img, rotate), nil
}

func (d *document) Close() error { return nil }

func renderArgs(path string, page, zoom int) []string {
	p := strconv.Itoa(page)
	return []string{
		`-png`, `-singlefile`,
		`-r`, strconv.Itoa(doc.DPI(zoom)),
		`-f`, p, `-l`, p,
		path,
	}
}

// parsePages reads the page count from pdfinfo output.
func parsePages(out []byte) (int, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		k, v, ok := strings.Cut(sc.Text(), `:`)
		if !ok || strings.TrimSpace(k) != `Pages` {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.New(err)
		}
		if n < 1 {
			return 0, errors.Errorf(`document has %d pages`, n)
		}
		return n, nil
	}
	return 0, errors.New(`pdfinfo: no page count`)
}
