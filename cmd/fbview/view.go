package main

import (
	"context"
	"image"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3/display"

	"github.com/flavioheleno/fbdev"
	"github.com/flavioheleno/fbdev/doc"
	"github.com/flavioheleno/fbdev/internal/errors"
	"github.com/flavioheleno/fbdev/internal/logx"
	"github.com/flavioheleno/fbdev/internal/viewer"
)

func view(ctx context.Context, path string) (err error) {
	logger, logFile, err := newLogger()
	if err != nil {
		return err
	}
	defer logFile.Close()

	d, err := doc.Open(path, backendFlag)
	if err != nil {
		return err
	}
	defer d.Close()

	tm, err := openTerminal(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, tm.Close()) }()

	dev, err := fbdev.Open(&fbdev.Opts{Device: deviceFlag, Logger: logger})
	if err != nil {
		return errors.New(err)
	}
	defer func() { err = errors.Join(err, dev.Halt()) }()
	logx.Info(`display`, logx.Prov(logger), `device`, dev.String(), `mode`, dev.Mode().String())

	scr, err := newScreen(dev, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, unix.SIGTERM)
	defer stop()
	defer tm.watchContinue(logger)()

	v := viewer.New(scr, d, viewer.Opts{
		Zoom:   zoomFlag,
		Rotate: rotateFlag,
		Page:   pageFlag,
		Logger: logger,
	})
	return v.Run(ctx, os.Stdin)
}

// newScreen picks the pixel type matching the device depth. Depths without
// a Go integer of the same width (24 bits per pixel) are drawn through the
// display.Drawer interface instead.
func newScreen(dev *fbdev.Dev, logger *slog.Logger) (viewer.Screen, error) {
	switch dev.Mode().BytesPerPixel {
	case 1:
		return newCanvas[uint8](dev)
	case 2:
		return newCanvas[uint16](dev)
	case 4:
		return newCanvas[uint32](dev)
	}
	return &drawerScreen{d: dev, logger: logger}, nil
}

func newCanvas[P fbdev.Pixel](dev *fbdev.Dev) (viewer.Screen, error) {
	c, err := fbdev.NewCanvas[P](dev)
	if err != nil {
		return nil, errors.New(err)
	}
	return c, nil
}

// pixelType names the pixel type newScreen uses for a depth.
func pixelType(bytesPerPixel int) string {
	switch bytesPerPixel {
	case 1:
		return `uint8`
	case 2:
		return `uint16`
	case 4:
		return `uint32`
	}
	return `none (display.Drawer)`
}

// drawerScreen shows pages through a display.Drawer.
type drawerScreen struct {
	d      display.Drawer
	logger *slog.Logger
}

var _ viewer.Screen = (*drawerScreen)(nil)

func (s *drawerScreen) Rows() int { return s.d.Bounds().Dy() }
func (s *drawerScreen) Cols() int { return s.d.Bounds().Dx() }

func (s *drawerScreen) Paint(src *image.RGBA, sp image.Point) {
	logx.IsErr(s.d.Draw(s.d.Bounds(), src, sp), logx.Prov(s.logger), slog.LevelError, `drawer`, s.d.String())
}

func (s *drawerScreen) Clear() {
	logx.IsErr(s.d.Draw(s.d.Bounds(), image.Black, image.Point{}), logx.Prov(s.logger), slog.LevelError, `drawer`, s.d.String())
}
