package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/flavioheleno/fbdev"
	"github.com/flavioheleno/fbdev/internal/errors"
)

func init() { rootCmd.AddCommand(infoCmd) }

var infoCmd = &cobra.Command{
	Use:   `info`,
	Short: `print framebuffer information`,
	Long:  `open the framebuffer device and print its geometry and pixel format`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error { return info(cmd.OutOrStdout()) })
	},
}

func info(w io.Writer) (err error) {
	logger, logFile, err := newLogger()
	if err != nil {
		return err
	}
	defer logFile.Close()

	dev, err := fbdev.Open(&fbdev.Opts{Device: deviceFlag, Logger: logger})
	if err != nil {
		return errors.New(err)
	}
	defer func() { err = errors.Join(err, dev.Halt()) }()

	return writeInfo(w, dev.String(), dev.Geometry(), dev.Mode())
}

func writeInfo(w io.Writer, name string, g fbdev.Geometry, m fbdev.Mode) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{`device`, name},
		{`resolution`, fmt.Sprintf(`%dx%d`, g.Xres, g.Yres)},
		{`virtual`, fmt.Sprintf(`%dx%d`, g.XresVirtual, g.YresVirtual)},
		{`offset`, fmt.Sprintf(`%d,%d`, g.Xoffset, g.Yoffset)},
		{`line length`, fmt.Sprintf(`%d bytes`, g.LineLength)},
		{`depth`, fmt.Sprintf(`%d bits per pixel (%s)`, g.BitsPerPixel, m)},
		{`visual`, g.Visual.String()},
		{`layout`, g.Layout.String()},
		{`mode`, fmt.Sprintf(`0x%05X`, m.Packed())},
		{`pixel type`, pixelType(m.BytesPerPixel)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	if err := tw.Flush(); err != nil {
		return errors.New(err)
	}
	return nil
}
