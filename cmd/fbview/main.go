// Command fbview shows PDF, DjVu and image documents on the Linux
// framebuffer console.
//
// Usage:
//
//	fbview [flags] FILE
//	fbview info
//	fbview backends
//
// Keys: j/k/h/l scroll, space and backspace move a screen, J/K (^F/^B) change
// page, G goes to a page, z zooms, r rotates, ^L redraws, q quits. A number
// typed before a key is its count: "12G" goes to page 12, "20z" sets the
// zoom to 200 %.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	_ "github.com/flavioheleno/fbdev/doc/djvu"
	_ "github.com/flavioheleno/fbdev/doc/imagefile"
	_ "github.com/flavioheleno/fbdev/doc/pattern"
	_ "github.com/flavioheleno/fbdev/doc/poppler"
	"github.com/flavioheleno/fbdev/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:          filepath.Base(os.Args[0]) + ` [flags] FILE`,
	Short:        `framebuffer document viewer`,
	Long:         `fbview shows PDF, DjVu and image documents on the Linux framebuffer console`,
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error { return view(cmd.Context(), args[0]) })
	},
}

func init() {
	cobra.EnablePrefixMatching = true
	// persistent flags
	rootCmd.PersistentFlags().StringVarP(&deviceFlag, `device`, `D`, ``, `framebuffer device (default $FRAMEBUFFER or /dev/fb0)`)
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, `debug`, `d`, false, `debug errors`)
	rootCmd.PersistentFlags().StringVarP(&logFileFlag, `log-file`, `l`, ``, `log file`)
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, `verbose`, `v`, false, `log debug messages`)
	// local flags
	rootCmd.Flags().StringVarP(&backendFlag, `backend`, `b`, ``, `document backend (default: by file type)`)
	rootCmd.Flags().IntVarP(&pageFlag, `page`, `p`, 1, `first page`)
	rootCmd.Flags().IntVarP(&zoomFlag, `zoom`, `z`, 15, `zoom in tenths, 10 is 100%`)
	rootCmd.Flags().IntVarP(&rotateFlag, `rotate`, `r`, 0, `rotation in degrees, clockwise`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	deviceFlag  string
	debugFlag   bool
	logFileFlag string
	verboseFlag bool
	backendFlag string
	pageFlag    int
	zoomFlag    int
	rotateFlag  int
)

// run executes fn and exits with status 1 if it fails. With --debug the
// error is printed with its stack.
func run(fn func() error) {
	var err error
	if fn == nil {
		err = errors.New(`nil function`)
	} else {
		err = fn()
	}
	if err == nil {
		return
	}
	if debugFlag {
		fmt.Fprintln(os.Stderr, errors.Stack(err))
	} else {
		fmt.Fprintln(os.Stderr, err.Error())
	}
	os.Exit(1)
}

// newLogger returns the logger configured by --log-file and --verbose, and
// the log file to close. Without a log file logging is disabled: the
// console is covered by the page.
func newLogger() (*slog.Logger, io.Closer, error) {
	if len(logFileFlag) == 0 {
		return nil, io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(logFileFlag, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.New(err)
	}
	lvl := slog.LevelInfo
	if verboseFlag {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl, AddSource: verboseFlag})), f, nil
}
