package main

import (
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/containerd/console"
	"golang.org/x/sys/unix"

	"github.com/flavioheleno/fbdev/internal/errors"
	"github.com/flavioheleno/fbdev/internal/logx"
)

const (
	escClear      = "\x1b[2J\x1b[H"
	escHideCursor = "\x1b[?25l"
	escShowCursor = "\x1b[?25h"
)

// terminal keeps the controlling terminal in raw mode so that single key
// presses reach the viewer unbuffered and unechoed.
type terminal struct {
	mu  sync.Mutex
	con console.Console
	out io.Writer
}

func openTerminal(in *os.File, out io.Writer) (*terminal, error) {
	con, err := console.ConsoleFromFile(in)
	if err != nil {
		return nil, errors.WrapPrefix(err, `stdin is not a terminal`, 0)
	}
	t := &terminal{con: con, out: out}
	if err := t.raw(); err != nil {
		return nil, err
	}
	_, _ = io.WriteString(out, escClear+escHideCursor)
	return t, nil
}

func (t *terminal) raw() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.con.SetRaw(); err != nil {
		return errors.New(err)
	}
	return nil
}

// Close shows the cursor and restores the terminal mode found at open.
func (t *terminal) Close() error {
	_, _ = io.WriteString(t.out, escShowCursor)
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.con.Reset(); err != nil {
		return errors.New(err)
	}
	return nil
}

// watchContinue re-enters raw mode each time the process is continued after
// a stop, as the shell resets the terminal meanwhile. The returned function
// stops watching.
func (t *terminal) watchContinue(logger *slog.Logger) (stop func()) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGCONT)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-sig:
				logx.IsErr(t.raw(), logx.Prov(logger), slog.LevelWarn)
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sig)
		close(done)
	}
}
