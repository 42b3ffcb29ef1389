// Package exc runs the external tools the document backends rely on.
package exc

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/flavioheleno/fbdev/internal/errors"
)

var (
	// key: executable name, value: abs. path
	exePaths   = make(map[string]string)
	exePathsMu sync.Mutex
)

// Look resolves exe in $PATH and caches the result.
func Look(exe string) (string, error) {
	if len(exe) == 0 {
		return ``, errors.New(`empty executable name`)
	}
	exePathsMu.Lock()
	defer exePathsMu.Unlock()
	if exeAbs, ok := exePaths[exe]; ok {
		return exeAbs, nil
	}
	exeAbs, err := exec.LookPath(exe)
	if err != nil {
		return ``, errors.New(err)
	}
	exePaths[exe] = exeAbs
	return exeAbs, nil
}

// Output runs exe with args and returns its standard output. A failing
// command reports the first line of its standard error.
func Output(ctx context.Context, exe string, args ...string) ([]byte, error) {
	exeAbs, err := Look(exe)
	if err != nil {
		return nil, err
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exeAbs, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.New(ctxErr)
		}
		if msg := firstLine(stderr.String()); len(msg) > 0 {
			return nil, errors.Errorf(`%s: %w: %s`, exe, err, msg)
		}
		return nil, errors.Errorf(`%s: %w`, exe, err)
	}
	return stdout.Bytes(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
