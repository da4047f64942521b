//go:build !unix && !linux

package flexlog

import (
	"io"
	"os"

	goisatty "github.com/mattn/go-isatty"
)

// isatty reports whether w is a terminal on non-Unix targets (Windows),
// where golang.org/x/sys/unix's ioctls don't apply; go-isatty is the
// portable fallback the wider ecosystem reaches for here.
func isatty(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return goisatty.IsTerminal(f.Fd()) || goisatty.IsCygwinTerminal(f.Fd())
}
