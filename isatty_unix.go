//go:build unix && !linux

package flexlog

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// isatty reports whether w is a terminal, generalized from the teacher's
// tty_unix.go (BSD/Darwin use TCGETS-style termios rather than TIOCGWINSZ).
func isatty(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	return err == nil
}
