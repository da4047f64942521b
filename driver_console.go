package flexlog

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
)

// ConsoleTarget selects which standard stream a console appender writes to.
type ConsoleTarget int

const (
	ConsoleStdout ConsoleTarget = iota
	ConsoleStderr
)

// ConsoleDriver writes to stdout or stderr (§4.4). Writes are serialized by
// a mutex like every other driver; colorable.NewColorable wraps the stream
// so ANSI sequences render correctly on Windows consoles (a no-op wrapper
// everywhere else).
type ConsoleDriver struct {
	mu      sync.Mutex
	out     io.Writer
	raw     *os.File
	ttyOnly bool
	isTTY   bool
}

// NewConsoleDriver builds a console driver for the given target.
func NewConsoleDriver(target ConsoleTarget, ttyOnly bool) *ConsoleDriver {
	f := os.Stdout
	if target == ConsoleStderr {
		f = os.Stderr
	}
	return &ConsoleDriver{
		out:     colorable.NewColorable(f),
		raw:     f,
		ttyOnly: ttyOnly,
		isTTY:   isatty(f),
	}
}

// IsTTY reports whether the underlying stream is a terminal, used by the
// config builder to make the once-per-appender color decision (§9).
func (c *ConsoleDriver) IsTTY() bool { return c.isTTY }

// Write implements Driver.
func (c *ConsoleDriver) Write(p []byte, level Level) error {
	if c.ttyOnly && !c.isTTY {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.out.Write(p); err != nil {
		return err
	}
	if level <= LevelError {
		return c.flushLocked()
	}
	return nil
}

// Flush implements Driver.
func (c *ConsoleDriver) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked()
}

func (c *ConsoleDriver) flushLocked() error {
	if f, ok := c.out.(*os.File); ok {
		return f.Sync()
	}
	// Colorable wrappers on Windows buffer internally but don't expose Sync;
	// os.Stdout/os.Stderr themselves need no explicit flush on Unix.
	return nil
}

// Close implements Driver. Standard streams are never closed.
func (c *ConsoleDriver) Close() error { return nil }
