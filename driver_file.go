package flexlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileDriver is a flat-file appender driver (§4.4). A single internal mutex
// serializes writes; the file is opened lazily on first write so a
// never-triggered appender never creates an empty file.
type FileDriver struct {
	path   string
	append bool

	mu   sync.Mutex
	file *os.File
}

// NewFileDriver builds a file driver. path has already been interpolated.
func NewFileDriver(path string, appendMode bool) *FileDriver {
	return &FileDriver{path: path, append: appendMode}
}

func (f *FileDriver) ensureOpenLocked() error {
	if f.file != nil {
		return nil
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("flexlog: creating directory %q: %w", dir, err)
		}
	}
	flags := os.O_CREATE | os.O_WRONLY
	if f.append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	fh, err := os.OpenFile(f.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("flexlog: opening %q: %w", f.path, err)
	}
	f.file = fh
	return nil
}

// Write implements Driver.
func (f *FileDriver) Write(p []byte, level Level) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureOpenLocked(); err != nil {
		return err
	}
	_, err := f.file.Write(p)
	return err
}

// Flush implements Driver.
func (f *FileDriver) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	return f.file.Sync()
}

// Close implements Driver.
func (f *FileDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// mtimeBefore reports whether the file at path has an mtime strictly before
// t, used by the time trigger's startup catch-up check (§4.5).
func mtimeBefore(path string, t time.Time) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.ModTime().Before(t), nil
}
