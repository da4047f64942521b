package flexlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RollingFileDriver owns the active path and writes through it, consulting
// its Policy before every write (§4.4, §4.5).
type RollingFileDriver struct {
	path   string
	policy *Policy

	mu   sync.Mutex
	file *os.File
	size int64
}

// NewRollingFileDriver builds a rolling-file driver. The active file's
// current size is read from disk up front so the size counter starts
// accurate (§3's invariant).
func NewRollingFileDriver(path string, policy *Policy) (*RollingFileDriver, error) {
	size, err := activeFileSize(path)
	if err != nil {
		return nil, err
	}
	return &RollingFileDriver{path: path, policy: policy, size: size}, nil
}

func activeFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (d *RollingFileDriver) ensureOpenLocked() error {
	if d.file != nil {
		return nil
	}
	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("flexlog: creating directory %q: %w", dir, err)
		}
	}
	fh, err := os.OpenFile(d.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("flexlog: opening %q: %w", d.path, err)
	}
	d.file = fh
	return nil
}

// Write implements Driver.
func (d *RollingFileDriver) Write(p []byte, _ Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if d.policy.Evaluate(now, d.size, len(p)) {
		if err := d.rotateLocked(now); err != nil {
			return err
		}
	}
	if err := d.ensureOpenLocked(); err != nil {
		return err
	}
	n, err := d.file.Write(p)
	if err != nil {
		// Per §7: a failed write must not mutate the size counter.
		return err
	}
	d.size += int64(n)
	return nil
}

func (d *RollingFileDriver) rotateLocked(now time.Time) error {
	if d.file != nil {
		if err := d.file.Sync(); err != nil {
			return fmt.Errorf("flexlog: flushing %q before rotation: %w", d.path, err)
		}
		if err := d.file.Close(); err != nil {
			return fmt.Errorf("flexlog: closing %q before rotation: %w", d.path, err)
		}
		d.file = nil
	}
	if err := d.policy.Rotate(now, d.path); err != nil {
		return err
	}
	d.size = 0
	return nil
}

// Flush implements Driver.
func (d *RollingFileDriver) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	return d.file.Sync()
}

// Close implements Driver.
func (d *RollingFileDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var err error
	if d.file != nil {
		err = d.file.Close()
		d.file = nil
	}
	if cerr := d.policy.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
