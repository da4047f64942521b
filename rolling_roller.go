package flexlog

import (
	"fmt"
	"os"
	"strings"
)

// Roller relocates the active file during a rotation (§4.5).
type Roller interface {
	// Rotate is called with the active file's path, which may not exist yet
	// (a trigger can fire before the first write has created it); a Roller
	// treats a missing file as a no-op (§8's idempotence property).
	Rotate(activePath string) error
	Close() error
}

// DeleteRoller deletes the active file; the appender recreates it empty on
// the next write.
type DeleteRoller struct{}

// Rotate implements Roller.
func (DeleteRoller) Rotate(activePath string) error {
	if err := os.Remove(activePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("flexlog: deleting %q: %w", activePath, err)
	}
	return nil
}

// Close implements Roller.
func (DeleteRoller) Close() error { return nil }

// FixedWindowRoller keeps a bounded, contiguous window of archives named by
// substituting "{}" in Pattern with an index in [Base, Base+Count).
type FixedWindowRoller struct {
	pattern string
	base    int
	count   int

	compressKind string
	worker       *compressWorker
}

// NewFixedWindowRoller validates and builds a fixed-window roller.
// background enables off-thread compression (§4.5, §5's
// "background_rotation capability").
func NewFixedWindowRoller(pattern string, base, count int, background bool, errHandler func(error)) (*FixedWindowRoller, error) {
	if !strings.Contains(pattern, "{}") {
		return nil, fmt.Errorf("flexlog: fixed-window pattern %q is missing a {} placeholder", pattern)
	}
	if count == 0 {
		return nil, fmt.Errorf("flexlog: fixed-window count must be nonzero")
	}
	r := &FixedWindowRoller{pattern: pattern, base: base, count: count}
	r.compressKind = compressionKind(pattern)
	if r.compressKind != "" && background {
		r.worker = newCompressWorker(r.compressKind, errHandler)
	}
	return r, nil
}

func (r *FixedWindowRoller) fileAt(i int) string {
	return strings.Replace(r.pattern, "{}", fmt.Sprint(i), 1)
}

func renameIfExists(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	return os.Rename(src, dst)
}

// Rotate implements Roller, following the four-step algorithm of §4.5.
func (r *FixedWindowRoller) Rotate(activePath string) error {
	if _, err := os.Stat(activePath); os.IsNotExist(err) {
		// Nothing to rotate: a no-op, satisfying §8's idempotence property.
		return nil
	} else if err != nil {
		return err
	}

	top := r.fileAt(r.base + r.count - 1)
	if err := os.Remove(top); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("flexlog: evicting %q: %w", top, err)
	}

	for i := r.base + r.count - 2; i >= r.base; i-- {
		if err := renameIfExists(r.fileAt(i), r.fileAt(i+1)); err != nil {
			return fmt.Errorf("flexlog: shifting archive %d: %w", i, err)
		}
	}

	newest := r.fileAt(r.base)
	if err := os.Rename(activePath, newest); err != nil {
		return fmt.Errorf("flexlog: archiving %q: %w", activePath, err)
	}

	if r.compressKind == "" {
		return nil
	}
	if r.worker != nil {
		r.worker.Submit(newest)
		return nil
	}
	return compressInPlace(newest, r.compressKind)
}

// Close implements Roller.
func (r *FixedWindowRoller) Close() error {
	if r.worker != nil {
		r.worker.Close()
	}
	return nil
}
