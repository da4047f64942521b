package flexlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileDriverLazyOpenAndAppend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "app.log")

	d := NewFileDriver(path, true)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file should not exist before the first write")
	}
	if err := d.Write([]byte("one\n"), LevelInfo); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	d2 := NewFileDriver(path, true)
	if err := d2.Write([]byte("two\n"), LevelInfo); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := d2.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "one\ntwo\n" {
		t.Fatalf("append mode should preserve prior content, got %q", got)
	}
}

func TestFileDriverTruncateMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewFileDriver(path, false)
	if err := d.Write([]byte("fresh"), LevelInfo); err != nil {
		t.Fatal(err)
	}
	d.Close()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "fresh" {
		t.Fatalf("non-append mode should truncate, got %q", got)
	}
}

func TestFileDriverFlushAndCloseWithoutWriteAreNoop(t *testing.T) {
	d := NewFileDriver(filepath.Join(t.TempDir(), "app.log"), true)
	if err := d.Flush(); err != nil {
		t.Fatalf("flush before any write should be a no-op, got %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close before any write should be a no-op, got %v", err)
	}
}

func TestMtimeBefore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	before, err := mtimeBefore(path, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !before {
		t.Fatalf("a file just written should be before an instant an hour from now")
	}

	before, err = mtimeBefore(path, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if before {
		t.Fatalf("file should not be before an instant in the past")
	}

	before, err = mtimeBefore(filepath.Join(dir, "missing.log"), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if before {
		t.Fatalf("a missing file is not before anything")
	}
}
