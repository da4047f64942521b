package flexlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseSize(t *testing.T) {
	cases := map[string]int64{
		"10":     0, // no recognized unit, falls through to error below
		"10b":    10,
		"10kb":   10000,
		"10kib":  10240,
		"1mb":    1000000,
		"1mib":   1 << 20,
		"2GiB":   2 << 30,
	}
	for in, want := range cases {
		got, err := ParseSize(in)
		if in == "10" {
			if err == nil {
				t.Errorf("ParseSize(%q) should fail: bare numbers need a unit", in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSize(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseSize(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestFixedWindowRollerRotation(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "app.log")
	if err := os.WriteFile(active, []byte("active"), 0o644); err != nil {
		t.Fatal(err)
	}
	pattern := filepath.Join(dir, "app.{}.log")
	r, err := NewFixedWindowRoller(pattern, 1, 3, false, defaultErrorHandler)
	if err != nil {
		t.Fatalf("new roller: %v", err)
	}

	if err := r.Rotate(active); err != nil {
		t.Fatalf("rotate 1: %v", err)
	}
	assertFileContains(t, filepath.Join(dir, "app.1.log"), "active")
	if _, err := os.Stat(active); !os.IsNotExist(err) {
		t.Fatalf("active file should be gone after rotation")
	}

	if err := os.WriteFile(active, []byte("active2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Rotate(active); err != nil {
		t.Fatalf("rotate 2: %v", err)
	}
	assertFileContains(t, filepath.Join(dir, "app.1.log"), "active2")
	assertFileContains(t, filepath.Join(dir, "app.2.log"), "active")

	if err := os.WriteFile(active, []byte("active3"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Rotate(active); err != nil {
		t.Fatalf("rotate 3: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "app.4.log")); !os.IsNotExist(err) {
		t.Fatalf("window of 3 starting at 1 must never produce app.4.log")
	}
	assertFileContains(t, filepath.Join(dir, "app.3.log"), "active")
}

func TestFixedWindowRollerRotateNoActiveFileIsNoop(t *testing.T) {
	dir := t.TempDir()
	r, err := NewFixedWindowRoller(filepath.Join(dir, "app.{}.log"), 1, 2, false, defaultErrorHandler)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Rotate(filepath.Join(dir, "missing.log")); err != nil {
		t.Fatalf("rotating a missing active file must be a no-op, got %v", err)
	}
}

func assertFileContains(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(got) != want {
		t.Fatalf("%s = %q, want %q", path, got, want)
	}
}

func TestRollingFileDriverRotatesOnSize(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "app.log")
	roller, err := NewFixedWindowRoller(filepath.Join(dir, "app.{}.log"), 1, 2, false, defaultErrorHandler)
	if err != nil {
		t.Fatal(err)
	}
	policy := &Policy{Trigger: &SizeTrigger{Limit: 10}, Roller: roller}

	drv, err := NewRollingFileDriver(active, policy)
	if err != nil {
		t.Fatal(err)
	}
	defer drv.Close()

	for i := 0; i < 5; i++ {
		if err := drv.Write([]byte("0123456789"), LevelInfo); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "app.1.log")); err != nil {
		t.Fatalf("expected at least one rotation to have produced app.1.log: %v", err)
	}
}

func TestOnStartupTriggerFiresOnceWhenStale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("preexisting"), 0o644); err != nil {
		t.Fatal(err)
	}
	trig := NewOnStartupTrigger(1)
	if !trig.Evaluate(time.Now(), 11, 0) {
		t.Fatalf("first evaluate with size >= MinSize should fire")
	}
	if trig.Evaluate(time.Now(), 11, 0) {
		t.Fatalf("onstartup trigger must fire at most once per process lifetime")
	}
}

func TestTimeTriggerModulateBoundary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	now := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	trig, err := NewTimeTrigger(path, 4, "hour", true, 0, now)
	if err != nil {
		t.Fatal(err)
	}
	if trig.Evaluate(now, 0, 0) {
		t.Fatalf("should not fire before the boundary")
	}
	atBoundary := time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC)
	if !trig.Evaluate(atBoundary, 0, 0) {
		t.Fatalf("should fire once the 4-hour modulated boundary is reached")
	}
	trig.Rotated(atBoundary)
	next := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	if !trig.Evaluate(next, 0, 0) {
		t.Fatalf("next boundary should be 08:00")
	}
}
