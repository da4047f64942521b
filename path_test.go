package flexlog

import (
	"os"
	"testing"
	"time"
)

func TestInterpolatePathEnv(t *testing.T) {
	t.Setenv("FLEXLOG_TEST_DIR", "/var/log/myapp")
	got, err := interpolatePath("$ENV{FLEXLOG_TEST_DIR}/app.log", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if got != "/var/log/myapp/app.log" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpolatePathEnvMissingExpandsEmpty(t *testing.T) {
	os.Unsetenv("FLEXLOG_TEST_MISSING")
	got, err := interpolatePath("$ENV{FLEXLOG_TEST_MISSING}/app.log", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if got != "/app.log" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpolatePathTime(t *testing.T) {
	now := time.Date(2024, 3, 7, 13, 45, 9, 0, time.UTC)
	got, err := interpolatePath("/logs/app-$TIME{%Y-%m-%d}.log", now)
	if err != nil {
		t.Fatal(err)
	}
	if got != "/logs/app-2024-03-07.log" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpolatePathMaxFiveTimeSubstitutions(t *testing.T) {
	now := time.Date(2024, 3, 7, 13, 45, 9, 0, time.UTC)
	path := ""
	for i := 0; i < 6; i++ {
		path += "$TIME{%Y}"
	}
	got, err := interpolatePath(path, now)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2024202420242024"+"2024"+"$TIME{%Y}" {
		t.Fatalf("expected the sixth $TIME{} to be left literal, got %q", got)
	}
}

func TestInterpolatePathRejectsEmptyFormat(t *testing.T) {
	if _, err := interpolatePath("/logs/$TIME{}.log", time.Now()); err == nil {
		t.Fatalf("expected an empty $TIME{} format to be rejected")
	}
}

func TestInterpolatePathRejectsResultingEmptyPath(t *testing.T) {
	if _, err := interpolatePath("   ", time.Now()); err == nil {
		t.Fatalf("expected an all-whitespace path to be rejected")
	}
}
