package flexlog

import (
	"strings"
	"testing"
	"time"
)

func testEvent() *Event {
	return &Event{
		Time:    time.Date(2024, 3, 7, 13, 45, 9, 0, time.UTC),
		Level:   LevelWarn,
		Target:  "app.backend.db",
		File:    "db.go",
		Line:    42,
		Module:  "app/backend/db",
		Message: "connection pool exhausted",
		MDC:     map[string]string{"request_id": "abc123"},
		KeyValues: []KV{
			{Key: "attempt", Value: "3"},
			{Key: "host", Value: "db-1"},
		},
	}
}

func encodeString(t *testing.T, p *Pattern, e *Event) string {
	t.Helper()
	b := newBuffer()
	defer b.Release()
	p.Encode(b, e)
	return b.String()
}

func TestPatternDefaultDirectives(t *testing.T) {
	p, err := CompilePattern(DefaultPattern, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out := encodeString(t, p, testEvent())
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "app.backend.db") || !strings.HasSuffix(out, "\n") {
		t.Fatalf("unexpected rendering: %q", out)
	}
}

func TestPatternWidthAndAlignment(t *testing.T) {
	p, err := CompilePattern("{l:<8}|", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out := encodeString(t, p, testEvent())
	if out != "WARN    |" {
		t.Fatalf("got %q", out)
	}

	p2, err := CompilePattern("{l:>8}|", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out2 := encodeString(t, p2, testEvent())
	if out2 != "    WARN|" {
		t.Fatalf("got %q", out2)
	}
}

func TestPatternPrecisionTruncatesFromLeft(t *testing.T) {
	p, err := CompilePattern("{t:.10}", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out := encodeString(t, p, testEvent())
	want := "app.backend.db"
	want = want[len(want)-10:]
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestPatternMDC(t *testing.T) {
	p, err := CompilePattern("{X(request_id)}", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if out := encodeString(t, p, testEvent()); out != "abc123" {
		t.Fatalf("got %q", out)
	}
	if out := encodeString(t, p, &Event{}); out != "" {
		t.Fatalf("missing MDC key should render empty, got %q", out)
	}
}

func TestPatternKeyValues(t *testing.T) {
	p, err := CompilePattern("{K}", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if out := encodeString(t, p, testEvent()); out != "attempt=3, host=db-1" {
		t.Fatalf("got %q", out)
	}
}

func TestPatternHighlightNesting(t *testing.T) {
	p, err := CompilePattern("{h({l} {m})}", true)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out := encodeString(t, p, testEvent())
	if !strings.HasPrefix(out, "\x1b[") || !strings.HasSuffix(out, "\x1b[0m") {
		t.Fatalf("expected SGR wrapping, got %q", out)
	}
	if !strings.Contains(out, "WARN connection pool exhausted") {
		t.Fatalf("expected inner content preserved, got %q", out)
	}

	pNoColor, err := CompilePattern("{h({l})}", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if out := encodeString(t, pNoColor, testEvent()); out != "WARN" {
		t.Fatalf("disabled color should render plain, got %q", out)
	}
}

func TestPatternDateFormat(t *testing.T) {
	p, err := CompilePattern("{d(%Y-%m-%d %H:%M:%S)(utc)}", false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out := encodeString(t, p, testEvent())
	if out != "2024-03-07 13:45:09" {
		t.Fatalf("got %q", out)
	}
}

func TestPatternUnknownDirectiveErrors(t *testing.T) {
	if _, err := CompilePattern("{bogus}", false); err == nil {
		t.Fatalf("expected error for unknown directive")
	}
}

func TestPatternUnbalancedBraceErrors(t *testing.T) {
	if _, err := CompilePattern("{d(%Y", false); err == nil {
		t.Fatalf("expected error for unterminated directive")
	}
}
