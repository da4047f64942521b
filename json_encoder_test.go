package flexlog

import (
	"encoding/json"
	"testing"
)

func TestJSONEncoderFieldOrderAndValidity(t *testing.T) {
	e := testEvent()
	b := newBuffer()
	defer b.Release()
	JSONEncoder{}.Encode(b, e)

	out := b.String()
	if out[len(out)-1] != '\n' {
		t.Fatalf("expected trailing newline, got %q", out)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	for _, want := range []string{"time", "level", "message", "module_path", "file", "line", "target", "thread", "thread_id", "mdc", "key_value_pairs"} {
		if _, ok := decoded[want]; !ok {
			t.Errorf("missing field %q in %s", want, out)
		}
	}
	if decoded["level"] != "WARN" {
		t.Errorf("level = %v", decoded["level"])
	}
	if decoded["message"] != "connection pool exhausted" {
		t.Errorf("message = %v", decoded["message"])
	}
}

func TestJSONEncoderOmitsEmptyMDCAndKV(t *testing.T) {
	e := &Event{Time: testEvent().Time, Level: LevelInfo, Target: "x", Message: "hi"}
	b := newBuffer()
	defer b.Release()
	JSONEncoder{}.Encode(b, e)

	var decoded map[string]any
	if err := json.Unmarshal(b.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := decoded["mdc"]; ok {
		t.Errorf("mdc should be omitted when empty")
	}
	if _, ok := decoded["key_value_pairs"]; ok {
		t.Errorf("key_value_pairs should be omitted when empty")
	}
}

func TestJSONEncoderEscaping(t *testing.T) {
	e := &Event{Time: testEvent().Time, Level: LevelInfo, Target: "x", Message: "line1\nline2\t\"quoted\"\\"}
	b := newBuffer()
	defer b.Release()
	JSONEncoder{}.Encode(b, e)

	var decoded struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, b.String())
	}
	if decoded.Message != e.Message {
		t.Errorf("round trip mismatch: got %q, want %q", decoded.Message, e.Message)
	}
}

func TestSortedKeysDeterministic(t *testing.T) {
	m := map[string]string{"z": "1", "a": "2", "m": "3"}
	got := sortedKeys(m)
	want := []string{"a", "m", "z"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
