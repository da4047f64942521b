package flexlog

import (
	"bufio"
	"os"
	"testing"
)

// TestHandle builds a Handle wired to a single root appender that writes
// JSON-encoded events to a per-test temp file, then replays every line
// through t.Log when the test finishes. This mirrors the teacher facade's
// create/replay/remove lifecycle, adapted to flexlog's graph/appender model
// instead of a single global zerolog sink: one appender, root logger only,
// level Trace so nothing is filtered out before it reaches the test log.
func TestHandle(t testing.TB) *Handle {
	t.Helper()

	f, err := os.CreateTemp("", "flexlog-test-*.jsonl")
	if err != nil {
		t.Fatalf("flexlog: creating test sink: %v", err)
	}
	t.Cleanup(func() {
		t.Helper()
		replayTestSink(t, f)
		name := f.Name()
		f.Close()
		os.Remove(name)
	})

	driver := &testDriver{f: f}
	appender := &Appender{ID: "test", Driver: driver, Encoder: JSONEncoder{}}
	level := FilterTrace
	g := &Graph{
		nodes: map[string]*Node{
			"": {Name: "", Level: &level, AppenderIDs: []string{"test"}, Additive: false},
		},
		appenders: map[string]*Appender{"test": appender},
	}

	h := NewHandle(g)
	h.SetErrorHandler(func(err error) { t.Errorf("flexlog: %v", err) })
	return h
}

func replayTestSink(t testing.TB, f *os.File) {
	t.Helper()
	if _, err := f.Seek(0, 0); err != nil {
		t.Errorf("flexlog: replaying test log: %v", err)
		return
	}
	t.Log("replaying application logs:")
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		t.Log(sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Errorf("flexlog: replaying test log: %v", err)
	}
}

// testDriver implements Driver over a plain *os.File, no rotation, no
// buffering decisions: TestHandle needs exactly enough to capture bytes for
// the eventual replay.
type testDriver struct {
	f *os.File
}

func (d *testDriver) Write(p []byte, _ Level) error {
	_, err := d.f.Write(p)
	return err
}

func (d *testDriver) Flush() error { return d.f.Sync() }

func (d *testDriver) Close() error { return nil }
