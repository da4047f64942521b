package flexlog

import (
	"os"
	"testing"
	"time"
)

func buildTestGraph(t *testing.T, level string) *Graph {
	t.Helper()
	lvl := mustLevel(level)
	return &Graph{
		nodes:     map[string]*Node{"": {Name: "", Level: lvl, AppenderIDs: nil, Additive: false}},
		appenders: map[string]*Appender{},
	}
}

func TestHandleSetConfigSwapsAtomically(t *testing.T) {
	h := NewHandle(buildTestGraph(t, "info"))
	if h.Graph().EffectiveLevel("x") != FilterInfo {
		t.Fatalf("unexpected initial level")
	}
	h.SetConfig(buildTestGraph(t, "debug"))
	if h.Graph().EffectiveLevel("x") != FilterDebug {
		t.Fatalf("SetConfig did not take effect")
	}
}

func TestHandleSetErrorHandlerOverridesDefault(t *testing.T) {
	h := NewHandle(buildTestGraph(t, "info"))
	var got error
	h.SetErrorHandler(func(err error) { got = err })

	rootAppender, _ := appenderWith("root")
	rootAppender.Driver = failingDriver{}
	g := &Graph{
		nodes:     map[string]*Node{"": {Name: "", Level: mustLevel("info"), AppenderIDs: []string{"root"}, Additive: false}},
		appenders: map[string]*Appender{"root": rootAppender},
	}
	h.SetConfig(g)

	h.Log(&Event{Target: "x", Level: LevelInfo, Message: "boom"})
	if got == nil {
		t.Fatalf("expected the custom error handler to be invoked")
	}
}

type failingDriver struct{}

func (failingDriver) Write([]byte, Level) error { return errBoom }
func (failingDriver) Flush() error              { return nil }
func (failingDriver) Close() error              { return nil }

var errBoom = &ConfigError{Err: errBoomInner{}}

type errBoomInner struct{}

func (errBoomInner) Error() string { return "boom" }

func TestInitOnlySucceedsOnce(t *testing.T) {
	resetGlobalForTest()
	defer resetGlobalForTest()

	h, err := Init(buildTestGraph(t, "info"))
	if err != nil || h == nil {
		t.Fatalf("first Init should succeed, got %v, %v", h, err)
	}
	if _, err := Init(buildTestGraph(t, "info")); err == nil {
		t.Fatalf("second Init should fail")
	}
	if Default() != h {
		t.Fatalf("Default should return the handle installed by Init")
	}
}

// blockingDriver lets a test hold a dispatch open mid-Write so a concurrent
// SetConfig can be exercised against it.
type blockingDriver struct {
	release chan struct{}
	closed  chan struct{}
}

func (d *blockingDriver) Write(p []byte, _ Level) error {
	<-d.release
	return nil
}
func (d *blockingDriver) Flush() error { return nil }
func (d *blockingDriver) Close() error { close(d.closed); return nil }

func TestHandleLogPinsGraphAcrossConcurrentSetConfig(t *testing.T) {
	drv := &blockingDriver{release: make(chan struct{}), closed: make(chan struct{})}
	appender := &Appender{ID: "slow", Driver: drv, Encoder: literalEncoder{}}
	g := &Graph{
		nodes:     map[string]*Node{"": {Name: "", Level: mustLevel("info"), AppenderIDs: []string{"slow"}, Additive: false}},
		appenders: map[string]*Appender{"slow": appender},
	}
	h := NewHandle(g)

	dispatchDone := make(chan struct{})
	go func() {
		h.Log(&Event{Target: "x", Level: LevelInfo, Message: "hi"})
		close(dispatchDone)
	}()

	// Give the dispatch goroutine a chance to load g and enter Write before
	// swapping the configuration out from under it.
	time.Sleep(10 * time.Millisecond)
	h.SetConfig(buildTestGraph(t, "debug"))

	select {
	case <-drv.closed:
		t.Fatalf("driver closed while its dispatch was still blocked in Write")
	default:
	}

	close(drv.release)

	select {
	case <-dispatchDone:
	case <-time.After(time.Second):
		t.Fatalf("blocked dispatch never completed")
	}
	select {
	case <-drv.closed:
	case <-time.After(time.Second):
		t.Fatalf("driver was never closed after the dispatch released its pin")
	}
}

func TestWatchFileReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	write := func(level string) {
		doc := "root:\n  level: " + level + "\n  appenders: []\nappenders: {}\n"
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("info")

	g, err := LoadFile(path, FormatYAML, nil, defaultErrorHandler)
	if err != nil {
		t.Fatalf("initial load: %v", err)
	}
	h := NewHandle(g)
	if err := h.WatchFile(path, FormatYAML, nil, 20*time.Millisecond); err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer h.StopWatch()

	time.Sleep(10 * time.Millisecond)
	write("debug")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.Graph().EffectiveLevel("x") == FilterDebug {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("reload did not pick up the file change within the deadline")
}
