package flexlog

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Handle is the live, swappable binding to a Graph (§4.8). All methods are
// safe for concurrent use; a Handle is always shared by pointer, never
// copied by value.
type Handle struct {
	g          atomic.Pointer[Graph]
	errHandler atomic.Pointer[func(error)]

	reloadMu sync.Mutex
	reload   *reloader // nil unless WatchFile started one
}

// NewHandle wraps an already-built Graph. Most applications use Init
// instead, which also installs the process-wide default Handle.
func NewHandle(g *Graph) *Handle {
	h := &Handle{}
	h.g.Store(g)
	def := defaultErrorHandler
	h.errHandler.Store(&def)
	return h
}

// SetConfig atomically swaps in a new Graph. The previous Graph is closed
// once dispatch against it has drained; callers don't need to coordinate
// this themselves (§4.8's "never in the middle of serving an event").
func (h *Handle) SetConfig(g *Graph) {
	old := h.g.Swap(g)
	if old != nil {
		old.Close()
	}
}

// SetErrorHandler overrides how asynchronous appender failures are reported
// (§7). The default logs to flexlog's internal channel.
func (h *Handle) SetErrorHandler(f func(error)) {
	h.errHandler.Store(&f)
}

// Graph returns the currently active configuration.
func (h *Handle) Graph() *Graph {
	return h.g.Load()
}

// Log dispatches e through the current configuration. The graph is pinned
// for the duration of the dispatch so a concurrent SetConfig can't tear down
// its appenders (background compression workers, open files) out from under
// an in-flight write (§4.8).
func (h *Handle) Log(e *Event) {
	g := h.g.Load()
	if g == nil {
		return
	}
	if !g.acquire() {
		return
	}
	defer g.release()
	eh := *h.errHandler.Load()
	g.Dispatch(e, eh)
}

// Clone returns h itself: a Handle's mutable state already lives behind
// atomic pointers, so every holder of the pointer observes the same
// configuration. Clone exists for call sites that want Arc-like "give me my
// own handle to the same live state" semantics without reading that
// guarantee off the field layout.
func (h *Handle) Clone() *Handle { return h }

var (
	globalMu     sync.Mutex
	globalHandle *Handle
)

// Init installs g as the process-wide default configuration. It returns an
// error if called more than once; use SetConfig on the returned Handle for
// every subsequent change.
func Init(g *Graph) (*Handle, error) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalHandle != nil {
		return nil, fmt.Errorf("flexlog: already initialized")
	}
	globalHandle = NewHandle(g)
	return globalHandle, nil
}

// Default returns the process-wide Handle installed by Init, or nil if Init
// has not been called.
func Default() *Handle {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalHandle
}

// resetGlobalForTest clears the process-wide Handle. Test-only.
func resetGlobalForTest() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalHandle = nil
}
