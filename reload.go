package flexlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// reloader polls a config file's mtime on a fixed interval and rebuilds the
// Graph when it changes (§4.8: a timer, not an inotify watch — a config
// edited by deploy tooling between poll boundaries is allowed to age out
// one extra tick). A failed rebuild leaves the active configuration
// untouched and is reported on flexlog's internal error channel, never
// through the Handle's user-pluggable error handler: reload failures and
// emission failures are two distinct channels (§7), and an application that
// overrides SetErrorHandler to page on emission trouble should not also
// start receiving config-parse noise through it.
type reloader struct {
	path     string
	format   Format
	registry *Deserializers
	handle   *Handle

	stop chan struct{}
	wg   sync.WaitGroup

	lastMod time.Time
}

// WatchFile starts polling path every refreshRate and hot-swaps h's
// configuration whenever the file's mtime advances. Calling WatchFile again
// replaces any watch already running on h.
func (h *Handle) WatchFile(path string, format Format, registry *Deserializers, refreshRate time.Duration) error {
	if registry == nil {
		registry = DefaultDeserializers
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("flexlog: watching %q: %w", path, err)
	}

	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
	if h.reload != nil {
		h.reload.close()
	}

	r := &reloader{
		path:     path,
		format:   format,
		registry: registry,
		handle:   h,
		stop:     make(chan struct{}),
		lastMod:  info.ModTime(),
	}
	h.reload = r
	r.wg.Add(1)
	go r.run(refreshRate)
	return nil
}

// StopWatch stops any reload loop started by WatchFile. Idempotent.
func (h *Handle) StopWatch() {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
	if h.reload != nil {
		h.reload.close()
		h.reload = nil
	}
}

func (r *reloader) run(refreshRate time.Duration) {
	defer r.wg.Done()
	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *reloader) tick() {
	info, err := os.Stat(r.path)
	if err != nil {
		r.reportError(fmt.Errorf("flexlog: reload: stat %q: %w", r.path, err))
		return
	}
	if !info.ModTime().After(r.lastMod) {
		return
	}

	g, err := LoadFile(r.path, r.format, r.registry, r.currentErrorHandler())
	if err != nil {
		r.reportError(fmt.Errorf("flexlog: reload: %w", err))
		return
	}
	r.lastMod = info.ModTime()
	r.handle.SetConfig(g)
}

func (r *reloader) currentErrorHandler() func(error) {
	return *r.handle.errHandler.Load()
}

// reportError always goes to the internal channel, not r.currentErrorHandler
// (that handler is reserved for emission failures from the active graph's
// own appenders, per §7).
func (r *reloader) reportError(err error) {
	internalLog.Error().Err(err).Msg("flexlog: config reload failed")
}

func (r *reloader) close() {
	close(r.stop)
	r.wg.Wait()
}
