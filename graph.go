package flexlog

import (
	"strings"
	"sync"
)

// Node is one registered point in the logger hierarchy, keyed by its full
// dotted name ("" denotes the root).
type Node struct {
	Name        string
	Level       *LevelFilter // nil means "inherit from the nearest registered ancestor"
	AppenderIDs []string
	Additive    bool
}

// Graph is the immutable, built configuration: the logger hierarchy plus the
// appenders it references. A Graph is never mutated after Build returns it;
// a config reload swaps in a brand new one (§4.7, §4.8).
type Graph struct {
	nodes     map[string]*Node
	appenders map[string]*Appender

	cache resolutionCache

	// pinMu guards the in-flight dispatch refcount against a concurrent
	// SetConfig (§4.8 "a dispatch in flight pins the graph"). A graph that
	// is closing stops accepting new pins; its resources are torn down the
	// moment the last pinned dispatch releases it, never mid-dispatch.
	pinMu   sync.Mutex
	pins    int
	closing bool
	closed  bool
}

// acquire pins g for the duration of one dispatch. It returns false if g is
// already being closed, in which case the caller must not dispatch against
// it (the Handle will already be pointing elsewhere).
func (g *Graph) acquire() bool {
	g.pinMu.Lock()
	defer g.pinMu.Unlock()
	if g.closing {
		return false
	}
	g.pins++
	return true
}

// release unpins g, finalizing its Close if it was requested while pinned
// and this was the last pin to drain.
func (g *Graph) release() {
	g.pinMu.Lock()
	g.pins--
	finalize := g.closing && g.pins == 0 && !g.closed
	if finalize {
		g.closed = true
	}
	g.pinMu.Unlock()
	if finalize {
		if err := g.closeNow(); err != nil {
			internalLog.Error().Err(err).Msg("flexlog: deferred graph close failed")
		}
	}
}

type resolution struct {
	level     LevelFilter
	appenders []*Appender
}

// parentName returns the dotted name of name's parent, or "" for the root's
// own parent (name == "" already denotes the root).
func parentName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}

// resolve implements §4.6's two walks in a single traversal: the nearest
// explicit level wins, while appender ids accumulate from every visited node
// until a non-additive node is reached. Past that node the walk continues
// only while no level has been found yet; it always ends at the root.
func (g *Graph) resolve(target string) *resolution {
	if r, ok := g.cache.load(target); ok {
		return r
	}

	var (
		level     LevelFilter
		haveLevel bool
		ids       []string
		dedup     idDedup
	)

	cur := target
	collecting := true
	for {
		if node, ok := g.nodes[cur]; ok {
			if !haveLevel && node.Level != nil {
				level = *node.Level
				haveLevel = true
			}
			if collecting {
				for _, id := range node.AppenderIDs {
					if !dedup.seen(id) {
						dedup.add(id)
						ids = append(ids, id)
					}
				}
				if !node.Additive {
					collecting = false
				}
			}
		}
		if cur == "" || (!collecting && haveLevel) {
			break
		}
		cur = parentName(cur)
	}

	appenders := make([]*Appender, 0, len(ids))
	for _, id := range ids {
		if a, ok := g.appenders[id]; ok {
			appenders = append(appenders, a)
		}
	}

	r := &resolution{level: level, appenders: appenders}
	g.cache.store(target, r)
	return r
}

// EffectiveLevel returns the level filter that would govern an event logged
// against target, without dispatching anything. Useful for `log.Enabled`
// style call-site guards.
func (g *Graph) EffectiveLevel(target string) LevelFilter {
	return g.resolve(target).level
}

// Close releases resources (background compression workers, open file
// handles) held by every appender in the graph. Called when a Handle
// replaces this graph. If a dispatch is still pinning the graph, the actual
// teardown is deferred until that dispatch calls release (§4.8's "the old
// graph is dropped once all in-flight dispatches finish"); in that case Close
// returns nil immediately and any teardown error is reported on the internal
// error channel instead.
func (g *Graph) Close() error {
	g.pinMu.Lock()
	g.closing = true
	pending := g.pins > 0 || g.closed
	if !pending {
		g.closed = true
	}
	g.pinMu.Unlock()
	if pending {
		return nil
	}
	return g.closeNow()
}

func (g *Graph) closeNow() error {
	var first error
	for _, a := range g.appenders {
		if err := a.Driver.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
