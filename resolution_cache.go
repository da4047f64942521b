package flexlog

import "sync"

// resolutionCache memoizes Graph.resolve by target name. A Graph is
// immutable once built, so entries never go stale for that Graph's lifetime.
type resolutionCache struct {
	m sync.Map
}

func (c *resolutionCache) load(target string) (*resolution, bool) {
	v, ok := c.m.Load(target)
	if !ok {
		return nil, false
	}
	return v.(*resolution), true
}

func (c *resolutionCache) store(target string, r *resolution) {
	c.m.Store(target, r)
}
