package flexlog

import "github.com/cespare/xxhash/v2"

// idDedup is an allocation-frugal set of appender ids, used on the dispatch
// hot path to satisfy the §4.6 invariant that an event reaches any given
// appender at most once per emission even when several ancestors in the
// additive chain reference it.
//
// The common case (a handful of appenders per logger) never allocates: the
// hashes live in an inline array. Pathological configs with many distinct
// appenders on one ancestor chain spill into the map.
type idDedup struct {
	hashes [8]uint64
	n      int
	extra  map[uint64]struct{}
}

func (d *idDedup) seen(id string) bool {
	h := xxhash.Sum64String(id)
	for i := 0; i < d.n; i++ {
		if d.hashes[i] == h {
			return true
		}
	}
	if d.extra != nil {
		_, ok := d.extra[h]
		return ok
	}
	return false
}

// add records id as seen. It is the caller's responsibility to have already
// checked seen(id); add does not itself dedupe.
func (d *idDedup) add(id string) {
	h := xxhash.Sum64String(id)
	if d.n < len(d.hashes) {
		d.hashes[d.n] = h
		d.n++
		return
	}
	if d.extra == nil {
		d.extra = make(map[uint64]struct{})
	}
	d.extra[h] = struct{}{}
}
