package flexlog

// Dispatch routes e through the hierarchy: it resolves e.Target's effective
// level and appender set, drops the event if the level filter denies it, and
// otherwise hands e to every resolved appender in turn (§4.6).
//
// A single event fans out to the same appender at most once even if it is
// reachable through more than one ancestor (the dedup invariant of §4.6).
func (g *Graph) Dispatch(e *Event, errHandler func(error)) {
	r := g.resolve(e.Target)
	if !r.level.Permits(e.Level) {
		return
	}
	for _, a := range r.appenders {
		a.dispatch(e, errHandler)
	}
}
