package flexlog

import (
	"context"
	"time"
)

// KV is a single ordered key-value pair attached to an event by the caller.
type KV struct {
	Key   string
	Value string
}

// Event is the immutable record handed down from the host application's
// logging facade to the dispatcher. Everything in it is produced upstream:
// flexlog never formats the message itself, it only routes and renders
// already-formatted bytes.
type Event struct {
	// Time carries both the wall clock reading and (because it was produced
	// by time.Now) an internal monotonic reading used only for ordering,
	// never rendered.
	Time time.Time

	Level  Level
	Target string // dotted logger name, e.g. "app.backend.db"

	File   string
	Line   int
	Module string

	ThreadID   int64
	ThreadName string
	PID        int

	Message string

	// MDC is the mapped-diagnostic-context map, rendered by {X(key)} and the
	// JSON encoder's optional "mdc" object.
	MDC map[string]string

	// KeyValues is the ordered key-value list, rendered by {K}/{kv} and the
	// JSON encoder's optional "key_value_pairs" object.
	KeyValues []KV
}

// NewEvent builds an Event for target at level, stamped with the current
// time and populated with any MDC accumulated on ctx via ContextWithValues.
// Call-site metadata (File/Line/Module/ThreadID/...) is the caller's
// responsibility to fill in afterward; flexlog's own facade is minimal by
// design (§1 treats the call-site-macro layer as out of scope).
func NewEvent(ctx context.Context, target string, level Level, message string) *Event {
	return &Event{
		Time:    time.Now(),
		Level:   level,
		Target:  target,
		Message: message,
		MDC:     MDCFromContext(ctx),
	}
}

// mdcValue looks up a single MDC key, returning "" if absent or if the event
// carries no MDC at all. Per §8, malformed/absent MDC keys fall back to
// empty rather than failing rendering.
func (e *Event) mdcValue(key string) string {
	if e.MDC == nil {
		return ""
	}
	return e.MDC[key]
}
