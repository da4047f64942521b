package flexlog

import "fmt"

// Driver is a sink that receives already-encoded bytes for one event. level
// is passed through so drivers that flush conditionally on severity (the
// console driver, per §4.4) don't need a second interface method.
type Driver interface {
	Write(p []byte, level Level) error
	// Flush forces any buffered bytes out to the underlying resource.
	Flush() error
	// Close releases resources owned by the driver (file handles,
	// background workers). Called when the driver's graph is dropped.
	Close() error
}

// Appender is a named sink: one driver, filters applied in declaration
// order, and exactly one encoder (§3).
type Appender struct {
	ID      string
	Driver  Driver
	Filters []Filter
	Encoder Encoder

	// raw retains the document this appender was built from so Graph.Document
	// can round-trip a built configuration back to its declarative form.
	// Zero value for appenders constructed programmatically.
	raw RawAppender
}

// dispatch applies the appender's filters and, on Accept or Neutral,
// encodes and writes the event. Emission errors are handed to errHandler
// rather than returned, per §7: one failing appender must not block the
// others in the fan-out.
func (a *Appender) dispatch(e *Event, errHandler func(error)) {
	if runFilters(a.Filters, e) == Deny {
		return
	}
	b := newBuffer()
	defer b.Release()
	a.Encoder.Encode(b, e)
	if err := a.Driver.Write(b.Bytes(), e.Level); err != nil {
		errHandler(fmt.Errorf("flexlog: appender %q: %w", a.ID, err))
	}
}
