package flexlog

// FilterResult is the tri-valued outcome of a filter (§4.3).
type FilterResult int8

const (
	Neutral FilterResult = iota
	Accept
	Deny
)

// Filter is a per-appender predicate evaluated in declaration order before
// an event is encoded. The first non-Neutral result wins; no filters means
// Accept.
type Filter interface {
	Filter(e *Event) FilterResult
}

// runFilters applies fs left to right, returning the first non-Neutral
// result, or Accept if every filter abstained (or there were none).
func runFilters(fs []Filter, e *Event) FilterResult {
	for _, f := range fs {
		if r := f.Filter(e); r != Neutral {
			return r
		}
	}
	return Accept
}

// ThresholdFilter is the only built-in filter kind: accept events at least
// as severe as the configured level, deny the rest.
type ThresholdFilter struct {
	Level LevelFilter
}

// Filter implements Filter.
func (t ThresholdFilter) Filter(e *Event) FilterResult {
	if t.Level.Permits(e.Level) {
		return Accept
	}
	return Deny
}
