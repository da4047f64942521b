package flexlog

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Trigger is evaluated before every write to decide whether a rotation must
// happen first (§4.5).
type Trigger interface {
	// Evaluate runs under the appender's mutex.
	Evaluate(now time.Time, curSize int64, pending int) bool
	// Rotated is called after a rotation completes, so time-based triggers
	// can compute their next boundary.
	Rotated(now time.Time)
}

// SizeTrigger fires when curSize+pending would exceed Limit.
type SizeTrigger struct {
	Limit int64
}

// ParseSize parses a byte size with the units from §4.5: b/kb/kib/mb/mib/
// gb/gib/tb/tib, case-insensitive, kb=1000 and kib=1024.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	units := []struct {
		suffix string
		mult   int64
	}{
		{"kib", 1 << 10}, {"mib", 1 << 20}, {"gib", 1 << 30}, {"tib", 1 << 40},
		{"kb", 1000}, {"mb", 1000 * 1000}, {"gb", 1000 * 1000 * 1000}, {"tb", 1000 * 1000 * 1000 * 1000},
		{"b", 1},
	}
	for _, u := range units {
		if strings.HasSuffix(lower, u.suffix) {
			numPart := strings.TrimSpace(lower[:len(lower)-len(u.suffix)])
			if numPart == "" {
				continue
			}
			var n int64
			if _, err := fmt.Sscanf(numPart, "%d", &n); err != nil {
				return 0, fmt.Errorf("flexlog: invalid size %q: %w", s, err)
			}
			return n * u.mult, nil
		}
	}
	return 0, fmt.Errorf("flexlog: unrecognized size unit in %q", s)
}

// Evaluate implements Trigger.
func (t *SizeTrigger) Evaluate(_ time.Time, curSize int64, pending int) bool {
	return curSize+int64(pending) > t.Limit
}

// Rotated implements Trigger.
func (t *SizeTrigger) Rotated(time.Time) {}

// OnStartupTrigger fires exactly once per process lifetime, the first time
// it is evaluated, if the active file exists with size >= MinSize.
type OnStartupTrigger struct {
	MinSize int64
	checked bool
}

// NewOnStartupTrigger applies the §4.5 default of MinSize=1.
func NewOnStartupTrigger(minSize int64) *OnStartupTrigger {
	if minSize <= 0 {
		minSize = 1
	}
	return &OnStartupTrigger{MinSize: minSize}
}

// Evaluate implements Trigger.
func (t *OnStartupTrigger) Evaluate(_ time.Time, curSize int64, _ int) bool {
	if t.checked {
		return false
	}
	t.checked = true
	return curSize >= t.MinSize
}

// Rotated implements Trigger.
func (t *OnStartupTrigger) Rotated(time.Time) {}

// TimeTrigger fires once wall-clock time reaches the next computed
// boundary.
type TimeTrigger struct {
	amount       int
	unit         string
	modulate     bool
	maxRandDelay time.Duration

	next      time.Time
	forceOnce bool
}

// NewTimeTrigger builds a time trigger. path is the active file's path: if
// it exists with an mtime before the current interval's boundary start, the
// trigger is armed to fire on its very first Evaluate call (§4.5's startup
// catch-up rule for a stale file).
func NewTimeTrigger(path string, amount int, unit string, modulate bool, maxRandomDelaySec int, now time.Time) (*TimeTrigger, error) {
	if amount <= 0 {
		amount = 1
	}
	if !validTimeUnit(unit) {
		return nil, fmt.Errorf("flexlog: unrecognized duration unit %q", unit)
	}
	t := &TimeTrigger{
		amount:       amount,
		unit:         unit,
		modulate:     modulate,
		maxRandDelay: time.Duration(maxRandomDelaySec) * time.Second,
	}

	boundaryStart, boundaryEnd := t.boundaries(now)
	t.next = boundaryEnd
	if t.maxRandDelay > 0 {
		t.next = t.next.Add(time.Duration(rand.Int63n(int64(t.maxRandDelay) + 1)))
	}

	stale, err := mtimeBefore(path, boundaryStart)
	if err != nil {
		return nil, err
	}
	if stale {
		t.forceOnce = true
	}
	return t, nil
}

func validTimeUnit(u string) bool {
	switch u {
	case "second", "minute", "hour", "day", "week", "month", "year":
		return true
	}
	return false
}

// boundaries returns the start of the current period containing now, and
// the start of the next period (the rotation boundary), honoring Modulate
// alignment when requested.
func (t *TimeTrigger) boundaries(now time.Time) (start, next time.Time) {
	if !t.modulate {
		if t.unitDuration() <= 0 {
			return now, t.addUnits(now, 1)
		}
		return now, now.Add(t.unitDuration())
	}
	origin := t.origin(now)
	step := t.unitDuration()
	if step <= 0 {
		// month/year: step by whole calendar units instead of a fixed
		// Duration, since months/years vary in length.
		cursor := origin
		for !cursor.After(now) {
			start = cursor
			cursor = t.addUnits(cursor, 1)
		}
		return start, cursor
	}
	elapsed := now.Sub(origin)
	chunks := elapsed / step
	start = origin.Add(chunks * step)
	next = start.Add(step)
	return start, next
}

func (t *TimeTrigger) origin(now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()
	switch t.unit {
	case "week":
		wd := int(now.Weekday())
		if wd == 0 { // ISO-8601 weeks start Monday.
			wd = 7
		}
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return dayStart.AddDate(0, 0, -(wd - 1))
	case "month":
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case "year":
		return time.Date(y, 1, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// unitDuration returns a fixed Duration for the unit, or 0 for month/year
// (handled separately since they're calendar-variable).
func (t *TimeTrigger) unitDuration() time.Duration {
	switch t.unit {
	case "second":
		return time.Duration(t.amount) * time.Second
	case "minute":
		return time.Duration(t.amount) * time.Minute
	case "hour":
		return time.Duration(t.amount) * time.Hour
	case "day":
		return time.Duration(t.amount) * 24 * time.Hour
	case "week":
		return time.Duration(t.amount) * 7 * 24 * time.Hour
	default:
		return 0
	}
}

func (t *TimeTrigger) addUnits(base time.Time, n int) time.Time {
	switch t.unit {
	case "month":
		return base.AddDate(0, t.amount*n, 0)
	case "year":
		return base.AddDate(t.amount*n, 0, 0)
	default:
		return base.Add(t.unitDuration() * time.Duration(n))
	}
}

// Evaluate implements Trigger.
func (t *TimeTrigger) Evaluate(now time.Time, _ int64, _ int) bool {
	if t.forceOnce {
		return true
	}
	return !now.Before(t.next)
}

// Rotated implements Trigger.
func (t *TimeTrigger) Rotated(now time.Time) {
	t.forceOnce = false
	_, next := t.boundaries(now)
	if t.maxRandDelay > 0 {
		next = next.Add(time.Duration(rand.Int63n(int64(t.maxRandDelay) + 1)))
	}
	t.next = next
}
