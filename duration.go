package flexlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDurationParts parses the §6 human duration grammar: "N unit[s]", or a
// bare integer meaning seconds. The unit returned is singular and
// lower-cased ("second", "hour", "month", ...).
func parseDurationParts(s string) (amount int, unit string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", fmt.Errorf("flexlog: empty duration")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, "second", nil
	}
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, "", fmt.Errorf("flexlog: malformed duration %q", s)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", fmt.Errorf("flexlog: malformed duration %q: %w", s, err)
	}
	unit = strings.ToLower(strings.TrimSuffix(fields[1], "s"))
	return n, unit, nil
}

// parseRefreshRate converts a §6 duration string, such as
// RawConfig.RefreshRate, into a concrete time.Duration of the kind WatchFile
// takes. Nothing in the package calls it: WatchFile receives its interval
// from the caller and does not read RefreshRate. Calendar units (months,
// years) use a fixed approximation (30 and 365 days) since a ticker needs a
// concrete interval.
func parseRefreshRate(s string) (time.Duration, error) {
	n, unit, err := parseDurationParts(s)
	if err != nil {
		return 0, err
	}
	per, ok := map[string]time.Duration{
		"nano": time.Nanosecond, "nanosecond": time.Nanosecond,
		"micro": time.Microsecond, "microsecond": time.Microsecond,
		"milli": time.Millisecond, "millisecond": time.Millisecond,
		"second": time.Second,
		"minute": time.Minute,
		"hour":   time.Hour,
		"day":    24 * time.Hour,
		"week":   7 * 24 * time.Hour,
		"month":  30 * 24 * time.Hour,
		"year":   365 * 24 * time.Hour,
	}[unit]
	if !ok {
		return 0, fmt.Errorf("flexlog: unrecognized duration unit %q", unit)
	}
	return time.Duration(n) * per, nil
}
