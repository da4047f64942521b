package flexlog

import "testing"

type constFilter FilterResult

func (f constFilter) Filter(*Event) FilterResult { return FilterResult(f) }

func TestRunFiltersFirstNonNeutralWins(t *testing.T) {
	e := &Event{Target: "x", Level: LevelInfo}
	cases := []struct {
		name string
		fs   []Filter
		want FilterResult
	}{
		{"empty", nil, Accept},
		{"all neutral", []Filter{constFilter(Neutral), constFilter(Neutral)}, Accept},
		{"deny then accept", []Filter{constFilter(Deny), constFilter(Accept)}, Deny},
		{"accept then deny", []Filter{constFilter(Accept), constFilter(Deny)}, Accept},
		{"neutral then deny", []Filter{constFilter(Neutral), constFilter(Deny)}, Deny},
	}
	for _, c := range cases {
		if got := runFilters(c.fs, e); got != c.want {
			t.Errorf("%s: runFilters = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestThresholdFilter(t *testing.T) {
	f := ThresholdFilter{Level: FilterWarn}
	accepted := &Event{Level: LevelError}
	denied := &Event{Level: LevelInfo}
	if f.Filter(accepted) != Accept {
		t.Errorf("error event should pass a warn threshold")
	}
	if f.Filter(denied) != Deny {
		t.Errorf("info event should be denied by a warn threshold")
	}
}
