package flexlog

import "time"

// Policy is the §4.5 "compound" policy: a single trigger paired with a
// single roller. It is the only policy kind flexlog defines.
type Policy struct {
	Trigger Trigger
	Roller  Roller
}

// Evaluate reports whether a rotation must happen before a pending write of
// n bytes.
func (p *Policy) Evaluate(now time.Time, curSize int64, pending int) bool {
	return p.Trigger.Evaluate(now, curSize, pending)
}

// Rotate performs the rotation and informs the trigger it completed.
func (p *Policy) Rotate(now time.Time, activePath string) error {
	if err := p.Roller.Rotate(activePath); err != nil {
		return err
	}
	p.Trigger.Rotated(now)
	return nil
}

// Close releases any resources (background compression workers) held by the
// roller.
func (p *Policy) Close() error {
	return p.Roller.Close()
}
