//go:build tinygo

package board

import "time"

// Timer is a one-shot timer on the runtime scheduler. It implements
// irblaster.Timer.
type Timer struct {
	t *time.Timer
}

func (t *Timer) Arm(d time.Duration, fire func()) {
	t.Stop()
	t.t = time.AfterFunc(d, fire)
}

func (t *Timer) Stop() {
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
}
