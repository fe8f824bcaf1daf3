// Package sim is a simulated hardware backend. A virtual Clock drives
// timers and scheduled receiver edges so the real-time core can be run
// deterministically on a host.
package sim

import (
	"time"

	"github.com/sparques/irblaster"
)

type event struct {
	at    time.Duration
	seq   int
	fire  func()
	timer *Timer
}

// Clock is a virtual monotonic clock. Nothing happens until Advance.
type Clock struct {
	now    time.Duration
	seq    int
	events []*event
}

// Now returns the current virtual time.
func (c *Clock) Now() time.Duration {
	return c.now
}

// At schedules fn at the absolute virtual time at.
func (c *Clock) At(at time.Duration, fn func()) {
	c.schedule(at, fn)
}

func (c *Clock) schedule(at time.Duration, fn func()) *event {
	if at < c.now {
		at = c.now
	}
	c.seq++
	ev := &event{at: at, seq: c.seq, fire: fn}
	c.events = append(c.events, ev)
	return ev
}

func (c *Clock) cancel(ev *event) {
	for i, e := range c.events {
		if e == ev {
			c.events = append(c.events[:i], c.events[i+1:]...)
			return
		}
	}
}

// next removes and returns the earliest event due by until.
func (c *Clock) next(until time.Duration) *event {
	best := -1
	for i, e := range c.events {
		if e.at > until {
			continue
		}
		if best < 0 || e.at < c.events[best].at || (e.at == c.events[best].at && e.seq < c.events[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	ev := c.events[best]
	c.events = append(c.events[:best], c.events[best+1:]...)
	return ev
}

// Advance moves time forward by d, firing every event that falls due in
// order. Events scheduled by fired events are honoured if they fall
// within d.
func (c *Clock) Advance(d time.Duration) {
	until := c.now + d
	for ev := c.next(until); ev != nil; ev = c.next(until) {
		c.now = ev.at
		if ev.timer != nil && ev.timer.ev == ev {
			ev.timer.ev = nil
		}
		ev.fire()
	}
	c.now = until
}

// Pending returns the number of scheduled events.
func (c *Clock) Pending() int {
	return len(c.events)
}

// Timer is a simulated one-shot timer. It implements irblaster.Timer.
type Timer struct {
	c  *Clock
	ev *event
}

func (c *Clock) NewTimer() *Timer {
	return &Timer{c: c}
}

func (t *Timer) Arm(d time.Duration, fire func()) {
	t.Stop()
	t.ev = t.c.schedule(t.c.now+d, fire)
	t.ev.timer = t
}

func (t *Timer) Stop() {
	if t.ev != nil {
		t.c.cancel(t.ev)
		t.ev = nil
	}
}

// Armed reports whether an expiry is pending.
func (t *Timer) Armed() bool {
	return t.ev != nil
}

var _ irblaster.Timer = (*Timer)(nil)
