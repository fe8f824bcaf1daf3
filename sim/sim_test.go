package sim

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/sparques/irblaster"
)

func TestClockOrder(t *testing.T) {
	c := qt.New(t)

	var clk Clock
	var got []int
	clk.At(3*time.Millisecond, func() { got = append(got, 3) })
	clk.At(time.Millisecond, func() {
		got = append(got, 1)
		clk.At(2*time.Millisecond, func() { got = append(got, 2) })
	})
	clk.At(time.Millisecond, func() { got = append(got, 11) })
	clk.At(10*time.Millisecond, func() { got = append(got, 10) })

	clk.Advance(5 * time.Millisecond)
	c.Assert(got, qt.DeepEquals, []int{1, 11, 2, 3})
	c.Assert(clk.Now(), qt.Equals, 5*time.Millisecond)
	c.Assert(clk.Pending(), qt.Equals, 1)
}

func TestTimerRearm(t *testing.T) {
	c := qt.New(t)

	var clk Clock
	tm := clk.NewTimer()
	fired := 0
	var fire func()
	fire = func() {
		fired++
		if fired < 3 {
			tm.Arm(time.Millisecond, fire)
		}
	}
	tm.Arm(time.Millisecond, fire)
	tm.Arm(2*time.Millisecond, fire)
	clk.Advance(time.Millisecond)
	c.Assert(fired, qt.Equals, 0)

	clk.Advance(10 * time.Millisecond)
	c.Assert(fired, qt.Equals, 3)
	c.Assert(tm.Armed(), qt.IsFalse)

	tm.Arm(time.Millisecond, fire)
	tm.Stop()
	clk.Advance(10 * time.Millisecond)
	c.Assert(fired, qt.Equals, 3)
}

func TestReceiverToEmitter(t *testing.T) {
	c := qt.New(t)

	var clk Clock
	rx := clk.NewReceiver()
	tx := clk.NewEmitter()
	level := false
	rx.Listen(func(time.Duration) {
		level = !level
		tx.Set(level)
	})

	ss := irblaster.Samples{100, 50, 5, 5, 5, 15, 5, 0}
	end := rx.Play(time.Millisecond, ss)
	c.Assert(end, qt.Equals, time.Millisecond+185*irblaster.SampleUnit)

	clk.Advance(20 * time.Millisecond)
	c.Assert(rx.Delivered, qt.Equals, 8)
	c.Assert(tx.Bursts(12*time.Millisecond), qt.DeepEquals, []irblaster.Samples{ss})

	rx.Stop()
	rx.Play(0, ss)
	clk.Advance(20 * time.Millisecond)
	c.Assert(rx.Missed, qt.Equals, 8)
}

func TestIndicatorAdvances(t *testing.T) {
	c := qt.New(t)

	var clk Clock
	in := clk.NewIndicator()
	in.Blink(3)
	c.Assert(clk.Now(), qt.Equals, time.Second)
	c.Assert(in.Blinks, qt.DeepEquals, []int{3})
}
