package capture

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/sparques/irblaster"
	"github.com/sparques/irblaster/protocol"
	"github.com/sparques/irblaster/sim"
)

const us = time.Microsecond

func TestEdgeDurations(t *testing.T) {
	c := qt.New(t)

	var cp Capture
	c.Assert(cp.Edge(1000*us), qt.IsTrue)
	c.Assert(cp.Edge(1400*us), qt.IsFalse)
	cp.Edge(1479 * us) // truncates to 1
	cp.Edge(2479 * us)
	c.Assert(cp.Errors, qt.Equals, 0)
	c.Assert(cp.Samples(), qt.DeepEquals, irblaster.Samples{10, 1, 25, 0})
}

func TestEdgeErrors(t *testing.T) {
	c := qt.New(t)

	c.Run("overlong saturates", func(c *qt.C) {
		var cp Capture
		cp.Edge(0)
		cp.Edge(11 * time.Millisecond)
		c.Assert(cp.Errors, qt.Equals, 1)
		c.Assert(cp.Samples(), qt.DeepEquals, irblaster.Samples{irblaster.MaxSample, 0})
	})
	c.Run("zero", func(c *qt.C) {
		var cp Capture
		cp.Edge(0)
		cp.Edge(39 * us)
		c.Assert(cp.Errors, qt.Equals, 1)
		c.Assert(cp.Len(), qt.Equals, 1)
	})
	c.Run("overflow truncates", func(c *qt.C) {
		var cp Capture
		at := time.Duration(0)
		for i := 0; i <= irblaster.MaxSamples+3; i++ {
			cp.Edge(at)
			at += 200 * us
		}
		c.Assert(cp.Len(), qt.Equals, irblaster.MaxSamples)
		c.Assert(cp.Errors, qt.Equals, 3)
		c.Assert(cp.Samples(), qt.HasLen, irblaster.MaxSamples+1)
	})
	c.Run("reset", func(c *qt.C) {
		var cp Capture
		cp.Edge(0)
		cp.Edge(0)
		cp.Reset()
		c.Assert(cp.Errors, qt.Equals, 0)
		c.Assert(cp.Edge(5*time.Millisecond), qt.IsTrue)
		c.Assert(cp.Len(), qt.Equals, 0)
	})
}

func TestDriverFrame(t *testing.T) {
	c := qt.New(t)

	var clk sim.Clock
	rx := clk.NewReceiver()
	var frames []irblaster.Samples
	d := NewDriver(rx, clk.NewTimer(), 0, func(cp *Capture) {
		frames = append(frames, append(irblaster.Samples(nil), cp.Samples()...))
	})

	r := protocol.NEC{Addr: 0x12, Cmd: 0x34}.Record()
	want := irblaster.Samples{225, 112}
	for i := 0; i < 32; i++ {
		if r.Send>>i&1 == 1 {
			want = append(want, 14, 42)
		} else {
			want = append(want, 14, 14)
		}
	}
	want = append(want, 14, 0)

	d.Arm()
	end := rx.Play(time.Millisecond, want)

	// still inside the quiet window: nothing yet
	clk.Advance(end - clk.Now() + DefaultQuiet - us)
	c.Assert(frames, qt.HasLen, 0)

	clk.Advance(us)
	c.Assert(frames, qt.DeepEquals, []irblaster.Samples{want})
	c.Assert(d.Errors, qt.Equals, 0)
	c.Assert(rx.Listening(), qt.IsFalse)

	// edges after completion are not recorded until rearmed
	rx.Play(0, want)
	clk.Advance(100 * time.Millisecond)
	c.Assert(frames, qt.HasLen, 1)
	c.Assert(rx.Missed, qt.Equals, len(want))

	d.Arm()
	rx.Play(0, want)
	d.Disarm()
	clk.Advance(100 * time.Millisecond)
	c.Assert(frames, qt.HasLen, 1)
	c.Assert(d.Len(), qt.Equals, 0)
}
