// Package capture records the edge timing of one received IR frame.
//
// Every transition of the receiver output stores the time since the
// previous one as a Sample and rearms a quiet timer. When the timer
// expires the frame is complete. Problems are counted, not corrected:
// the caller discards any frame with a nonzero error count.
package capture

import (
	"time"

	"github.com/sparques/irblaster"
)

// DefaultQuiet is the inactivity window that ends a frame. It must be
// longer than any mark or space of a valid frame (10.2ms).
const DefaultQuiet = 15 * time.Millisecond

// Capture is the raw sample buffer of one frame.
type Capture struct {
	buf   [irblaster.MaxSamples + 1]irblaster.Sample
	n     int
	edges int
	last  time.Duration

	// Errors counts overlong, zero and overflowing durations.
	Errors int
}

// Reset empties the buffer for a new frame.
func (c *Capture) Reset() {
	c.n, c.edges, c.Errors = 0, 0, 0
}

// Edge records a transition at the monotonic time at. It reports
// whether this was the first edge of the frame, which only starts the
// clock.
func (c *Capture) Edge(at time.Duration) (first bool) {
	c.edges++
	prev := c.last
	c.last = at
	if c.edges == 1 {
		return true
	}

	s, ok := irblaster.SampleOf(at - prev)
	if !ok {
		// longer than 10.2ms; some protocols put a second sync in the
		// middle which would spoil the averaged timings anyway
		c.Errors++
	}
	if s == 0 {
		c.Errors++
	}
	if c.n < irblaster.MaxSamples {
		c.buf[c.n] = s
		c.n++
	} else {
		c.Errors++
	}
	return false
}

// Len is the number of samples recorded.
func (c *Capture) Len() int {
	return c.n
}

// Samples returns the recorded samples followed by a zero. The slice
// aliases the buffer and is valid until the next Reset.
func (c *Capture) Samples() irblaster.Samples {
	c.buf[c.n] = 0
	return c.buf[:c.n+1]
}

// Driver binds a Capture to the receiver edge interrupt and the quiet
// timer.
type Driver struct {
	Capture

	edges irblaster.EdgeCapture
	timer irblaster.Timer
	quiet time.Duration
	done  func(*Capture)

	onEdge  func(time.Duration)
	onQuiet func()
}

// NewDriver returns a disarmed driver. done is called from the timer
// interrupt with the completed frame; edges are already stopped.
func NewDriver(edges irblaster.EdgeCapture, timer irblaster.Timer, quiet time.Duration, done func(*Capture)) *Driver {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	d := &Driver{
		edges: edges,
		timer: timer,
		quiet: quiet,
		done:  done,
	}
	d.onEdge = d.edge
	d.onQuiet = d.complete
	return d
}

// Arm empties the buffer and starts listening for a frame.
func (d *Driver) Arm() {
	d.Reset()
	d.timer.Stop()
	d.edges.Listen(d.onEdge)
}

// Disarm stops listening and drops any partial frame.
func (d *Driver) Disarm() {
	d.edges.Stop()
	d.timer.Stop()
	d.Reset()
}

func (d *Driver) edge(at time.Duration) {
	d.Edge(at)
	d.timer.Arm(d.quiet, d.onQuiet)
}

func (d *Driver) complete() {
	d.edges.Stop()
	d.done(&d.Capture)
}
