package sim

import (
	"time"

	"github.com/sparques/irblaster"
)

// Receiver plays scheduled edges into whoever is listening. It
// implements irblaster.EdgeCapture.
type Receiver struct {
	c      *Clock
	listen func(time.Duration)

	// Delivered and Missed count edges that did and did not find a listener.
	Delivered int
	Missed    int
}

func (c *Clock) NewReceiver() *Receiver {
	return &Receiver{c: c}
}

func (r *Receiver) Listen(edge func(at time.Duration)) {
	r.listen = edge
}

func (r *Receiver) Stop() {
	r.listen = nil
}

// Listening reports whether edges are being delivered.
func (r *Receiver) Listening() bool {
	return r.listen != nil
}

func (r *Receiver) deliver() {
	if r.listen == nil {
		r.Missed++
		return
	}
	r.Delivered++
	r.listen(r.c.now)
}

// Play schedules one edge after delay and one more at the end of every
// sample in ss, stopping at the first zero. It returns the absolute time
// of the last edge.
func (r *Receiver) Play(after time.Duration, ss irblaster.Samples) time.Duration {
	at := r.c.now + after
	r.c.At(at, r.deliver)
	for _, s := range ss[:ss.Len()] {
		at += s.Duration()
		r.c.At(at, r.deliver)
	}
	return at
}

// PlayFrame is Play for anything that marshals to mark/space pairs.
func (r *Receiver) PlayFrame(after time.Duration, fm irblaster.FrameMarshaller) time.Duration {
	at := r.c.now + after
	r.c.At(at, r.deliver)
	for _, p := range fm.MarshalFrame() {
		for _, d := range p {
			if d == 0 {
				break
			}
			at += d
			r.c.At(at, r.deliver)
		}
	}
	return at
}

// Level is one transition of the emitter.
type Level struct {
	At   time.Duration
	Mark bool
}

// Emitter records carrier transitions. It implements irblaster.OutputLine.
type Emitter struct {
	c       *Clock
	mark    bool
	Changes []Level
}

func (c *Clock) NewEmitter() *Emitter {
	return &Emitter{c: c}
}

func (e *Emitter) Set(mark bool) {
	if mark == e.mark {
		return
	}
	e.mark = mark
	e.Changes = append(e.Changes, Level{At: e.c.now, Mark: mark})
}

// Mark reports whether the carrier is on.
func (e *Emitter) Mark() bool {
	return e.mark
}

// Bursts converts the recorded transitions into sample sequences as a
// receiver would see them, splitting wherever a space is longer than
// quiet. Each burst is zero terminated.
func (e *Emitter) Bursts(quiet time.Duration) []irblaster.Samples {
	var (
		out   []irblaster.Samples
		burst irblaster.Samples
	)
	for i := 1; i < len(e.Changes); i++ {
		d := e.Changes[i].At - e.Changes[i-1].At
		if !e.Changes[i-1].Mark && d > quiet {
			out = append(out, append(burst, 0))
			burst = nil
			continue
		}
		s, _ := irblaster.SampleOf(d)
		burst = append(burst, s)
	}
	if len(burst) > 0 {
		out = append(out, append(burst, 0))
	}
	return out
}

// Indicator records operator feedback. Blink advances the clock by the
// time the pulses take, the way a busy indicator holds up its caller.
type Indicator struct {
	c     *Clock
	Pulse time.Duration
	Gap   time.Duration

	Blinks  []int
	Toggles int
}

func (c *Clock) NewIndicator() *Indicator {
	return &Indicator{c: c, Pulse: 100 * time.Millisecond, Gap: 400 * time.Millisecond}
}

func (in *Indicator) Blink(count int) {
	in.Blinks = append(in.Blinks, count)
	in.c.Advance(time.Duration(count)*2*in.Pulse + in.Gap)
}

func (in *Indicator) Toggle() {
	in.Toggles++
}

var (
	_ irblaster.EdgeCapture = (*Receiver)(nil)
	_ irblaster.OutputLine  = (*Emitter)(nil)
	_ irblaster.Indicator   = (*Indicator)(nil)
)
