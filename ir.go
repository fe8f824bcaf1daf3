// Package irblaster holds the types shared by the infrared translator:
// compressed duration samples, learned code records and the hardware
// capabilities the real-time core is built on.
package irblaster

import "time"

const (
	// Freq38Khz is the most commonly used frequency for IR remotes
	Freq38Khz = 38000

	// SampleUnit is the duration of one Sample count.
	SampleUnit = 40 * time.Microsecond

	// MaxSample is the longest duration a Sample can hold (10.2ms).
	MaxSample Sample = 255

	// MaxSamples is the capacity of a capture or transmit buffer, not
	// counting the terminating zero: 2 sync, 32 bit pairs and a stop.
	MaxSamples = 67
)

// Sample is a pulse or space duration in SampleUnit counts.
// Zero is reserved as the end-of-sequence sentinel.
type Sample uint8

// SampleOf compresses d into a Sample. ok is false when d does not fit,
// in which case the result saturates at MaxSample.
func SampleOf(d time.Duration) (s Sample, ok bool) {
	n := d / SampleUnit
	if n > time.Duration(MaxSample) {
		return MaxSample, false
	}
	return Sample(n), true
}

// Duration expands s back to a time.Duration.
func (s Sample) Duration() time.Duration {
	return time.Duration(s) * SampleUnit
}

// Samples is a sequence alternating mark, space, mark, ... optionally
// terminated by a zero.
type Samples []Sample

// Len returns the number of samples before the first zero.
func (ss Samples) Len() int {
	for i, s := range ss {
		if s == 0 {
			return i
		}
	}
	return len(ss)
}

// TimePair encodes two durations used to encode an on-off or off-on amount of time.
type TimePair [2]time.Duration

// Pairs groups the samples into mark/space pairs. A trailing mark with
// no space gets a zero space.
func (ss Samples) Pairs() []TimePair {
	n := ss.Len()
	out := make([]TimePair, 0, (n+1)/2)
	for i := 0; i < n; i += 2 {
		p := TimePair{ss[i].Duration(), 0}
		if i+1 < n {
			p[1] = ss[i+1].Duration()
		}
		out = append(out, p)
	}
	return out
}

// FrameMarshaller defines an interface for marshalling data to slice of TimePairs
type FrameMarshaller interface {
	MarshalFrame() []TimePair
}

// DebugMode selects when the indicator is toggled by the receive path.
type DebugMode uint8

const (
	DebugOff DebugMode = iota
	// DebugAnyFrame toggles on every valid frame; checks that a remote is 38kHz and receivable.
	DebugAnyFrame
	// DebugMatch toggles when a frame matches a table entry.
	DebugMatch
	// DebugBits32 toggles on 32 bit frames, e.g. NEC.
	DebugBits32
	// DebugBits16 toggles on 16 bit frames.
	DebugBits16
)
