// Package codec turns captured duration samples into a learned Record
// and back.
//
// A frame is two sync durations followed by one mark/space pair per bit,
// least significant bit first, and an optional single stop mark. A pair
// where one half is more than twice the other is a 1; anything else is a
// 0. Which half is the long one is the frame's coding, and a frame must
// use one coding consistently.
package codec

import (
	"errors"

	"github.com/sparques/irblaster"
)

var (
	// ErrNoSync is returned when fewer than two samples are present.
	ErrNoSync = errors.New("codec: missing sync")
	// ErrTooLong is returned when a 33rd bit pair follows without termination.
	ErrTooLong = errors.New("codec: code longer than 32 bits")
	// ErrMixedCoding is returned when both long/short and short/long ones are seen.
	ErrMixedCoding = errors.New("codec: inconsistent modulation")
	// ErrNoModulation is returned when fewer than two ones of a coding are seen.
	ErrNoModulation = errors.New("codec: no modulation detected")
)

// Decode assembles a Record from ss. Compare and Send both hold the
// decoded value.
//
// On error the returned record holds what was assembled before the
// failure, which is only useful for diagnostics.
func Decode(ss irblaster.Samples) (irblaster.Record, error) {
	var r irblaster.Record
	if ss.Len() < 2 {
		return r, ErrNoSync
	}
	at := func(i int) int {
		if i < len(ss) {
			return int(ss[i])
		}
		return 0
	}
	r.Sync1, r.Sync2 = ss[0], ss[1]

	var (
		code                uint32
		bits                int
		sum0, n0            int
		sum1, n1, shortOnes int
		longShort           int
		shortLong           int
	)
	for i := 2; ; i += 2 {
		w1, w2 := at(i), at(i+1)
		if w1 == 0 {
			break
		}
		if w2 == 0 {
			r.Stop = irblaster.Sample(w1)
			break
		}
		if bits == irblaster.MaxBits {
			r.Compare, r.Send, r.Bits = code, code, uint8(bits)
			return r, ErrTooLong
		}

		switch {
		case w1 > w2<<1:
			longShort++
		case w2 > w1<<1:
			shortLong++
		default:
			sum0 += w1 + w2
			n0++
			bits++
			continue
		}
		sum1 += w1 + w2
		shortOnes += min(w1, w2)
		n1++
		code |= 1 << bits
		bits++
	}

	r.Compare, r.Send, r.Bits = code, code, uint8(bits)

	switch {
	case longShort > 0 && shortLong > 0:
		return r, ErrMixedCoding
	case longShort > 1:
		r.Coding = irblaster.LongShort
	case shortLong > 1:
		r.Coding = irblaster.ShortLong
	default:
		return r, ErrNoModulation
	}

	// Round up to even before halving; integer averages always truncate.
	var short int
	if n0 > 0 {
		short = sum0 / n0
		if short&1 != 0 {
			short++
		}
		short >>= 1
	} else {
		short = shortOnes / n1
	}
	long := sum1 / n1
	if long&1 != 0 {
		long++
	}
	long -= short

	r.Short = clamp(short)
	r.Long = clamp(long)
	return r, nil
}

func clamp(v int) irblaster.Sample {
	switch {
	case v < 1:
		return 1
	case v > int(irblaster.MaxSample):
		return irblaster.MaxSample
	}
	return irblaster.Sample(v)
}

// Encode renders r as a zero terminated sample sequence.
func Encode(r irblaster.Record) irblaster.Samples {
	return Append(make(irblaster.Samples, 0, irblaster.MaxSamples+1), r)
}

// Append renders r onto dst and returns the extended slice. Passing a
// buffer with MaxSamples+1 capacity avoids allocation.
func Append(dst irblaster.Samples, r irblaster.Record) irblaster.Samples {
	one := [2]irblaster.Sample{r.Long, r.Short}
	if r.Coding == irblaster.ShortLong {
		one = [2]irblaster.Sample{r.Short, r.Long}
	}
	bits := int(r.Bits)
	if bits > irblaster.MaxBits {
		bits = irblaster.MaxBits
	}

	dst = append(dst, r.Sync1, r.Sync2)
	code := r.Send
	for i := 0; i < bits; i++ {
		if code&1 == 1 {
			dst = append(dst, one[0], one[1])
		} else {
			dst = append(dst, r.Short, r.Short)
		}
		code >>= 1
	}
	if r.Stop != 0 {
		dst = append(dst, r.Stop)
	}
	return append(dst, 0)
}

// Frame adapts a Record to irblaster.FrameMarshaller.
type Frame irblaster.Record

// MarshalFrame implements irblaster.FrameMarshaller.
func (f Frame) MarshalFrame() []irblaster.TimePair {
	return Encode(irblaster.Record(f)).Pairs()
}
