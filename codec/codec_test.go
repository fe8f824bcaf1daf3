package codec

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sparques/irblaster"
	"github.com/sparques/irblaster/protocol"
)

func TestDecodeThreeBits(t *testing.T) {
	c := qt.New(t)

	// sync 10/10, then 0, 0 and a single long/short 1. One 1 is not
	// enough evidence to settle the coding.
	r, err := Decode(irblaster.Samples{10, 10, 5, 5, 5, 5, 15, 5, 0})
	c.Assert(err, qt.ErrorIs, ErrNoModulation)
	c.Assert(r.Bits, qt.Equals, uint8(3))
	c.Assert(r.Compare, qt.Equals, uint32(0b100))
	c.Assert(r.Sync1, qt.Equals, irblaster.Sample(10))
	c.Assert(r.Sync2, qt.Equals, irblaster.Sample(10))
	c.Assert(r.Stop, qt.Equals, irblaster.Sample(0))
}

func TestDecodeTimings(t *testing.T) {
	c := qt.New(t)

	r, err := Decode(irblaster.Samples{10, 10, 5, 5, 15, 5, 5, 5, 15, 5, 6, 0})
	c.Assert(err, qt.IsNil)
	c.Assert(r, qt.DeepEquals, irblaster.Record{
		Compare: 0b1010,
		Send:    0b1010,
		Sync1:   10,
		Sync2:   10,
		Stop:    6,
		Short:   5,
		Long:    15,
		Coding:  irblaster.LongShort,
		Bits:    4,
	})
}

func TestDecodeShortLong(t *testing.T) {
	c := qt.New(t)

	// odd zero average rounds up before halving: (5+6)=11 -> 12 -> 6
	r, err := Decode(irblaster.Samples{20, 10, 5, 6, 5, 16, 5, 16})
	c.Assert(err, qt.IsNil)
	c.Assert(r.Coding, qt.Equals, irblaster.ShortLong)
	c.Assert(r.Compare, qt.Equals, uint32(0b110))
	c.Assert(r.Short, qt.Equals, irblaster.Sample(6))
	c.Assert(r.Long, qt.Equals, irblaster.Sample(16))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		samples irblaster.Samples
		err     error
	}{
		{"empty", nil, ErrNoSync},
		{"sync only", irblaster.Samples{10, 0}, ErrNoSync},
		{"mixed", irblaster.Samples{10, 10, 15, 5, 15, 5, 5, 15, 0}, ErrMixedCoding},
		{"no ones", irblaster.Samples{10, 10, 5, 5, 5, 5, 5, 5, 0}, ErrNoModulation},
	}
	c := qt.New(t)
	for _, test := range tests {
		c.Run(test.name, func(c *qt.C) {
			_, err := Decode(test.samples)
			c.Assert(err, qt.ErrorIs, test.err)
		})
	}
}

func TestDecodeLength(t *testing.T) {
	c := qt.New(t)

	frame := func(pairs int, stop bool) irblaster.Samples {
		ss := irblaster.Samples{100, 50}
		for i := 0; i < pairs; i++ {
			ss = append(ss, 5, 15)
		}
		if stop {
			ss = append(ss, 5)
		}
		return append(ss, 0)
	}

	r, err := Decode(frame(32, true))
	c.Assert(err, qt.IsNil)
	c.Assert(r.Bits, qt.Equals, uint8(32))
	c.Assert(r.Compare, qt.Equals, uint32(0xFFFFFFFF))
	c.Assert(r.Stop, qt.Equals, irblaster.Sample(5))

	// no zero pairs: short comes from the short half of the ones
	c.Assert(r.Short, qt.Equals, irblaster.Sample(5))
	c.Assert(r.Long, qt.Equals, irblaster.Sample(15))

	_, err = Decode(frame(33, false))
	c.Assert(err, qt.ErrorIs, ErrTooLong)

	// unterminated buffers end at the slice end
	ss := frame(12, false)
	r, err = Decode(ss[:len(ss)-1])
	c.Assert(err, qt.IsNil)
	c.Assert(r.Bits, qt.Equals, uint8(12))
}

func TestEncode(t *testing.T) {
	c := qt.New(t)

	r := irblaster.Record{
		Send: 0b101, Sync1: 200, Sync2: 100, Stop: 7,
		Short: 5, Long: 15, Coding: irblaster.ShortLong, Bits: 4,
	}
	c.Assert(Encode(r), qt.DeepEquals, irblaster.Samples{200, 100, 5, 15, 5, 5, 5, 15, 5, 5, 7, 0})

	r.Coding = irblaster.LongShort
	r.Stop = 0
	c.Assert(Encode(r), qt.DeepEquals, irblaster.Samples{200, 100, 15, 5, 5, 5, 15, 5, 5, 5, 0})
}

func TestEncodeFitsBuffer(t *testing.T) {
	c := qt.New(t)

	r := protocol.NEC{Addr: 0x10, Cmd: 0x20}.Record()
	ss := Encode(r)
	c.Assert(ss, qt.HasLen, irblaster.MaxSamples+1)
	c.Assert(ss.Len(), qt.Equals, irblaster.MaxSamples)
}

func TestRoundTrip(t *testing.T) {
	c := qt.New(t)

	records := []irblaster.Record{
		protocol.NEC{Addr: 0x00, Cmd: 0x45}.Record(),
		protocol.NEC{Addr: 0xF00D, Cmd: 0xFF}.Record(),
		protocol.Samsung{Addr: 0x0707, Cmd: 0xFD02}.Record(),
		{Send: 0x2A5, Sync1: 60, Sync2: 20, Short: 12, Long: 30, Coding: irblaster.LongShort, Bits: 10},
		{Send: 0x3FF, Sync1: 60, Sync2: 20, Short: 12, Long: 30, Coding: irblaster.ShortLong, Bits: 10},
		{Send: 0x5A5A5, Sync1: 90, Sync2: 90, Stop: 9, Short: 9, Long: 27, Coding: irblaster.ShortLong, Bits: 20},
		{Send: 0x80000001, Sync1: 90, Sync2: 45, Short: 11, Long: 33, Coding: irblaster.LongShort, Bits: 32},
	}
	for _, r := range records {
		c.Run(fmt.Sprintf("%08x/%d", r.Send, r.Bits), func(c *qt.C) {
			got, err := Decode(Encode(r))
			c.Assert(err, qt.IsNil)
			c.Assert(got.Compare, qt.Equals, r.Send)
			c.Assert(got.Send, qt.Equals, r.Send)
			c.Assert(got.Bits, qt.Equals, r.Bits)
			c.Assert(got.Coding, qt.Equals, r.Coding)
			c.Assert(got.Stop, qt.Equals, r.Stop)

			// re-encoding the decoded timings gives the same bits again
			again, err := Decode(Encode(got))
			c.Assert(err, qt.IsNil)
			c.Assert(again.Compare, qt.Equals, r.Send)
		})
	}
}

func TestFramePairs(t *testing.T) {
	c := qt.New(t)

	f := Frame(irblaster.Record{Send: 0b11, Sync1: 10, Sync2: 5, Short: 1, Long: 3, Bits: 2, Stop: 2})
	pairs := f.MarshalFrame()
	c.Assert(pairs, qt.HasLen, 4)
	c.Assert(pairs[0], qt.Equals, irblaster.TimePair{400 * 1000, 200 * 1000})
	c.Assert(pairs[3], qt.Equals, irblaster.TimePair{80 * 1000, 0})
}
