package protocol

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sparques/irblaster"
)

func TestNECCode(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		Code uint32
		Addr uint16
		Cmd  uint8
	}{
		{Code: 0xFF00FF00, Addr: 0x0000, Cmd: 0x00},
		{Code: 0x00FFFF00, Addr: 0x0000, Cmd: 0xFF},
		{Code: 0xFF0000FF, Addr: 0x00FF, Cmd: 0x00},
		{Code: 0xDF20FF00, Addr: 0x0000, Cmd: 0x20},
		{Code: 0xFF000100, Addr: 0x0100, Cmd: 0x00},
		{Code: 0xFF00F00D, Addr: 0xF00D, Cmd: 0x00},
	}
	for _, data := range tests {
		c.Run(fmt.Sprintf("Code:%08x", data.Code), func(c *qt.C) {
			c.Assert(NEC{Addr: data.Addr, Cmd: data.Cmd}.Code(), qt.Equals, data.Code)
		})
	}
}

func TestNECRecordTimings(t *testing.T) {
	c := qt.New(t)

	r := NEC{Addr: 0x04, Cmd: 0x08}.Record()
	c.Assert(r.Validate(), qt.IsNil)
	c.Assert(r.Sync1, qt.Equals, irblaster.Sample(225))
	c.Assert(r.Sync2, qt.Equals, irblaster.Sample(112))
	c.Assert(r.Short, qt.Equals, irblaster.Sample(14))
	c.Assert(r.Long, qt.Equals, irblaster.Sample(42))
	c.Assert(r.Coding, qt.Equals, irblaster.ShortLong)
}

func TestSamsungUnmarshal(t *testing.T) {
	c := qt.New(t)

	f := Samsung{Addr: 0x0707, Cmd: 0xFD02}
	var g Samsung
	c.Assert(g.UnmarshalFrame(f.Code()), qt.IsNil)
	c.Assert(g, qt.Equals, f)
	c.Assert(f.Record().Validate(), qt.IsNil)

	var nilFrame *Samsung
	c.Assert(nilFrame.UnmarshalFrame(1), qt.ErrorIs, ErrFrameAlloc)
}
