package diag

import (
	"bytes"
	"io"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sparques/irblaster"
	"github.com/sparques/irblaster/codec"
	"github.com/sparques/irblaster/protocol"
)

func TestWriteFormat(t *testing.T) {
	c := qt.New(t)

	r := irblaster.Record{Send: 0xA, Sync1: 10, Sync2: 10, Stop: 6, Short: 5, Long: 15, Bits: 4}
	var buf bytes.Buffer
	c.Assert(Write(&buf, r, irblaster.Samples{10, 10, 5, 5, 15, 5, 5, 5, 15, 5, 6, 0}), qt.IsNil)
	c.Assert(buf.String(), qt.Equals,
		"frame n:11 code:0x0000000a s1:10 s2:10 stop:6 short:5 long:15 coding:0 bits:4\n"+
			" 10 10 5 5 15 5 5 5 15 5 6\n")
}

func TestReadBack(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	buf.WriteString("boot\r\n")
	var want []Frame
	for _, f := range []protocol.NEC{{Addr: 1, Cmd: 2}, {Addr: 0xF00D, Cmd: 0x80}} {
		ss := codec.Encode(f.Record())
		r, err := codec.Decode(ss)
		c.Assert(err, qt.IsNil)
		c.Assert(Write(&buf, r, ss), qt.IsNil)
		buf.WriteString("noise line\n")
		want = append(want, Frame{Record: r, Samples: ss})
	}

	rd := NewReader(&buf)
	for _, w := range want {
		f, err := rd.Next()
		c.Assert(err, qt.IsNil)
		c.Assert(f, qt.DeepEquals, w)
	}
	_, err := rd.Next()
	c.Assert(err, qt.Equals, io.EOF)
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"header":  "frame n:x code:1\n 1 2\n",
		"missing": "frame n:2 code:0x1 s1:1 s2:1 stop:0 short:1 long:1 coding:0 bits:0\n",
		"sample":  "frame n:2 code:0x1 s1:1 s2:1 stop:0 short:1 long:1 coding:0 bits:0\n 1 999\n",
		"count":   "frame n:3 code:0x1 s1:1 s2:1 stop:0 short:1 long:1 coding:0 bits:0\n 1 2\n",
	}
	c := qt.New(t)
	for name, in := range tests {
		c.Run(name, func(c *qt.C) {
			_, err := NewReader(strings.NewReader(in)).Next()
			c.Assert(err, qt.ErrorIs, ErrFormat)
		})
	}
}
