// Package protocol builds Records for well known remote control
// protocols, with the timings those remotes put on the air.
package protocol

import (
	"errors"
	"time"

	"github.com/sparques/irblaster"
)

var (
	// ErrFrameAlloc is returned when an attempt to unmarshal to a nil Frame is done--the frame must be allocated ahead of time
	ErrFrameAlloc = errors.New("tried to unmarshal to unallocated frame")
)

const (
	samsungSync  = 4500 * time.Microsecond
	samsungShort = 562 * time.Microsecond
	samsungLong  = 1687 * time.Microsecond
)

// Samsung is a 32 bit Samsung frame: 16 bit address then 16 bit command,
// least significant bit first.
type Samsung struct {
	Addr uint16
	Cmd  uint16
}

// Code returns the 32 bit value as it is sent.
func (f Samsung) Code() uint32 {
	return uint32(f.Cmd)<<16 | uint32(f.Addr)
}

// Record returns f with Samsung timings. Compare and Send are both the code.
func (f Samsung) Record() irblaster.Record {
	code := f.Code()
	return irblaster.Record{
		Compare: code,
		Send:    code,
		Sync1:   sample(samsungSync),
		Sync2:   sample(samsungSync),
		Stop:    sample(samsungShort),
		Short:   sample(samsungShort),
		Long:    sample(samsungLong),
		Coding:  irblaster.ShortLong,
		Bits:    32,
	}
}

func (f *Samsung) UnmarshalFrame(buf uint32) error {
	if f == nil {
		return ErrFrameAlloc
	}
	f.Addr = uint16(buf & 0xFFFF)
	f.Cmd = uint16((buf >> 16) & 0xFFFF)
	return nil
}

func sample(d time.Duration) irblaster.Sample {
	s, _ := irblaster.SampleOf(d)
	return s
}
