package protocol

import (
	"time"

	"github.com/sparques/irblaster"
)

// NEC protocol references
// https://www.sbprojects.net/knowledge/ir/nec.php

const (
	necUnit      = time.Nanosecond * 562_500 // 562.5 us
	necLeadMark  = necUnit * 16              // 9 ms
	necLeadSpace = necUnit * 8               // 4.5 ms
	necBit1Space = necUnit * 3               // 1.687 ms
)

// NEC is an NEC frame. Addresses that fit in 8 bits are sent with the
// inverted address as the high byte.
type NEC struct {
	Addr uint16
	Cmd  byte
}

// Code assembles the raw 32 bit value.
// LSB -> MSB: { address (Low), address (High), cmd, ^cmd }
func (f NEC) Code() uint32 {
	addrLow := byte(f.Addr & 0xff)
	addrHigh := byte(f.Addr >> 8)
	if addrHigh == 0 {
		addrHigh = ^addrLow
	}
	return uint32(^f.Cmd)<<24 | uint32(f.Cmd)<<16 | uint32(addrHigh)<<8 | uint32(addrLow)
}

// Record returns f with NEC timings.
func (f NEC) Record() irblaster.Record {
	code := f.Code()
	return irblaster.Record{
		Compare: code,
		Send:    code,
		Sync1:   sample(necLeadMark),
		Sync2:   sample(necLeadSpace),
		Stop:    sample(necUnit),
		Short:   sample(necUnit),
		Long:    sample(necBit1Space),
		Coding:  irblaster.ShortLong,
		Bits:    32,
	}
}
