package irblaster

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// RecordSize is the stored size of a Record in bytes.
	RecordSize = 16

	// EndOfTable is the compare code of an erased slot.
	EndOfTable uint32 = 0xFFFFFFFF

	// ChainMarker in Record.Next means the following record is sent too.
	ChainMarker = 0xAA

	MinBits = 10
	MaxBits = 32
)

var (
	// ErrShortRecord is returned when unmarshalling from fewer than RecordSize bytes.
	ErrShortRecord = errors.New("irblaster: record needs 16 bytes")
	// ErrInvalidRecord is returned by Validate.
	ErrInvalidRecord = errors.New("irblaster: invalid record")
)

// Coding tells which pulse pair arrangement carries a logical 1.
type Coding uint8

const (
	// LongShort sends a 1 as (long, short).
	LongShort Coding = 0
	// ShortLong sends a 1 as (short, long).
	ShortLong Coding = 1
)

func (c Coding) String() string {
	switch c {
	case LongShort:
		return "long/short"
	case ShortLong:
		return "short/long"
	default:
		return fmt.Sprintf("Coding(%d)", uint8(c))
	}
}

// Record is one learned translation: the code to recognise and the
// code, with its timing, to send in its place.
type Record struct {
	// Compare is the lookup key. EndOfTable marks the end of the table,
	// zero marks a chained record that is never matched on its own.
	Compare uint32
	// Send is the code transmitted.
	Send uint32

	Sync1 Sample
	Sync2 Sample
	// Stop is the trailing mark; zero means none.
	Stop  Sample
	Short Sample
	Long  Sample

	Coding Coding
	Bits   uint8
	// Next is ChainMarker when the record after this one belongs to the
	// same key.
	Next uint8
}

// Chained reports whether another record follows r in its chain.
func (r Record) Chained() bool {
	return r.Next == ChainMarker
}

// IsEnd reports whether r is an erased slot.
func (r Record) IsEnd() bool {
	return r.Compare == EndOfTable
}

// Validate checks the invariants of a storable record.
func (r Record) Validate() error {
	switch {
	case r.IsEnd():
		return fmt.Errorf("%w: compare code is the end-of-table sentinel", ErrInvalidRecord)
	case r.Bits < MinBits || r.Bits > MaxBits:
		return fmt.Errorf("%w: %d bits", ErrInvalidRecord, r.Bits)
	case r.Short == 0:
		return fmt.Errorf("%w: zero short duration", ErrInvalidRecord)
	case r.Coding != LongShort && r.Coding != ShortLong:
		return fmt.Errorf("%w: %v", ErrInvalidRecord, r.Coding)
	}
	return nil
}

// MarshalTo writes r into the first RecordSize bytes of b.
func (r Record) MarshalTo(b []byte) {
	_ = b[RecordSize-1]
	binary.LittleEndian.PutUint32(b[0:], r.Compare)
	binary.LittleEndian.PutUint32(b[4:], r.Send)
	b[8] = byte(r.Sync1)
	b[9] = byte(r.Sync2)
	b[10] = byte(r.Stop)
	b[11] = byte(r.Short)
	b[12] = byte(r.Long)
	b[13] = byte(r.Coding)
	b[14] = r.Bits
	b[15] = r.Next
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r Record) MarshalBinary() ([]byte, error) {
	b := make([]byte, RecordSize)
	r.MarshalTo(b)
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Record) UnmarshalBinary(b []byte) error {
	if len(b) < RecordSize {
		return ErrShortRecord
	}
	r.Compare = binary.LittleEndian.Uint32(b[0:])
	r.Send = binary.LittleEndian.Uint32(b[4:])
	r.Sync1 = Sample(b[8])
	r.Sync2 = Sample(b[9])
	r.Stop = Sample(b[10])
	r.Short = Sample(b[11])
	r.Long = Sample(b[12])
	r.Coding = Coding(b[13])
	r.Bits = b[14]
	r.Next = b[15]
	return nil
}
