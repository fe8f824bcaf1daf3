// Package table is the translation table: learned Records packed into
// fixed-size pages of non-volatile memory.
//
// The table is append only. Its end is the first slot whose compare code
// is irblaster.EndOfTable, scanning pages upward and slots in order.
// Every change rewrites one whole page (erase then program), so a page
// commit must never run from the receive/transmit path.
package table

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sparques/irblaster"
)

var (
	// ErrFull is returned when the table has no room left for a record or chain.
	ErrFull = errors.New("table: full")
	// ErrChainOverMatch is returned when a chain of more than one record
	// would replace an existing entry. Erase the table first.
	ErrChainOverMatch = errors.New("table: chain over existing entry")
	// ErrBadChain is returned for a chain whose markers are inconsistent.
	ErrBadChain = errors.New("table: malformed chain")
	// ErrPosition is returned for positions outside the table.
	ErrPosition = errors.New("table: position out of range")
	// ErrGeometry is returned by New for an unusable Config.
	ErrGeometry = errors.New("table: bad geometry")
)

// Config is the table geometry. Zero fields take the defaults.
type Config struct {
	// PageSize in bytes, a multiple of irblaster.RecordSize.
	PageSize int
	// MinPage and MaxPage are the first and last page, inclusive.
	MinPage int
	MaxPage int
}

// DefaultConfig is an ATmega48 sized table: 64 byte pages 42 through
// 63, right after the program.
var DefaultConfig = Config{PageSize: 64, MinPage: 42, MaxPage: 63}

func (c Config) withDefaults() Config {
	if c.PageSize == 0 {
		c.PageSize = DefaultConfig.PageSize
	}
	if c.MinPage == 0 && c.MaxPage == 0 {
		c.MinPage, c.MaxPage = DefaultConfig.MinPage, DefaultConfig.MaxPage
	}
	return c
}

// Pages returns the number of pages in the range.
func (c Config) Pages() int {
	return c.MaxPage - c.MinPage + 1
}

// Slots returns the number of records per page.
func (c Config) Slots() int {
	return c.PageSize / irblaster.RecordSize
}

func (c Config) validate() error {
	switch {
	case c.PageSize <= 0 || c.PageSize%irblaster.RecordSize != 0:
		return fmt.Errorf("%w: page size %d is not a multiple of %d", ErrGeometry, c.PageSize, irblaster.RecordSize)
	case c.MinPage < 0 || c.MaxPage < c.MinPage:
		return fmt.Errorf("%w: pages %d..%d", ErrGeometry, c.MinPage, c.MaxPage)
	}
	return nil
}

// Position addresses one record slot.
type Position struct {
	Page int
	Slot int
}

// Status is the outcome of a Lookup.
type Status uint8

const (
	// Found means a record with the key exists at Pos.
	Found Status = iota
	// EndOfTable means the key is absent; Pos is the first free slot.
	EndOfTable
	// Full means the key is absent and there is no free slot.
	Full
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case EndOfTable:
		return "end of table"
	case Full:
		return "full"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Result is returned by Lookup. Record is only set for Found.
type Result struct {
	Status Status
	Pos    Position
	Record irblaster.Record
}

// Table reads and appends records through one page sized buffer.
type Table struct {
	store PageStore
	cfg   Config
	slots int

	buf  []byte
	page int // page held in buf, or -1
}

// New returns a Table over store.
func New(store PageStore, cfg Config) (*Table, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Table{
		store: store,
		cfg:   cfg,
		slots: cfg.Slots(),
		buf:   make([]byte, cfg.PageSize),
		page:  -1,
	}, nil
}

// Config returns the geometry in use.
func (t *Table) Config() Config {
	return t.cfg
}

// Capacity is the total number of record slots.
func (t *Table) Capacity() int {
	return t.cfg.Pages() * t.slots
}

func (t *Table) load(page int) error {
	if t.page == page {
		return nil
	}
	t.page = -1
	if err := t.store.ReadPage(page, t.buf); err != nil {
		return fmt.Errorf("table: read page %d: %w", page, err)
	}
	t.page = page
	return nil
}

func (t *Table) commit() error {
	if err := t.store.WritePage(t.page, t.buf); err != nil {
		page := t.page
		t.page = -1
		return fmt.Errorf("table: write page %d: %w", page, err)
	}
	return nil
}

func (t *Table) compare(slot int) uint32 {
	return binary.LittleEndian.Uint32(t.buf[slot*irblaster.RecordSize:])
}

func (t *Table) record(slot int) irblaster.Record {
	var r irblaster.Record
	r.UnmarshalBinary(t.buf[slot*irblaster.RecordSize:])
	return r
}

func (t *Table) valid(pos Position) bool {
	return pos.Page >= t.cfg.MinPage && pos.Page <= t.cfg.MaxPage && pos.Slot >= 0 && pos.Slot < t.slots
}

func (t *Table) advance(pos Position) Position {
	pos.Slot++
	if pos.Slot == t.slots {
		pos.Page++
		pos.Slot = 0
	}
	return pos
}

// Lookup finds the first record whose compare code is key. Chained
// records (compare code zero) never match.
func (t *Table) Lookup(key uint32) (Result, error) {
	for page := t.cfg.MinPage; page <= t.cfg.MaxPage; page++ {
		if err := t.load(page); err != nil {
			return Result{}, err
		}
		for slot := 0; slot < t.slots; slot++ {
			cmp := t.compare(slot)
			pos := Position{Page: page, Slot: slot}
			if cmp == irblaster.EndOfTable {
				return Result{Status: EndOfTable, Pos: pos}, nil
			}
			if cmp != 0 && cmp == key {
				return Result{Status: Found, Pos: pos, Record: t.record(slot)}, nil
			}
		}
	}
	return Result{Status: Full}, nil
}

// Append stores r at pos and commits the page. pos must come from a
// Lookup: a free slot, or a match being replaced by a single record.
func (t *Table) Append(r irblaster.Record, pos Position) error {
	if !t.valid(pos) {
		return fmt.Errorf("%w: %+v", ErrPosition, pos)
	}
	if err := t.load(pos.Page); err != nil {
		return err
	}
	r.MarshalTo(t.buf[pos.Slot*irblaster.RecordSize:])
	return t.commit()
}

// AppendChain stores a chain: a head record carrying the key followed
// by continuation records with compare code zero, every record but the
// last marked with irblaster.ChainMarker.
//
// A single record replaces an existing entry for its key. A longer chain
// over an existing entry fails with ErrChainOverMatch. Nothing is
// written unless the whole chain fits.
func (t *Table) AppendChain(chain []irblaster.Record) error {
	if len(chain) == 0 {
		return nil
	}
	if err := checkChain(chain); err != nil {
		return err
	}

	res, err := t.Lookup(chain[0].Compare)
	if err != nil {
		return err
	}
	switch res.Status {
	case Found:
		if len(chain) > 1 {
			return ErrChainOverMatch
		}
		return t.Append(chain[0], res.Pos)
	case Full:
		return ErrFull
	}

	free := (t.cfg.MaxPage-res.Pos.Page)*t.slots + t.slots - res.Pos.Slot
	if free < len(chain) {
		return ErrFull
	}

	pos := res.Pos
	for i, r := range chain {
		if err := t.load(pos.Page); err != nil {
			return err
		}
		r.MarshalTo(t.buf[pos.Slot*irblaster.RecordSize:])
		next := t.advance(pos)
		if i == len(chain)-1 || next.Page != pos.Page {
			if err := t.commit(); err != nil {
				return err
			}
		}
		pos = next
	}
	return nil
}

func checkChain(chain []irblaster.Record) error {
	for i, r := range chain {
		if err := r.Validate(); err != nil {
			return err
		}
		last := i == len(chain)-1
		switch {
		case i == 0 && r.Compare == 0:
			return fmt.Errorf("%w: head has no key", ErrBadChain)
		case i > 0 && r.Compare != 0:
			return fmt.Errorf("%w: record %d has key %#x", ErrBadChain, i, r.Compare)
		case r.Chained() == last:
			return fmt.Errorf("%w: record %d marker", ErrBadChain, i)
		}
	}
	return nil
}

// Follow returns the record after pos, reading the next page when pos is
// the last slot of its page. ok is false past the last page or at the
// end of the table.
func (t *Table) Follow(pos Position) (next Position, r irblaster.Record, ok bool, err error) {
	next = t.advance(pos)
	if !t.valid(next) {
		return next, r, false, nil
	}
	if err := t.load(next.Page); err != nil {
		return next, r, false, err
	}
	r = t.record(next.Slot)
	if r.IsEnd() {
		return next, r, false, nil
	}
	return next, r, true, nil
}

// Records calls fn for every record up to the end of the table, stopping
// early when fn returns false.
func (t *Table) Records(fn func(Position, irblaster.Record) bool) error {
	for pos := (Position{Page: t.cfg.MinPage}); t.valid(pos); pos = t.advance(pos) {
		if err := t.load(pos.Page); err != nil {
			return err
		}
		r := t.record(pos.Slot)
		if r.IsEnd() || !fn(pos, r) {
			return nil
		}
	}
	return nil
}

// EraseAll erases every page of the table. It cannot be undone; callers
// guard it with an operator confirmation.
func (t *Table) EraseAll() error {
	t.page = -1
	for page := t.cfg.MinPage; page <= t.cfg.MaxPage; page++ {
		if err := t.store.ErasePage(page); err != nil {
			return fmt.Errorf("table: erase page %d: %w", page, err)
		}
	}
	return nil
}
