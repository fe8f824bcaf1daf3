package table

import (
	"errors"
	"fmt"
)

// PageStore is erasable page-organised non-volatile memory. Pages
// outside the store's range are ignored: reads leave buf untouched and
// writes do nothing.
type PageStore interface {
	ReadPage(page int, buf []byte) error
	// WritePage erases page and programs it with buf as one operation.
	WritePage(page int, buf []byte) error
	ErasePage(page int) error
}

// ErrProgram is the error a Memory returns while Fail is set.
var ErrProgram = errors.New("table: page program failed")

// Memory is a PageStore held in RAM. It behaves like flash: erased
// bytes read 0xFF and programming can only clear bits.
type Memory struct {
	cfg  Config
	data []byte

	// Fail makes every WritePage fail before touching the page.
	Fail bool

	Reads, Writes, Erases int
}

// NewMemory returns an erased store covering cfg's page range.
func NewMemory(cfg Config) *Memory {
	cfg = cfg.withDefaults()
	m := &Memory{
		cfg:  cfg,
		data: make([]byte, cfg.Pages()*cfg.PageSize),
	}
	erase(m.data)
	return m
}

func (m *Memory) page(page int) []byte {
	if page < m.cfg.MinPage || page > m.cfg.MaxPage {
		return nil
	}
	off := (page - m.cfg.MinPage) * m.cfg.PageSize
	return m.data[off : off+m.cfg.PageSize]
}

func (m *Memory) ReadPage(page int, buf []byte) error {
	p := m.page(page)
	if p == nil {
		return nil
	}
	m.Reads++
	copy(buf, p)
	return nil
}

func (m *Memory) ErasePage(page int) error {
	p := m.page(page)
	if p == nil {
		return nil
	}
	m.Erases++
	erase(p)
	return nil
}

func erase(p []byte) {
	for i := range p {
		p[i] = 0xFF
	}
}

// Program ANDs buf into an already erased page.
func (m *Memory) Program(page int, buf []byte) error {
	p := m.page(page)
	if p == nil {
		return nil
	}
	if len(buf) < len(p) {
		return fmt.Errorf("table: program %d bytes into %d byte page", len(buf), len(p))
	}
	for i := range p {
		p[i] &= buf[i]
	}
	return nil
}

func (m *Memory) WritePage(page int, buf []byte) error {
	if m.page(page) == nil {
		return nil
	}
	if m.Fail {
		return fmt.Errorf("page %d: %w", page, ErrProgram)
	}
	m.Writes++
	erase(m.page(page))
	return m.Program(page, buf)
}
