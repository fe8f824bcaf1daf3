//go:build tinygo

package board

import (
	"errors"
	"fmt"
	"runtime/interrupt"

	"github.com/sparques/irblaster/table"
)

// DefaultFlashPages is how many erase blocks the table uses.
const DefaultFlashPages = 4

var errFlashSize = errors.New("board: flash too small for table")

// BlockDevice is the part of machine.Flash the table needs.
type BlockDevice interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	Size() int64
	EraseBlockSize() int64
	EraseBlocks(start, length int64) error
}

// Flash is a table.PageStore with one page per erase block. Erasing and
// programming run with interrupts disabled, stalling receive and
// transmit until done.
type Flash struct {
	dev   BlockDevice
	pages int
	size  int64
}

// NewFlash uses the first pages erase blocks of dev; zero takes
// DefaultFlashPages.
func NewFlash(dev BlockDevice, pages int) (*Flash, error) {
	if pages <= 0 {
		pages = DefaultFlashPages
	}
	f := &Flash{dev: dev, pages: pages, size: dev.EraseBlockSize()}
	if int64(pages)*f.size > dev.Size() {
		return nil, fmt.Errorf("%w: %d blocks of %d bytes", errFlashSize, pages, f.size)
	}
	return f, nil
}

// Config is the table geometry of f.
func (f *Flash) Config() table.Config {
	return table.Config{PageSize: int(f.size), MinPage: 1, MaxPage: f.pages}
}

// block maps a table page to an erase block.
func (f *Flash) block(page int) (int64, bool) {
	if page < 1 || page > f.pages {
		return 0, false
	}
	return int64(page - 1), true
}

func (f *Flash) ReadPage(page int, buf []byte) error {
	b, ok := f.block(page)
	if !ok {
		return nil
	}
	_, err := f.dev.ReadAt(buf[:f.size], b*f.size)
	return err
}

func (f *Flash) ErasePage(page int) error {
	b, ok := f.block(page)
	if !ok {
		return nil
	}
	mask := interrupt.Disable()
	defer interrupt.Restore(mask)
	return f.dev.EraseBlocks(b, 1)
}

func (f *Flash) WritePage(page int, buf []byte) error {
	b, ok := f.block(page)
	if !ok {
		return nil
	}
	mask := interrupt.Disable()
	defer interrupt.Restore(mask)
	if err := f.dev.EraseBlocks(b, 1); err != nil {
		return err
	}
	_, err := f.dev.WriteAt(buf[:f.size], b*f.size)
	return err
}

var _ table.PageStore = (*Flash)(nil)
