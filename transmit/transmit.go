// Package transmit plays encoded records on the IR emitter one timer
// step at a time.
//
// Each step programs the timer with the next sample and sets the
// carrier: even samples are marks, odd samples spaces. At the zero
// sentinel a chained record continues with the next table slot,
// otherwise the scheduler reports done.
package transmit

import (
	"time"

	"github.com/sparques/irblaster"
	"github.com/sparques/irblaster/codec"
	"github.com/sparques/irblaster/table"
)

// DefaultGap is the silence before each record, about the longest
// period of a 16 bit 1MHz timer. Remotes repeat frames at roughly
// 100ms, so receivers expect a pause this long.
const DefaultGap = 65535 * time.Microsecond

// Chain yields the record stored after pos. *table.Table implements it.
type Chain interface {
	Follow(pos table.Position) (table.Position, irblaster.Record, bool, error)
}

// Config configures a Scheduler. Zero fields take defaults.
type Config struct {
	Gap time.Duration
}

type State uint8

const (
	Idle State = iota
	Emitting
	Done
)

// Scheduler is the transmit state machine.
type Scheduler struct {
	out   irblaster.OutputLine
	timer irblaster.Timer
	chain Chain
	gap   time.Duration
	done  func()

	onStep func()

	buf     [irblaster.MaxSamples + 1]irblaster.Sample
	samples irblaster.Samples
	idx     int
	state   State
	rec     irblaster.Record
	pos     table.Position

	// Sent counts records finished since Start.
	Sent int
	// Err holds a chain read error that cut the last transmission short.
	Err error
}

// New returns an idle Scheduler. done runs in timer context once the
// last record of a chain has been sent.
func New(out irblaster.OutputLine, timer irblaster.Timer, chain Chain, cfg Config, done func()) *Scheduler {
	if cfg.Gap <= 0 {
		cfg.Gap = DefaultGap
	}
	s := &Scheduler{
		out:   out,
		timer: timer,
		chain: chain,
		gap:   cfg.Gap,
		done:  done,
	}
	s.onStep = s.step
	return s
}

// State returns the current state.
func (s *Scheduler) State() State {
	return s.state
}

// Start sends r, stored at pos, and any records chained after it.
func (s *Scheduler) Start(r irblaster.Record, pos table.Position) {
	s.Sent = 0
	s.Err = nil
	s.load(r, pos)
}

func (s *Scheduler) load(r irblaster.Record, pos table.Position) {
	s.rec, s.pos = r, pos
	s.samples = codec.Append(s.buf[:0], r)
	s.idx = 0
	s.state = Emitting
	s.out.Set(false)
	s.timer.Arm(s.gap, s.onStep)
}

func (s *Scheduler) step() {
	if s.state != Emitting {
		return
	}
	if v := s.samples[s.idx]; v != 0 {
		s.timer.Arm(v.Duration(), s.onStep)
		s.out.Set(s.idx&1 == 0)
		s.idx++
		return
	}

	s.out.Set(false)
	s.Sent++
	if s.rec.Chained() {
		pos, r, ok, err := s.chain.Follow(s.pos)
		if err != nil {
			s.Err = err
		} else if ok {
			s.load(r, pos)
			return
		}
	}
	s.state = Done
	s.done()
}

// Cancel abandons any transmission and turns the carrier off.
func (s *Scheduler) Cancel() {
	s.timer.Stop()
	s.out.Set(false)
	s.state = Idle
}
