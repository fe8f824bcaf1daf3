// Package blaster is the real-time core of the translator. It binds the
// capture driver, codec, translation table and transmit scheduler, and
// hands decoded frames to a learn session while one is running.
//
// Receive and transmit never run at the same time: a completed frame
// stops the receiver, and it is rearmed when the frame is discarded,
// not found or fully sent.
package blaster

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/sparques/irblaster"
	"github.com/sparques/irblaster/capture"
	"github.com/sparques/irblaster/codec"
	"github.com/sparques/irblaster/diag"
	"github.com/sparques/irblaster/learn"
	"github.com/sparques/irblaster/table"
	"github.com/sparques/irblaster/transmit"
)

const (
	// DefaultMinSamples is the shortest frame decoded. Anything shorter
	// is a repeat code or noise.
	DefaultMinSamples = 20
	// DefaultDebounce is the dead time after a learn button edge.
	DefaultDebounce = 200 * time.Millisecond
)

// Config configures a Blaster. Zero fields take defaults.
type Config struct {
	// Quiet ends a frame; see capture.DefaultQuiet.
	Quiet      time.Duration
	MinSamples int
	// Gap precedes every transmitted record; see transmit.DefaultGap.
	Gap      time.Duration
	Debounce time.Duration
	Debug    irblaster.DebugMode
	// Dump receives a diag rendering of every decoded frame when set.
	// Writes happen in timer context, so it should be a buffered UART.
	Dump io.Writer
}

func (cfg Config) withDefaults() Config {
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = DefaultMinSamples
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return cfg
}

// Hardware is the set of devices a Blaster drives. Timeout and Step may
// be the same physical timer only if the backend can tell their callers
// apart; the real board uses two.
type Hardware struct {
	Receiver  irblaster.EdgeCapture
	Timeout   irblaster.Timer
	Step      irblaster.Timer
	Emitter   irblaster.OutputLine
	Indicator irblaster.Indicator
	// Now is a monotonic clock used to debounce the learn button.
	Now func() time.Duration
}

// State is a snapshot of the runtime state.
type State struct {
	Learning bool
	Presses  int
	Debug    irblaster.DebugMode
	// Current is the last record matched and sent.
	Current irblaster.Record

	Frames     int // decoded
	Discarded  int // noise, capture errors and undecodable frames
	Translated int
}

// Blaster is the receive/transmit orchestrator.
type Blaster struct {
	cfg   Config
	hw    Hardware
	table *table.Table
	rx    *capture.Driver
	tx    *transmit.Scheduler

	session learn.Session
	frames  chan irblaster.Record
	wake    chan struct{}

	learning    atomic.Bool
	presses     atomic.Int32
	debug       atomic.Uint32
	lastTrigger atomic.Int64

	current    atomic.Pointer[irblaster.Record]
	decoded    atomic.Int32
	discarded  atomic.Int32
	translated atomic.Int32
}

// New wires a Blaster. Call Start to begin receiving.
func New(hw Hardware, tb *table.Table, cfg Config) *Blaster {
	cfg = cfg.withDefaults()
	b := &Blaster{
		cfg:    cfg,
		hw:     hw,
		table:  tb,
		frames: make(chan irblaster.Record, 1),
		wake:   make(chan struct{}, 1),
	}
	b.rx = capture.NewDriver(hw.Receiver, hw.Timeout, cfg.Quiet, b.frame)
	b.tx = transmit.New(hw.Emitter, hw.Step, tb, transmit.Config{Gap: cfg.Gap}, b.sent)
	b.session = learn.Session{
		Table:    tb,
		Frames:   b,
		Feedback: hw.Indicator,
		SetDebug: b.SetDebug,
	}
	b.debug.Store(uint32(cfg.Debug))
	b.lastTrigger.Store(int64(-cfg.Debounce))
	return b
}

// Start arms the receiver.
func (b *Blaster) Start() {
	b.receive()
}

// Stop cancels any transmission and disarms the receiver.
func (b *Blaster) Stop() {
	b.tx.Cancel()
	b.rx.Disarm()
}

func (b *Blaster) receive() {
	b.rx.Arm()
}

// sent runs in step timer context when a chain is done.
func (b *Blaster) sent() {
	b.receive()
}

func (b *Blaster) toggle(on bool) {
	if on {
		b.hw.Indicator.Toggle()
	}
}

// frame runs in timeout timer context with the receiver stopped.
func (b *Blaster) frame(c *capture.Capture) {
	if c.Errors > 0 || c.Len() < b.cfg.MinSamples {
		b.discarded.Add(1)
		b.receive()
		return
	}

	ss := c.Samples()
	r, err := codec.Decode(ss)
	if b.cfg.Dump != nil {
		diag.Write(b.cfg.Dump, r, ss)
	}
	if err != nil {
		b.discarded.Add(1)
		b.receive()
		return
	}
	b.decoded.Add(1)

	mode := b.Debug()
	b.toggle(mode == irblaster.DebugAnyFrame)

	if b.learning.Load() {
		select {
		case b.frames <- r:
		default:
		}
		b.receive()
		return
	}

	b.toggle(mode == irblaster.DebugBits32 && r.Bits == 32)
	b.toggle(mode == irblaster.DebugBits16 && r.Bits == 16)

	res, err := b.table.Lookup(r.Compare)
	if err != nil || res.Status != table.Found {
		b.receive()
		return
	}
	b.toggle(mode == irblaster.DebugMatch)

	b.translated.Add(1)
	b.current.Store(&res.Record)
	b.tx.Start(res.Record, res.Pos)
}

// Trigger registers a learn button press. It is safe from interrupt
// context; presses within the debounce time of the previous one are
// ignored.
func (b *Blaster) Trigger() {
	now := int64(b.hw.Now())
	if now-b.lastTrigger.Load() < int64(b.cfg.Debounce) {
		return
	}
	b.lastTrigger.Store(now)
	b.presses.Add(1)
	b.learning.Store(true)
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// SetDebug selects when the receive path toggles the indicator.
func (b *Blaster) SetDebug(m irblaster.DebugMode) {
	b.debug.Store(uint32(m))
}

// Debug returns the current debug mode.
func (b *Blaster) Debug() irblaster.DebugMode {
	return irblaster.DebugMode(b.debug.Load())
}

// State returns a snapshot of the runtime state.
func (b *Blaster) State() State {
	s := State{
		Learning:   b.learning.Load(),
		Presses:    int(b.presses.Load()),
		Debug:      b.Debug(),
		Frames:     int(b.decoded.Load()),
		Discarded:  int(b.discarded.Load()),
		Translated: int(b.translated.Load()),
	}
	if r := b.current.Load(); r != nil {
		s.Current = *r
	}
	return s
}

// Await implements learn.Frames. Frames decoded before the call are
// dropped; prompt is blinked until a new one arrives.
func (b *Blaster) Await(ctx context.Context, prompt func() int) (irblaster.Record, error) {
	select {
	case <-b.frames:
	default:
	}
	for {
		select {
		case r := <-b.frames:
			return r, nil
		case <-ctx.Done():
			return irblaster.Record{}, ctx.Err()
		default:
		}
		b.hw.Indicator.Blink(prompt())
	}
}

// Learn runs one learn session. Translation is suspended until it
// returns.
func (b *Blaster) Learn(ctx context.Context) learn.Outcome {
	b.learning.Store(true)
	defer func() {
		b.presses.Store(0)
		b.learning.Store(false)
		// presses during the session were part of it
		select {
		case <-b.wake:
		default:
		}
	}()
	return b.session.Run(ctx, func() int { return int(b.presses.Load()) })
}

// Run starts receiving and runs a learn session after every trigger
// until ctx is done. This is the main loop; everything else happens in
// interrupt context.
func (b *Blaster) Run(ctx context.Context) error {
	b.Start()
	defer b.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.wake:
			b.Learn(ctx)
		}
	}
}
