// Package learn is the interactive session that programs the
// translation table.
//
// The operator presses the learn button n times and confirms with any
// remote key; the indicator blinks n while waiting. Menus:
//
//	1  learn S -> D1              (replaces an existing S)
//	2  learn S -> D1 -> D2        (append only)
//	3  learn S -> D1 -> D2 -> D3  (append only)
//	4  erase the table; confirm with a different key
//	5  debug: toggle on every valid frame
//	6  debug: toggle on table match
//	7  debug: toggle on 32 bit frames
//	8  debug: toggle on 16 bit frames
//
// While entering codes the indicator blinks 1 for S and 2, 3, 4 for the
// targets. The session ends with 1 blink on success or 10 on error.
package learn

import (
	"context"
	"errors"
	"fmt"

	"github.com/sparques/irblaster"
)

const (
	PulseOK    = 1
	PulseError = 10

	promptSource = 1
	promptErase  = 4
)

// Menu is the number of learn button presses.
type Menu int

const (
	MenuSingle Menu = iota + 1
	MenuDouble
	MenuTriple
	MenuErase
	MenuDebugAny
	MenuDebugMatch
	MenuDebug32
	MenuDebug16
)

var (
	// ErrMenu is returned for a press count with no menu.
	ErrMenu = errors.New("learn: no such menu")
	// ErrSelfMapping is returned when a target is the source key again.
	ErrSelfMapping = errors.New("learn: target equals source")
	// ErrEraseAborted is returned when the erase confirmation repeats the first key.
	ErrEraseAborted = errors.New("learn: erase not confirmed")
)

// Table is the part of the translation table a session writes.
type Table interface {
	AppendChain(chain []irblaster.Record) error
	EraseAll() error
}

// Frames delivers decoded frames while learning. Await blinks prompt()
// pulses until a frame arrives; frames received before the call are
// dropped.
type Frames interface {
	Await(ctx context.Context, prompt func() int) (irblaster.Record, error)
}

// Feedback signals the operator.
type Feedback interface {
	Blink(count int)
}

// Session binds the collaborators of a learn session.
type Session struct {
	Table    Table
	Frames   Frames
	Feedback Feedback
	SetDebug func(irblaster.DebugMode)
}

// Outcome is the result of one session.
type Outcome struct {
	Menu Menu
	// Stored is the chain written, if any.
	Stored []irblaster.Record
	Err    error
}

type state uint8

const (
	menuSelect state = iota
	enterSource
	enterTarget
	eraseConfirm
	setDebug
	done
)

type run struct {
	*Session
	ctx     context.Context
	presses func() int

	menu    Menu
	first   irblaster.Record
	source  uint32
	targets []irblaster.Record
}

// Run executes one session. presses reports the learn button count,
// which may still grow until the menu is confirmed. The outcome is
// signalled on Feedback unless ctx was cancelled.
func (s *Session) Run(ctx context.Context, presses func() int) Outcome {
	r := &run{Session: s, ctx: ctx, presses: presses}
	st := menuSelect
	var err error
	for st != done && err == nil {
		st, err = r.step(st)
	}

	out := Outcome{Menu: r.menu, Err: err}
	if err == nil && len(r.targets) > 0 {
		out.Stored = r.targets
	}
	switch {
	case ctx.Err() != nil:
	case err != nil:
		s.Feedback.Blink(PulseError)
	default:
		s.Feedback.Blink(PulseOK)
	}
	return out
}

func fixed(n int) func() int {
	return func() int { return n }
}

func (r *run) step(st state) (state, error) {
	switch st {
	case menuSelect:
		f, err := r.Frames.Await(r.ctx, r.presses)
		if err != nil {
			return done, err
		}
		r.first = f
		r.menu = Menu(r.presses())
		switch {
		case r.menu >= MenuSingle && r.menu <= MenuTriple:
			return enterSource, nil
		case r.menu == MenuErase:
			return eraseConfirm, nil
		case r.menu >= MenuDebugAny && r.menu <= MenuDebug16:
			return setDebug, nil
		}
		return done, fmt.Errorf("%w: %d", ErrMenu, r.menu)

	case setDebug:
		if r.SetDebug != nil {
			r.SetDebug(irblaster.DebugMode(r.menu-MenuDebugAny) + irblaster.DebugAnyFrame)
		}
		return done, nil

	case eraseConfirm:
		f, err := r.Frames.Await(r.ctx, fixed(promptErase))
		if err != nil {
			return done, err
		}
		if f.Compare == r.first.Compare {
			return done, ErrEraseAborted
		}
		return done, r.Table.EraseAll()

	case enterSource:
		f, err := r.Frames.Await(r.ctx, fixed(promptSource))
		if err != nil {
			return done, err
		}
		r.source = f.Compare
		return enterTarget, nil

	case enterTarget:
		f, err := r.Frames.Await(r.ctx, fixed(len(r.targets)+2))
		if err != nil {
			return done, err
		}
		if f.Compare == r.source {
			return done, ErrSelfMapping
		}
		r.targets = append(r.targets, f)
		if len(r.targets) < int(r.menu) {
			return enterTarget, nil
		}
		return done, r.store()
	}
	return done, nil
}

// store links the targets into a chain under the source key and writes
// it in one go.
func (r *run) store() error {
	for i := range r.targets {
		t := &r.targets[i]
		t.Compare = 0
		if i == 0 {
			t.Compare = r.source
		}
		t.Next = 0
		if i < len(r.targets)-1 {
			t.Next = irblaster.ChainMarker
		}
	}
	return r.Table.AppendChain(r.targets)
}
