//go:build tinygo

// Package board is the TinyGo hardware backend: an IR receiver on a pin
// interrupt, a PWM carrier for the IR LED, software timers, the status
// LED, the learn button and flash page storage.
package board

import (
	"machine"
	"time"

	"github.com/sparques/irblaster/blaster"
)

// Pins selects the board wiring.
type Pins struct {
	// Rx is the demodulating receiver output; idle high, low during a mark.
	Rx machine.Pin
	// Tx drives the IR LED with the PWM carrier.
	Tx     machine.Pin
	LED    machine.Pin
	Button machine.Pin
}

var epoch = time.Now()

// Now is the monotonic time since boot.
func Now() time.Duration {
	return time.Since(epoch)
}

// Open configures the pins and returns the devices for a Blaster and the
// learn button.
func Open(p Pins) (blaster.Hardware, *Button) {
	hw := blaster.Hardware{
		Receiver:  NewRxDevice(p.Rx),
		Timeout:   new(Timer),
		Step:      new(Timer),
		Emitter:   NewTxDevice(p.Tx),
		Indicator: NewLED(p.LED),
		Now:       Now,
	}
	return hw, NewButton(p.Button)
}
