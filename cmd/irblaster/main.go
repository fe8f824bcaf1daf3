//go:build tinygo && rp2040

// Command irblaster is the translator firmware.
package main

import (
	"context"
	"machine"

	"github.com/sparques/irblaster/blaster"
	"github.com/sparques/irblaster/board"
	"github.com/sparques/irblaster/learn"
	"github.com/sparques/irblaster/table"
)

const (
	PIN_RX     = machine.GP15
	PIN_TX     = machine.GP16
	PIN_BUTTON = machine.GP14
	PIN_LED    = machine.LED
)

func main() {
	hw, button := board.Open(board.Pins{Rx: PIN_RX, Tx: PIN_TX, LED: PIN_LED, Button: PIN_BUTTON})

	flash, err := board.NewFlash(machine.Flash, 0)
	if err != nil {
		fail(hw)
	}
	tb, err := table.New(flash, flash.Config())
	if err != nil {
		fail(hw)
	}

	machine.Serial.Configure(machine.UARTConfig{BaudRate: 115200})
	b := blaster.New(hw, tb, blaster.Config{Dump: machine.Serial})
	button.OnPress(b.Trigger)
	b.Run(context.Background())
}

func fail(hw blaster.Hardware) {
	for {
		hw.Indicator.Blink(learn.PulseError)
	}
}
