//go:build tinygo

package board

import (
	"machine"
	"time"
)

// RxDevice reports receiver edges. It implements irblaster.EdgeCapture.
type RxDevice struct {
	pin  machine.Pin
	edge func(at time.Duration)
}

func NewRxDevice(pin machine.Pin) *RxDevice {
	// the most common receivers have a pull up pin builtin
	// but in the future, may want to add the option to use PinPullupInput
	pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	return &RxDevice{pin: pin}
}

func (rx *RxDevice) interruptHandler(machine.Pin) {
	rx.edge(Now())
}

// Listen sets the interrupt handler and thus starts reporting edges.
func (rx *RxDevice) Listen(edge func(at time.Duration)) {
	rx.edge = edge
	rx.pin.SetInterrupt(machine.PinFalling|machine.PinRising, rx.interruptHandler)
}

// Stop disables the interrupt handler.
func (rx *RxDevice) Stop() {
	rx.pin.SetInterrupt(machine.PinFalling|machine.PinRising, nil)
}
