//go:build tinygo

package board

import "machine"

// Button is the learn button, wired to ground.
type Button struct {
	pin machine.Pin
}

func NewButton(pin machine.Pin) *Button {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &Button{pin: pin}
}

// OnPress calls press from interrupt context on every falling edge.
// Debouncing is up to press.
func (b *Button) OnPress(press func()) {
	b.pin.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		press()
	})
}
