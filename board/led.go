//go:build tinygo

package board

import (
	"machine"
	"time"
)

const (
	pulse = 150 * time.Millisecond
	gap   = 800 * time.Millisecond
)

// LED is the status LED. It implements irblaster.Indicator.
type LED struct {
	pin machine.Pin
}

func NewLED(pin machine.Pin) *LED {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &LED{pin: pin}
}

func (l *LED) Blink(count int) {
	for i := 0; i < count; i++ {
		l.pin.High()
		time.Sleep(pulse)
		l.pin.Low()
		time.Sleep(pulse)
	}
	time.Sleep(gap)
}

func (l *LED) Toggle() {
	l.pin.Set(!l.pin.Get())
}
