//go:build tinygo

package board

import (
	"machine"

	"github.com/sparques/irblaster"
	"github.com/sparques/pwm"
)

// TxDevice gates a 38kHz carrier on the IR LED. It implements
// irblaster.OutputLine.
type TxDevice struct {
	pin    machine.Pin
	pgroup pwm.Group
	ch     uint8
	duty   uint32
}

func NewTxDevice(pin machine.Pin) *TxDevice {
	pin.Configure(machine.PinConfig{Mode: machine.PinPWM})
	pgroup := pwm.Get(pin)
	pgroup.Configure(machine.PWMConfig{Period: uint64(1e9) / uint64(irblaster.Freq38Khz)})
	ch, _ := pgroup.Channel(pin)
	pgroup.Set(ch, 0)
	return &TxDevice{
		pin:    pin,
		pgroup: pgroup,
		ch:     ch,
		duty:   pgroup.Top() / 2,
	}
}

func (tx *TxDevice) Set(mark bool) {
	if mark {
		tx.pgroup.Set(tx.ch, tx.duty)
		return
	}
	tx.pgroup.Set(tx.ch, 0)
}
