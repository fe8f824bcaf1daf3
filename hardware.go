package irblaster

import "time"

// Timer is a one-shot hardware timer. Arm replaces any pending expiry;
// fire runs in interrupt context.
type Timer interface {
	Arm(d time.Duration, fire func())
	Stop()
}

// EdgeCapture reports every transition of the IR receiver output with a
// monotonic timestamp. Listen(nil) is not used; call Stop instead.
type EdgeCapture interface {
	Listen(edge func(at time.Duration))
	Stop()
}

// OutputLine gates the carrier to the IR emitter: mark enables the
// 38kHz carrier, space turns it off.
type OutputLine interface {
	Set(mark bool)
}

// Indicator is the operator feedback device.
type Indicator interface {
	// Blink emits count pulses followed by one longer idle gap and
	// returns when the gap has passed.
	Blink(count int)
	// Toggle flips the indicator once; safe from interrupt context.
	Toggle()
}
