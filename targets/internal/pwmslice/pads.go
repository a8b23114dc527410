// Package pwmslice tracks the GPIO pads of one RP2040 PWM slice: which pads
// a board routed to the slice and which of those ClearPWM handed back to
// GPIO. It holds no hardware state so the target code can keep every pad
// reconfiguration in the foreground.
package pwmslice

// Slice0 lists the outputs of PWM slice 0: GPIO0/GPIO16 on channel A,
// GPIO1/GPIO17 on channel B.
var Slice0 = [4]uint8{0, 1, 16, 17}

// Pads is a bit per Slice0 entry. The zero value has nothing routed.
type Pads struct {
	routed uint8
	parked uint8
}

// Index returns the Slice0 position of pin.
func Index(pin uint8) (uint8, bool) {
	for i, p := range Slice0 {
		if p == pin {
			return uint8(i), true
		}
	}
	return 0, false
}

// Channel returns 0 for channel A, 1 for channel B.
func Channel(pin uint8) uint8 {
	return pin & 1
}

// Route marks pin as wired to the slice. It reports false for pins the
// slice cannot drive.
func (p *Pads) Route(pin uint8) bool {
	i, ok := Index(pin)
	if !ok {
		return false
	}
	p.routed |= 1 << i
	p.parked &^= 1 << i
	return true
}

// Routed reports whether pin was routed.
func (p *Pads) Routed(pin uint8) bool {
	i, ok := Index(pin)
	return ok && p.routed&(1<<i) != 0
}

// Park returns the routed pads not yet parked and marks them parked.
func (p *Pads) Park() []uint8 {
	var pins []uint8
	for i, pin := range Slice0 {
		bit := uint8(1) << i
		if p.routed&bit == 0 || p.parked&bit != 0 {
			continue
		}
		p.parked |= bit
		pins = append(pins, pin)
	}
	return pins
}

// Unpark clears the parked mark of pin and reports whether it was set, in
// which case the caller must restore the pad's PWM function.
func (p *Pads) Unpark(pin uint8) bool {
	i, ok := Index(pin)
	if !ok || p.parked&(1<<i) == 0 {
		return false
	}
	p.parked &^= 1 << i
	return true
}
