package core

// Pin identifies a hardware pin in the target's numbering scheme.
type Pin uint8

// TimerDriver is the per-architecture backend behind WaveformClock.
// Exactly one implementation is compiled into a firmware image; the target
// package constructs it and hands it to NewWaveformClock.
type TimerDriver interface {
	// StartPeriodic arms the single waveform timer. fire is called from
	// interrupt context once every periodTicks ticks, forever.
	StartPeriodic(periodTicks uint32, fire func()) error

	// TicksUntilFire returns how many ticks remain before the next fire.
	// Only meaningful once armed.
	TicksUntilFire() uint32

	// IsPWMPin reports whether pin is an output of the waveform timer's
	// compare channels. Static table, no side effects.
	IsPWMPin(pin Pin) bool

	// SetNextDuty latches 0% (false) or 100% (true) duty for pin, taking
	// effect at the next timer wrap.
	SetNextDuty(pin Pin, high bool)

	// ClearPWM detaches every compare channel and drives the pins low.
	ClearPWM()

	// FreeMemory returns the current free memory in bytes. Called from
	// interrupt context: must be O(1) and must not allocate.
	FreeMemory() int32

	// UniqueID returns chip-unique bytes (flash or die serial), or nil.
	UniqueID() []byte
}
