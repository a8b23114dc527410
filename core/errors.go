package core

import "errors"

// Contract violations. These are raised with panic: the core has no
// recoverable error channel, a misconfigured board should stop at start-up.
var (
	ErrDuplicateInstance = errors.New("core: service already constructed")
	ErrNilCallback       = errors.New("core: waveform callback is nil")
	ErrAlreadyArmed      = errors.New("core: waveform timer already armed")
	ErrNotPWMPin         = errors.New("core: pin has no hardware PWM channel")
	ErrPinNotRegistered  = errors.New("core: analog pin not registered")
	ErrTooManyPins       = errors.New("core: too many analog pins")
)
