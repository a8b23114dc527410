package sim

import (
	"errors"

	"dccgen/core"
)

// ErrADCBusy is returned by Start while a conversion is in flight.
var ErrADCBusy = errors.New("sim: conversion in progress")

// Clock is the time source of the simulated converter.
type Clock interface {
	Now() uint64
}

// ADC simulates a single successive-approximation converter shared by all
// pins. It implements core.AnalogDriver.
type ADC struct {
	clock           Clock
	conversionTicks uint32

	sources    map[core.Pin]int32
	configured map[core.Pin]int

	busy    bool
	pin     core.Pin
	started uint64
	spun    uint64
	result  int32

	conversions int
	starts      int
}

// NewADC returns a converter timed by clock. conversionTicks of zero makes
// every conversion complete inside Start.
func NewADC(clock Clock, conversionTicks uint32) *ADC {
	return &ADC{
		clock:           clock,
		conversionTicks: conversionTicks,
		sources:         make(map[core.Pin]int32),
		configured:      make(map[core.Pin]int),
	}
}

// SetValue sets the level the converter will read on pin.
func (a *ADC) SetValue(pin core.Pin, v int32) {
	a.sources[pin] = v
}

// ConfigureChannel records the one-time setup of pin.
func (a *ADC) ConfigureChannel(pin core.Pin) error {
	a.configured[pin]++
	return nil
}

// Start begins a conversion on pin.
func (a *ADC) Start(pin core.Pin) error {
	if a.busy {
		return ErrADCBusy
	}
	a.starts++
	a.pin = pin
	if a.conversionTicks == 0 {
		a.finish()
		return nil
	}
	a.busy = true
	a.started = a.clock.Now()
	a.spun = 0
	return nil
}

// Done reports whether the conversion has finished. A poll that finds the
// converter busy counts as one tick of foreground spinning, so blocking
// loops terminate even while simulated time stands still.
func (a *ADC) Done() bool {
	if !a.busy {
		return true
	}
	if a.clock.Now()-a.started+a.spun >= uint64(a.conversionTicks) {
		a.finish()
		return true
	}
	a.spun++
	return false
}

func (a *ADC) finish() {
	a.result = a.sources[a.pin]
	a.busy = false
	a.conversions++
}

// Result returns the last finished conversion.
func (a *ADC) Result() int32 {
	return a.result
}

// ConversionTicks returns the conversion time.
func (a *ADC) ConversionTicks() uint32 {
	return a.conversionTicks
}

// Busy reports whether a conversion is in flight.
func (a *ADC) Busy() bool {
	return a.busy
}

// Converting reports whether the converter is sampling right now, as
// opposed to holding a finished result nobody has polled yet.
func (a *ADC) Converting() bool {
	return a.busy && a.clock.Now()-a.started < uint64(a.conversionTicks)
}

// Conversions returns the number of finished conversions.
func (a *ADC) Conversions() int {
	return a.conversions
}

// Starts returns the number of conversions started.
func (a *ADC) Starts() int {
	return a.starts
}

// Configured returns how many times pin was configured.
func (a *ADC) Configured(pin core.Pin) int {
	return a.configured[pin]
}
