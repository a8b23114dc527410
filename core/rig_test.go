package core_test

import (
	"testing"

	"dccgen/core"
	"dccgen/core/sim"
)

// PWM outputs of the simulated timer, the A/B compare pins of Timer1 on a
// Mega motor shield.
const (
	pwmPinA core.Pin = 11
	pwmPinB core.Pin = 12
	softPin core.Pin = 7
)

type rig struct {
	timer   *sim.Timer
	adc     *sim.ADC
	clock   *core.WaveformClock
	sampler *core.AnalogSampler
}

func newRig(t *testing.T, conversionTicks uint32) *rig {
	t.Helper()
	core.ResetInstances()
	timer := sim.NewTimer(pwmPinA, pwmPinB)
	adc := sim.NewADC(timer, conversionTicks)
	clock := core.NewWaveformClock(timer)
	return &rig{
		timer:   timer,
		adc:     adc,
		clock:   clock,
		sampler: core.NewAnalogSampler(adc, clock),
	}
}

func expectPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("Expected panic with %v, got none", want)
		}
		if err, ok := r.(error); !ok || err != want {
			t.Fatalf("Expected panic with %v, got %v", want, r)
		}
	}()
	fn()
}
