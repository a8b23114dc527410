//go:build dccrelease

package core_test

import (
	"testing"
)

func TestSetPWMNonPWMPinIgnored(t *testing.T) {
	r := newRig(t, 0)
	r.clock.Begin(func() {
		r.clock.SetPWM(softPin, true)
		r.clock.SetPWM(pwmPinA, true)
	})
	r.timer.AdvanceCycles(2)

	if high, attached := r.timer.Output(softPin); high || attached {
		t.Errorf("Non-PWM pin reached the timer: high=%v attached=%v", high, attached)
	}
	if high, _ := r.timer.Output(pwmPinA); !high {
		t.Errorf("PWM pin not driven after ignored call")
	}
}

func TestReadISRUnregisteredReturnsZero(t *testing.T) {
	r := newRig(t, 0)
	r.adc.SetValue(pinA, 300)
	r.adc.SetValue(pinB, 500)
	r.sampler.Init(pinA)
	starts := r.adc.Starts()

	if got := r.sampler.ReadISR(pinB); got != 0 {
		t.Errorf("ReadISR on unregistered pin = %d, want 0", got)
	}
	if r.adc.Starts() != starts {
		t.Errorf("ReadISR started a conversion")
	}
	if got := r.sampler.ReadISR(pinA); got != 300 {
		t.Errorf("Registered pin read %d, want 300", got)
	}
}
