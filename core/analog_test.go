package core_test

import (
	"testing"

	"dccgen/core"
)

const (
	pinA core.Pin = 26
	pinB core.Pin = 27
)

func TestInitReturnsFirstReading(t *testing.T) {
	r := newRig(t, 32)
	r.adc.SetValue(pinA, 300)

	if got := r.sampler.Init(pinA); got != 300 {
		t.Errorf("Expected first reading 300, got %d", got)
	}
	if !r.sampler.Registered(pinA) {
		t.Errorf("Pin %d not registered after Init", pinA)
	}
	if r.adc.Busy() {
		t.Errorf("Init left a conversion in flight")
	}
}

func TestInitIdempotent(t *testing.T) {
	r := newRig(t, 0)
	r.adc.SetValue(pinA, 300)
	first := r.sampler.Init(pinA)

	r.adc.SetValue(pinA, 500)
	starts := r.adc.Starts()
	second := r.sampler.Init(pinA)

	if second != first {
		t.Errorf("Second Init returned %d, want cached %d", second, first)
	}
	if got := r.adc.Configured(pinA); got != 1 {
		t.Errorf("Channel configured %d times, want 1", got)
	}
	if r.adc.Starts() != starts {
		t.Errorf("Second Init started a conversion")
	}
	if pins := r.sampler.Pins(); len(pins) != 1 {
		t.Errorf("Expected 1 registered pin, got %v", pins)
	}
}

func TestInitTooManyPins(t *testing.T) {
	r := newRig(t, 0)
	for pin := core.Pin(0); pin < core.MaxAnalogPins; pin++ {
		r.sampler.Init(pin)
	}
	expectPanic(t, core.ErrTooManyPins, func() { r.sampler.Init(core.MaxAnalogPins) })
}

func TestSecondSamplerPanics(t *testing.T) {
	r := newRig(t, 0)
	expectPanic(t, core.ErrDuplicateInstance, func() {
		core.NewAnalogSampler(r.adc, r.clock)
	})
}

func TestReadISRNeverConverts(t *testing.T) {
	r := newRig(t, 32)
	r.adc.SetValue(pinA, 111)
	r.sampler.Init(pinA)
	r.clock.Begin(func() {})

	r.adc.SetValue(pinA, 999)
	starts := r.adc.Starts()
	for i := 0; i < 100; i++ {
		if got := r.sampler.ReadISR(pinA); got != 111 {
			t.Fatalf("ReadISR returned %d, want cached 111", got)
		}
		if got := r.sampler.ReadFrom(pinA, true); got != 111 {
			t.Fatalf("ReadFrom(fromISR) returned %d, want cached 111", got)
		}
	}
	if r.adc.Starts() != starts || r.adc.Busy() {
		t.Errorf("ReadISR touched the converter: starts %d -> %d busy=%v", starts, r.adc.Starts(), r.adc.Busy())
	}
}

func TestReadISRFromCallback(t *testing.T) {
	r := newRig(t, 0)
	r.adc.SetValue(pinA, 42)
	r.sampler.Init(pinA)

	var seen []int32
	r.clock.Begin(func() {
		seen = append(seen, r.sampler.ReadISR(pinA))
	})
	r.timer.AdvanceCycles(3)

	if len(seen) != 3 || seen[2] != 42 {
		t.Errorf("Expected 3 callback reads of 42, got %v", seen)
	}
}

func TestReadUnregisteredPanics(t *testing.T) {
	r := newRig(t, 0)
	r.sampler.Init(pinA)

	expectPanic(t, core.ErrPinNotRegistered, func() { r.sampler.Read(pinB) })
}

func TestReadAdvancesScan(t *testing.T) {
	r := newRig(t, 0)
	r.adc.SetValue(pinA, 10)
	r.sampler.Init(pinA)
	r.adc.SetValue(pinA, 20)

	if got := r.sampler.ReadFrom(pinA, false); got != 20 {
		t.Errorf("Foreground read returned %d, want fresh 20", got)
	}
}

func TestScanOnePinPerCycle(t *testing.T) {
	r := newRig(t, 0)
	r.adc.SetValue(pinA, 100)
	r.adc.SetValue(pinB, 200)
	r.sampler.Init(pinA)
	r.sampler.Init(pinB)
	r.clock.Begin(func() {})

	r.adc.SetValue(pinA, 101)
	r.adc.SetValue(pinB, 201)
	conversions := r.adc.Conversions()

	r.timer.AdvanceCycles(1)
	r.sampler.Scan()
	if got := r.sampler.ReadISR(pinA); got != 101 {
		t.Errorf("After cycle 1: A=%d, want 101", got)
	}
	if got := r.sampler.ReadISR(pinB); got != 200 {
		t.Errorf("After cycle 1: B=%d, want unchanged 200", got)
	}

	r.timer.AdvanceCycles(1)
	r.sampler.Scan()
	if got := r.sampler.ReadISR(pinB); got != 201 {
		t.Errorf("After cycle 2: B=%d, want 201", got)
	}
	if got := r.adc.Conversions() - conversions; got != 2 {
		t.Errorf("Expected 2 scan conversions, got %d", got)
	}

	// Wraps around to the first slot.
	r.adc.SetValue(pinA, 102)
	r.timer.AdvanceCycles(1)
	r.sampler.Scan()
	if got := r.sampler.ReadISR(pinA); got != 102 {
		t.Errorf("After cycle 3: A=%d, want 102", got)
	}
}

func TestScanYieldsToWaveform(t *testing.T) {
	conv := core.TicksFromUS(10)
	r := newRig(t, conv)
	r.adc.SetValue(pinA, 1)
	r.sampler.Init(pinA)
	r.clock.Begin(func() {})
	r.adc.SetValue(pinA, 2)

	// Too close to the next fire: the slot is skipped.
	r.timer.Advance(uint64(core.HalfCycleTicks() - conv))
	starts := r.adc.Starts()
	r.sampler.Scan()
	if r.adc.Starts() != starts {
		t.Fatalf("Scan started a conversion %d ticks before the fire", r.timer.TicksUntilFire())
	}
	if r.sampler.Skips() != 1 {
		t.Errorf("Expected 1 skip, got %d", r.sampler.Skips())
	}

	// Right after the fire there is room.
	r.timer.AdvanceCycles(1)
	r.sampler.Scan()
	if !r.adc.Busy() {
		t.Fatalf("Expected a conversion in flight after the fire")
	}
	if got := r.sampler.ReadISR(pinA); got != 1 {
		t.Errorf("Value updated before the conversion finished: %d", got)
	}

	r.timer.Advance(uint64(conv))
	r.sampler.Scan()
	if got := r.sampler.ReadISR(pinA); got != 2 {
		t.Errorf("Expected collected value 2, got %d", got)
	}
}

func TestConversionsNeverSpanFire(t *testing.T) {
	conv := core.TicksFromUS(12)
	r := newRig(t, conv)
	r.sampler.Init(pinA)
	r.sampler.Init(pinB)

	overlaps := 0
	r.clock.Begin(func() {
		if r.adc.Converting() {
			overlaps++
		}
	})

	// Poll the scan at an interval unrelated to the waveform period.
	for i := 0; i < 5000; i++ {
		r.timer.Advance(37)
		r.sampler.Scan()
	}

	if overlaps != 0 {
		t.Errorf("%d conversions were running when the waveform fired", overlaps)
	}
	if r.adc.Conversions() < 100 {
		t.Errorf("Scan made too little progress: %d conversions", r.adc.Conversions())
	}
	t.Logf("fires=%d conversions=%d skips=%d", r.clock.Fires(), r.adc.Conversions(), r.sampler.Skips())
}

func TestInitWaitsForScanConversion(t *testing.T) {
	r := newRig(t, 64)
	r.adc.SetValue(pinA, 5)
	r.adc.SetValue(pinB, 6)
	r.sampler.Init(pinA)
	r.sampler.Scan() // leaves a conversion on A in flight

	if got := r.sampler.Init(pinB); got != 6 {
		t.Errorf("Init(B) returned %d, want 6", got)
	}
	if got := r.sampler.ReadISR(pinA); got != 5 {
		t.Errorf("A lost its reading: %d", got)
	}
}

func TestScanWithoutPins(t *testing.T) {
	r := newRig(t, 0)
	r.sampler.Scan()
	if r.adc.Starts() != 0 || r.sampler.Skips() != 0 {
		t.Errorf("Scan with no pins touched the converter")
	}
}
