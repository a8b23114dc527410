package core

import "sync/atomic"

// MaxAnalogPins is the number of sampler slots.
const MaxAnalogPins = 16

var samplerClaimed atomic.Bool

// AnalogSampler keeps the latest reading of every registered analog pin.
// Readings are refreshed by Scan from the foreground; the waveform callback
// reads the cache through ReadISR and never waits for the converter.
type AnalogSampler struct {
	driver AnalogDriver
	pacer  Pacer

	usedPins uint16 // bit per slot
	pins     [MaxAnalogPins]Pin
	values   [MaxAnalogPins]atomic.Int32
	count    uint8

	// scan state, foreground only
	next     uint8
	busy     bool
	busySlot uint8
	skips    atomic.Uint32
}

// NewAnalogSampler creates the process-wide sampler. pacer is normally the
// WaveformClock. Constructing a second sampler panics with
// ErrDuplicateInstance.
func NewAnalogSampler(d AnalogDriver, pacer Pacer) *AnalogSampler {
	assert(samplerClaimed.CompareAndSwap(false, true), ErrDuplicateInstance)
	return &AnalogSampler{driver: d, pacer: pacer}
}

// Init registers pin and returns its first reading so callers can take an
// offset. Registering a pin again returns the cached value without
// touching the hardware.
func (s *AnalogSampler) Init(pin Pin) int32 {
	if slot, ok := s.slotOf(pin); ok {
		return s.values[slot].Load()
	}
	assert(s.count < MaxAnalogPins, ErrTooManyPins)
	if err := s.driver.ConfigureChannel(pin); err != nil {
		panic(err)
	}

	// Finish any scan conversion first, the converter does one at a time.
	for s.busy {
		s.collect()
	}

	slot := s.count
	value := s.convertBlocking(pin)
	s.pins[slot] = pin
	s.values[slot].Store(value)
	s.count++
	s.usedPins |= 1 << slot
	return value
}

// ReadISR returns the cached reading of pin. Never starts a conversion and
// never blocks; the value may be up to one scan cycle old.
func (s *AnalogSampler) ReadISR(pin Pin) int32 {
	slot, ok := s.slotOf(pin)
	if !ok {
		if debugAssertions {
			panic(ErrPinNotRegistered)
		}
		return 0
	}
	return s.values[slot].Load()
}

// Read advances the scan by one step and returns the cached reading of pin.
// Foreground only.
func (s *AnalogSampler) Read(pin Pin) int32 {
	_, ok := s.slotOf(pin)
	assert(ok, ErrPinNotRegistered)
	s.Scan()
	return s.ReadISR(pin)
}

// ReadFrom dispatches to ReadISR or Read.
func (s *AnalogSampler) ReadFrom(pin Pin, fromISR bool) int32 {
	if fromISR {
		return s.ReadISR(pin)
	}
	return s.Read(pin)
}

// Scan makes one step of progress through the registered pins: it collects
// a finished conversion, or starts the next one if the pacer says it fits
// before the waveform interrupt. A slot that does not fit is skipped for
// this step, never delayed into the interrupt window.
func (s *AnalogSampler) Scan() {
	if s.count == 0 {
		return
	}
	if s.busy {
		s.collect()
		return
	}
	if !s.pacer.ConversionWindowOpen(s.driver.ConversionTicks()) {
		s.skips.Add(1)
		return
	}

	slot := s.next
	if err := s.driver.Start(s.pins[slot]); err != nil {
		// Keep the stale value and move on.
		s.advance()
		return
	}
	s.busy = true
	s.busySlot = slot
	s.collect()
}

// collect stores the in-flight conversion if it has finished.
func (s *AnalogSampler) collect() {
	if !s.driver.Done() {
		return
	}
	s.values[s.busySlot].Store(s.driver.Result())
	s.busy = false
	s.advance()
}

func (s *AnalogSampler) advance() {
	s.next++
	if s.next >= s.count {
		s.next = 0
	}
}

// convertBlocking runs one conversion to completion. Start-up only.
func (s *AnalogSampler) convertBlocking(pin Pin) int32 {
	if err := s.driver.Start(pin); err != nil {
		panic(err)
	}
	for !s.driver.Done() {
	}
	return s.driver.Result()
}

func (s *AnalogSampler) slotOf(pin Pin) (uint8, bool) {
	for slot := uint8(0); slot < s.count; slot++ {
		if s.usedPins&(1<<slot) != 0 && s.pins[slot] == pin {
			return slot, true
		}
	}
	return 0, false
}

// Registered reports whether pin was passed to Init.
func (s *AnalogSampler) Registered(pin Pin) bool {
	_, ok := s.slotOf(pin)
	return ok
}

// Pins returns the registered pins in slot order.
func (s *AnalogSampler) Pins() []Pin {
	return append([]Pin(nil), s.pins[:s.count]...)
}

// Skips counts scan steps that yielded to the waveform interrupt.
func (s *AnalogSampler) Skips() uint32 {
	return s.skips.Load()
}
