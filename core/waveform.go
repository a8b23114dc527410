package core

import (
	"math"
	"sync/atomic"
)

// FreeMemorySentinel is the watermark value before any measurement.
const FreeMemorySentinel = math.MaxInt32

// GuardTicks is the margin kept free ahead of each waveform fire. A
// foreground conversion is only started if it will finish this many ticks
// before the interrupt is due.
const GuardTicks = 4 * TicksPerMicrosecond

var clockClaimed atomic.Bool

// WaveformClock owns the single timer that paces the DCC waveform. One per
// process; construct it at start-up and pass it to the waveform encoder and
// the analog sampler.
//
// Methods with the ISR suffix may be called from the waveform callback.
// Everything else is foreground-only and not reentrant.
type WaveformClock struct {
	driver   TimerDriver
	callback func()
	armed    bool

	fires   atomic.Uint32
	minFree atomic.Int32

	mac      [6]byte
	macValid bool
}

// NewWaveformClock wraps the target's timer backend. Constructing a second
// clock in the same process panics with ErrDuplicateInstance.
func NewWaveformClock(d TimerDriver) *WaveformClock {
	assert(clockClaimed.CompareAndSwap(false, true), ErrDuplicateInstance)
	c := &WaveformClock{driver: d}
	c.minFree.Store(FreeMemorySentinel)
	return c
}

// Begin stores the waveform callback and arms the timer. The callback runs
// in interrupt context every DCCSignalTime microseconds and must not block.
// Calling Begin twice panics with ErrAlreadyArmed.
func (c *WaveformClock) Begin(callback func()) {
	assert(callback != nil, ErrNilCallback)
	assert(!c.armed, ErrAlreadyArmed)

	state := disableInterrupts()
	c.callback = callback
	err := c.driver.StartPeriodic(HalfCycleTicks(), c.fire)
	if err == nil {
		c.armed = true
	}
	restoreInterrupts(state)

	if err != nil {
		panic(err)
	}
}

// fire is the interrupt trampoline handed to the backend.
func (c *WaveformClock) fire() {
	c.fires.Add(1)
	c.callback()
}

// Armed reports whether Begin has run.
func (c *WaveformClock) Armed() bool {
	return c.armed
}

// Fires returns the number of waveform interrupts delivered so far.
func (c *WaveformClock) Fires() uint32 {
	return c.fires.Load()
}

// IsPWMPin reports whether pin can be driven by hardware duty-cycle edges.
func (c *WaveformClock) IsPWMPin(pin Pin) bool {
	return c.driver.IsPWMPin(pin)
}

// SetPWM latches the duty cycle of pin for the next timer cycle: 100% when
// high, 0% otherwise. The edge lands on the next timer wrap, which is when
// the following callback runs; to match a software-toggled pin, pass the
// level that pin will take in that callback. Within one cycle the last call
// wins.
func (c *WaveformClock) SetPWM(pin Pin, high bool) {
	if debugAssertions {
		assert(c.driver.IsPWMPin(pin), ErrNotPWMPin)
	} else if !c.driver.IsPWMPin(pin) {
		return
	}
	c.driver.SetNextDuty(pin, high)
}

// ClearPWM returns all hardware PWM outputs to their inactive state.
func (c *WaveformClock) ClearPWM() {
	c.driver.ClearPWM()
}

// UpdateMinimumFreeMemoryISR records the worst free memory seen, less
// extraBytes of headroom the caller expects deeper calls to use. Call with
// interrupts disabled (normally from the waveform callback). The watermark
// never rises again even if memory is released.
func (c *WaveformClock) UpdateMinimumFreeMemoryISR(extraBytes uint8) {
	spare := c.driver.FreeMemory() - int32(extraBytes)
	if spare < 0 {
		spare = 0
	}
	if spare < c.minFree.Load() {
		c.minFree.Store(spare)
	}
}

// MinimumFreeMemory returns the low-memory watermark.
func (c *WaveformClock) MinimumFreeMemory() int32 {
	return c.minFree.Load()
}

// Reset restores the watermark sentinel. The timer keeps running.
func (c *WaveformClock) Reset() {
	state := disableInterrupts()
	c.minFree.Store(FreeMemorySentinel)
	restoreInterrupts(state)
}

// ConversionWindowOpen reports whether an operation lasting ticks can run
// in the foreground before the next waveform fire, keeping GuardTicks clear.
func (c *WaveformClock) ConversionWindowOpen(ticks uint32) bool {
	if !c.armed {
		return true
	}
	return c.driver.TicksUntilFire() >= ticks+GuardTicks
}
