package sim

import (
	"errors"

	"dccgen/core"
)

// ErrTimerStarted is returned when StartPeriodic is called twice.
var ErrTimerStarted = errors.New("sim: timer already started")

// channel is one compare output of the simulated timer.
type channel struct {
	attached bool
	pending  bool // latched at the next wrap
	output   bool
}

// Timer simulates the waveform timer and its two compare outputs. It
// implements core.TimerDriver.
type Timer struct {
	now      uint64
	period   uint32
	nextFire uint64
	fire     func()
	armed    bool

	fireTimes []uint64
	channels  map[core.Pin]*channel

	freeMemory int32
	uniqueID   []byte
}

// NewTimer returns a stopped timer whose compare channels drive pwmPins.
func NewTimer(pwmPins ...core.Pin) *Timer {
	t := &Timer{
		channels:   make(map[core.Pin]*channel, len(pwmPins)),
		freeMemory: 32 * 1024,
	}
	for _, pin := range pwmPins {
		t.channels[pin] = &channel{}
	}
	return t
}

// StartPeriodic arms the timer; the first fire is one period from now.
func (t *Timer) StartPeriodic(periodTicks uint32, fire func()) error {
	if t.armed {
		return ErrTimerStarted
	}
	if periodTicks == 0 {
		return errors.New("sim: zero timer period")
	}
	t.period = periodTicks
	t.fire = fire
	t.nextFire = t.now + uint64(periodTicks)
	t.armed = true
	return nil
}

// TicksUntilFire returns the ticks left before the next fire.
func (t *Timer) TicksUntilFire() uint32 {
	if !t.armed {
		return 0
	}
	return uint32(t.nextFire - t.now)
}

// Advance moves simulated time forward, firing at every period boundary
// crossed. Compare channels latch their pending duty before each fire, as
// double-buffered hardware does at wrap.
func (t *Timer) Advance(ticks uint64) {
	target := t.now + ticks
	for t.armed && t.nextFire <= target {
		t.now = t.nextFire
		t.latch()
		t.fireTimes = append(t.fireTimes, t.now)
		t.fire()
		t.nextFire += uint64(t.period)
	}
	t.now = target
}

// AdvanceUS moves simulated time forward by us microseconds.
func (t *Timer) AdvanceUS(us uint32) {
	t.Advance(uint64(core.TicksFromUS(us)))
}

// AdvanceCycles moves time to just after the n-th next fire.
func (t *Timer) AdvanceCycles(n int) {
	if !t.armed || n <= 0 {
		return
	}
	t.Advance(t.nextFire - t.now + uint64(n-1)*uint64(t.period))
}

func (t *Timer) latch() {
	for _, ch := range t.channels {
		if ch.attached {
			ch.output = ch.pending
		}
	}
}

// Now returns the simulated tick count.
func (t *Timer) Now() uint64 {
	return t.now
}

// FireTimes returns the tick of every fire so far.
func (t *Timer) FireTimes() []uint64 {
	return append([]uint64(nil), t.fireTimes...)
}

// IsPWMPin reports whether pin is one of the timer's compare outputs.
func (t *Timer) IsPWMPin(pin core.Pin) bool {
	_, ok := t.channels[pin]
	return ok
}

// SetNextDuty latches the duty applied at the next fire.
func (t *Timer) SetNextDuty(pin core.Pin, high bool) {
	ch, ok := t.channels[pin]
	if !ok {
		return
	}
	ch.attached = true
	ch.pending = high
}

// ClearPWM detaches every channel and drives it low.
func (t *Timer) ClearPWM() {
	for _, ch := range t.channels {
		*ch = channel{}
	}
}

// Output returns the current level of a compare output and whether the
// channel is attached.
func (t *Timer) Output(pin core.Pin) (high, attached bool) {
	ch, ok := t.channels[pin]
	if !ok {
		return false, false
	}
	return ch.output, ch.attached
}

// SetFreeMemory sets the figure FreeMemory reports.
func (t *Timer) SetFreeMemory(n int32) {
	t.freeMemory = n
}

// FreeMemory returns the simulated free memory in bytes.
func (t *Timer) FreeMemory() int32 {
	return t.freeMemory
}

// SetUniqueID sets the chip serial returned by UniqueID.
func (t *Timer) SetUniqueID(id []byte) {
	t.uniqueID = append([]byte(nil), id...)
}

// UniqueID returns the simulated chip serial, nil by default.
func (t *Timer) UniqueID() []byte {
	return t.uniqueID
}
