//go:build rp2040

package main

import (
	"machine"
	"strconv"
	"time"

	"dccgen/core"
)

// Board wiring
const trackSoftPin = machine.GP2 // track B, software-toggled

const (
	trackPWMPin core.Pin = 0  // track A, slice 0 channel A
	senseA      core.Pin = 26 // motor shield current sense
)

const (
	diagInterval   = time.Second
	memoryHeadroom = 16 // bytes the callback's callees may use
)

// idleEncoder stands in for the packet encoder: it emits a continuous
// stream of DCC "1" bits on both tracks, one rendered by the PWM latch and
// one toggled in software.
type idleEncoder struct {
	clock   *core.WaveformClock
	sampler *core.AnalogSampler
	level   bool
	offset  int32 // zero-current reading taken at start-up
	peak    int32 // highest reading above offset
}

// tick runs in interrupt context every half-cycle.
func (e *idleEncoder) tick() {
	e.level = !e.level
	trackSoftPin.Set(e.level)

	// The PWM channel latches at the next wrap, so queue the level the
	// software pin takes on the next fire; both edges then share a wrap.
	e.clock.SetPWM(trackPWMPin, !e.level)

	if current := e.sampler.ReadISR(senseA) - e.offset; current > e.peak {
		e.peak = current
	}
	e.clock.UpdateMinimumFreeMemoryISR(memoryHeadroom)
}

func main() {
	InitUSB()
	core.SetDebugWriter(usbWriteLine)
	refreshFreeMemory()

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	trackSoftPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	clock := core.NewWaveformClock(NewPWMSliceTimer(trackPWMPin))

	machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400e3,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	ina := newINA260Channel(machine.I2C0)
	sampler := core.NewAnalogSampler(newAnalogRouter(NewRpADCDriver(), ina), clock)

	// Analog pins must be registered before the timer is armed.
	offset := sampler.Init(senseA)
	sampler.Init(adcTempPin)
	if ina.present {
		sampler.Init(trackCurrentPin)
		sampler.Init(trackVoltagePin)
	}

	if !clock.IsPWMPin(trackPWMPin) {
		panic(core.ErrNotPWMPin)
	}
	encoder := &idleEncoder{clock: clock, sampler: sampler, offset: offset}
	clock.Begin(encoder.tick)
	core.DebugPrintln("dccgen: waveform armed")

	lastReport := time.Now()
	for {
		refreshFreeMemory()
		sampler.Scan()

		if time.Since(lastReport) >= diagInterval {
			lastReport = time.Now()
			core.ReportDiagnostics(clock, sampler)
			if core.IsDebugEnabled() {
				core.DebugPrintln("peak=" + strconv.Itoa(int(encoder.peak)))
			}
			led.Set(!led.Get())
		}

		time.Sleep(10 * time.Microsecond)
	}
}
