//go:build rp2040

package main

import (
	"device/rp"
	"machine"
	"runtime/interrupt"
	"runtime/volatile"

	"dccgen/core"
	"dccgen/targets/internal/pwmslice"
)

// The waveform timer is PWM slice 0. Its wrap interrupt paces the DCC
// waveform and its two compare channels render hardware-driven track pins.

// gpioFuncPWM is the IO_BANK0 FUNCSEL value routing a pad to its PWM slice.
const gpioFuncPWM = 4

// waveformFire is the callback run from the wrap interrupt.
var waveformFire func()

// PWMSliceTimer implements core.TimerDriver on one RP2040 PWM slice.
// The compare registers are double-buffered and latch at wrap, which gives
// SetNextDuty its next-cycle semantics for free.
type PWMSliceTimer struct {
	top      uint32
	pads     pwmslice.Pads
	uniqueID []byte
}

// NewPWMSliceTimer routes the given pins to slice 0. Pins the slice cannot
// drive are ignored and report false from IsPWMPin. The timer is not
// started until StartPeriodic.
func NewPWMSliceTimer(pins ...core.Pin) *PWMSliceTimer {
	t := &PWMSliceTimer{uniqueID: machine.DeviceID()}
	for _, pin := range pins {
		if t.pads.Route(uint8(pin)) {
			machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinPWM})
		}
	}
	return t
}

// gpioCtrl returns the IO_BANK0 control register of a slice 0 pad.
func gpioCtrl(pin core.Pin) *volatile.Register32 {
	switch pin {
	case 0:
		return &rp.IO_BANK0.GPIO0_CTRL
	case 1:
		return &rp.IO_BANK0.GPIO1_CTRL
	case 16:
		return &rp.IO_BANK0.GPIO16_CTRL
	}
	return &rp.IO_BANK0.GPIO17_CTRL
}

// StartPeriodic runs the slice at clk_sys with TOP = periodTicks-1 and
// enables its wrap interrupt at the highest priority.
func (t *PWMSliceTimer) StartPeriodic(periodTicks uint32, fire func()) error {
	t.top = periodTicks - 1
	waveformFire = fire

	rp.PWM.CH0_CSR.Set(0)
	rp.PWM.CH0_DIV.Set(1 << rp.PWM_CH0_DIV_INT_Pos)
	rp.PWM.CH0_TOP.Set(t.top)
	rp.PWM.CH0_CC.Set(0)
	rp.PWM.CH0_CTR.Set(0)

	rp.PWM.INTR.Set(rp.PWM_INTR_CH0)
	rp.PWM.INTE.SetBits(rp.PWM_INTE_CH0)
	intr := interrupt.New(rp.IRQ_PWM_IRQ_WRAP, pwmWrapHandler)
	intr.SetPriority(0x00)
	intr.Enable()

	rp.PWM.CH0_CSR.SetBits(rp.PWM_CH0_CSR_EN)
	return nil
}

func pwmWrapHandler(interrupt.Interrupt) {
	rp.PWM.INTR.Set(rp.PWM_INTR_CH0)
	waveformFire()
}

// TicksUntilFire reads the free-running counter.
func (t *PWMSliceTimer) TicksUntilFire() uint32 {
	return t.top + 1 - rp.PWM.CH0_CTR.Get()
}

// IsPWMPin reports whether pin was routed to the slice at construction.
func (t *PWMSliceTimer) IsPWMPin(pin core.Pin) bool {
	return t.pads.Routed(uint8(pin))
}

// SetNextDuty writes the compare value for pin's channel. CC=0 holds the
// output low for the whole cycle, CC=TOP+1 holds it high. A pad parked by
// ClearPWM is switched back to PWM with a single FUNCSEL write.
func (t *PWMSliceTimer) SetNextDuty(pin core.Pin, high bool) {
	if !t.pads.Routed(uint8(pin)) {
		return
	}
	if t.pads.Unpark(uint8(pin)) {
		gpioCtrl(pin).ReplaceBits(gpioFuncPWM<<rp.IO_BANK0_GPIO0_CTRL_FUNCSEL_Pos, rp.IO_BANK0_GPIO0_CTRL_FUNCSEL_Msk, 0)
	}

	var level uint32
	if high {
		level = t.top + 1
	}
	if pwmslice.Channel(uint8(pin)) == 0 {
		rp.PWM.CH0_CC.ReplaceBits(level<<rp.PWM_CH0_CC_A_Pos, rp.PWM_CH0_CC_A_Msk, 0)
	} else {
		rp.PWM.CH0_CC.ReplaceBits(level<<rp.PWM_CH0_CC_B_Pos, rp.PWM_CH0_CC_B_Msk, 0)
	}
}

// ClearPWM zeroes both compare channels and hands the routed pads back to
// GPIO, driven low. Pads never routed to the slice are left alone.
func (t *PWMSliceTimer) ClearPWM() {
	rp.PWM.CH0_CC.Set(0)
	for _, pin := range t.pads.Park() {
		p := machine.Pin(pin)
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
}

// FreeMemory returns the figure last sampled by refreshFreeMemory.
func (t *PWMSliceTimer) FreeMemory() int32 {
	return freeMemory.Load()
}

// UniqueID returns the flash chip's 64-bit unique ID.
func (t *PWMSliceTimer) UniqueID() []byte {
	return t.uniqueID
}
