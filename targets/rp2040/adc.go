//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"machine"

	"dccgen/core"
)

const (
	// First GPIO with an ADC input; GPIO26..29 are AIN0..3.
	adcFirstPin = 26
	// Internal temperature sensor, addressed as channel 4.
	adcTempPin core.Pin = 30
)

var errNoADCChannel = errors.New("rp2040: pin has no ADC channel")

// RpADCDriver implements core.AnalogDriver on the RP2040's SAR ADC.
// Conversions are started with START_ONCE and polled through READY, so the
// sampler never spins on the converter outside start-up.
type RpADCDriver struct {
	initialized bool
}

// NewRpADCDriver returns the driver; the peripheral is powered on by the
// first ConfigureChannel.
func NewRpADCDriver() *RpADCDriver {
	return &RpADCDriver{}
}

func adcChannel(pin core.Pin) (uint32, bool) {
	switch {
	case pin == adcTempPin:
		return 4, true
	case pin >= adcFirstPin && pin < adcFirstPin+4:
		return uint32(pin - adcFirstPin), true
	}
	return 0, false
}

// ConfigureChannel powers the ADC once and puts the pad in analog mode.
func (d *RpADCDriver) ConfigureChannel(pin core.Pin) error {
	if _, ok := adcChannel(pin); !ok {
		return errNoADCChannel
	}
	if !d.initialized {
		machine.InitADC()
		d.initialized = true
	}
	if pin == adcTempPin {
		rp.ADC.CS.SetBits(rp.ADC_CS_TS_EN)
		return nil
	}
	adc := machine.ADC{Pin: machine.Pin(pin)}
	return adc.Configure(machine.ADCConfig{})
}

// Start selects the channel and triggers one conversion.
func (d *RpADCDriver) Start(pin core.Pin) error {
	ch, ok := adcChannel(pin)
	if !ok {
		return errNoADCChannel
	}
	rp.ADC.CS.ReplaceBits(ch<<rp.ADC_CS_AINSEL_Pos, rp.ADC_CS_AINSEL_Msk, 0)
	rp.ADC.CS.SetBits(rp.ADC_CS_EN | rp.ADC_CS_START_ONCE)
	// READY drops a few ADC clocks after the trigger; wait for it so Done
	// cannot report the previous conversion.
	for rp.ADC.CS.HasBits(rp.ADC_CS_READY) {
	}
	return nil
}

// Done reports the READY flag.
func (d *RpADCDriver) Done() bool {
	return rp.ADC.CS.HasBits(rp.ADC_CS_READY)
}

// Result returns the raw 12-bit conversion.
func (d *RpADCDriver) Result() int32 {
	return int32(rp.ADC.RESULT.Get() & 0xfff)
}

// ConversionTicks is 96 ADC clocks at 48MHz, 2us, rounded up.
func (d *RpADCDriver) ConversionTicks() uint32 {
	return core.TicksFromUS(3)
}
