//go:build rp2040

package main

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/ina260"

	"dccgen/core"
)

// Virtual analog pins served by an INA260 on the track feed.
const (
	trackCurrentPin core.Pin = 40 // milliamps
	trackVoltagePin core.Pin = 41 // millivolts
)

var errNoINA260 = errors.New("rp2040: INA260 not present")

// ina260Channel reads an INA260 power monitor as two analog pins. The chip
// converts continuously, so Start performs the I2C register read and the
// result is ready on return. The transfer can be preempted by the waveform
// interrupt without harm.
type ina260Channel struct {
	dev     ina260.Device
	present bool
	result  int32
}

func newINA260Channel(bus *machine.I2C) *ina260Channel {
	c := &ina260Channel{dev: ina260.New(bus)}
	c.present = c.dev.Connected()
	return c
}

func (c *ina260Channel) ConfigureChannel(pin core.Pin) error {
	if !c.present {
		return errNoINA260
	}
	return nil
}

func (c *ina260Channel) Start(pin core.Pin) error {
	if !c.present {
		return errNoINA260
	}
	switch pin {
	case trackCurrentPin:
		c.result = c.dev.Current() / 1000
	case trackVoltagePin:
		c.result = c.dev.Voltage() / 1000
	}
	return nil
}

func (c *ina260Channel) Done() bool              { return true }
func (c *ina260Channel) Result() int32           { return c.result }
func (c *ina260Channel) ConversionTicks() uint32 { return 0 }

// analogRouter combines the on-chip ADC and the INA260 behind one
// core.AnalogDriver, dispatching on pin number.
type analogRouter struct {
	onChip *RpADCDriver
	ina    *ina260Channel
	active core.AnalogDriver
}

func newAnalogRouter(onChip *RpADCDriver, ina *ina260Channel) *analogRouter {
	return &analogRouter{onChip: onChip, ina: ina, active: onChip}
}

func (r *analogRouter) route(pin core.Pin) core.AnalogDriver {
	if pin == trackCurrentPin || pin == trackVoltagePin {
		return r.ina
	}
	return r.onChip
}

func (r *analogRouter) ConfigureChannel(pin core.Pin) error {
	return r.route(pin).ConfigureChannel(pin)
}

func (r *analogRouter) Start(pin core.Pin) error {
	r.active = r.route(pin)
	return r.active.Start(pin)
}

func (r *analogRouter) Done() bool    { return r.active.Done() }
func (r *analogRouter) Result() int32 { return r.active.Result() }

// ConversionTicks covers the on-chip converter; the INA260 read does not
// contend with the waveform timer.
func (r *analogRouter) ConversionTicks() uint32 {
	return r.onChip.ConversionTicks()
}
