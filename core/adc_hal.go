package core

// AnalogDriver is the abstract ADC backend behind AnalogSampler. Conversions
// are split into Start and Done so the sampler can pace them around the
// waveform interrupt instead of blocking on the converter.
type AnalogDriver interface {
	// ConfigureChannel does the one-time setup for pin (pad to analog mode,
	// multiplexer routing). Called once per pin, before the timer is armed
	// on targets where the ADC and the waveform timer share resources.
	ConfigureChannel(pin Pin) error

	// Start begins a single conversion on pin.
	Start(pin Pin) error

	// Done reports whether the conversion begun by Start has finished.
	Done() bool

	// Result returns the last finished conversion.
	Result() int32

	// ConversionTicks is the worst-case conversion time in timer ticks.
	// Zero means Start completes the conversion before returning.
	ConversionTicks() uint32
}

// Pacer tells the sampler whether a conversion fits before the next
// waveform interrupt. WaveformClock implements it.
type Pacer interface {
	ConversionWindowOpen(ticks uint32) bool
}
