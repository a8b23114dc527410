// Package sim is a host backend for the timing core. Timer and ADC run on
// simulated ticks advanced explicitly by the caller, so waveform and
// sampling behaviour can be checked without hardware.
package sim
