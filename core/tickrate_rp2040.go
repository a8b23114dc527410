//go:build rp2040

package core

// TicksPerMicrosecond is the PWM slice clock: clk_sys at 125MHz, DIV=1.
const TicksPerMicrosecond = 125
