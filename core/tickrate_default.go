//go:build !rp2040

package core

// TicksPerMicrosecond for host builds and the simulated backend. Matches a
// 16MHz AVR, the reference DCC command station clock.
const TicksPerMicrosecond = 16
