package core

// DCCSignalTime is the half-cycle of a DCC "1" bit in microseconds. The
// waveform interrupt fires once per half-cycle.
const DCCSignalTime = 58

// ClockCycles is the timer TOP value for the waveform interrupt on the
// build target. The timer counts phase-correct (up to TOP, back down), so
// one full count is 2*ClockCycles ticks, one half-cycle.
const ClockCycles = TicksPerMicrosecond * DCCSignalTime / 2

// ClockCyclesFor computes the TOP value for a timer running at the given
// tick rate. Integer arithmetic, truncating, identical on every target.
func ClockCyclesFor(ticksPerMicrosecond uint32) uint32 {
	return ticksPerMicrosecond * DCCSignalTime / 2
}

// HalfCycleTicks returns the waveform interrupt period in timer ticks.
func HalfCycleTicks() uint32 {
	return 2 * ClockCycles
}

// TicksFromUS converts microseconds to timer ticks
func TicksFromUS(us uint32) uint32 {
	return us * TicksPerMicrosecond
}

// TicksToUS converts timer ticks to microseconds
func TicksToUS(ticks uint32) uint32 {
	return ticks / TicksPerMicrosecond
}
