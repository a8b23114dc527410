//go:build !tinygo

package core

// State stands in for the saved interrupt mask when running on the host.
type State uintptr

// Host builds have no interrupts. The simulated backend delivers fires
// synchronously from the foreground, so these are no-ops.
func disableInterrupts() State { return 0 }

func restoreInterrupts(State) {}
