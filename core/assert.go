package core

// assert panics with err when cond is false. Used for contract violations
// on foreground paths; checks on ISR paths are additionally gated by
// debugAssertions so release firmware pays nothing for them.
func assert(cond bool, err error) {
	if !cond {
		panic(err)
	}
}
