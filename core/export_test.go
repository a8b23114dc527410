package core

// ResetInstances lets tests construct a fresh clock and sampler.
func ResetInstances() {
	clockClaimed.Store(false)
	samplerClaimed.Store(false)
}
