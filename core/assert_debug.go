//go:build !dccrelease

package core

// debugAssertions enables contract checks on ISR paths.
const debugAssertions = true
