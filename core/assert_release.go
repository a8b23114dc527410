//go:build dccrelease

package core

const debugAssertions = false
