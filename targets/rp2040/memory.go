//go:build rp2040

package main

import (
	"runtime"
	"sync/atomic"
)

// freeMemory caches the heap figure for the waveform interrupt.
// runtime.ReadMemStats walks the heap, far too slow for a 58us budget.
var (
	freeMemory atomic.Int32
	memStats   runtime.MemStats
)

// refreshFreeMemory samples free heap from the main loop.
func refreshFreeMemory() {
	runtime.ReadMemStats(&memStats)
	free := int64(memStats.HeapSys) - int64(memStats.HeapInuse)
	if free < 0 {
		free = 0
	}
	freeMemory.Store(int32(free))
}
