package metrics

import "runtime"

// MemorySnapshot holds the runtime memory figures shown with --details.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use
	TotalAlloc   uint64 // cumulative bytes allocated
	NumGC        uint32
	PauseTotalNs uint64
}

// ReadMemory reads the current runtime memory statistics.
func ReadMemory() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}
