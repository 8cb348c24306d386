// Package sysmon samples host and process resource usage for the dashboard.
package sysmon

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats is a single resource usage snapshot.
type Stats struct {
	CPUPercent float64 // system-wide, 0.0 .. 100.0
	MemPercent float64 // system-wide, 0.0 .. 100.0
	// RSS is the resident set size of the simulator process in bytes.
	RSS        uint64
	Goroutines int
}

// Monitor samples resource usage. It keeps a handle on the current process
// between samples.
type Monitor struct {
	proc *process.Process
}

// NewMonitor creates a Monitor for the current process. Process figures are
// left at zero if the process cannot be inspected.
func NewMonitor() *Monitor {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		p = nil
	}
	return &Monitor{proc: p}
}

// Sample collects a snapshot. CPU uses interval=0, the delta since the
// previous call. Fields that cannot be read are left at zero.
func (m *Monitor) Sample() Stats {
	s := Stats{Goroutines: runtime.NumGoroutine()}
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	if m.proc != nil {
		if info, err := m.proc.MemoryInfo(); err == nil && info != nil {
			s.RSS = info.RSS
		}
	}
	return s
}
