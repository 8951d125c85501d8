// Package sysmon samples machine load while a benchmark runs: overall and
// per-core CPU usage, plus physical memory pressure.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// BusyThreshold is the per-core usage, in percent, above which a core counts
// as busy.
const BusyThreshold = 50.0

// Stats is one load sample.
type Stats struct {
	CPUPercent float64 // mean over all cores
	MemPercent float64
	BusyCores  int
	Cores      int
}

// Sample reads per-core CPU usage since the previous call and the current
// memory usage. Readings that fail are left at zero.
func Sample() Stats {
	var s Stats
	if perCore, err := cpu.Percent(0, true); err == nil {
		s = summarize(perCore)
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

func summarize(perCore []float64) Stats {
	s := Stats{Cores: len(perCore)}
	if len(perCore) == 0 {
		return s
	}
	var total float64
	for _, p := range perCore {
		total += p
		if p > BusyThreshold {
			s.BusyCores++
		}
	}
	s.CPUPercent = total / float64(len(perCore))
	return s
}
