package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/matbench/internal/format"
)

const (
	sparklineCapacity = 60
	busyLabelWidth    = 7
)

// SystemModel shows runtime memory and system-wide CPU/memory history.
type SystemModel struct {
	alloc        uint64
	heapSys      uint64
	numGC        uint32
	numGoroutine int
	busyCores    int
	cores        int

	cpu *RingBuffer
	mem *RingBuffer

	width  int
	height int
}

// NewSystemModel creates the panel with empty histories.
func NewSystemModel() SystemModel {
	return SystemModel{
		cpu: NewRingBuffer(sparklineCapacity),
		mem: NewRingBuffer(sparklineCapacity),
	}
}

// SetSize updates the panel dimensions and fits the histories to the width.
func (m *SystemModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if capacity := w - 14 - busyLabelWidth - 1; capacity > 0 {
		m.cpu.Resize(capacity)
		m.mem.Resize(capacity)
	}
}

// UpdateMemStats records a runtime memory sample.
func (m *SystemModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapSys = msg.HeapSys
	m.numGC = msg.NumGC
	m.numGoroutine = msg.NumGoroutine
}

// UpdateSysStats appends a load sample to the histories.
func (m *SystemModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpu.Push(msg.CPUPercent)
	m.mem.Push(msg.MemPercent)
	m.busyCores = msg.BusyCores
	m.cores = msg.Cores
}

// busyLabel right-aligns the busy core count, e.g. "    4/8".
func (m SystemModel) busyLabel() string {
	if m.cores == 0 {
		return fmt.Sprintf("%*s", busyLabelWidth, "")
	}
	return fmt.Sprintf("%*s", busyLabelWidth, fmt.Sprintf("%d/%d", m.busyCores, m.cores))
}

// Reset clears the histories.
func (m *SystemModel) Reset() {
	m.cpu.Reset()
	m.mem.Reset()
}

// View renders the panel.
func (m SystemModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		metricLabelStyle.Render("Heap:"), metricValueStyle.Render(format.FormatBytes(m.alloc)),
		metricLabelStyle.Render("Sys:"), metricValueStyle.Render(format.FormatBytes(m.heapSys)))
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		metricLabelStyle.Render("GC:"), metricValueStyle.Render(fmt.Sprintf("%d", m.numGC)),
		metricLabelStyle.Render("Goroutines:"), metricValueStyle.Render(fmt.Sprintf("%d", m.numGoroutine)))
	if m.height == 0 || m.height >= 6 {
		fmt.Fprintf(&b, "%s %s %s %s\n", metricLabelStyle.Render("CPU"),
			metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.cpu.Last())),
			metricValueStyle.Render(m.busyLabel()),
			cpuSparklineStyle.Render(RenderSparkline(m.cpu.Slice())))
		fmt.Fprintf(&b, "%s %s %*s %s", metricLabelStyle.Render("MEM"),
			metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.mem.Last())), busyLabelWidth, "",
			memSparklineStyle.Render(RenderSparkline(m.mem.Slice())))
	}

	style := panelStyle
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}
