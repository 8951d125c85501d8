package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/matbench/internal/format"
)

// HeaderModel renders the top bar: title, version, current size, elapsed
// time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	current   int
	index     int
	total     int
	width     int
}

// NewHeaderModel creates a header for a sweep of total sizes.
func NewHeaderModel(version string, total int) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		total:     total,
		index:     -1,
	}
}

// SetCurrent records the size being benchmarked.
func (h *HeaderModel) SetCurrent(index, size int) {
	h.index = index
	h.current = size
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
	h.index = -1
	h.current = 0
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the sweep started, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "matbench sweep"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")

	parts := titleStyle.Render(titleText)
	if h.index >= 0 {
		parts += pipe + accentStyle.Render(fmt.Sprintf("Size %d×%d (%d/%d)", h.current, h.current, h.index+1, h.total))
	}
	parts += pipe + accentStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))

	gap := max(h.width-2-lipgloss.Width(parts), 0)
	return headerStyle.Width(h.width).Render(parts + spaces(gap))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
