package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/matbench/internal/format"
	"github.com/agbru/matbench/internal/orchestration"
)

// SizeRow is one line of the sweep table.
type SizeRow struct {
	Size       int
	Parallel   time.Duration
	Sequential time.Duration
	HasPar     bool
	HasSeq     bool
	Err        error
}

// Speedup renders sequential/parallel, or "-" when either is missing.
func (r SizeRow) Speedup() string {
	if !r.HasPar || !r.HasSeq {
		return "-"
	}
	return format.FormatSpeedup(r.Sequential, r.Parallel)
}

// GFLOPS renders the parallel throughput, or "-".
func (r SizeRow) GFLOPS() string {
	if !r.HasPar || r.Parallel <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", format.GFLOPS(r.Size, r.Parallel))
}

// rowFromResults extracts the parallel and sequential timings of one size.
func rowFromResults(size int, results []orchestration.BenchmarkResult) SizeRow {
	row := SizeRow{Size: size}
	if r, ok := orchestration.FindResult(results, "parallel"); ok && r.Err == nil {
		row.Parallel, row.HasPar = r.Duration, true
	}
	if r, ok := orchestration.FindResult(results, "sequential"); ok && r.Err == nil {
		row.Sequential, row.HasSeq = r.Duration, true
	}
	row.Err = orchestration.FirstError(results)
	return row
}

// ResultsModel renders the per-size table with the progress of the running
// size. The table scrolls when it is taller than the panel.
type ResultsModel struct {
	rows     []SizeRow
	progress float64
	eta      time.Duration
	running  bool
	offset   int
	width    int
	height   int
}

// NewResultsModel creates an empty table.
func NewResultsModel() ResultsModel {
	return ResultsModel{}
}

// SetSize updates the panel dimensions.
func (m *ResultsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// StartSize resets the progress display for a new size.
func (m *ResultsModel) StartSize() {
	m.running = true
	m.progress = 0
	m.eta = 0
}

// UpdateProgress records the aggregated progress of the running size.
func (m *ResultsModel) UpdateProgress(avg float64, eta time.Duration) {
	m.progress = avg
	m.eta = eta
}

// AddResults appends or replaces the row for size.
func (m *ResultsModel) AddResults(size int, results []orchestration.BenchmarkResult) {
	m.running = false
	row := rowFromResults(size, results)
	for i := range m.rows {
		if m.rows[i].Size == size {
			m.rows[i] = row
			return
		}
	}
	m.rows = append(m.rows, row)
}

// AddError marks size as failed when no results arrived for it.
func (m *ResultsModel) AddError(size int, err error) {
	m.running = false
	for i := range m.rows {
		if m.rows[i].Size == size {
			m.rows[i].Err = err
			return
		}
	}
	m.rows = append(m.rows, SizeRow{Size: size, Err: err})
}

// Rows returns the table rows.
func (m ResultsModel) Rows() []SizeRow { return m.rows }

// Reset clears the table.
func (m *ResultsModel) Reset() {
	m.rows = nil
	m.offset = 0
	m.running = false
	m.progress = 0
}

// Scroll moves the first visible row by delta, clamped to the table.
func (m *ResultsModel) Scroll(delta int) {
	m.offset = min(max(m.offset+delta, 0), max(len(m.rows)-m.visibleRows(), 0))
}

func (m ResultsModel) visibleRows() int {
	// border, header, progress line
	return max(m.height-5, 1)
}

// View renders the panel.
func (m ResultsModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s  %s  %s  %s\n",
		tableHeaderStyle.Render(fmt.Sprintf("%-8s", "Size")),
		tableHeaderStyle.Render(fmt.Sprintf("%-12s", "Parallel")),
		tableHeaderStyle.Render(fmt.Sprintf("%-12s", "Sequential")),
		tableHeaderStyle.Render(fmt.Sprintf("%-8s", "Speedup")),
		tableHeaderStyle.Render(fmt.Sprintf("%-8s", "GFLOPS")),
		tableHeaderStyle.Render("Status"))

	end := min(m.offset+m.visibleRows(), len(m.rows))
	for _, r := range m.rows[m.offset:end] {
		par, seq := "-", "-"
		if r.HasPar {
			par = format.FormatSeconds(r.Parallel)
		}
		if r.HasSeq {
			seq = format.FormatSeconds(r.Sequential)
		}
		status := successStyle.Render("ok")
		if r.Err != nil {
			status = errorStyle.Render("error: " + r.Err.Error())
		}
		fmt.Fprintf(&b, "%s  %s  %s  %s  %s  %s\n",
			sizeStyle.Render(fmt.Sprintf("%-8d", r.Size)),
			durationStyle.Render(fmt.Sprintf("%-12s", par)),
			durationStyle.Render(fmt.Sprintf("%-12s", seq)),
			speedupStyle.Render(fmt.Sprintf("%-8s", r.Speedup())),
			fmt.Sprintf("%-8s", r.GFLOPS()),
			status)
	}

	if m.running {
		barWidth := max(m.width-30, 10)
		b.WriteString(accentStyle.Render(format.FormatProgressBarWithETA(m.progress, m.eta, barWidth)))
	}

	style := panelStyle
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	if m.height > 2 {
		style = style.Height(m.height - 2)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}
