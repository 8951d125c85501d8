package tui

import (
	"context"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/orchestration"
	"github.com/agbru/matbench/internal/sysmon"
)

// BenchmarkFunc benchmarks one size, reporting progress and results through
// the given reporter and presenter, and returns the exit code of that size.
type BenchmarkFunc func(ctx context.Context, size int, reporter orchestration.ProgressReporter, presenter orchestration.ResultPresenter) int

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// Layout constants for the dashboard.
const (
	headerHeight      = 1
	footerHeight      = 1
	minBodyHeight     = 6
	SystemPanelHeight = 6
	tickInterval      = 500 * time.Millisecond
)

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) systemHeight() int {
	return min(SystemPanelHeight, l.bodyHeight()/2)
}

func (l LayoutManager) resultsHeight() int {
	return l.bodyHeight() - l.systemHeight()
}

// Model is the root bubbletea model for the sweep dashboard.
type Model struct {
	header  HeaderModel
	results ResultsModel
	system  SystemModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	sizes     []int
	bench     BenchmarkFunc
	ref       *programRef
	paused    bool
}

// NewModel creates a dashboard that benchmarks sizes in order with bench.
func NewModel(parentCtx context.Context, sizes []int, bench BenchmarkFunc, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	keymap := DefaultKeyMap()
	return Model{
		header:  NewHeaderModel(version, len(sizes)),
		results: NewResultsModel(),
		system:  NewSystemModel(),
		footer:  NewFooterModel(keymap),
		keymap:  keymap,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		sizes:     sizes,
		bench:     bench,
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startSweepCmd(m.ref, m.ctx, m.sizes, m.bench, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case SizeStartedMsg:
		if msg.Generation == m.generation {
			m.header.SetCurrent(msg.Index, msg.Size)
			m.results.StartSize()
		}
		return m, nil

	case ProgressMsg:
		if msg.Generation == m.generation && !m.paused {
			m.results.UpdateProgress(msg.AverageProgress, msg.ETA)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ComparisonResultsMsg:
		if msg.Generation == m.generation {
			m.results.AddResults(msg.Size, msg.Results)
		}
		return m, nil

	case ErrorMsg:
		if msg.Generation == m.generation {
			m.results.AddError(msg.Size, msg.Err)
			m.footer.SetError(true)
		}
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.system.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.system.UpdateSysStats(msg)
		return m, nil

	case SweepCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if !m.done {
			m.done = true
			m.exitCode = apperrors.ExitCodeFor(msg.Err)
		}
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		if m.cancel != nil {
			m.cancel()
		}
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)

		m.header.Reset()
		m.results.Reset()
		m.system.Reset()
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.done = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess

		return m, tea.Batch(
			tickCmd(),
			startSweepCmd(m.ref, m.ctx, m.sizes, m.bench, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)

	case key.Matches(msg, m.keymap.Up):
		m.results.Scroll(-1)
	case key.Matches(msg, m.keymap.Down):
		m.results.Scroll(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.results.Scroll(-m.results.visibleRows())
	case key.Matches(msg, m.keymap.PageDown):
		m.results.Scroll(m.results.visibleRows())
	}
	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.results.View(),
		m.system.View(),
		m.footer.View(),
	)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.results.SetSize(m.width, m.resultsHeight())
	m.system.SetSize(m.width, m.systemHeight())
}

// ExitCode returns the exit code of the last completed sweep.
func (m Model) ExitCode() int { return m.exitCode }

// Run is the public entry point for the TUI mode. It runs the dashboard
// until the user quits and returns the exit code of the sweep.
func Run(ctx context.Context, sizes []int, bench BenchmarkFunc, version string) int {
	initTUIStyles()

	model := NewModel(ctx, sizes, bench, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		if m.done {
			return m.exitCode
		}
	}
	if err != nil {
		return apperrors.ExitCodeFor(ctx.Err())
	}
	return apperrors.ExitErrorCanceled
}

// startSweepCmd benchmarks every size in order and reports the first
// non-zero exit code. A timeout or cancellation stops the sweep.
func startSweepCmd(ref *programRef, ctx context.Context, sizes []int, bench BenchmarkFunc, gen uint64) tea.Cmd {
	return func() tea.Msg {
		exitCode := apperrors.ExitSuccess
		for i, size := range sizes {
			if ctx.Err() != nil {
				break
			}
			ref.Send(SizeStartedMsg{Index: i, Size: size, Generation: gen})
			code := bench(ctx, size,
				&TUIProgressReporter{ref: ref, gen: gen},
				&TUIResultPresenter{ref: ref, size: size, gen: gen})
			if code != apperrors.ExitSuccess && exitCode == apperrors.ExitSuccess {
				exitCode = code
			}
			if code == apperrors.ExitErrorTimeout || code == apperrors.ExitErrorCanceled {
				break
			}
		}
		return SweepCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads the machine load and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
			BusyCores:  s.BusyCores,
			Cores:      s.Cores,
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
