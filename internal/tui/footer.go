package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the status indicator and key help.
type FooterModel struct {
	help   help.Model
	keys   KeyMap
	paused bool
	done   bool
	failed bool
	width  int
}

// NewFooterModel creates a footer showing keys' short help.
func NewFooterModel(keys KeyMap) FooterModel {
	h := help.New()
	h.Styles.ShortKey = accentStyle.Bold(true)
	h.Styles.ShortDesc = dimStyle
	h.Styles.FullKey = accentStyle.Bold(true)
	h.Styles.FullDesc = dimStyle
	return FooterModel{help: h, keys: keys}
}

func (f *FooterModel) SetPaused(p bool) { f.paused = p }
func (f *FooterModel) SetDone(d bool)   { f.done = d }
func (f *FooterModel) SetError(e bool)  { f.failed = e }

// ToggleHelp switches between short and full help.
func (f *FooterModel) ToggleHelp() { f.help.ShowAll = !f.help.ShowAll }

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

func (f FooterModel) status() string {
	switch {
	case f.failed:
		return statusErrorStyle.Render("● ERROR")
	case f.done:
		return statusDoneStyle.Render("● DONE")
	case f.paused:
		return statusPausedStyle.Render("● PAUSED")
	default:
		return statusRunningStyle.Render("● RUNNING")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, f.status(), "  ", f.help.View(f.keys))
}
