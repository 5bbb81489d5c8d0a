package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"campus-kiosk/internal/adapter/tui/theme"
)

// StatusBarModel renders a bottom status bar with keybinding hints and
// backend info.
type StatusBarModel struct {
	Keys    []key.Binding // short help for the active mode
	Backend string
	Layer   string
	Extra   string // additional status text (e.g. "Waiting for reply...")
	IsError bool   // render Extra as an error
	width   int
}

// NewStatusBar creates an empty status bar.
func NewStatusBar() StatusBarModel {
	return StatusBarModel{}
}

// SetWidth updates the available width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// SetNotice shows an informational status message.
func (m *StatusBarModel) SetNotice(s string) {
	m.Extra = s
	m.IsError = false
}

// SetError shows an error status message.
func (m *StatusBarModel) SetError(s string) {
	m.Extra = s
	m.IsError = true
}

// View renders the status bar as a single line.
func (m StatusBarModel) View() string {
	// Left side: keybinding hints.
	var hints []string
	for _, b := range m.Keys {
		if !b.Enabled() || b.Help().Key == "" {
			continue
		}
		h := b.Help()
		hints = append(hints, theme.StatusKey.Render(h.Key)+": "+h.Desc)
	}
	left := strings.Join(hints, "  "+theme.Dim.Render("|")+"  ")

	// Right side: status text, then layer and backend info.
	var right string
	if m.Extra != "" {
		if m.IsError {
			right = theme.TextError.Render(theme.SymbolError + " " + m.Extra)
		} else {
			right = theme.TextInfo.Render(m.Extra)
		}
	}

	var parts []string
	if m.Layer != "" {
		parts = append(parts, m.Layer)
	}
	if m.Backend != "" {
		parts = append(parts, m.Backend)
	}
	if len(parts) > 0 {
		if right != "" {
			right += "  "
		}
		right += theme.TextMuted.Render(strings.Join(parts, " "+theme.SymbolBullet+" "))
	}

	// Join left and right, padding the gap.
	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := m.width - leftW - rightW
	if gap < 1 {
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + right
	return theme.StatusBar.Width(m.width).Render(bar)
}
