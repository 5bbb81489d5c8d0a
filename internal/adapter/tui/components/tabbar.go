// Package components provides the Bubble Tea sub-models the kiosk is built
// from.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"campus-kiosk/internal/adapter/tui/theme"
	"campus-kiosk/internal/usecase"
)

// ModeTab labels one view mode.
type ModeTab struct {
	Mode  usecase.Mode
	Label string
}

// TabBarModel shows which view mode is active. It keeps no navigation
// state of its own; the kiosk mirrors the view mode switch onto it.
type TabBarModel struct {
	tabs  []ModeTab
	mode  usecase.Mode
	width int
}

// NewTabBar creates a tab bar with mode active.
func NewTabBar(mode usecase.Mode, tabs ...ModeTab) TabBarModel {
	return TabBarModel{tabs: tabs, mode: mode}
}

// SetWidth updates the available width.
func (m *TabBarModel) SetWidth(w int) {
	m.width = w
}

// SetMode marks mode active. A mode without a tab is ignored.
func (m *TabBarModel) SetMode(mode usecase.Mode) {
	for _, t := range m.tabs {
		if t.Mode == mode {
			m.mode = mode
			return
		}
	}
}

// View renders the tabs with the switch hint on the right. Below
// MinTabWidth only the active tab is labelled.
func (m TabBarModel) View() string {
	if len(m.tabs) == 0 {
		return ""
	}

	var parts []string
	for _, t := range m.tabs {
		switch {
		case t.Mode == m.mode:
			parts = append(parts, theme.TabActive.Render(t.Label))
		case m.width >= theme.MinTabWidth:
			parts = append(parts, theme.TabNormal.Render(t.Label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Center, parts...)

	if m.width <= 0 {
		return bar
	}
	bg := theme.TabNormal.UnsetPadding()
	hint := bg.Render(theme.Dim.Render("tab " + theme.SymbolSwitch + " "))
	gap := m.width - lipgloss.Width(bar) - lipgloss.Width(hint)
	if gap < 1 {
		return bar
	}
	return bar + bg.Render(strings.Repeat(" ", gap)) + hint
}
