package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"campus-kiosk/internal/adapter/tui/theme"
)

// SplitPaneModel lays out two panes side by side, or stacked when the
// terminal is too narrow.
type SplitPaneModel struct {
	Ratio float64
	// StackedTop is the height of the top pane in stacked layout.
	StackedTop int
	width      int
	height     int
}

// NewSplitPane creates a split pane. ratio is the fraction of width for the left pane (0.0–1.0).
func NewSplitPane(ratio float64, stackedTop int) SplitPaneModel {
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.35
	}
	if stackedTop <= 0 {
		stackedTop = 8
	}
	return SplitPaneModel{Ratio: ratio, StackedTop: stackedTop}
}

// SetSize updates the available dimensions.
func (m *SplitPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Stacked reports whether the panes are drawn one above the other.
func (m SplitPaneModel) Stacked() bool {
	return m.width < theme.MinSplitWidth
}

// LeftWidth returns the width allocated to the left (or top) pane.
func (m SplitPaneModel) LeftWidth() int {
	if m.Stacked() {
		return m.width
	}
	divider := 1 // 1-char vertical divider
	return int(float64(m.width-divider) * m.Ratio)
}

// LeftHeight returns the height allocated to the left (or top) pane.
func (m SplitPaneModel) LeftHeight() int {
	if m.Stacked() {
		return min(m.StackedTop, m.height)
	}
	return m.height
}

// RightWidth returns the width allocated to the right (or bottom) pane.
func (m SplitPaneModel) RightWidth() int {
	if m.Stacked() {
		return m.width
	}
	return m.width - 1 - m.LeftWidth()
}

// RightHeight returns the height allocated to the right (or bottom) pane.
func (m SplitPaneModel) RightHeight() int {
	if m.Stacked() {
		return max(m.height-m.LeftHeight()-1, 0)
	}
	return m.height
}

// Render joins the two panes with a divider.
func (m SplitPaneModel) Render(left, right string) string {
	style := lipgloss.NewStyle().Foreground(theme.ColorBorder)

	if m.Stacked() {
		return lipgloss.JoinVertical(lipgloss.Left, left, style.Render(strings.Repeat("─", m.width)), right)
	}

	divCol := make([]string, m.height)
	for i := range divCol {
		divCol[i] = style.Render("│")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Join(divCol, "\n"), right)
}
