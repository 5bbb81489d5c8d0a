package components

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"campus-kiosk/internal/adapter/tui/theme"
)

// KeySection is a titled group of bindings in the key help overlay.
type KeySection struct {
	Title string
	Keys  []key.Binding
}

// KeyHelpModel is a centered overlay listing the kiosk's key bindings by
// section. While it is visible it swallows every key except the ones that
// close it.
type KeyHelpModel struct {
	Sections []KeySection
	Visible  bool

	help   help.Model
	close  key.Binding
	width  int
	height int
}

// NewKeyHelp creates a hidden overlay for sections.
func NewKeyHelp(sections ...KeySection) KeyHelpModel {
	h := help.New()
	h.ShowAll = true
	h.FullSeparator = "    "
	h.Styles.FullKey = theme.StatusKey
	h.Styles.FullDesc = theme.TextMuted
	h.Styles.ShortKey = theme.StatusKey
	h.Styles.ShortDesc = theme.TextMuted
	return KeyHelpModel{
		Sections: sections,
		help:     h,
		close:    key.NewBinding(key.WithKeys("esc", "q", "?"), key.WithHelp("esc", "close")),
	}
}

// Open shows the overlay.
func (m *KeyHelpModel) Open() { m.Visible = true }

// SetSize sets the area the overlay is centered in.
func (m *KeyHelpModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.help.Width = max(w-8, 0)
}

// Update hides the overlay on esc, q or ?.
func (m KeyHelpModel) Update(msg tea.Msg) (KeyHelpModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && m.Visible && key.Matches(k, m.close) {
		m.Visible = false
	}
	return m, nil
}

// View renders the overlay, or nothing while hidden.
func (m KeyHelpModel) View() string {
	if !m.Visible {
		return ""
	}

	blocks := []string{theme.Bold.Render("Keys")}
	for _, s := range m.Sections {
		blocks = append(blocks, "",
			theme.PanelTitle.Render(s.Title),
			m.help.FullHelpView([][]key.Binding{s.Keys}),
		)
	}
	blocks = append(blocks, "", m.help.ShortHelpView([]key.Binding{m.close}))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorderActive).
		Padding(0, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
