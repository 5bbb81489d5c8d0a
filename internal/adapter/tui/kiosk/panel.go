package kiosk

import (
	"strings"
	"sync"

	"github.com/muesli/reflow/wordwrap"

	"campus-kiosk/internal/adapter/tui/theme"
)

// DetailPanel holds the text shown above the map. It is written by the
// selection controller, possibly from a background command, and read by
// View.
type DetailPanel struct {
	mu   sync.Mutex
	text string
}

// NewDetailPanel creates an empty panel.
func NewDetailPanel() *DetailPanel { return &DetailPanel{} }

// SetText replaces the panel text.
func (p *DetailPanel) SetText(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = text
}

// Text returns the panel text.
func (p *DetailPanel) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}

// Render draws the panel at width. The first line is the title.
func (p *DetailPanel) Render(width int) string {
	text := p.Text()
	if text == "" {
		return theme.TextMuted.Render("Loading locations" + theme.SymbolEllipsis)
	}
	title, body, _ := strings.Cut(text, "\n")
	out := theme.PanelTitle.Render(theme.SymbolPin + " " + title)
	if body != "" {
		out += "\n" + theme.DetailBody.Render(wordwrap.String(body, max(width-2, 10)))
	}
	return out
}

// Lines returns the number of lines Render produces at width.
func (p *DetailPanel) Lines(width int) int {
	return strings.Count(p.Render(width), "\n") + 1
}
