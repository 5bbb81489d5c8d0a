package components

import (
	"strconv"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"campus-kiosk/internal/adapter/tui/theme"
)

// ChatViewModel is the scrolling CampusGPT transcript. It follows new
// messages while the reader is at the bottom; after scrolling up, new
// messages are counted instead and announced on the last line.
type ChatViewModel struct {
	viewport viewport.Model
	messages MessageListModel
	follow   bool
	unseen   int
	// pending shows a typing line under the transcript while a reply is
	// outstanding.
	pending bool
}

// NewChatView creates an empty transcript view.
func NewChatView() ChatViewModel {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	return ChatViewModel{viewport: vp, messages: NewMessageList(), follow: true}
}

// SetMaxMessages caps how many messages are kept.
func (m *ChatViewModel) SetMaxMessages(n int) {
	m.messages.SetMaxMessages(n)
}

// SetMarkdownStyle selects the glamour style for assistant replies.
func (m *ChatViewModel) SetMarkdownStyle(style string) {
	m.messages.MarkdownStyle = style
}

// SetSize resizes the transcript and re-wraps every message.
func (m *ChatViewModel) SetSize(w, h int) {
	m.messages.SetWidth(w)
	m.viewport.Width = w
	m.viewport.Height = h
	m.refresh()
}

// Append adds messages to the transcript.
func (m *ChatViewModel) Append(msgs ...ChatMessage) {
	if len(msgs) == 0 {
		return
	}
	for _, msg := range msgs {
		m.messages.Add(msg)
	}
	if !m.follow {
		m.unseen += len(msgs)
	}
	m.refresh()
}

// SetPending toggles the typing line.
func (m *ChatViewModel) SetPending(pending bool) {
	if m.pending == pending {
		return
	}
	m.pending = pending
	m.refresh()
}

// Unseen returns how many messages arrived while scrolled up.
func (m ChatViewModel) Unseen() int { return m.unseen }

// Update scrolls the transcript. Reaching the bottom resumes following.
func (m ChatViewModel) Update(msg tea.Msg) (ChatViewModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.follow = m.viewport.AtBottom()
	if m.follow {
		m.unseen = 0
	}
	return m, cmd
}

// View renders the transcript, replacing its last line with the unseen
// message count when there is one.
func (m ChatViewModel) View() string {
	if m.unseen == 0 || m.viewport.Height < 2 {
		return m.viewport.View()
	}
	vp := m.viewport
	vp.Height--
	note := theme.TextInfo.Render(theme.SymbolNewBelow + " " + strconv.Itoa(m.unseen) + " new")
	return lipgloss.JoinVertical(lipgloss.Left, vp.View(), note)
}

func (m *ChatViewModel) refresh() {
	content := m.messages.View()
	if m.pending {
		content += "\n" + theme.Dim.Render(theme.SymbolBot+" is typing"+theme.SymbolEllipsis)
	}
	m.viewport.SetContent(content)
	if m.follow {
		m.viewport.GotoBottom()
	}
}
