package kiosk

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"campus-kiosk/internal/adapter/browser"
	"campus-kiosk/internal/adapter/mapview"
	"campus-kiosk/internal/adapter/tui/components"
	"campus-kiosk/internal/adapter/tui/theme"
	"campus-kiosk/internal/adapter/tui/uxerror"
	"campus-kiosk/internal/domain"
	"campus-kiosk/internal/usecase"
)

// Deps are the collaborators injected into the kiosk model.
type Deps struct {
	Directory *usecase.DirectoryStore
	Selection *usecase.SelectionController
	Bootstrap *usecase.Bootstrap
	Chat      *usecase.ChatSession
	ViewMode  *usecase.ViewModeSwitch
	Map       *mapview.Adapter
	Panel     *DetailPanel
	Open      browser.Opener
	Logger    *slog.Logger
	// Backend is shown in the status bar.
	Backend       string
	MarkdownStyle string
}

// locationItem is a list row. index is the position in the sorted
// directory, which is the location's identity.
type locationItem struct {
	index int
	loc   domain.Location
}

func (i locationItem) Title() string       { return i.loc.Name }
func (i locationItem) Description() string { return i.loc.Details }
func (i locationItem) FilterValue() string { return i.loc.Name }

// Model is the root Bubble Tea model of the kiosk.
type Model struct {
	ctx  context.Context
	deps Deps

	tabs     components.TabBarModel
	split    components.SplitPaneModel
	list     list.Model
	chatView components.ChatViewModel
	input    components.InputAreaModel
	status   components.StatusBarModel
	help     components.KeyHelpModel
	spinner  spinner.Model
	keys     keyMap

	width   int
	height  int
	loading bool
	// panelLines is the detail panel height the map was last fitted under.
	panelLines int
	// shown counts transcript entries already added to chatView.
	shown int
}

// New creates the kiosk model. ctx bounds every backend call the model
// starts.
func New(ctx context.Context, deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Open == nil {
		deps.Open = browser.Open
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Campus Locations"
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	keys := newKeyMap()
	sb := components.NewStatusBar()
	sb.Backend = deps.Backend

	chatView := components.NewChatView()
	chatView.SetMaxMessages(500)
	chatView.SetMarkdownStyle(deps.MarkdownStyle)

	m := Model{
		ctx:  ctx,
		deps: deps,
		tabs: components.NewTabBar(deps.ViewMode.Mode(),
			components.ModeTab{Mode: usecase.ModeNavigate, Label: theme.SymbolPin + " Navigate"},
			components.ModeTab{Mode: usecase.ModeChat, Label: theme.SymbolBot},
		),
		split:    components.NewSplitPane(0.35, 8),
		list:     l,
		chatView: chatView,
		input:    components.NewInputArea("Ask CampusGPT" + theme.SymbolEllipsis),
		status:   sb,
		help:     components.NewKeyHelp(keys.sections()...),
		spinner:  s,
		keys:     keys,
		loading:  true,
	}
	m.input.Blur()
	m.syncTranscript()
	m.syncMode()
	return m
}

// Init starts the bootstrap.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, bootstrapCmd(m.ctx, m.deps.Bootstrap))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.help.SetSize(m.width, m.height)
		if m.deps.ViewMode.Mode() == usecase.ModeNavigate {
			m.deps.Map.ForceRelayout()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case BootstrapDoneMsg:
		return m.handleBootstrap(msg.Result)

	case components.InputSubmitMsg:
		return m.handleSubmit(msg.Value)

	case ChatReplyMsg:
		return m.handleReply(msg)

	case RelayoutMsg:
		if m.deps.ViewMode.Mode() == usecase.ModeNavigate {
			m.deps.Map.ForceRelayout()
		}
		return m, nil

	case BrowserOpenedMsg:
		if msg.Err != nil {
			m.deps.Logger.Warn("open directions failed", "url", msg.URL, "error", msg.Err)
			m.status.SetError("Could not open the browser")
		} else {
			m.status.SetNotice("Directions opened in the browser")
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.deps.ViewMode.Mode() == usecase.ModeChat {
		m.chatView, cmd = m.chatView.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help.Visible {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Switch) && !m.list.SettingFilter():
		return m.toggleMode()
	}

	if m.deps.ViewMode.Mode() == usecase.ModeChat {
		return m.handleChatKey(msg)
	}
	return m.handleNavigateKey(msg)
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Scroll) {
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleNavigateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the filter prompt is open every key belongs to the list.
	if m.list.SettingFilter() {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.SetSize(m.width, m.height)
		m.help.Open()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.status.SetNotice("Reloading locations" + theme.SymbolEllipsis)
		return m, bootstrapCmd(m.ctx, m.deps.Bootstrap)
	case key.Matches(msg, m.keys.Directions):
		idx, ok := m.deps.Selection.Current()
		if !ok {
			return m, nil
		}
		loc, ok := m.deps.Directory.At(idx)
		if !ok {
			return m, nil
		}
		return m, openURLCmd(m.deps.Open, loc.DirectionsURL())
	case key.Matches(msg, m.keys.Marker):
		if err := m.deps.Map.ReturnToMarker(); err != nil && !errors.Is(err, mapview.ErrNotInitialized) {
			m.status.SetError(err.Error())
		}
		return m, nil
	case key.Matches(msg, m.keys.Layer):
		name, err := m.deps.Map.CycleBaseLayer()
		if err != nil {
			m.status.SetError(err.Error())
			return m, nil
		}
		m.status.Layer = name
		return m, nil
	case key.Matches(msg, m.keys.PanLeft):
		return m.pan(-panStep, 0)
	case key.Matches(msg, m.keys.PanRight):
		return m.pan(panStep, 0)
	case key.Matches(msg, m.keys.PanUp):
		return m.pan(0, -panStep)
	case key.Matches(msg, m.keys.PanDown):
		return m.pan(0, panStep)
	}
	return m.updateList(msg)
}

func (m Model) pan(dx, dy float64) (tea.Model, tea.Cmd) {
	if err := m.deps.Map.Pan(dx, dy); err != nil && !errors.Is(err, mapview.ErrNotInitialized) {
		m.status.SetError(err.Error())
	}
	return m, nil
}

// updateList forwards msg to the list and selects the row under the cursor
// when it changed. The list is frozen while a load is in flight: its item
// indices still refer to the previous directory.
func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	item, ok := m.list.SelectedItem().(locationItem)
	if !ok {
		return m, cmd
	}
	if cur, has := m.deps.Selection.Current(); has && cur == item.index {
		return m, cmd
	}
	m.selectIndex(item.index)
	return m, cmd
}

func (m *Model) selectIndex(index int) {
	if err := m.deps.Selection.Select(m.ctx, index); err != nil {
		m.deps.Logger.Warn("select location failed", "index", index, "error", err)
		m.status.SetError(uxerror.Humanize(err).Title)
		return
	}
	m.status.SetNotice("")
	m.fitMap()
}

func (m Model) toggleMode() (tea.Model, tea.Cmd) {
	t := m.deps.ViewMode.Toggle(m.ctx)
	m.syncMode()
	m.layout()
	if t.Relayout {
		return m, relayoutCmd(t.Delay)
	}
	return m, nil
}

// syncMode mirrors the view mode onto the tabs, focus and hints.
func (m *Model) syncMode() {
	mode := m.deps.ViewMode.Mode()
	m.tabs.SetMode(mode)
	if mode == usecase.ModeChat {
		m.status.Keys = m.keys.chatShort()
		m.input.Focus()
		return
	}
	m.status.Keys = m.keys.navigateShort()
	m.input.Blur()
}

func (m Model) handleBootstrap(res usecase.BootstrapResult) (tea.Model, tea.Cmd) {
	m.loading = false

	locs := m.deps.Directory.Snapshot()
	items := make([]list.Item, len(locs))
	for i, loc := range locs {
		items[i] = locationItem{index: i, loc: loc}
	}
	m.list.ResetFilter()
	cmd := m.list.SetItems(items)
	m.list.Select(0)

	switch {
	case res.Err != nil:
		m.status.SetError(uxerror.Humanize(res.Err).Title)
	case res.Selected:
		m.status.SetNotice("")
	default:
		m.status.SetNotice(res.Message)
	}
	m.status.Layer = m.deps.Map.State().ActiveLayer
	m.fitMap()
	return m, cmd
}

func (m Model) handleSubmit(value string) (tea.Model, tea.Cmd) {
	p, err := m.deps.Chat.Begin(m.ctx, value)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			return m, nil
		}
		m.status.SetError(uxerror.Humanize(err).Title)
		return m, nil
	}
	m.syncTranscript()
	m.chatView.SetPending(true)
	m.input.SetEnabled(false)
	m.status.SetNotice(theme.SymbolSpinner + " Waiting for CampusGPT" + theme.SymbolEllipsis)
	return m, sendChatCmd(m.ctx, m.deps.Chat, p)
}

func (m Model) handleReply(msg ChatReplyMsg) (tea.Model, tea.Cmd) {
	entry, err := m.deps.Chat.Complete(m.ctx, msg.Pending, msg.Reply, msg.Err)
	if err != nil {
		m.deps.Logger.Debug("dropping chat reply", "seq", msg.Pending.Seq, "error", err)
		return m, nil
	}
	m.syncTranscript()
	m.chatView.SetPending(false)
	m.input.Enabled = true
	if m.deps.ViewMode.Mode() == usecase.ModeChat {
		m.input.Focus()
	}
	if entry.Failed {
		m.status.SetError(uxerror.Humanize(msg.Err).Title)
	} else {
		m.status.SetNotice("")
	}
	return m, nil
}

// syncTranscript appends transcript entries not yet shown.
func (m *Model) syncTranscript() {
	entries := m.deps.Chat.Transcript()
	fresh := entries[min(m.shown, len(entries)):]
	msgs := make([]components.ChatMessage, 0, len(fresh))
	for _, e := range fresh {
		role := components.RoleAssistant
		switch {
		case e.Failed:
			role = components.RoleError
		case e.Turn.Role == domain.RoleUser:
			role = components.RoleUser
		}
		msgs = append(msgs, components.ChatMessage{Role: role, Content: e.Turn.Content})
	}
	m.chatView.Append(msgs...)
	m.shown = len(entries)
}

// layout recalculates sizes for all sub-models. The map container is sized
// to zero while the navigate panel is hidden.
func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	const tabH, statusH = 1, 1
	contentH := max(m.height-tabH-statusH, 3)

	m.tabs.SetWidth(m.width)
	m.status.SetWidth(m.width)

	m.split.SetSize(m.width, contentH)
	m.list.SetSize(m.split.LeftWidth(), m.split.LeftHeight())

	const inputH, dividerH = 3, 1
	m.chatView.SetSize(m.width, max(contentH-inputH-dividerH, 1))
	m.input.SetWidth(m.width)

	if m.deps.ViewMode.Mode() == usecase.ModeNavigate {
		w := m.split.RightWidth()
		m.panelLines = m.deps.Panel.Lines(w)
		m.deps.Map.Resize(w, max(m.split.RightHeight()-m.panelLines, 0))
	} else {
		m.deps.Map.Resize(0, 0)
	}
}

// fitMap re-runs the layout and, when the detail panel changed height
// under a visible map, makes the map re-measure its container.
func (m *Model) fitMap() {
	before := m.panelLines
	m.layout()
	if m.width == 0 || m.deps.ViewMode.Mode() != usecase.ModeNavigate {
		return
	}
	if m.panelLines != before {
		m.deps.Map.ForceRelayout()
	}
}

// View renders the kiosk.
func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing" + theme.SymbolEllipsis
	}
	if m.help.Visible {
		return m.help.View()
	}

	var body string
	if m.deps.ViewMode.Mode() == usecase.ModeChat {
		body = m.chatPanel()
	} else {
		body = m.navigatePanel()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.tabs.View(), body, m.status.View())
}

func (m Model) navigatePanel() string {
	w := m.split.RightWidth()
	var right string
	if m.loading {
		right = m.spinner.View() + " Loading locations" + theme.SymbolEllipsis
	} else {
		right = lipgloss.JoinVertical(lipgloss.Left, m.deps.Panel.Render(w), m.deps.Map.View())
	}
	right = lipgloss.NewStyle().Width(w).MaxHeight(m.split.RightHeight()).Render(right)
	left := lipgloss.NewStyle().Width(m.split.LeftWidth()).Render(m.list.View())
	return m.split.Render(left, right)
}

func (m Model) chatPanel() string {
	inputView := m.input.View()
	if m.deps.Chat.Pending() {
		inputView = theme.Dim.Render("> waiting for response"+theme.SymbolEllipsis) +
			"\n" + m.spinner.View() + " " + m.status.Extra
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.chatView.View(),
		components.Divider(m.width),
		inputView,
	)
}
