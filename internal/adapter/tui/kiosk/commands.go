package kiosk

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"campus-kiosk/internal/adapter/browser"
	"campus-kiosk/internal/usecase"
)

// bootstrapCmd loads the directory and selects the first location in a
// background goroutine.
func bootstrapCmd(ctx context.Context, b *usecase.Bootstrap) tea.Cmd {
	return func() tea.Msg {
		return BootstrapDoneMsg{Result: b.Run(ctx)}
	}
}

// sendChatCmd performs the chat round trip for p. The session itself is
// only touched again when the reply message reaches Update.
func sendChatCmd(ctx context.Context, chat *usecase.ChatSession, p usecase.Pending) tea.Cmd {
	return func() tea.Msg {
		reply, err := chat.Send(ctx, p)
		return ChatReplyMsg{Pending: p, Reply: reply, Err: err}
	}
}

// relayoutCmd fires a RelayoutMsg after delay.
func relayoutCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RelayoutMsg{}
	})
}

// openURLCmd opens url with open.
func openURLCmd(open browser.Opener, url string) tea.Cmd {
	return func() tea.Msg {
		return BrowserOpenedMsg{URL: url, Err: open(url)}
	}
}
