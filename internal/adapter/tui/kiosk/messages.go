// Package kiosk implements the campus kiosk Bubble Tea program: the
// navigate panel with the location list, detail text and map, and the chat
// panel.
package kiosk

import "campus-kiosk/internal/usecase"

// BootstrapDoneMsg carries the outcome of a directory load and first
// selection.
type BootstrapDoneMsg struct {
	Result usecase.BootstrapResult
}

// ChatReplyMsg carries the backend's answer for a pending chat request.
type ChatReplyMsg struct {
	Pending usecase.Pending
	Reply   string
	Err     error
}

// RelayoutMsg fires after the navigate panel became visible.
type RelayoutMsg struct{}

// BrowserOpenedMsg reports the result of opening a directions link.
type BrowserOpenedMsg struct {
	URL string
	Err error
}
