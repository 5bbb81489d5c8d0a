// Package uxerror translates raw errors into user-friendly messages with
// recovery hints for the TUI.
package uxerror

import (
	"errors"
	"fmt"
	"strings"

	"campus-kiosk/internal/adapter/tui/theme"
	"campus-kiosk/internal/domain"
)

// FriendlyError is a user-facing error with suggestions for recovery.
type FriendlyError struct {
	Title   string   // short heading, e.g. "Connection Refused"
	Message string   // one-liner explanation
	Hints   []string // actionable recovery suggestions
	Raw     string   // original error text (for debug)
}

// Render formats the FriendlyError for display in the TUI message list.
func (fe FriendlyError) Render() string {
	var sb strings.Builder
	sb.WriteString(fe.Title)
	if fe.Message != "" {
		sb.WriteString("\n  ")
		sb.WriteString(fe.Message)
	}
	if len(fe.Hints) > 0 {
		sb.WriteString("\n  Suggestions:")
		for _, h := range fe.Hints {
			sb.WriteString(fmt.Sprintf("\n    %s %s", theme.SymbolBullet, h))
		}
	}
	return sb.String()
}

type errorPattern struct {
	match   func(err error) bool
	produce func(err error) FriendlyError
}

var patterns = []errorPattern{
	// Domain sentinel errors (checked first so errors.Is works through wrapping).
	{
		match:   sentinel(domain.ErrCircuitOpen),
		produce: constantError("Backend Paused", "Too many recent failures; requests are paused for a moment.", []string{"Wait a few seconds and try again", "Check that the campus backend is running"}),
	},
	{
		match:   sentinel(domain.ErrRateLimit),
		produce: constantError("Rate Limited", "Too many requests sent to the backend.", []string{"Wait a moment before retrying", "Raise backend.rate_limit in config"}),
	},
	{
		match:   sentinel(domain.ErrEmptyDirectory),
		produce: constantError("No Locations", "The campus directory is empty.", []string{"Upload locations with 'kiosk upload-locations'", "Press r to reload"}),
	},
	{
		match:   sentinel(domain.ErrRequestPending),
		produce: constantError("Still Waiting", "The previous question has not been answered yet.", nil),
	},
	{
		match:   sentinel(domain.ErrUploadFailed),
		produce: constantError("Upload Rejected", "The backend did not accept the upload.", []string{"Check the file format", "Check the backend logs"}),
	},
	{
		match:   sentinel(domain.ErrBadPayload),
		produce: constantError("Unexpected Response", "The backend sent data the kiosk could not read.", []string{"Check that the backend version matches the kiosk", "Check the backend logs"}),
	},
	{
		match:   sentinel(domain.ErrBadStatus),
		produce: constantError("Backend Error", "The backend reported an error.", []string{"Check the backend logs", "Try again"}),
	},

	// Network / connectivity patterns (string matching for external errors).
	{
		match:   containsAny("connection refused", "dial tcp", "no such host"),
		produce: constantError("Connection Failed", "Could not reach the campus backend.", []string{"Check that the backend is running", "Verify backend.base_url in config or KIOSK_BACKEND_URL"}),
	},
	{
		match:   containsAny("deadline exceeded", "timeout", "context deadline"),
		produce: constantError("Request Timed Out", "The backend took too long to answer.", []string{"Check your network connection", "Increase backend.timeout in config"}),
	},
	{
		match:   sentinel(domain.ErrTransport),
		produce: constantError("Connection Failed", "Could not reach the campus backend.", []string{"Check that the backend is running"}),
	},
}

// Humanize converts a raw error into a FriendlyError with recovery hints.
func Humanize(err error) FriendlyError {
	if err == nil {
		return FriendlyError{Title: "Unknown Error", Raw: "nil"}
	}

	for _, p := range patterns {
		if p.match(err) {
			return p.produce(err)
		}
	}

	// Fallback for unrecognized errors.
	return FriendlyError{
		Title:   "Unexpected Error",
		Message: err.Error(),
		Hints:   []string{"Try again", "Set KIOSK_LOGGER_LEVEL=debug and check the log file"},
		Raw:     err.Error(),
	}
}

// containsAny returns a match func that checks if the error string contains
// any of the given substrings (case-insensitive).
func containsAny(substrs ...string) func(error) bool {
	return func(err error) bool {
		lower := strings.ToLower(err.Error())
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

// sentinel returns a match func for errors wrapping target.
func sentinel(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

// constantError returns a produce func that always returns the same FriendlyError.
func constantError(title, message string, hints []string) func(error) FriendlyError {
	return func(err error) FriendlyError {
		return FriendlyError{
			Title:   title,
			Message: message,
			Hints:   hints,
			Raw:     err.Error(),
		}
	}
}
