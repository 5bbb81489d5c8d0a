package domain

import (
	"context"
	"encoding/json"
	"time"
)

// EventType identifies the kind of session activity being published.
type EventType string

const (
	EventDirectoryLoaded EventType = "directory.loaded"
	EventDirectoryFailed EventType = "directory.failed"
	EventSelectionChange EventType = "selection.changed"
	EventMapRelayout     EventType = "map.relayout"
	EventViewModeChanged EventType = "view.mode.changed"
	EventChatTurnAdded   EventType = "chat.turn.appended"
	EventChatFailed      EventType = "chat.failed"
	EventAdminUpload     EventType = "admin.upload"
	EventAdminReset      EventType = "admin.reset"
	EventAdminExport     EventType = "admin.export"
)

// Event is the envelope published on the activity bus.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	SessionID string          `json:"session_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an event stamped with a fresh ID and the current time.
// payload is JSON-encoded; an unencodable payload is dropped.
func NewEvent(t EventType, sessionID string, payload any) Event {
	now := time.Now()
	ev := Event{ID: NewID(now), Type: t, Timestamp: now, SessionID: sessionID}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			ev.Payload = raw
		}
	}
	return ev
}

// EventHandler is a callback invoked when an event is received.
type EventHandler func(ctx context.Context, event Event)

// EventPublisher is the publishing half of the activity bus. Session
// components depend only on this.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// EventBus provides a publish/subscribe mechanism for session activity.
type EventBus interface {
	EventPublisher
	// Subscribe registers a handler for a specific event type.
	// Returns an unsubscribe function.
	Subscribe(eventType EventType, handler EventHandler) func()
	// SubscribeAll registers a handler that receives every event.
	// Returns an unsubscribe function.
	SubscribeAll(handler EventHandler) func()
	// Close drains in-flight handlers and prevents new publishes.
	Close()
}
