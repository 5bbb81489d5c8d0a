package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"campus-kiosk/internal/domain"
)

// ActivityLog records every session event to the structured log and keeps
// per-type counters for the status bar.
type ActivityLog struct {
	logger *slog.Logger
	mu     sync.Mutex
	counts map[domain.EventType]int
	unsub  func()
}

// NewActivityLog subscribes an ActivityLog to bus.
func NewActivityLog(bus domain.EventBus, logger *slog.Logger) *ActivityLog {
	a := &ActivityLog{
		logger: logger,
		counts: make(map[domain.EventType]int),
	}
	a.unsub = bus.SubscribeAll(a.handle)
	return a
}

func (a *ActivityLog) handle(_ context.Context, ev domain.Event) {
	a.mu.Lock()
	a.counts[ev.Type]++
	a.mu.Unlock()

	a.logger.Info("session activity",
		"event", string(ev.Type),
		"event_id", ev.ID,
		"session_id", ev.SessionID,
		"payload", string(ev.Payload),
	)
}

// Count returns how many events of type t have been seen.
func (a *ActivityLog) Count(t domain.EventType) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts[t]
}

// Stop unsubscribes from the bus.
func (a *ActivityLog) Stop() { a.unsub() }
