package eventbus

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"campus-kiosk/internal/domain"
)

func newTestBus() *Bus {
	return New("test-session", slog.Default())
}

func newEvent(t domain.EventType) domain.Event {
	return domain.NewEvent(t, "", nil)
}

func TestPublishSubscribe(t *testing.T) {
	bus := newTestBus()

	var got atomic.Int32
	bus.Subscribe(domain.EventSelectionChange, func(_ context.Context, e domain.Event) {
		if e.Type == domain.EventSelectionChange {
			got.Add(1)
		}
	})

	bus.Publish(context.Background(), newEvent(domain.EventSelectionChange))
	bus.Publish(context.Background(), newEvent(domain.EventChatFailed))
	bus.Close() // drain
	if got.Load() != 1 {
		t.Fatalf("expected 1, got %d", got.Load())
	}
}

func TestPublishStampsSessionID(t *testing.T) {
	bus := newTestBus()

	var mu sync.Mutex
	var seen []string
	bus.SubscribeAll(func(_ context.Context, e domain.Event) {
		mu.Lock()
		seen = append(seen, e.SessionID)
		mu.Unlock()
	})

	bus.Publish(context.Background(), newEvent(domain.EventDirectoryLoaded))
	bus.Publish(context.Background(), domain.NewEvent(domain.EventAdminReset, "admin-cli", nil))
	bus.Close()

	joined := strings.Join(seen, ",")
	if !strings.Contains(joined, "test-session") || !strings.Contains(joined, "admin-cli") {
		t.Errorf("session ids = %v", seen)
	}
}

func TestSubscribeAll(t *testing.T) {
	bus := newTestBus()

	var got atomic.Int32
	bus.SubscribeAll(func(_ context.Context, _ domain.Event) {
		got.Add(1)
	})

	bus.Publish(context.Background(), newEvent(domain.EventChatTurnAdded))
	bus.Publish(context.Background(), newEvent(domain.EventMapRelayout))
	bus.Close()

	if got.Load() != 2 {
		t.Fatalf("expected 2, got %d", got.Load())
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := newTestBus()

	var typed, all atomic.Int32
	unsubTyped := bus.Subscribe(domain.EventChatTurnAdded, func(_ context.Context, _ domain.Event) {
		typed.Add(1)
	})
	unsubAll := bus.SubscribeAll(func(_ context.Context, _ domain.Event) {
		all.Add(1)
	})
	unsubTyped()
	unsubAll()

	bus.Publish(context.Background(), newEvent(domain.EventChatTurnAdded))
	bus.Close()

	if typed.Load() != 0 || all.Load() != 0 {
		t.Fatalf("expected no delivery after unsubscribe, got typed=%d all=%d", typed.Load(), all.Load())
	}
}

func TestConcurrentPublish(t *testing.T) {
	bus := newTestBus()

	var got atomic.Int32
	bus.Subscribe(domain.EventSelectionChange, func(_ context.Context, _ domain.Event) {
		got.Add(1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(context.Background(), newEvent(domain.EventSelectionChange))
		}()
	}
	wg.Wait()
	bus.Close()

	if got.Load() != 100 {
		t.Fatalf("expected 100, got %d", got.Load())
	}
}

func TestPanicRecovery(t *testing.T) {
	bus := newTestBus()

	var got atomic.Int32
	// First subscriber panics
	bus.Subscribe(domain.EventChatFailed, func(_ context.Context, _ domain.Event) {
		panic("boom")
	})
	// Second subscriber should still fire
	bus.Subscribe(domain.EventChatFailed, func(_ context.Context, _ domain.Event) {
		got.Add(1)
	})

	bus.Publish(context.Background(), newEvent(domain.EventChatFailed))
	bus.Close()

	if got.Load() != 1 {
		t.Fatalf("expected 1 (second handler), got %d", got.Load())
	}
}

func TestCloseDrainsAndRejectsNew(t *testing.T) {
	bus := newTestBus()

	var got atomic.Int32
	bus.Subscribe(domain.EventAdminExport, func(_ context.Context, _ domain.Event) {
		time.Sleep(50 * time.Millisecond)
		got.Add(1)
	})

	bus.Publish(context.Background(), newEvent(domain.EventAdminExport))
	bus.Close() // should block until the handler finishes

	if got.Load() != 1 {
		t.Fatalf("expected handler to have run, got %d", got.Load())
	}

	bus.Publish(context.Background(), newEvent(domain.EventAdminExport))
	time.Sleep(20 * time.Millisecond)
	if got.Load() != 1 {
		t.Fatalf("expected no delivery after close, got %d", got.Load())
	}
	bus.Close() // idempotent
}

func TestActivityLogCountsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: &buf, mu: &mu}, nil))

	bus := newTestBus()
	activity := NewActivityLog(bus, logger)

	bus.Publish(context.Background(), newEvent(domain.EventChatTurnAdded))
	bus.Publish(context.Background(), newEvent(domain.EventChatTurnAdded))
	bus.Publish(context.Background(), newEvent(domain.EventSelectionChange))
	bus.Close()

	if got := activity.Count(domain.EventChatTurnAdded); got != 2 {
		t.Errorf("Count(chat) = %d, want 2", got)
	}
	if got := activity.Count(domain.EventSelectionChange); got != 1 {
		t.Errorf("Count(selection) = %d, want 1", got)
	}

	mu.Lock()
	out := buf.String()
	mu.Unlock()
	if !strings.Contains(out, "session activity") || !strings.Contains(out, "chat.turn.appended") {
		t.Errorf("log output = %q", out)
	}
	activity.Stop()
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
