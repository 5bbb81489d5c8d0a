package eventbus

import (
	"context"
	"log/slog"
	"testing"

	"campus-kiosk/internal/domain"
)

// BenchmarkEventBusPublish benchmarks publishing to a single no-op subscriber.
func BenchmarkEventBusPublish(b *testing.B) {
	bus := New("bench-session", slog.Default())
	ctx := context.Background()
	event := domain.NewEvent(domain.EventSelectionChange, "", map[string]int{"index": 0})

	bus.Subscribe(domain.EventSelectionChange, func(_ context.Context, _ domain.Event) {})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		bus.Publish(ctx, event)
	}
	b.StopTimer()
	bus.Close()
}
