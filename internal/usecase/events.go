package usecase

import (
	"context"

	"campus-kiosk/internal/domain"
)

// publish sends an activity event if a publisher is wired. The bus stamps
// the session ID.
func publish(ctx context.Context, pub domain.EventPublisher, t domain.EventType, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, domain.NewEvent(t, "", payload))
}
