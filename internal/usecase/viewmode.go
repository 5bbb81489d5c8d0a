package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"campus-kiosk/internal/domain"
)

// Mode is the panel currently shown.
type Mode int

const (
	ModeNavigate Mode = iota
	ModeChat
)

func (m Mode) String() string {
	switch m {
	case ModeNavigate:
		return "navigate"
	case ModeChat:
		return "chat"
	default:
		return "unknown"
	}
}

// DefaultRelayoutDelay is how long after the navigate panel becomes visible
// the map is asked to re-measure.
const DefaultRelayoutDelay = 100 * time.Millisecond

// Transition describes the effect of a Switch.
type Transition struct {
	From, To Mode
	Changed  bool
	// Relayout is set when the map panel became visible. The caller must
	// force a map relayout after Delay.
	Relayout bool
	Delay    time.Duration
}

// ViewModeSwitch keeps exactly one of the navigate and chat panels active.
type ViewModeSwitch struct {
	delay  time.Duration
	events domain.EventPublisher
	logger *slog.Logger

	mu   sync.Mutex
	mode Mode
}

// NewViewModeSwitch starts in navigate mode. A non-positive delay falls
// back to DefaultRelayoutDelay.
func NewViewModeSwitch(delay time.Duration, events domain.EventPublisher, logger *slog.Logger) *ViewModeSwitch {
	if delay <= 0 {
		delay = DefaultRelayoutDelay
	}
	return &ViewModeSwitch{delay: delay, events: events, logger: logger, mode: ModeNavigate}
}

// Mode returns the active mode.
func (v *ViewModeSwitch) Mode() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// Switch activates mode. Entering navigate mode from chat requests a
// relayout, since the map may have been created or resized while hidden.
// Switching to the mode already active changes nothing.
func (v *ViewModeSwitch) Switch(ctx context.Context, mode Mode) Transition {
	v.mu.Lock()
	from := v.mode
	v.mode = mode
	v.mu.Unlock()

	t := Transition{From: from, To: mode, Changed: from != mode}
	if t.Changed && mode == ModeNavigate {
		t.Relayout = true
		t.Delay = v.delay
	}
	if t.Changed {
		v.logger.Debug("view mode changed", "from", from.String(), "to", mode.String())
		publish(ctx, v.events, domain.EventViewModeChanged, map[string]string{
			"from": from.String(),
			"to":   mode.String(),
		})
	}
	return t
}

// Toggle switches to the other mode.
func (v *ViewModeSwitch) Toggle(ctx context.Context) Transition {
	next := ModeChat
	if v.Mode() == ModeChat {
		next = ModeNavigate
	}
	return v.Switch(ctx, next)
}
