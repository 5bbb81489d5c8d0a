package usecase

import (
	"context"
	"log/slog"

	"campus-kiosk/internal/domain"
)

// BootstrapResult summarizes session start.
type BootstrapResult struct {
	Locations int
	Selected  bool
	// Message is the detail panel text when nothing was selected.
	Message string
	Err     error
}

// Bootstrap loads the directory and selects its first entry. The chat
// session is seeded with its welcome turn when it is constructed, so
// Bootstrap leaves it alone.
type Bootstrap struct {
	dir       *DirectoryStore
	selection *SelectionController
	logger    *slog.Logger
}

// NewBootstrap wires a Bootstrap.
func NewBootstrap(dir *DirectoryStore, selection *SelectionController, logger *slog.Logger) *Bootstrap {
	return &Bootstrap{dir: dir, selection: selection, logger: logger}
}

// Run starts or restarts the session. It never fails: load errors are
// logged and shown in the detail panel.
func (b *Bootstrap) Run(ctx context.Context) BootstrapResult {
	if err := b.dir.Load(ctx); err != nil {
		b.logger.Error("bootstrap: location load failed",
			"error", err,
			"error_code", domain.ErrorCodeOf(err),
		)
		b.selection.ShowFailure(MsgLoadFailed)
		return BootstrapResult{Message: MsgLoadFailed, Err: err}
	}

	n := b.dir.Len()
	if n == 0 {
		b.selection.ShowFailure(MsgNoLocations)
		return BootstrapResult{Message: MsgNoLocations}
	}

	if err := b.selection.Select(ctx, 0); err != nil {
		b.logger.Error("bootstrap: initial selection failed", "error", err)
		return BootstrapResult{Locations: n, Err: err}
	}
	return BootstrapResult{Locations: n, Selected: true}
}
