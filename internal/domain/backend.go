package domain

import (
	"context"
	"io"
)

// LocationSource fetches the raw, unsorted location list.
type LocationSource interface {
	Locations(ctx context.Context) ([]Location, error)
}

// ChatBackend answers a chat turn. The backend keeps no conversation state,
// so history must be the entire transcript including the newest user turn.
type ChatBackend interface {
	Chat(ctx context.Context, history []ChatTurn) (string, error)
}

// AdminBackend exposes the data management endpoints.
type AdminBackend interface {
	Upload(ctx context.Context, kind UploadKind, files []UploadFile, progress io.Writer) (UploadResult, error)
	Reset(ctx context.Context, target ResetTarget) (ResetResult, error)
	ExportAnalytics(ctx context.Context, w io.Writer) (int64, error)
}
