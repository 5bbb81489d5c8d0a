package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"campus-kiosk/internal/domain"
)

// Admin messages.
const (
	MsgSelectFiles      = "Please select files first."
	MsgUploading        = "Uploading..."
	MsgUploadFailed     = "Upload failed. Check backend."
	MsgBackendDown      = "Error connecting to backend."
	MsgExportFailed     = "Error exporting analytics."
	DefaultExportName   = "user_session_analytics.csv"
	resetPromptTemplate = "Are you sure you want to RESET ALL %s? This action cannot be undone."
)

// ExportResult describes a saved analytics export.
type ExportResult struct {
	Path  string
	Bytes int64
	// Rows is the number of data rows, excluding the header.
	Rows int
}

// AdminService runs the data management actions: uploads, resets and the
// analytics export.
type AdminService struct {
	backend    domain.AdminBackend
	exportName string
	events     domain.EventPublisher
	logger     *slog.Logger
}

// NewAdminService creates an AdminService. An empty exportName falls back
// to DefaultExportName.
func NewAdminService(backend domain.AdminBackend, exportName string, events domain.EventPublisher, logger *slog.Logger) *AdminService {
	if exportName == "" {
		exportName = DefaultExportName
	}
	return &AdminService{backend: backend, exportName: exportName, events: events, logger: logger}
}

// StatFiles resolves paths into upload files. Directories and missing files
// are validation errors.
func StatFiles(paths []string) ([]domain.UploadFile, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoFiles
	}
	files := make([]domain.UploadFile, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrValidation, p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", domain.ErrValidation, p)
		}
		files = append(files, domain.UploadFile{Name: filepath.Base(p), Path: p, Size: info.Size()})
	}
	return files, nil
}

// TotalSize sums the sizes of files.
func TotalSize(files []domain.UploadFile) int64 {
	var n int64
	for _, f := range files {
		n += f.Size
	}
	return n
}

// Upload sends files to the endpoint for kind. Nothing is sent when files
// is empty. progress receives file bytes as they are streamed.
func (a *AdminService) Upload(ctx context.Context, kind domain.UploadKind, files []domain.UploadFile, progress io.Writer) (domain.UploadResult, error) {
	if len(files) == 0 {
		return nil, domain.NewDomainError("Admin.Upload", domain.ErrNoFiles, kind.String())
	}

	a.logger.Info("upload started", "kind", kind.String(), "files", len(files), "bytes", TotalSize(files))
	res, err := a.backend.Upload(ctx, kind, files, progress)
	if err != nil {
		a.logger.Warn("upload failed",
			"kind", kind.String(),
			"error", err,
			"error_code", domain.ErrorCodeOf(err),
		)
		return nil, domain.WrapOp("Admin.Upload", err)
	}

	publish(ctx, a.events, domain.EventAdminUpload, map[string]any{
		"kind":  kind.String(),
		"files": res.Files(),
		"added": res.Added(),
	})
	return res, nil
}

// UploadMessage is the status line for an upload outcome.
func UploadMessage(res domain.UploadResult, err error) string {
	switch {
	case err == nil && res != nil:
		return domain.UploadSummary(res)
	case errors.Is(err, domain.ErrNoFiles):
		return MsgSelectFiles
	case domain.ClassifyFailure(err) == domain.FailureValidation:
		return err.Error()
	case errors.Is(err, domain.ErrHTTPStatus), domain.ClassifyFailure(err) == domain.FailureSemantic:
		return MsgUploadFailed
	default:
		return MsgBackendDown
	}
}

// ResetPrompt is the confirmation question for target.
func ResetPrompt(target domain.ResetTarget) string {
	return fmt.Sprintf(resetPromptTemplate, strings.ToUpper(target.String()))
}

func resetDefaultMessage(target domain.ResetTarget) string {
	s := target.String()
	return strings.ToUpper(s[:1]) + s[1:] + " reset."
}

// ResetErrorMessage is shown when a reset of target fails.
func ResetErrorMessage(target domain.ResetTarget) string {
	return fmt.Sprintf("Error resetting %s.", target.String())
}

// Reset clears target on the backend once confirmed. Without confirmation
// no request is made. The returned message is the backend's, or a default.
func (a *AdminService) Reset(ctx context.Context, target domain.ResetTarget, confirmed bool) (string, error) {
	if !confirmed {
		a.logger.Info("reset cancelled", "target", target.String())
		return "", domain.NewDomainError("Admin.Reset", domain.ErrNotConfirmed, target.String())
	}

	res, err := a.backend.Reset(ctx, target)
	if err != nil {
		a.logger.Warn("reset failed",
			"target", target.String(),
			"error", err,
			"error_code", domain.ErrorCodeOf(err),
		)
		return ResetErrorMessage(target), domain.WrapOp("Admin.Reset", err)
	}

	msg := res.Message
	if msg == "" {
		msg = resetDefaultMessage(target)
	}
	a.logger.Info("reset done", "target", target.String(), "message", msg)
	publish(ctx, a.events, domain.EventAdminReset, map[string]string{"target": target.String()})
	return msg, nil
}

// Export downloads the analytics CSV into dir. The file only appears once
// the download has completed.
func (a *AdminService) Export(ctx context.Context, dir string) (ExportResult, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ExportResult{}, domain.WrapOp("Admin.Export", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*.csv")
	if err != nil {
		return ExportResult{}, domain.WrapOp("Admin.Export", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := a.backend.ExportAnalytics(ctx, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		a.logger.Warn("export failed", "error", err, "error_code", domain.ErrorCodeOf(err))
		return ExportResult{}, domain.WrapOp("Admin.Export", err)
	}

	dest := filepath.Join(dir, a.exportName)
	if err := os.Rename(tmpName, dest); err != nil {
		return ExportResult{}, domain.WrapOp("Admin.Export", err)
	}

	rows, err := countCSVRows(dest)
	if err != nil {
		a.logger.Warn("export is not valid csv", "path", dest, "error", err)
	}

	a.logger.Info("analytics exported", "path", dest, "bytes", n, "rows", rows)
	publish(ctx, a.events, domain.EventAdminExport, map[string]any{"bytes": n, "rows": rows})
	return ExportResult{Path: dest, Bytes: n, Rows: rows}, nil
}

// countCSVRows returns the number of records after the header.
func countCSVRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		records++
	}
	if records == 0 {
		return 0, nil
	}
	return records - 1, nil
}
