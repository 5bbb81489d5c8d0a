package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"campus-kiosk/internal/domain"
)

// uploadField is the repeatable multipart field the admin endpoints read.
const uploadField = "files"

type uploadResponse struct {
	Status         string `json:"status"`
	FilesUploaded  int    `json:"files_uploaded"`
	LocationsAdded int    `json:"locations_added"`
	DocsAdded      int    `json:"docs_added"`
}

// Upload streams files to the endpoint for kind as one multipart request.
// File bytes are mirrored to progress as they are sent when it is non-nil.
// The result variant is chosen by kind, never by the response shape.
func (c *Client) Upload(ctx context.Context, kind domain.UploadKind, files []domain.UploadFile, progress io.Writer) (domain.UploadResult, error) {
	if len(files) == 0 {
		return nil, domain.NewDomainError("backend.upload", domain.ErrNoFiles, kind.String())
	}

	path := pathUploadLocations
	if kind == domain.UploadDocuments {
		path = pathUploadDocuments
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeParts(mw, files, progress))
	}()

	body, err := c.call(ctx, "upload", request{
		method:      http.MethodPost,
		path:        path,
		body:        pr,
		contentType: mw.FormDataContentType(),
	})
	// Unblock the writer goroutine if the request ended before the body
	// was fully consumed.
	pr.Close()
	if err != nil {
		return nil, err
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewDomainError("backend.upload", domain.ErrBadPayload, err.Error())
	}
	if resp.Status != "success" {
		return nil, domain.NewDomainError("backend.upload", domain.ErrUploadFailed,
			fmt.Sprintf("status %q", resp.Status))
	}

	c.logger.Info("upload accepted",
		"kind", kind.String(),
		"files", resp.FilesUploaded,
		"locations_added", resp.LocationsAdded,
		"docs_added", resp.DocsAdded,
	)

	if kind == domain.UploadDocuments {
		return domain.DocumentsUploaded{FilesUploaded: resp.FilesUploaded, DocsAdded: resp.DocsAdded}, nil
	}
	return domain.LocationsUploaded{FilesUploaded: resp.FilesUploaded, LocationsAdded: resp.LocationsAdded}, nil
}

func writeParts(mw *multipart.Writer, files []domain.UploadFile, progress io.Writer) error {
	for _, f := range files {
		if err := writePart(mw, f, progress); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writePart(mw *multipart.Writer, f domain.UploadFile, progress io.Writer) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer src.Close()

	name := f.Name
	if name == "" {
		name = filepath.Base(f.Path)
	}
	part, err := mw.CreateFormFile(uploadField, name)
	if err != nil {
		return fmt.Errorf("create part %s: %w", name, err)
	}

	var r io.Reader = src
	if progress != nil {
		r = io.TeeReader(src, progress)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("write part %s: %w", name, err)
	}
	return nil
}
