package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-kiosk/internal/adapter/backend"
	"campus-kiosk/internal/domain"
	"campus-kiosk/internal/infra/config"
	"campus-kiosk/internal/usecase"
)

type testBackend struct {
	calls atomic.Int32
	srv   *httptest.Server
}

func newTestRunner(t *testing.T, handler http.HandlerFunc) (*adminRunner, *bytes.Buffer, *testBackend) {
	t.Helper()
	tb := &testBackend{}
	tb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tb.calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(tb.srv.Close)

	cfg := config.Defaults().Backend
	cfg.BaseURL = tb.srv.URL
	cfg.RateLimit = 0
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var out bytes.Buffer
	r := &adminRunner{
		svc: usecase.NewAdminService(backend.New(cfg, log), "", nil, log),
		out: &out,
		confirm: func(string) (bool, error) {
			t.Fatal("unexpected confirmation prompt")
			return false, nil
		},
		downloadDir: t.TempDir(),
	}
	return r, &out, tb
}

func TestAdminUploadNoFiles(t *testing.T) {
	r, out, tb := newTestRunner(t, func(w http.ResponseWriter, _ *http.Request) {})

	err := r.run(context.Background(), adminCommands["upload-locations"], nil)
	assert.ErrorIs(t, err, domain.ErrNoFiles)
	assert.Equal(t, usecase.MsgSelectFiles+"\n", out.String())
	assert.Zero(t, tb.calls.Load())
}

func TestAdminUploadLocations(t *testing.T) {
	r, out, _ := newTestRunner(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/admin/upload_locations", req.URL.Path)
		io.Copy(io.Discard, req.Body)
		w.Write([]byte(`{"status":"success","files_uploaded":1,"locations_added":3}`))
	})
	var progress bytes.Buffer
	r.progress = func(total int64) io.Writer {
		assert.EqualValues(t, 31, total)
		return &progress
	}

	path := filepath.Join(t.TempDir(), "campus.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,details,lat,lon\nGym,x,1,2\n"), 0o600))

	require.NoError(t, r.run(context.Background(), adminCommands["upload-locations"], []string{path}))
	assert.Contains(t, out.String(), usecase.MsgUploading)
	assert.Contains(t, out.String(), "Upload successful! Files uploaded: 1. Added items: 3")
	assert.Equal(t, 31, progress.Len())
}

func TestAdminUploadServerFailure(t *testing.T) {
	r, out, _ := newTestRunner(t, func(w http.ResponseWriter, req *http.Request) {
		io.Copy(io.Discard, req.Body)
		w.Write([]byte(`{"status":"error"}`))
	})
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	err := r.run(context.Background(), adminCommands["upload-documents"], []string{path})
	require.Error(t, err)
	assert.Contains(t, out.String(), usecase.MsgUploadFailed)
}

func TestAdminUploadRateLimited(t *testing.T) {
	r, out, _ := newTestRunner(t, func(w http.ResponseWriter, req *http.Request) {
		io.Copy(io.Discard, req.Body)
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})
	path := filepath.Join(t.TempDir(), "campus.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,details,lat,lon\n"), 0o600))

	err := r.run(context.Background(), adminCommands["upload-locations"], []string{path})
	require.ErrorIs(t, err, domain.ErrRateLimit)
	assert.Contains(t, out.String(), usecase.MsgUploadFailed)
	assert.NotContains(t, out.String(), usecase.MsgBackendDown)
}

func TestAdminResetDeclined(t *testing.T) {
	r, out, tb := newTestRunner(t, func(w http.ResponseWriter, _ *http.Request) {})
	var asked string
	r.confirm = func(q string) (bool, error) {
		asked = q
		return false, nil
	}

	require.NoError(t, r.run(context.Background(), adminCommands["reset-documents"], nil))
	assert.Equal(t, usecase.ResetPrompt(domain.ResetDocuments), asked)
	assert.Equal(t, "Cancelled.\n", out.String())
	assert.Zero(t, tb.calls.Load())
}

func TestAdminResetAssumeYes(t *testing.T) {
	r, out, _ := newTestRunner(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/admin/reset_locations", req.URL.Path)
		w.Write([]byte(`{}`))
	})

	require.NoError(t, r.run(context.Background(), adminCommands["reset-locations"], []string{"--yes"}))
	assert.Equal(t, "Locations reset.\n", out.String())
}

func TestAdminResetPromptError(t *testing.T) {
	r, _, _ := newTestRunner(t, func(w http.ResponseWriter, _ *http.Request) {})
	r.confirm = func(string) (bool, error) { return false, errors.New("no tty") }

	err := r.run(context.Background(), adminCommands["reset-locations"], nil)
	assert.ErrorContains(t, err, "no tty")
}

func TestAdminExport(t *testing.T) {
	r, out, _ := newTestRunner(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/admin/export_analytics", req.URL.Path)
		w.Write([]byte("session,started\na,1\nb,2\n"))
	})
	dir := filepath.Join(t.TempDir(), "exports")

	require.NoError(t, r.run(context.Background(), adminCommands["export"], []string{dir}))

	data, err := os.ReadFile(filepath.Join(dir, usecase.DefaultExportName))
	require.NoError(t, err)
	assert.Equal(t, "session,started\na,1\nb,2\n", string(data))
	assert.True(t, strings.HasPrefix(out.String(), "Saved "))
	assert.Contains(t, out.String(), "(2 rows")
}

func TestAdminExportFailure(t *testing.T) {
	r, out, _ := newTestRunner(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadRequest)
	})

	err := r.run(context.Background(), adminCommands["export"], nil)
	require.Error(t, err)
	assert.Equal(t, usecase.MsgExportFailed+"\n", out.String())
	entries, _ := os.ReadDir(r.downloadDir)
	assert.Empty(t, entries, "no partial export left behind")
}
