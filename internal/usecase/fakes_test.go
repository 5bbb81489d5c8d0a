package usecase

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"campus-kiosk/internal/domain"
)

// --- Fakes ---

type fakeSource struct {
	mu    sync.Mutex
	locs  []domain.Location
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (f *fakeSource) Locations(ctx context.Context) ([]domain.Location, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Location, len(f.locs))
	copy(out, f.locs)
	return out, nil
}

func (f *fakeSource) set(locs []domain.Location, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locs, f.err = locs, err
}

type recordingPanel struct {
	texts []string
}

func (p *recordingPanel) SetText(text string) { p.texts = append(p.texts, text) }

func (p *recordingPanel) last() string {
	if len(p.texts) == 0 {
		return ""
	}
	return p.texts[len(p.texts)-1]
}

type fakeMapView struct {
	initialized bool
	initErr     error
	initCalls   int
	reconciled  []domain.Location
	current     domain.Location
}

func (m *fakeMapView) Initialize(loc domain.Location) (bool, error) {
	m.initCalls++
	if m.initErr != nil {
		return false, m.initErr
	}
	if m.initialized {
		return false, nil
	}
	m.initialized = true
	m.current = loc
	return true, nil
}

func (m *fakeMapView) Reconcile(loc domain.Location) error {
	m.reconciled = append(m.reconciled, loc)
	m.current = loc
	return nil
}

type fakeChatBackend struct {
	mu       sync.Mutex
	replies  []string
	err      error
	received [][]domain.ChatTurn
}

func (f *fakeChatBackend) Chat(_ context.Context, history []domain.ChatTurn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, history)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "ok", nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

type fakeAdminBackend struct {
	uploadRes   domain.UploadResult
	uploadErr   error
	uploadCalls int
	gotFiles    []domain.UploadFile
	resetRes    domain.ResetResult
	resetErr    error
	resetCalls  int
	export      string
	exportErr   error
}

func (f *fakeAdminBackend) Upload(_ context.Context, _ domain.UploadKind, files []domain.UploadFile, progress io.Writer) (domain.UploadResult, error) {
	f.uploadCalls++
	f.gotFiles = files
	if progress != nil {
		progress.Write([]byte("x"))
	}
	return f.uploadRes, f.uploadErr
}

func (f *fakeAdminBackend) Reset(_ context.Context, _ domain.ResetTarget) (domain.ResetResult, error) {
	f.resetCalls++
	return f.resetRes, f.resetErr
}

func (f *fakeAdminBackend) ExportAnalytics(_ context.Context, w io.Writer) (int64, error) {
	if f.exportErr != nil {
		return 0, f.exportErr
	}
	n, err := io.WriteString(w, f.export)
	return int64(n), err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}
