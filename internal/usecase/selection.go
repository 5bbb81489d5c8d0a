package usecase

import (
	"context"
	"log/slog"
	"sync"

	"campus-kiosk/internal/domain"
)

// DetailPanel displays the text for the current selection.
type DetailPanel interface {
	SetText(text string)
}

// MapView is the part of the map adapter the selection drives.
type MapView interface {
	// Initialize creates the map around loc; it reports false if the map
	// already existed.
	Initialize(loc domain.Location) (bool, error)
	Reconcile(loc domain.Location) error
}

// SelectionController turns a directory index into detail text and map
// state. The detail panel and the map are both updated before Select
// returns.
type SelectionController struct {
	dir     *DirectoryStore
	panel   DetailPanel
	mapView MapView
	events  domain.EventPublisher
	logger  *slog.Logger

	mu      sync.Mutex
	current int
	has     bool
}

// NewSelectionController wires a selection controller.
func NewSelectionController(dir *DirectoryStore, panel DetailPanel, mapView MapView, events domain.EventPublisher, logger *slog.Logger) *SelectionController {
	return &SelectionController{dir: dir, panel: panel, mapView: mapView, events: events, logger: logger}
}

// Select makes index the current location. An empty directory shows the
// no-locations message and returns ErrEmptyDirectory; an index outside the
// directory changes nothing and returns ErrIndexOutOfRange.
func (s *SelectionController) Select(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dir.Len() == 0 {
		s.has = false
		s.panel.SetText(MsgNoLocations)
		return domain.WrapOp("Selection.Select", domain.ErrEmptyDirectory)
	}
	loc, ok := s.dir.At(index)
	if !ok {
		return domain.NewDomainError("Selection.Select", domain.ErrIndexOutOfRange, "")
	}

	s.current, s.has = index, true
	s.panel.SetText(loc.DetailText())

	created, err := s.mapView.Initialize(loc)
	if err != nil {
		s.logger.Error("map initialize failed", "error", err, "location", loc.Name)
		return domain.WrapOp("Selection.Select", err)
	}
	if !created {
		if err := s.mapView.Reconcile(loc); err != nil {
			s.logger.Error("map reconcile failed", "error", err, "location", loc.Name)
			return domain.WrapOp("Selection.Select", err)
		}
	}

	s.logger.Debug("location selected", "index", index, "name", loc.Name)
	publish(ctx, s.events, domain.EventSelectionChange, map[string]any{
		"index": index,
		"name":  loc.Name,
	})
	return nil
}

// Current returns the selected index.
func (s *SelectionController) Current() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.has
}

// ShowFailure clears the selection and puts msg in the detail panel.
func (s *SelectionController) ShowFailure(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.has = false
	s.panel.SetText(msg)
}
