package usecase

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"campus-kiosk/internal/domain"
)

// Messages shown in the detail panel when there is nothing to select.
const (
	MsgNoLocations = "No locations available."
	MsgLoadFailed  = "Failed to load locations."
)

// SortLocations returns a copy of locs ordered by name, ignoring case and
// diacritics. Equal names keep their original order.
func SortLocations(locs []domain.Location) []domain.Location {
	sorted := slices.Clone(locs)
	// Collators carry internal buffers and are not safe to share.
	col := collate.New(language.Und, collate.Loose)
	slices.SortStableFunc(sorted, func(a, b domain.Location) int {
		return col.CompareString(a.Name, b.Name)
	})
	return sorted
}

// DirectoryStore holds the sorted location list for the session. A loaded
// list is replaced wholesale, never edited in place, so indices handed out
// before a reload refer to the old list only.
type DirectoryStore struct {
	source domain.LocationSource
	events domain.EventPublisher
	logger *slog.Logger
	group  singleflight.Group

	mu        sync.RWMutex
	locations []domain.Location
	loaded    bool
}

// NewDirectoryStore creates an empty store backed by source.
func NewDirectoryStore(source domain.LocationSource, events domain.EventPublisher, logger *slog.Logger) *DirectoryStore {
	return &DirectoryStore{source: source, events: events, logger: logger}
}

// Load fetches, sorts and installs the location list. On failure the store
// is left empty and the error is returned; there is no retry. Concurrent
// calls share a single fetch.
func (d *DirectoryStore) Load(ctx context.Context) error {
	_, err, shared := d.group.Do("load", func() (any, error) {
		return nil, d.load(ctx)
	})
	if shared {
		d.logger.Debug("directory load shared with in-flight request")
	}
	return err
}

func (d *DirectoryStore) load(ctx context.Context) error {
	locs, err := d.source.Locations(ctx)
	if err != nil {
		d.install(nil, false)
		d.logger.Warn("directory load failed",
			"error", err,
			"error_code", domain.ErrorCodeOf(err),
			"failure", domain.ClassifyFailure(err).String(),
		)
		publish(ctx, d.events, domain.EventDirectoryFailed, map[string]string{
			"failure": domain.ClassifyFailure(err).String(),
		})
		return domain.WrapOp("Directory.Load", err)
	}

	sorted := SortLocations(locs)
	d.install(sorted, true)
	d.logger.Info("directory loaded", "count", len(sorted))
	publish(ctx, d.events, domain.EventDirectoryLoaded, map[string]int{"count": len(sorted)})
	return nil
}

func (d *DirectoryStore) install(locs []domain.Location, loaded bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.locations = locs
	d.loaded = loaded
}

// Len returns the number of locations.
func (d *DirectoryStore) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.locations)
}

// At returns the location at index i.
func (d *DirectoryStore) At(i int) (domain.Location, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.locations) {
		return domain.Location{}, false
	}
	return d.locations[i], true
}

// Snapshot returns a copy of the current list.
func (d *DirectoryStore) Snapshot() []domain.Location {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.locations)
}

// Loaded reports whether the last load succeeded.
func (d *DirectoryStore) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}
