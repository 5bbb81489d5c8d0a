package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"campus-kiosk/internal/domain"
	"campus-kiosk/internal/infra/logger"
)

func newBootstrapFixture(src *fakeSource) (*Bootstrap, *DirectoryStore, *recordingPanel, *fakeMapView) {
	d := NewDirectoryStore(src, nil, logger.Discard())
	panel := &recordingPanel{}
	mv := &fakeMapView{}
	sel := NewSelectionController(d, panel, mv, nil, logger.Discard())
	return NewBootstrap(d, sel, logger.Discard()), d, panel, mv
}

func TestBootstrap_SelectsFirstSorted(t *testing.T) {
	b, _, panel, mv := newBootstrapFixture(&fakeSource{locs: []domain.Location{
		{Name: "Science Block", Lat: 5, Lon: 6},
		{Name: "admin office", Details: "Room 1", Lat: 1, Lon: 2},
	}})

	res := b.Run(context.Background())

	assert.True(t, res.Selected)
	assert.Equal(t, 2, res.Locations)
	assert.NoError(t, res.Err)
	assert.True(t, mv.initialized)
	assert.Equal(t, "admin office", mv.current.Name)
	assert.Equal(t, "admin office\nRoom 1\nLatitude: 1\nLongitude: 2", panel.last())
}

func TestBootstrap_EmptyDirectory(t *testing.T) {
	b, _, panel, mv := newBootstrapFixture(&fakeSource{})

	res := b.Run(context.Background())

	assert.False(t, res.Selected)
	assert.NoError(t, res.Err)
	assert.Equal(t, MsgNoLocations, res.Message)
	assert.Equal(t, MsgNoLocations, panel.last())
	assert.False(t, mv.initialized)
}

func TestBootstrap_LoadFailure(t *testing.T) {
	b, d, panel, mv := newBootstrapFixture(&fakeSource{err: domain.ErrTransport})

	res := b.Run(context.Background())

	assert.False(t, res.Selected)
	assert.Error(t, res.Err)
	assert.Equal(t, MsgLoadFailed, res.Message)
	assert.Equal(t, MsgLoadFailed, panel.last())
	assert.NotEqual(t, MsgNoLocations, panel.last())
	assert.False(t, mv.initialized)
	assert.Equal(t, 0, d.Len())
}

func TestBootstrap_ReloadReselectsFirst(t *testing.T) {
	src := &fakeSource{locs: locs("b", "c")}
	b, _, _, mv := newBootstrapFixture(src)
	b.Run(context.Background())

	src.set(locs("a", "b", "c"), nil)
	res := b.Run(context.Background())

	assert.True(t, res.Selected)
	assert.Equal(t, 3, res.Locations)
	assert.Equal(t, "a", mv.current.Name)
	assert.Len(t, mv.reconciled, 1)
}
