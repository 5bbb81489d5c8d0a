package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-kiosk/internal/domain"
	"campus-kiosk/internal/infra/logger"
)

func newSelectionFixture(t *testing.T, ls []domain.Location) (*SelectionController, *recordingPanel, *fakeMapView, *recordingPublisher) {
	t.Helper()
	d := NewDirectoryStore(&fakeSource{locs: ls}, nil, logger.Discard())
	require.NoError(t, d.Load(context.Background()))
	panel := &recordingPanel{}
	mv := &fakeMapView{}
	pub := &recordingPublisher{}
	return NewSelectionController(d, panel, mv, pub, logger.Discard()), panel, mv, pub
}

func TestSelect_FirstInitializesMap(t *testing.T) {
	ls := []domain.Location{
		{Name: "Gym", Details: "Sports hall", Lat: 3, Lon: 4},
		{Name: "Library", Details: "Main library", Lat: 1, Lon: 2},
	}
	s, panel, mv, pub := newSelectionFixture(t, ls)

	require.NoError(t, s.Select(context.Background(), 0))

	assert.True(t, mv.initialized)
	assert.Empty(t, mv.reconciled)
	assert.Equal(t, "Gym\nSports hall\nLatitude: 3\nLongitude: 4", panel.last())
	idx, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []domain.EventType{domain.EventSelectionChange}, pub.types())
}

func TestSelect_LaterReconciles(t *testing.T) {
	ls := []domain.Location{
		{Name: "Gym", Details: "Sports hall", Lat: 3, Lon: 4},
		{Name: "Library", Details: "Main library", Lat: 1, Lon: 2},
	}
	s, panel, mv, _ := newSelectionFixture(t, ls)
	require.NoError(t, s.Select(context.Background(), 0))
	require.NoError(t, s.Select(context.Background(), 1))

	require.Len(t, mv.reconciled, 1)
	assert.Equal(t, "Library", mv.current.Name)
	assert.Equal(t, domain.LatLng{Lat: 1, Lon: 2}, mv.current.Coordinates())
	assert.Equal(t, "Library\nMain library\nLatitude: 1\nLongitude: 2", panel.last())
}

func TestSelect_SameIndexTwice(t *testing.T) {
	s, panel, mv, _ := newSelectionFixture(t, locs("a", "b"))
	require.NoError(t, s.Select(context.Background(), 1))
	require.NoError(t, s.Select(context.Background(), 1))

	assert.Equal(t, panel.texts[0], panel.texts[1])
	assert.Equal(t, "b", mv.current.Name)
}

func TestSelect_EmptyDirectory(t *testing.T) {
	s, panel, mv, pub := newSelectionFixture(t, nil)

	err := s.Select(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrEmptyDirectory)
	assert.Equal(t, MsgNoLocations, panel.last())
	assert.Equal(t, 0, mv.initCalls)
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, pub.types())
}

func TestSelect_OutOfRangeChangesNothing(t *testing.T) {
	s, panel, mv, _ := newSelectionFixture(t, locs("a", "b"))
	require.NoError(t, s.Select(context.Background(), 0))
	before := len(panel.texts)

	for _, idx := range []int{2, -1, 99} {
		err := s.Select(context.Background(), idx)
		assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	}

	assert.Len(t, panel.texts, before)
	assert.Equal(t, "a", mv.current.Name)
	idx, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestSelect_MapInitializeError(t *testing.T) {
	s, panel, mv, pub := newSelectionFixture(t, locs("a"))
	mv.initErr = errors.New("no container")

	err := s.Select(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, "a\n\nLatitude: 0\nLongitude: 0", panel.last())
	assert.Empty(t, pub.types())
}

func TestShowFailure(t *testing.T) {
	s, panel, _, _ := newSelectionFixture(t, locs("a"))
	require.NoError(t, s.Select(context.Background(), 0))

	s.ShowFailure(MsgLoadFailed)
	assert.Equal(t, MsgLoadFailed, panel.last())
	_, ok := s.Current()
	assert.False(t, ok)
}
