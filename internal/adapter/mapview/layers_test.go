package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campus-kiosk/internal/domain"
)

func TestProjectUnprojectRoundTrip(t *testing.T) {
	points := []domain.LatLng{
		{Lat: 0, Lon: 0},
		{Lat: 10.7769, Lon: 106.7009},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 51.5074, Lon: -0.1278},
	}
	for _, p := range points {
		for _, z := range []int{0, 10, 16, 18} {
			x, y := Project(p, z)
			got := Unproject(x, y, z)
			assert.InDelta(t, p.Lat, got.Lat, 1e-9, "lat at z%d", z)
			assert.InDelta(t, p.Lon, got.Lon, 1e-9, "lon at z%d", z)
		}
	}
}

func TestProjectOrigin(t *testing.T) {
	x, y := Project(domain.LatLng{}, 0)
	assert.InDelta(t, 128.0, x, 1e-9)
	assert.InDelta(t, 128.0, y, 1e-9)
}

func TestTileAt(t *testing.T) {
	tests := []struct {
		name  string
		p     domain.LatLng
		zoom  int
		wantX int
		wantY int
	}{
		{"zoom zero", domain.LatLng{Lat: 45, Lon: 90}, 0, 0, 0},
		{"north west quadrant", domain.LatLng{Lat: 10, Lon: -10}, 1, 0, 0},
		{"south east quadrant", domain.LatLng{Lat: -10, Lon: 10}, 1, 1, 1},
		{"clamped pole", domain.LatLng{Lat: 90, Lon: 180}, 2, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := TileAt(tt.p, tt.zoom)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("TileAt = (%d,%d), want (%d,%d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestTileURL(t *testing.T) {
	layers := DefaultLayers()
	street, ok := FindLayer(layers, LayerStreet)
	assert.True(t, ok)
	sat, _ := FindLayer(layers, LayerSatellite)
	terrain, _ := FindLayer(layers, LayerTerrain)

	p := domain.LatLng{Lat: -10, Lon: 10}
	assert.Equal(t, "https://c.tile.openstreetmap.org/1/1/1.png", street.TileURL(p, 1))
	assert.Equal(t, "https://mt2.google.com/vt/lyrs=s&x=1&y=1&z=1", sat.TileURL(p, 1))
	assert.Equal(t, "https://mt2.google.com/vt/lyrs=p&x=1&y=1&z=1", terrain.TileURL(p, 1))
}

func TestTileURL_CapsZoom(t *testing.T) {
	street, _ := FindLayer(DefaultLayers(), LayerStreet)
	url := street.TileURL(domain.LatLng{Lat: 1, Lon: 2}, 22)
	assert.Contains(t, url, "/19/")
}

func TestFindLayer_Unknown(t *testing.T) {
	_, ok := FindLayer(DefaultLayers(), "Moon")
	assert.False(t, ok)
}
