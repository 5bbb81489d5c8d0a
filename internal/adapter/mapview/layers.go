package mapview

import (
	"math"
	"strconv"
	"strings"

	"campus-kiosk/internal/domain"
)

// BaseLayer is a tile source the user can switch between.
type BaseLayer struct {
	Name        string
	URLTemplate string
	Subdomains  []string
	MaxZoom     int
	Attribution string
}

// Base layer names.
const (
	LayerStreet    = "OpenStreetMap"
	LayerSatellite = "Satellite"
	LayerTerrain   = "Terrain"
)

var googleSubdomains = []string{"mt0", "mt1", "mt2", "mt3"}

// DefaultLayers returns the street, satellite and terrain layers in
// display order.
func DefaultLayers() []BaseLayer {
	return []BaseLayer{
		{
			Name:        LayerStreet,
			URLTemplate: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Subdomains:  []string{"a", "b", "c"},
			MaxZoom:     19,
			Attribution: "© OpenStreetMap contributors",
		},
		{
			Name:        LayerSatellite,
			URLTemplate: "https://{s}.google.com/vt/lyrs=s&x={x}&y={y}&z={z}",
			Subdomains:  googleSubdomains,
			MaxZoom:     20,
			Attribution: "© Google",
		},
		{
			Name:        LayerTerrain,
			URLTemplate: "https://{s}.google.com/vt/lyrs=p&x={x}&y={y}&z={z}",
			Subdomains:  googleSubdomains,
			MaxZoom:     20,
			Attribution: "© Google",
		},
	}
}

// FindLayer returns the layer called name.
func FindLayer(layers []BaseLayer, name string) (BaseLayer, bool) {
	for _, l := range layers {
		if l.Name == name {
			return l, true
		}
	}
	return BaseLayer{}, false
}

// TileSize is the edge length of a map tile in pixels.
const TileSize = 256

// maxLat is the latitude limit of the Web Mercator projection.
const maxLat = 85.0511287798

// Project converts p to global Web Mercator pixel coordinates at zoom.
func Project(p domain.LatLng, zoom int) (x, y float64) {
	lat := math.Max(-maxLat, math.Min(maxLat, p.Lat))
	scale := TileSize * math.Exp2(float64(zoom))
	x = (p.Lon + 180) / 360 * scale
	sin := math.Sin(lat * math.Pi / 180)
	y = (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	return x, y
}

// Unproject converts global pixel coordinates at zoom back to a LatLng.
func Unproject(x, y float64, zoom int) domain.LatLng {
	scale := TileSize * math.Exp2(float64(zoom))
	lon := x/scale*360 - 180
	n := math.Pi - 2*math.Pi*y/scale
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return domain.LatLng{Lat: lat, Lon: lon}
}

// TileAt returns the tile column and row containing p at zoom.
func TileAt(p domain.LatLng, zoom int) (x, y int) {
	px, py := Project(p, zoom)
	n := int(math.Exp2(float64(zoom)))
	x = clampTile(int(math.Floor(px/TileSize)), n)
	y = clampTile(int(math.Floor(py/TileSize)), n)
	return x, y
}

func clampTile(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// TileURL expands the layer template for the tile containing p. Zoom is
// capped at the layer's maximum.
func (l BaseLayer) TileURL(p domain.LatLng, zoom int) string {
	if l.MaxZoom > 0 && zoom > l.MaxZoom {
		zoom = l.MaxZoom
	}
	x, y := TileAt(p, zoom)
	sub := ""
	if len(l.Subdomains) > 0 {
		sub = l.Subdomains[(x+y)%len(l.Subdomains)]
	}
	r := strings.NewReplacer(
		"{s}", sub,
		"{z}", strconv.Itoa(zoom),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	)
	return r.Replace(l.URLTemplate)
}
