// Package mapview owns the kiosk's single map instance. The Adapter keeps
// the marker, its tooltip, the base layer choice and the return-to-marker
// control consistent with the selected location; drawing is delegated to an
// Engine.
package mapview

import "campus-kiosk/internal/domain"

// MarkerHandle identifies a marker created by an Engine.
type MarkerHandle int

// ControlHandle identifies a control installed on an Engine.
type ControlHandle int

// Corner anchors a control on the map.
type Corner string

const (
	TopLeft  Corner = "topleft"
	TopRight Corner = "topright"
)

// Direction places a tooltip relative to its marker.
type Direction string

const (
	Bottom Direction = "bottom"
	Top    Direction = "top"
)

// Tooltip describes the label attached to a marker.
type Tooltip struct {
	Text      string
	Permanent bool
	Direction Direction
	// OffsetX and OffsetY shift the tooltip from its anchor, in pixels.
	OffsetX, OffsetY int
}

// Control is a clickable button drawn on the map.
type Control struct {
	Title    string
	Position Corner
	OnClick  func()
}

// Engine is the map rendering engine the Adapter drives. Implementations
// need not be goroutine-safe; the Adapter serializes all calls.
type Engine interface {
	// Create builds the map centered on center. It is called once.
	Create(center domain.LatLng, zoom int) error
	// SetBaseLayers registers mutually exclusive base layers and shows active.
	SetBaseLayers(layers []BaseLayer, active string)
	SelectBaseLayer(name string)
	SetView(center domain.LatLng, zoom int)
	AddMarker(pos domain.LatLng, tip Tooltip) MarkerHandle
	MoveMarker(m MarkerHandle, pos domain.LatLng)
	SetTooltipText(m MarkerHandle, text string)
	AddControl(c Control) ControlHandle
	RemoveControl(h ControlHandle)
	// InvalidateSize re-measures the map container.
	InvalidateSize()
}

// Resizer is implemented by engines that are told their container size
// instead of measuring it themselves.
type Resizer interface {
	Resize(w, h int)
}

// Renderer is implemented by engines that draw into a string.
type Renderer interface {
	View() string
}
