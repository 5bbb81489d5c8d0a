package mapview

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"campus-kiosk/internal/domain"
)

// ErrNotInitialized is returned by operations that need the map to exist.
var ErrNotInitialized = errors.New("map not initialized")

// ReturnControlTitle labels the return-to-marker button.
const ReturnControlTitle = "Return to Marker"

// Options configures zoom levels and the starting base layer.
type Options struct {
	InitialZoom  int
	SelectZoom   int
	ReturnZoom   int
	DefaultLayer string
	Layers       []BaseLayer
}

// DefaultOptions returns zoom 16 on first load, 17 on selection and 18 when
// returning to the marker, on the street layer.
func DefaultOptions() Options {
	return Options{
		InitialZoom:  16,
		SelectZoom:   17,
		ReturnZoom:   18,
		DefaultLayer: LayerStreet,
		Layers:       DefaultLayers(),
	}
}

// State is an observable snapshot of the map.
type State struct {
	Initialized   bool
	HasMarker     bool
	Marker        domain.LatLng
	Tooltip       string
	Center        domain.LatLng
	Zoom          int
	ActiveLayer   string
	HasReturnCtl  bool
	ReturnTarget  domain.LatLng
	RelayoutCount int
}

// Adapter is the only owner of the map instance. Nothing outside the
// Adapter touches the Engine.
type Adapter struct {
	mu     sync.Mutex
	engine Engine
	opts   Options
	logger *slog.Logger

	initialized bool
	marker      MarkerHandle
	hasMarker   bool
	markerPos   domain.LatLng
	tooltip     string
	center      domain.LatLng
	zoom        int
	activeLayer string
	returnCtl   controlSlot
	target      domain.LatLng
	relayouts   int
}

// New creates an Adapter around engine. Zero-valued options fall back to
// DefaultOptions.
func New(engine Engine, opts Options, logger *slog.Logger) *Adapter {
	def := DefaultOptions()
	if opts.InitialZoom == 0 {
		opts.InitialZoom = def.InitialZoom
	}
	if opts.SelectZoom == 0 {
		opts.SelectZoom = def.SelectZoom
	}
	if opts.ReturnZoom == 0 {
		opts.ReturnZoom = def.ReturnZoom
	}
	if len(opts.Layers) == 0 {
		opts.Layers = def.Layers
	}
	if _, ok := FindLayer(opts.Layers, opts.DefaultLayer); !ok {
		opts.DefaultLayer = opts.Layers[0].Name
	}
	return &Adapter{engine: engine, opts: opts, logger: logger}
}

// Initialize creates the map centered on loc, registers the base layers,
// places the marker with its permanent tooltip and installs the return
// control. Only the first call has any effect; it reports whether the map
// was created by this call.
func (a *Adapter) Initialize(loc domain.Location) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return false, nil
	}

	pos := loc.Coordinates()
	if err := a.engine.Create(pos, a.opts.InitialZoom); err != nil {
		return false, fmt.Errorf("create map: %w", err)
	}
	a.initialized = true
	a.center = pos
	a.zoom = a.opts.InitialZoom

	a.engine.SetBaseLayers(a.opts.Layers, a.opts.DefaultLayer)
	a.activeLayer = a.opts.DefaultLayer

	a.placeMarker(loc)
	a.installReturnControl(pos)

	a.logger.Debug("map initialized", "center", pos.String(), "zoom", a.zoom, "layer", a.activeLayer)
	return true, nil
}

// Reconcile brings the map into agreement with loc: the marker moves (or is
// created), its tooltip text changes in place, the view re-centers at the
// selection zoom and the return control is rebuilt around loc. Calling it
// twice with the same location leaves the same observable state as once.
func (a *Adapter) Reconcile(loc domain.Location) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return ErrNotInitialized
	}

	pos := loc.Coordinates()
	if a.hasMarker {
		a.engine.MoveMarker(a.marker, pos)
		a.engine.SetTooltipText(a.marker, loc.Name)
		a.markerPos = pos
		a.tooltip = loc.Name
	} else {
		a.placeMarker(loc)
	}

	a.setView(pos, a.opts.SelectZoom)
	a.installReturnControl(pos)
	return nil
}

// ReturnToMarker clicks the installed return control.
func (a *Adapter) ReturnToMarker() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return ErrNotInitialized
	}
	if !a.returnCtl.click() {
		return errors.New("no return control installed")
	}
	return nil
}

// ForceRelayout makes the engine re-measure its container. It is a no-op
// before the map exists and reports whether a relayout happened.
func (a *Adapter) ForceRelayout() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return false
	}
	a.engine.InvalidateSize()
	a.relayouts++
	return true
}

// Resize forwards the container size to engines that track it. The engine
// picks the new size up on its next relayout.
func (a *Adapter) Resize(w, h int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r, ok := a.engine.(Resizer); ok {
		r.Resize(w, h)
	}
}

// View draws the map if the engine can render itself.
func (a *Adapter) View() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r, ok := a.engine.(Renderer); ok {
		return r.View()
	}
	return ""
}

// Pan shifts the view by dx, dy screen pixels at the current zoom.
func (a *Adapter) Pan(dx, dy float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return ErrNotInitialized
	}
	x, y := Project(a.center, a.zoom)
	a.setView(Unproject(x+dx, y+dy, a.zoom), a.zoom)
	return nil
}

// SetBaseLayer switches to the named layer.
func (a *Adapter) SetBaseLayer(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return ErrNotInitialized
	}
	if _, ok := FindLayer(a.opts.Layers, name); !ok {
		return fmt.Errorf("unknown base layer %q", name)
	}
	a.engine.SelectBaseLayer(name)
	a.activeLayer = name
	return nil
}

// CycleBaseLayer advances to the next base layer and returns its name.
func (a *Adapter) CycleBaseLayer() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return "", ErrNotInitialized
	}
	next := a.opts.Layers[0].Name
	for i, l := range a.opts.Layers {
		if l.Name == a.activeLayer {
			next = a.opts.Layers[(i+1)%len(a.opts.Layers)].Name
			break
		}
	}
	a.engine.SelectBaseLayer(next)
	a.activeLayer = next
	return next, nil
}

// State returns a snapshot of the map.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	return State{
		Initialized:   a.initialized,
		HasMarker:     a.hasMarker,
		Marker:        a.markerPos,
		Tooltip:       a.tooltip,
		Center:        a.center,
		Zoom:          a.zoom,
		ActiveLayer:   a.activeLayer,
		HasReturnCtl:  a.returnCtl.occupied,
		ReturnTarget:  a.target,
		RelayoutCount: a.relayouts,
	}
}

func (a *Adapter) placeMarker(loc domain.Location) {
	pos := loc.Coordinates()
	a.marker = a.engine.AddMarker(pos, Tooltip{
		Text:      loc.Name,
		Permanent: true,
		Direction: Bottom,
		OffsetY:   10,
	})
	a.hasMarker = true
	a.markerPos = pos
	a.tooltip = loc.Name
}

func (a *Adapter) setView(center domain.LatLng, zoom int) {
	a.engine.SetView(center, zoom)
	a.center = center
	a.zoom = zoom
}

// installReturnControl rebuilds the return control so its action captures
// target. Must be called with a.mu held; the action runs under the same
// lock from ReturnToMarker.
func (a *Adapter) installReturnControl(target domain.LatLng) {
	a.target = target
	zoom := a.opts.ReturnZoom
	a.returnCtl.replace(a.engine, Control{
		Title:    ReturnControlTitle,
		Position: TopLeft,
		OnClick: func() {
			a.setView(target, zoom)
		},
	})
}
