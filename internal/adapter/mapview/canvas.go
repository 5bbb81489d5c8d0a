package mapview

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"campus-kiosk/internal/domain"
)

// Screen cell size in map pixels. Terminal cells are roughly twice as tall
// as they are wide.
const (
	cellWidthPx  = 8
	cellHeightPx = 16
)

// Glyphs used by the canvas.
const (
	glyphMarker   = '▼'
	glyphGridV    = '│'
	glyphGridH    = '─'
	glyphGridX    = '┼'
	glyphEmpty    = ' '
	glyphLayerOn  = "●"
	glyphLayerOff = "○"
)

type canvasMarker struct {
	pos domain.LatLng
	tip Tooltip
}

// Canvas is a text Engine for the terminal kiosk. Like a browser map it
// measures its container only when created and when InvalidateSize is
// called: a map created or resized while its panel is hidden keeps drawing
// at the stale size until the next relayout.
type Canvas struct {
	created bool

	containerW, containerH int
	width, height          int

	center domain.LatLng
	zoom   int

	layers []BaseLayer
	active string

	markers    map[MarkerHandle]*canvasMarker
	nextMarker MarkerHandle

	controls    map[ControlHandle]Control
	order       []ControlHandle
	nextControl ControlHandle
}

// Compile-time interface check.
var _ Engine = (*Canvas)(nil)

// NewCanvas creates an empty canvas engine.
func NewCanvas() *Canvas {
	return &Canvas{
		markers:  make(map[MarkerHandle]*canvasMarker),
		controls: make(map[ControlHandle]Control),
	}
}

// Resize records the current size of the container the map lives in.
// Hidden containers have zero size. The drawn size does not change until
// the canvas is re-measured.
func (c *Canvas) Resize(w, h int) {
	c.containerW = max(w, 0)
	c.containerH = max(h, 0)
}

// Size returns the measured drawing size.
func (c *Canvas) Size() (w, h int) { return c.width, c.height }

// Create implements Engine.
func (c *Canvas) Create(center domain.LatLng, zoom int) error {
	c.created = true
	c.center = center
	c.zoom = zoom
	c.measure()
	return nil
}

// SetBaseLayers implements Engine.
func (c *Canvas) SetBaseLayers(layers []BaseLayer, active string) {
	c.layers = append([]BaseLayer(nil), layers...)
	c.active = active
}

// SelectBaseLayer implements Engine.
func (c *Canvas) SelectBaseLayer(name string) { c.active = name }

// SetView implements Engine.
func (c *Canvas) SetView(center domain.LatLng, zoom int) {
	c.center = center
	c.zoom = zoom
}

// AddMarker implements Engine.
func (c *Canvas) AddMarker(pos domain.LatLng, tip Tooltip) MarkerHandle {
	c.nextMarker++
	c.markers[c.nextMarker] = &canvasMarker{pos: pos, tip: tip}
	return c.nextMarker
}

// MoveMarker implements Engine.
func (c *Canvas) MoveMarker(m MarkerHandle, pos domain.LatLng) {
	if mk, ok := c.markers[m]; ok {
		mk.pos = pos
	}
}

// SetTooltipText implements Engine.
func (c *Canvas) SetTooltipText(m MarkerHandle, text string) {
	if mk, ok := c.markers[m]; ok {
		mk.tip.Text = text
	}
}

// AddControl implements Engine.
func (c *Canvas) AddControl(ctl Control) ControlHandle {
	c.nextControl++
	c.controls[c.nextControl] = ctl
	c.order = append(c.order, c.nextControl)
	return c.nextControl
}

// RemoveControl implements Engine.
func (c *Canvas) RemoveControl(h ControlHandle) {
	delete(c.controls, h)
	for i, id := range c.order {
		if id == h {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
}

// ControlCount returns the number of installed controls.
func (c *Canvas) ControlCount() int { return len(c.controls) }

// InvalidateSize implements Engine.
func (c *Canvas) InvalidateSize() {
	if c.created {
		c.measure()
	}
}

func (c *Canvas) measure() {
	c.width, c.height = c.containerW, c.containerH
}

// View draws the map at its measured size. A zero-size map draws nothing.
func (c *Canvas) View() string {
	if !c.created || c.width <= 0 || c.height <= 0 {
		return ""
	}

	grid := make([][]rune, c.height)
	cx, cy := Project(c.center, c.zoom)
	for row := range grid {
		grid[row] = make([]rune, c.width)
		for col := range grid[row] {
			px, py := c.cellOrigin(cx, cy, col, row)
			grid[row][col] = gridGlyph(px, py)
		}
	}

	for _, id := range c.sortedMarkers() {
		c.drawMarker(grid, cx, cy, c.markers[id])
	}

	c.drawControls(grid)
	c.drawFooter(grid)

	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

// cellOrigin returns the global pixel at the top-left of a screen cell.
func (c *Canvas) cellOrigin(cx, cy float64, col, row int) (float64, float64) {
	px := cx + float64(col-c.width/2)*cellWidthPx
	py := cy + float64(row-c.height/2)*cellHeightPx
	return px, py
}

// gridGlyph draws tile boundaries so panning is visible.
func gridGlyph(px, py float64) rune {
	onV := math.Mod(math.Mod(px, TileSize)+TileSize, TileSize) < cellWidthPx
	onH := math.Mod(math.Mod(py, TileSize)+TileSize, TileSize) < cellHeightPx
	switch {
	case onV && onH:
		return glyphGridX
	case onV:
		return glyphGridV
	case onH:
		return glyphGridH
	default:
		return glyphEmpty
	}
}

func (c *Canvas) sortedMarkers() []MarkerHandle {
	ids := make([]MarkerHandle, 0, len(c.markers))
	for id := range c.markers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (c *Canvas) drawMarker(grid [][]rune, cx, cy float64, m *canvasMarker) {
	mx, my := Project(m.pos, c.zoom)
	col := c.width/2 + int(math.Round((mx-cx)/cellWidthPx))
	row := c.height/2 + int(math.Round((my-cy)/cellHeightPx))
	if row < 0 || row >= c.height || col < 0 || col >= c.width {
		return
	}
	grid[row][col] = glyphMarker

	if m.tip.Text == "" {
		return
	}
	offsetRows := int(math.Round(float64(m.tip.OffsetY) / cellHeightPx))
	if offsetRows < 1 {
		offsetRows = 1
	}
	wrapWidth := max(c.width/2, 10)
	lines := strings.Split(wordwrap.String(m.tip.Text, wrapWidth), "\n")
	for i, line := range lines {
		r := row + offsetRows + i
		if m.tip.Direction == Top {
			r = row - offsetRows - (len(lines) - 1 - i)
		}
		writeCentered(grid, r, col, line)
	}
}

func (c *Canvas) drawControls(grid [][]rune) {
	// Top-left controls stack downwards, one per row.
	row := 0
	for _, id := range c.order {
		ctl := c.controls[id]
		if ctl.Position != TopLeft {
			continue
		}
		writeAt(grid, row, 0, "[⌖ "+ctl.Title+"]")
		row++
	}

	if len(c.layers) == 0 {
		return
	}
	var b strings.Builder
	for i, l := range c.layers {
		if i > 0 {
			b.WriteString(" ")
		}
		if l.Name == c.active {
			b.WriteString(glyphLayerOn)
		} else {
			b.WriteString(glyphLayerOff)
		}
		b.WriteString(l.Name)
	}
	label := b.String()
	writeAt(grid, 0, c.width-len([]rune(label)), label)
}

func (c *Canvas) drawFooter(grid [][]rune) {
	if c.height < 2 {
		return
	}
	layer, ok := FindLayer(c.layers, c.active)
	if !ok {
		return
	}
	footer := "z" + strconv.Itoa(c.zoom) + " " + layer.TileURL(c.center, c.zoom)
	if layer.Attribution != "" {
		footer += "  " + layer.Attribution
	}
	writeAt(grid, c.height-1, 0, truncate.StringWithTail(footer, uint(c.width), "…"))
}

// writeAt writes s into grid starting at (row, col), clipping at the edges.
func writeAt(grid [][]rune, row, col int, s string) {
	if row < 0 || row >= len(grid) {
		return
	}
	for i, r := range []rune(s) {
		x := col + i
		if x < 0 {
			continue
		}
		if x >= len(grid[row]) {
			return
		}
		grid[row][x] = r
	}
}

func writeCentered(grid [][]rune, row, center int, s string) {
	writeAt(grid, row, center-len([]rune(s))/2, s)
}
