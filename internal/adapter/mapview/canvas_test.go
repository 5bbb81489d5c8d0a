package mapview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-kiosk/internal/infra/logger"
)

func TestCanvas_HiddenContainerKeepsStaleSize(t *testing.T) {
	c := NewCanvas()
	a := New(c, DefaultOptions(), logger.Discard())

	// Map created while its panel is hidden.
	c.Resize(0, 0)
	_, err := a.Initialize(gym)
	require.NoError(t, err)
	assert.Empty(t, c.View())

	// Panel becomes visible; nothing re-measures yet.
	a.Resize(60, 20)
	w, h := c.Size()
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, h)
	assert.Empty(t, c.View())

	assert.True(t, a.ForceRelayout())
	w, h = c.Size()
	assert.Equal(t, 60, w)
	assert.Equal(t, 20, h)

	lines := strings.Split(c.View(), "\n")
	require.Len(t, lines, 20)
	for i, l := range lines {
		assert.Equal(t, 60, len([]rune(l)), "line %d width", i)
	}
}

func TestCanvas_DrawsMarkerTooltipAndControls(t *testing.T) {
	c := NewCanvas()
	c.Resize(80, 24)
	a := New(c, DefaultOptions(), logger.Discard())
	_, err := a.Initialize(library)
	require.NoError(t, err)

	out := c.View()
	assert.Contains(t, out, string(glyphMarker))
	assert.Contains(t, out, "Library")
	assert.Contains(t, out, "[⌖ "+ReturnControlTitle+"]")
	assert.Contains(t, out, glyphLayerOn+LayerStreet)
	assert.Contains(t, out, glyphLayerOff+LayerSatellite)
	assert.Contains(t, out, "z16 https://")

	lines := strings.Split(out, "\n")
	markerRow := -1
	for i, l := range lines {
		if strings.ContainsRune(l, glyphMarker) {
			markerRow = i
			break
		}
	}
	require.Equal(t, 12, markerRow, "marker is drawn at the center row")
	assert.Contains(t, lines[markerRow+1], "Library", "tooltip sits below the marker")
}

func TestCanvas_TooltipUpdatesInPlace(t *testing.T) {
	c := NewCanvas()
	c.Resize(80, 24)
	a := New(c, DefaultOptions(), logger.Discard())
	_, err := a.Initialize(gym)
	require.NoError(t, err)
	require.NoError(t, a.Reconcile(library))

	out := c.View()
	assert.Contains(t, out, "Library")
	assert.NotContains(t, out, "Gym")
	assert.Equal(t, 1, strings.Count(out, string(glyphMarker)))
	assert.Equal(t, 1, c.ControlCount())
	assert.Contains(t, out, "z17 ")
}

func TestCanvas_MarkerOffscreenAfterPan(t *testing.T) {
	c := NewCanvas()
	c.Resize(40, 10)
	a := New(c, DefaultOptions(), logger.Discard())
	_, err := a.Initialize(gym)
	require.NoError(t, err)

	require.NoError(t, a.Pan(10000, 0))
	assert.NotContains(t, c.View(), string(glyphMarker))

	require.NoError(t, a.ReturnToMarker())
	assert.Contains(t, c.View(), string(glyphMarker))
}

func TestCanvas_RemoveControl(t *testing.T) {
	c := NewCanvas()
	h1 := c.AddControl(Control{Title: "a", Position: TopLeft})
	h2 := c.AddControl(Control{Title: "b", Position: TopLeft})
	c.RemoveControl(h1)
	assert.Equal(t, 1, c.ControlCount())
	assert.Equal(t, []ControlHandle{h2}, c.order)
}

func TestCanvas_InvalidateBeforeCreate(t *testing.T) {
	c := NewCanvas()
	c.Resize(10, 10)
	c.InvalidateSize()
	w, _ := c.Size()
	assert.Equal(t, 0, w)
	assert.Empty(t, c.View())
}
