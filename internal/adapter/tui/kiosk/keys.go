package kiosk

import (
	"github.com/charmbracelet/bubbles/key"

	"campus-kiosk/internal/adapter/tui/components"
)

// panStep is how far H/J/K/L move the map, in map pixels.
const panStep = 64

// keyMap holds every kiosk binding. The status bar and the help overlay are
// both built from it. Cursor movement and filtering belong to bubbles/list
// and appear here for help only.
type keyMap struct {
	Switch     key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	Select     key.Binding
	Filter     key.Binding
	Directions key.Binding
	Marker     key.Binding
	Layer      key.Binding
	Pan        key.Binding
	PanLeft    key.Binding
	PanDown    key.Binding
	PanUp      key.Binding
	PanRight   key.Binding
	Reload     key.Binding
	Send       key.Binding
	Scroll     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Switch:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "map / chat")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Select:     key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "select location")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter locations")),
		Directions: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "directions in browser")),
		Marker:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "return to marker")),
		Layer:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "cycle base layer")),
		Pan:        key.NewBinding(key.WithKeys("H", "J", "K", "L"), key.WithHelp("H J K L", "pan the map")),
		PanLeft:    key.NewBinding(key.WithKeys("H")),
		PanDown:    key.NewBinding(key.WithKeys("J")),
		PanUp:      key.NewBinding(key.WithKeys("K")),
		PanRight:   key.NewBinding(key.WithKeys("L")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload locations")),
		Send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Scroll:     key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
	}
}

func (k keyMap) navigateShort() []key.Binding {
	return []key.Binding{k.Select, k.Directions, k.Marker, k.Switch, k.Help}
}

func (k keyMap) chatShort() []key.Binding {
	return []key.Binding{k.Send, k.Scroll, k.Switch, k.ForceQuit}
}

func (k keyMap) sections() []components.KeySection {
	return []components.KeySection{
		{Title: "Map", Keys: []key.Binding{k.Select, k.Filter, k.Directions, k.Marker, k.Layer, k.Pan, k.Reload}},
		{Title: "CampusGPT", Keys: []key.Binding{k.Send, k.Scroll}},
		{Title: "General", Keys: []key.Binding{k.Switch, k.Help, k.Quit, k.ForceQuit}},
	}
}
