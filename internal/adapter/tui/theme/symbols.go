package theme

import (
	"os"
	"strings"
)

// Glyphs drawn by the kiosk. Each has an ASCII stand-in for consoles and
// fonts that cannot draw it; see UseASCII.
var (
	SymbolError    string
	SymbolSpinner  string
	SymbolBullet   string
	SymbolEllipsis string
	SymbolPin      string
	SymbolSwitch   string
	SymbolNewBelow string
)

// Speaker labels in the chat transcript.
const (
	SymbolUser = "You"
	SymbolBot  = "CampusGPT"
)

type glyph struct {
	target  *string
	unicode string
	ascii   string
}

var glyphs = []glyph{
	{&SymbolError, "✗", "x"},
	{&SymbolSpinner, "⏳", "~"},
	{&SymbolBullet, "•", "*"},
	{&SymbolEllipsis, "…", "..."},
	{&SymbolPin, "📍", "@"},
	{&SymbolSwitch, "⇄", "<>"},
	{&SymbolNewBelow, "↓", "v"},
}

// ASCIIRequested reports whether the environment asks for ASCII glyphs:
// KIOSK_ASCII_SYMBOLS set to 1 or true, or a console TERM that has no
// emoji or arrow coverage.
func ASCIIRequested() bool {
	if v := os.Getenv("KIOSK_ASCII_SYMBOLS"); v == "1" || strings.EqualFold(v, "true") {
		return true
	}
	switch os.Getenv("TERM") {
	case "linux", "dumb", "vt100", "vt220":
		return true
	}
	return false
}

// UseASCII switches every glyph to its ASCII or Unicode form.
func UseASCII(ascii bool) {
	for _, g := range glyphs {
		if ascii {
			*g.target = g.ascii
		} else {
			*g.target = g.unicode
		}
	}
}

func init() {
	UseASCII(ASCIIRequested())
}
