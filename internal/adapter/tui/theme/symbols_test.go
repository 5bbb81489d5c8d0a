package theme

import "testing"

func TestUseASCII(t *testing.T) {
	t.Cleanup(func() { UseASCII(ASCIIRequested()) })

	UseASCII(true)
	if SymbolPin != "@" || SymbolEllipsis != "..." {
		t.Errorf("ascii glyphs = %q %q", SymbolPin, SymbolEllipsis)
	}
	UseASCII(false)
	if SymbolPin != "📍" || SymbolSwitch != "⇄" {
		t.Errorf("unicode glyphs = %q %q", SymbolPin, SymbolSwitch)
	}
}

func TestASCIIRequested(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		term  string
		ascii bool
	}{
		{"default", "", "xterm-256color", false},
		{"explicit", "1", "xterm-256color", true},
		{"explicit true", "TRUE", "", true},
		{"linux console", "", "linux", true},
		{"explicit off", "0", "xterm", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KIOSK_ASCII_SYMBOLS", tt.env)
			t.Setenv("TERM", tt.term)
			if got := ASCIIRequested(); got != tt.ascii {
				t.Errorf("ASCIIRequested() = %v, want %v", got, tt.ascii)
			}
		})
	}
}
