package main

import (
	"testing"

	"campus-kiosk/internal/adapter/mapview"
	"campus-kiosk/internal/infra/config"
	"campus-kiosk/internal/usecase"
)

func TestSplitArgs(t *testing.T) {
	t.Setenv("KIOSK_CONFIG", "")

	tests := []struct {
		name     string
		args     []string
		wantPath string
		wantRest []string
	}{
		{"default", nil, "config.yaml", []string{}},
		{"flag", []string{"--config", "/etc/kiosk.yaml", "export"}, "/etc/kiosk.yaml", []string{"export"}},
		{"equals", []string{"export", "--config=k.yaml", "out"}, "k.yaml", []string{"export", "out"}},
		{"dangling flag kept", []string{"--config"}, "config.yaml", []string{"--config"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, rest := splitArgs(tt.args)
			if path != tt.wantPath {
				t.Errorf("path = %q, want %q", path, tt.wantPath)
			}
			if len(rest) != len(tt.wantRest) {
				t.Fatalf("rest = %v, want %v", rest, tt.wantRest)
			}
			for i := range rest {
				if rest[i] != tt.wantRest[i] {
					t.Errorf("rest[%d] = %q, want %q", i, rest[i], tt.wantRest[i])
				}
			}
		})
	}
}

func TestSplitArgsEnv(t *testing.T) {
	t.Setenv("KIOSK_CONFIG", "/srv/kiosk.yaml")
	path, _ := splitArgs([]string{"export"})
	if path != "/srv/kiosk.yaml" {
		t.Errorf("path = %q", path)
	}
}

func TestMapOptions(t *testing.T) {
	opts := mapOptions(config.MapConfig{SelectZoom: 15, DefaultLayer: mapview.LayerTerrain})
	if opts.InitialZoom != 16 || opts.SelectZoom != 15 || opts.ReturnZoom != 18 {
		t.Errorf("zooms = %d/%d/%d", opts.InitialZoom, opts.SelectZoom, opts.ReturnZoom)
	}
	if opts.DefaultLayer != mapview.LayerTerrain {
		t.Errorf("layer = %q", opts.DefaultLayer)
	}
}

func TestChatOptions(t *testing.T) {
	cfg := config.Defaults().Chat
	if got := chatOptions(cfg).FailurePolicy; got != usecase.AppendErrorTurn {
		t.Errorf("default policy = %q", got)
	}
	cfg.FailurePolicy = config.FailureKeepUserTurn
	if got := chatOptions(cfg).FailurePolicy; got != usecase.KeepUserTurn {
		t.Errorf("policy = %q", got)
	}
}

func TestAdminCommandsCoverEveryAction(t *testing.T) {
	seen := map[adminAction]bool{}
	for name, cmd := range adminCommands {
		seen[cmd.action] = true
		if name == "" {
			t.Error("empty command name")
		}
	}
	for _, a := range []adminAction{actionUpload, actionReset, actionExport} {
		if !seen[a] {
			t.Errorf("action %d has no command", a)
		}
	}
}
