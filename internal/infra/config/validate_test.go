package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateDefaultsPass(t *testing.T) {
	cfg := Defaults()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Defaults should pass validation: %v", err)
	}
}

func TestValidateBackendBaseURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"", "backend.base_url must not be empty"},
		{"127.0.0.1:5000", "must be an absolute http(s) URL"},
		{"ftp://campus", "must be an absolute http(s) URL"},
	}
	for _, tt := range tests {
		cfg := Defaults()
		cfg.Backend.BaseURL = tt.url
		err := Validate(cfg)
		if err == nil {
			t.Fatalf("base_url %q: expected validation error", tt.url)
		}
		assertContains(t, err.Error(), tt.want)
	}
}

func TestValidateBackendNegativeTimeout(t *testing.T) {
	cfg := Defaults()
	cfg.Backend.Timeout = -time.Second
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), "backend.timeout must be >= 0")
}

func TestValidateRateBurstRequiredWithLimit(t *testing.T) {
	cfg := Defaults()
	cfg.Backend.RateLimit = 2
	cfg.Backend.RateBurst = 0
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), "backend.rate_burst must be > 0")
}

func TestValidateMapZoomOrdering(t *testing.T) {
	cfg := Defaults()
	cfg.Map.SelectZoom = cfg.Map.InitialZoom
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), "map.select_zoom (16) must be greater than map.initial_zoom (16)")
}

func TestValidateMapRelayoutDelay(t *testing.T) {
	cfg := Defaults()
	cfg.Map.RelayoutDelay = 0
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), "map.relayout_delay must be > 0")
}

func TestValidateMapUnknownLayer(t *testing.T) {
	cfg := Defaults()
	cfg.Map.DefaultLayer = "Watercolor"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), `map.default_layer "Watercolor"`)
}

func TestValidateChatFailurePolicy(t *testing.T) {
	cfg := Defaults()
	cfg.Chat.FailurePolicy = "retry_forever"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), `chat.failure_policy "retry_forever"`)

	cfg.Chat.FailurePolicy = FailureKeepUserTurn
	if err := Validate(cfg); err != nil {
		t.Fatalf("keep_user_turn should be valid: %v", err)
	}
}

func TestValidateExportFilename(t *testing.T) {
	cfg := Defaults()
	cfg.Admin.ExportFilename = "../escape.csv"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), "must be a bare file name")
}

func TestValidateTracerExporter(t *testing.T) {
	cfg := Defaults()
	cfg.Tracer.Enabled = true
	cfg.Tracer.Exporter = "jaeger"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	assertContains(t, err.Error(), `tracer.exporter "jaeger" is not supported`)
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Backend.BaseURL = ""
	cfg.Chat.Welcome = "  "
	cfg.Logger.Format = "xml"

	err := Validate(cfg)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Errors) != 3 {
		t.Errorf("len(Errors) = %d, want 3: %v", len(ve.Errors), ve.Errors)
	}
}

func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}
