package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateBackend(cfg, ve)
	validateMap(cfg, ve)
	validateChat(cfg, ve)
	validateAdmin(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateBackend(cfg *Config, ve *ValidationError) {
	b := cfg.Backend
	if b.BaseURL == "" {
		ve.Add("backend.base_url must not be empty")
	} else if u, err := url.Parse(b.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		ve.Add("backend.base_url %q must be an absolute http(s) URL", b.BaseURL)
	}
	if b.Timeout < 0 {
		ve.Add("backend.timeout must be >= 0")
	}
	if b.RateLimit < 0 {
		ve.Add("backend.rate_limit must be >= 0")
	}
	if b.RateLimit > 0 && b.RateBurst <= 0 {
		ve.Add("backend.rate_burst must be > 0 when rate_limit is set")
	}
	if b.MaxBodyBytes <= 0 {
		ve.Add("backend.max_body_bytes must be > 0")
	}
	if b.CircuitBreaker.Enabled && b.CircuitBreaker.MaxFailures == 0 {
		ve.Add("backend.circuit_breaker.max_failures must be > 0 when enabled")
	}
}

var validLayers = map[string]bool{
	"OpenStreetMap": true,
	"Satellite":     true,
	"Terrain":       true,
}

func validateMap(cfg *Config, ve *ValidationError) {
	m := cfg.Map
	for name, z := range map[string]int{
		"initial_zoom": m.InitialZoom,
		"select_zoom":  m.SelectZoom,
		"return_zoom":  m.ReturnZoom,
	} {
		if z < 0 || z > 20 {
			ve.Add("map.%s must be between 0 and 20, got %d", name, z)
		}
	}
	if m.SelectZoom <= m.InitialZoom {
		ve.Add("map.select_zoom (%d) must be greater than map.initial_zoom (%d)", m.SelectZoom, m.InitialZoom)
	}
	if !validLayers[m.DefaultLayer] {
		ve.Add("map.default_layer %q is not one of OpenStreetMap, Satellite, Terrain", m.DefaultLayer)
	}
	if m.RelayoutDelay <= 0 {
		ve.Add("map.relayout_delay must be > 0")
	}
}

func validateChat(cfg *Config, ve *ValidationError) {
	if strings.TrimSpace(cfg.Chat.Welcome) == "" {
		ve.Add("chat.welcome must not be empty")
	}
	if strings.TrimSpace(cfg.Chat.ErrorMessage) == "" {
		ve.Add("chat.error_message must not be empty")
	}
	switch cfg.Chat.FailurePolicy {
	case FailureAppendErrorTurn, FailureKeepUserTurn:
	default:
		ve.Add("chat.failure_policy %q must be %q or %q",
			cfg.Chat.FailurePolicy, FailureAppendErrorTurn, FailureKeepUserTurn)
	}
}

func validateAdmin(cfg *Config, ve *ValidationError) {
	name := cfg.Admin.ExportFilename
	if name == "" {
		ve.Add("admin.export_filename must not be empty")
	} else if strings.ContainsAny(name, `/\`) {
		ve.Add("admin.export_filename %q must be a bare file name", name)
	}
}

var validLogFormats = map[string]bool{"text": true, "json": true}

func validateLogger(cfg *Config, ve *ValidationError) {
	if cfg.Logger.Format != "" && !validLogFormats[strings.ToLower(cfg.Logger.Format)] {
		ve.Add("logger.format %q must be text or json", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "stdout", "noop", "":
	default:
		ve.Add("tracer.exporter %q is not supported (want stdout or noop)", cfg.Tracer.Exporter)
	}
}
