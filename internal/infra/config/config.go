package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level kiosk configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Map     MapConfig     `yaml:"map"`
	Chat    ChatConfig    `yaml:"chat"`
	Admin   AdminConfig   `yaml:"admin"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// BackendConfig describes how the kiosk reaches the campus backend.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout bounds a whole request. Zero means no timeout: a hung request
	// stays pending until the backend answers.
	Timeout        time.Duration        `yaml:"timeout"`
	ConnTimeout    time.Duration        `yaml:"conn_timeout"`
	RateLimit      float64              `yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst      int                  `yaml:"rate_burst"`
	MaxBodyBytes   int64                `yaml:"max_body_bytes"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// CircuitBreakerConfig configures the backend circuit breaker.
type CircuitBreakerConfig struct {
	Enabled bool `yaml:"enabled"`
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32 `yaml:"max_failures"`
	// Timeout is how long the circuit stays open before a half-open trial request.
	Timeout  time.Duration `yaml:"timeout"`
	Interval time.Duration `yaml:"interval"`
}

// MapConfig holds the map view zoom levels and layer choice.
type MapConfig struct {
	InitialZoom   int           `yaml:"initial_zoom"`
	SelectZoom    int           `yaml:"select_zoom"`
	ReturnZoom    int           `yaml:"return_zoom"`
	DefaultLayer  string        `yaml:"default_layer"`
	RelayoutDelay time.Duration `yaml:"relayout_delay"`
}

// Chat failure policies.
const (
	FailureAppendErrorTurn = "append_error_turn"
	FailureKeepUserTurn    = "keep_user_turn"
)

// ChatConfig holds chat transcript settings.
type ChatConfig struct {
	Welcome       string `yaml:"welcome"`
	ErrorMessage  string `yaml:"error_message"`
	FailurePolicy string `yaml:"failure_policy"`
	// MarkdownStyle is the glamour style used for assistant replies.
	MarkdownStyle string `yaml:"markdown_style"`
}

// AdminConfig holds settings for the admin subcommands.
type AdminConfig struct {
	ExportFilename string `yaml:"export_filename"`
	DownloadDir    string `yaml:"download_dir"`
	// AssumeYes skips the interactive reset confirmation.
	AssumeYes bool `yaml:"assume_yes"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
	Output   string `yaml:"output"`
}

// DefaultWelcome is the assistant turn every chat transcript starts with.
const DefaultWelcome = "👋 Welcome to CampusGPT! Chat here or click 'Navigate' to explore the campus."

// DefaultChatError is shown when a chat round trip fails.
const DefaultChatError = "Sorry, something went wrong."

// DefaultExportFilename is the analytics export file name.
const DefaultExportFilename = "user_session_analytics.csv"

// Defaults returns a Config with the kiosk's stock settings.
func Defaults() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:      "http://127.0.0.1:5000",
			ConnTimeout:  10 * time.Second,
			RateLimit:    5,
			RateBurst:    10,
			MaxBodyBytes: 10 * 1024 * 1024,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
		},
		Map: MapConfig{
			InitialZoom:   16,
			SelectZoom:    17,
			ReturnZoom:    18,
			DefaultLayer:  "OpenStreetMap",
			RelayoutDelay: 100 * time.Millisecond,
		},
		Chat: ChatConfig{
			Welcome:       DefaultWelcome,
			ErrorMessage:  DefaultChatError,
			FailurePolicy: FailureAppendErrorTurn,
			MarkdownStyle: "auto",
		},
		Admin: AdminConfig{
			ExportFilename: DefaultExportFilename,
			DownloadDir:    ".",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "kiosk.log",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file over Defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		if err := validatePermissions(absPath); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file into the process
// environment without overwriting variables that are already set.
// A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides applies KIOSK_* environment variables on top of cfg.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KIOSK_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("KIOSK_BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.Backend.Timeout = d
		}
	}
	if v := os.Getenv("KIOSK_BACKEND_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Backend.RateLimit = f
		}
	}
	if v := os.Getenv("KIOSK_CIRCUIT_BREAKER_ENABLED"); v == "false" {
		cfg.Backend.CircuitBreaker.Enabled = false
	}
	if v := os.Getenv("KIOSK_MAP_DEFAULT_LAYER"); v != "" {
		cfg.Map.DefaultLayer = v
	}
	if v := os.Getenv("KIOSK_CHAT_FAILURE_POLICY"); v != "" {
		cfg.Chat.FailurePolicy = v
	}
	if v := os.Getenv("KIOSK_ADMIN_DOWNLOAD_DIR"); v != "" {
		cfg.Admin.DownloadDir = v
	}
	if v := os.Getenv("KIOSK_ADMIN_ASSUME_YES"); v == "true" {
		cfg.Admin.AssumeYes = true
	}
	if v := os.Getenv("KIOSK_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("KIOSK_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("KIOSK_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("KIOSK_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}

// validatePermissions rejects config files writable by group or others.
func validatePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	mode := info.Mode().Perm()
	// Allow 0600 and 0644 (readable by others but not writable)
	if mode&0o077 > 0o044 {
		return fmt.Errorf("config file %s has insecure permissions %o (want 0600 or 0644)", path, mode)
	}
	return nil
}
