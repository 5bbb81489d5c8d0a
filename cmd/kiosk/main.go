package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"campus-kiosk/internal/adapter/backend"
	"campus-kiosk/internal/adapter/browser"
	"campus-kiosk/internal/adapter/mapview"
	"campus-kiosk/internal/adapter/tui/kiosk"
	"campus-kiosk/internal/domain"
	"campus-kiosk/internal/infra/config"
	"campus-kiosk/internal/infra/logger"
	"campus-kiosk/internal/infra/tracer"
	"campus-kiosk/internal/usecase"
	"campus-kiosk/internal/usecase/eventbus"
)

func main() {
	cfgPath, args := splitArgs(os.Args[1:])

	if len(args) >= 1 {
		switch args[0] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	if len(args) == 0 {
		if err := run(cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cmd, ok := adminCommands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'kiosk --help' for usage information.\n", args[0])
		os.Exit(1)
	}
	if err := runAdmin(cfgPath, cmd, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", args[0], err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`kiosk - Campus navigation and CampusGPT kiosk

USAGE:
    kiosk [COMMAND] [FLAGS]

COMMANDS:
    (no command)                  Start the kiosk
    upload-locations FILE...      Upload location CSV files
    upload-documents FILE...      Upload documents for CampusGPT
    reset-locations               Delete every location on the backend
    reset-documents               Delete every document on the backend
    export [DIR]                  Download the session analytics CSV

FLAGS:
    -h, --help         Show this help message
    --config PATH      Specify config file path (default: ./config.yaml)
    -y, --yes          Skip the reset confirmation

CONFIGURATION:
    Config file: ./config.yaml
    Environment: KIOSK_* variables override config; a .env file is loaded first`)
}

// splitArgs pulls --config out of args and returns the config path with the
// remaining arguments.
func splitArgs(args []string) (string, []string) {
	path := ""
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--config" && i+1 < len(args):
			path = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--config="):
			path = strings.TrimPrefix(args[i], "--config=")
		default:
			rest = append(rest, args[i])
		}
	}
	if path == "" {
		path = os.Getenv("KIOSK_CONFIG")
	}
	if path == "" {
		path = "config.yaml"
	}
	return path, rest
}

// loadConfig reads .env and the config file.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// mapOptions converts the map config into adapter options.
func mapOptions(cfg config.MapConfig) mapview.Options {
	opts := mapview.DefaultOptions()
	if cfg.InitialZoom > 0 {
		opts.InitialZoom = cfg.InitialZoom
	}
	if cfg.SelectZoom > 0 {
		opts.SelectZoom = cfg.SelectZoom
	}
	if cfg.ReturnZoom > 0 {
		opts.ReturnZoom = cfg.ReturnZoom
	}
	if cfg.DefaultLayer != "" {
		opts.DefaultLayer = cfg.DefaultLayer
	}
	return opts
}

func chatOptions(cfg config.ChatConfig) usecase.ChatOptions {
	policy := usecase.AppendErrorTurn
	if cfg.FailurePolicy == config.FailureKeepUserTurn {
		policy = usecase.KeepUserTurn
	}
	return usecase.ChatOptions{
		Welcome:       cfg.Welcome,
		ErrorMessage:  cfg.ErrorMessage,
		FailurePolicy: policy,
	}
}

func run(cfgPath string) error {
	// 1. Config
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	// 2. Logger & Tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		tracerShutdown(shutdownCtx)
	}()

	// 3. Backend
	client := backend.New(cfg.Backend, logger.Component(log, "backend"))

	// 4. Activity bus
	bus := eventbus.New(domain.NewID(time.Now()), log)
	defer bus.Close()
	activity := eventbus.NewActivityLog(bus, logger.Component(log, "activity"))
	defer activity.Stop()

	// 5. Session
	panel := kiosk.NewDetailPanel()
	mapAdapter := mapview.New(mapview.NewCanvas(), mapOptions(cfg.Map), logger.Component(log, "map"))
	dir := usecase.NewDirectoryStore(client, bus, log)
	selection := usecase.NewSelectionController(dir, panel, mapAdapter, bus, log)
	chat := usecase.NewChatSession(client, chatOptions(cfg.Chat), bus, logger.Component(log, "chat"))
	viewMode := usecase.NewViewModeSwitch(cfg.Map.RelayoutDelay, bus, log)

	model := kiosk.New(ctx, kiosk.Deps{
		Directory:     dir,
		Selection:     selection,
		Bootstrap:     usecase.NewBootstrap(dir, selection, log),
		Chat:          chat,
		ViewMode:      viewMode,
		Map:           mapAdapter,
		Panel:         panel,
		Open:          browser.Open,
		Logger:        logger.Component(log, "tui"),
		Backend:       client.BaseURL(),
		MarkdownStyle: cfg.Chat.MarkdownStyle,
	})

	log.Info("kiosk starting",
		"backend", client.BaseURL(),
		"session_id", bus.SessionID(),
		"failure_policy", cfg.Chat.FailurePolicy,
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("kiosk: %w", err)
	}
	return nil
}
