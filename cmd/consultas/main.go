package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tinytelemetry/consultas/internal/logging"
	"github.com/tinytelemetry/consultas/internal/schedule"
	"github.com/tinytelemetry/consultas/internal/session"
	"github.com/tinytelemetry/consultas/internal/tui"
	"github.com/tinytelemetry/consultas/internal/webhook"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/consultas/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Consultas - Clinical Visit Log\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadTUIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg tuiConfig) error {
	logger, cleanup := logging.New("consultas", logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer cleanup()

	appointments, err := schedule.Load(cfg.AppointmentsFile).Appointments(context.Background())
	if err != nil {
		return fmt.Errorf("loading appointments: %w", err)
	}

	var notifier session.Notifier
	if cfg.WebhookURL != "" {
		notifier = webhook.NewClient(webhook.Config{
			Endpoint: cfg.WebhookURL,
			Timeout:  cfg.WebhookTimeout,
			Logger:   logger,
		})
	} else {
		logger.Warn().Msg("webhook-url not set; automated flow disabled")
	}

	ctrl := session.NewController(session.NewState(), appointments, notifier, logger)
	app := tui.NewApp(ctrl)

	logger.Info().Str("version", version).Int("appointments", len(appointments)).Msg("session started")
	defer logger.Info().Msg("session ended")

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
