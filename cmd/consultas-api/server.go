package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/tinytelemetry/consultas/internal/httpserver"
	"github.com/tinytelemetry/consultas/internal/logging"
	"github.com/tinytelemetry/consultas/internal/model"
	"github.com/tinytelemetry/consultas/internal/schedule"
	"github.com/tinytelemetry/consultas/internal/session"
	"github.com/tinytelemetry/consultas/internal/webhook"
	"golang.org/x/sync/errgroup"
)

func runServer(cfg appConfig) error {
	logger, cleanup := logging.New("consultas-api", logging.Options{Level: cfg.LogLevel, Console: cfg.DevLog})
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

	store := session.NewStore(newSessionFactory(appointments, notifier, logger))

	shutdownTimeout := cfg.WebhookTimeout + 5*time.Second

	srv := httpserver.NewServer(cfg.APIAddr, store, logger)
	srv.SetShutdownTimeout(shutdownTimeout)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start http api: %w", err)
	}

	sweeper := session.NewSweeper(store, session.SweeperConfig{IdleTTL: cfg.SessionIdleTTL}, logger)

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Leave room for in-flight webhook calls to drain.
		deadline := time.NewTimer(shutdownTimeout + 5*time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	printStartupBanner(cfg, len(appointments), cfg.WebhookURL != "")
	logger.Info().Str("addr", srv.Addr()).Int("appointments", len(appointments)).Msg("api listening")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		return srv.Stop()
	})

	if sweeper != nil {
		g.Go(func() error {
			<-gctx.Done()
			sweeper.Stop()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}

	signal.Stop(sigCh)
	logger.Info().Int("sessions", store.Len()).Msg("stopped")
	return nil
}

func newSessionFactory(appointments []model.Appointment, notifier session.Notifier, logger zerolog.Logger) session.Factory {
	return func() *session.Controller {
		return session.NewController(session.NewState(), appointments, notifier, logger)
	}
}

func printStartupBanner(cfg appConfig, appointmentCount int, webhookEnabled bool) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, cyan.Bold(true).Render("    Consultas"))
	lines = append(lines, "    "+dim.Render("v"+version))
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	if webhookEnabled {
		lines = append(lines, fmt.Sprintf("    %s  Webhook        %s", check, dim.Render("configured")))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Webhook        %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Sessions"))
	lines = append(lines, "")
	if cfg.AppointmentsFile != "" {
		lines = append(lines, fmt.Sprintf("    %s  Appointments   %s", check, dim.Render(fmt.Sprintf("%d from %s", appointmentCount, shortenPath(cfg.AppointmentsFile)))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Appointments   %s", check, dim.Render(fmt.Sprintf("%d built-in", appointmentCount))))
	}
	if cfg.SessionIdleTTL > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Idle Timeout   %s", check, dim.Render(cfg.SessionIdleTTL.String())))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Idle Timeout   %s", dot, dim.Render("disabled")))
	}

	lines = append(lines, "")
	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
