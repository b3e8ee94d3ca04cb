// Package main is the entry point for the flight delay dashboard TUI.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/flight-delay-tui/internal/app"
	"github.com/j-veylop/flight-delay-tui/internal/config"
	"github.com/j-veylop/flight-delay-tui/internal/logger"
	"github.com/j-veylop/flight-delay-tui/internal/services"
	"github.com/j-veylop/flight-delay-tui/internal/ui/components"
	"github.com/j-veylop/flight-delay-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/flight-delay-tui/internal/ui/tabs/guide"
	"github.com/j-veylop/flight-delay-tui/internal/ui/tabs/history"
	"github.com/j-veylop/flight-delay-tui/internal/ui/tabs/info"
	"github.com/j-veylop/flight-delay-tui/internal/ui/tabs/predict"
	"github.com/j-veylop/flight-delay-tui/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := logger.SetOutput(cfg.LogPath, slog.LevelDebug)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger.Info("starting", "version", version.Info(), "api", cfg.APIBaseURL, "env", cfg.EnvFile)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	// Order must match app.TabID.
	state := model.GetState()
	marker := components.DefaultMarkerStyle()
	model.SetTabs([]app.Tab{
		predict.New(state, marker),
		dashboard.New(state, svcManager),
		guide.New(state, marker),
		history.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`Flight Delay TUI - flight delay prediction and travel guide

Usage:
  fdd [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-5             Switch tabs (Predicción, Dashboard, Guía de viaje, Historial, Info)
  Tab/Shift+Tab   Navigate between tabs
  ↑/↓             Move between form fields or list entries
  ←/→             Change a selector or the chart month
  Enter           Submit the flight form
  Esc             Leave a text field
  r               Refresh the current tab
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  API_BASE_URL            Prediction backend (default: http://localhost:8080)
  API_TIMEOUT             HTTP timeout, e.g. 10s (default: none)
  DELAY_ALERT_THRESHOLD   Delay probability that triggers an alert (default: 0.6)
  DESKTOP_NOTIFICATIONS   Send desktop notifications (default: true)
  LOG_PATH                Write logs to this file instead of stderr
  MOCK_API_ADDR           Listen address of the mock backend (default: :8080)

Configuration:
  The application loads the first .env file found in:
  - Current directory
  - ~/.config/flight-delay-tui/.env
  - ~/.flight-delay/.env
  - Parent and grandparent directories
  The loaded file is watched and changes apply without a restart.`)
}
