package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jobsetu/admin-tui/internal/api"
	"github.com/jobsetu/admin-tui/internal/app"
	"github.com/jobsetu/admin-tui/internal/config"
	"github.com/jobsetu/admin-tui/internal/realtime"
	"github.com/jobsetu/admin-tui/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath(), "Path to the config file")
	apiBase := flag.String("api", "", "Backend API base URL (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *apiBase != "" {
		cfg.APIBaseURL = *apiBase
		cfg.SocketURL = ""
	}

	log, closeLog, err := newLogger(cfg.LogFile, *debug)
	if err != nil {
		return err
	}
	defer closeLog()

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		if sessionPath, err = session.DefaultPath(); err != nil {
			return fmt.Errorf("session path: %w", err)
		}
	}

	client := api.NewClient(cfg.APIBaseURL)
	store := session.NewStore(sessionPath, client.Logout, log)
	store.Restore()
	manager := realtime.NewManager(cfg.ResolveSocketURL(), log)
	bridge := realtime.NewBridge()

	m := app.New(client, store, manager, bridge, log)
	p := tea.NewProgram(m, tea.WithAltScreen())

	log.Info().Str("api", cfg.APIBaseURL).Str("socket", cfg.ResolveSocketURL()).Msg("starting")
	if _, err := p.Run(); err != nil {
		return err
	}
	manager.Teardown()
	return nil
}

// newLogger writes to the configured log file. Stdout belongs to the UI, so
// with no file configured logging is discarded.
func newLogger(path string, debug bool) (zerolog.Logger, func(), error) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return zerolog.Logger{}, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	log := zerolog.New(io.Writer(f)).Level(level).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "admin-tui.yaml"
	}
	return filepath.Join(dir, "jobsetu-admin", "config.yaml")
}
