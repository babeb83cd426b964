// Command finance_tui is the terminal frontend of the finance tracker.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/SscSPs/finance_tracker/internal/client"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/SscSPs/finance_tracker/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.ClientConfig) error {
	// The screen belongs to the program, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []client.APIOption{client.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout})}
	if cfg.APIToken != "" {
		opts = append(opts, client.WithToken(cfg.APIToken))
	}
	api := client.NewAPIClient(cfg.APIBaseURL, opts...)

	store := client.NewStore(api, logger)
	storeUpdates, publishStore := tui.NewStoreFeed()
	store.Subscribe(publishStore)
	updates, publish := tui.NewGaugeFeed()
	gauge := client.NewGauge(api,
		client.WithLimit(cfg.SpendingLimit),
		client.WithPollInterval(cfg.GaugePollInterval),
		client.WithOnUpdate(publish),
		client.WithGaugeLogger(logger),
	)
	defer gauge.Stop()

	model := tui.New(tui.Deps{
		Ctx:          ctx,
		Store:        store,
		View:         client.NewView(store),
		Gauge:        gauge,
		Chat:         client.NewChat(api, logger),
		GaugeUpdates: updates,
		StoreUpdates: storeUpdates,
		Logger:       logger,
	})

	logger.Info("Starting finance_tui", slog.String("api_base_url", cfg.APIBaseURL))
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
