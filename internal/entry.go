// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/muninn/internal/cite"
	"github.com/starford/muninn/internal/mcpserver"
	"github.com/starford/muninn/internal/noteservice"
	"github.com/starford/muninn/internal/vault"
)

// NewLogger builds the process-wide JSON logger. Logs go to stderr so
// that stdout stays free for command output and the MCP transport.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewService builds the note service stack from configuration, creating
// the vault directory when it does not exist yet.
func NewService(cfg *Config) (*noteservice.Service, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	store, err := vault.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init vault: %w", err)
	}

	fetcher := cite.NewFetcher(cfg.Cite.FetchTimeout)
	if cfg.Cite.UserAgent != "" {
		fetcher.UserAgent = cfg.Cite.UserAgent
	}

	return noteservice.NewService(store, noteservice.Options{
		Extract:  cfg.Extract.Config,
		Fetcher:  fetcher,
		BibPath:  cfg.Cite.Bibliography,
		DailyDir: cfg.Vault.DailyDir,
		Workers:  cfg.Extract.Workers,
	}), nil
}

// Run starts the MCP server on stdin/stdout with the given options and
// blocks until shutdown.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{in: os.Stdin, out: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := NewLogger(cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("bibliography", cfg.Cite.Bibliography),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, err := NewService(cfg)
	if err != nil {
		return err
	}

	srv := mcpserver.New(svc)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Serve MCP over stdio.
	g.Go(func() error {
		logger.Info("Starting MCP server", slog.String("transport", "stdio"))
		if err := srv.Listen(gCtx, app.in, app.out); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
