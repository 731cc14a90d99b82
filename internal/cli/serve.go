package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/thinkstep-go/internal/config"
	"github.com/raphaelgruber/thinkstep-go/internal/server"
	"github.com/raphaelgruber/thinkstep-go/internal/tools"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the step ledger over MCP on stdio",
	Long: `Serve the step ledger over MCP on stdio.

Stdout carries the protocol. Logs and rendered steps go to stderr,
logs are also written as JSON to THINKSTEP_LOG_FILE.

Examples:
  thinkstep serve
  THINKSTEP_CATEGORY_SET=framework thinkstep serve
  thinkstep serve --category-file ./categories.yaml --no-render`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() { _ = cleanup() }()

	deps, err := newDependencies(logger, os.Stderr)
	if err != nil {
		return err
	}

	logger.Info("thinkstep starting",
		"version", Version,
		"ledger", deps.Ledger.ID(),
		"category_set", deps.Categories.Name(),
		"rendering", deps.Renderer != nil,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := server.New(Version, logger)
	srv.Setup()
	tools.RegisterAll(srv.MCPServer(), deps)

	logger.Info("server ready, awaiting connections")

	// Run server (blocks until disconnect or context cancelled)
	if err := srv.RunStdio(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("shutdown complete", "history_length", deps.Ledger.Len())
	return nil
}
