package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/codementor/internal/config"
	"github.com/felixgeelhaar/codementor/internal/daemon"
	mcpserver "github.com/felixgeelhaar/codementor/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server on stdio",
	Long: `Serve the analysis and curriculum tools over MCP for editor integration.
The server uses the same storage and providers as codementord, read from
~/.codementor/config.yaml. Tools act on the configured user_id unless a call
names another.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		userID, err := configuredUser()
		if err != nil {
			return err
		}

		// stdout carries the protocol
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, err := daemon.NewServer(ctx, daemon.ServerConfig{
			Config:  cfg,
			Version: Version,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		defer srv.Close()

		return mcpserver.NewServer(mcpserver.Config{
			Service: srv.Service(),
			UserID:  userID,
			Version: Version,
		}).ServeStdio(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
