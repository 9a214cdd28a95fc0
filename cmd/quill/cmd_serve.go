package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/quill/internal/server"
	"github.com/HendryAvila/quill/internal/updater"
)

var noUpdateCheck bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: `Starts the MCP server on stdin/stdout. Add it to your AI tool's MCP config:

  {
    "mcpServers": {
      "quill": {
        "command": "quill",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&noUpdateCheck, "no-update-check", false, "Skip the background release check")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s, cleanup, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	if !noUpdateCheck {
		// Best-effort: results go to the log on stderr, never to stdout.
		go checkForUpdates(cmd.Context())
	}

	return mcpserver.ServeStdio(s)
}

func checkForUpdates(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := updater.Check(ctx, server.Version)
	switch {
	case errors.Is(err, updater.ErrDevBuild):
		return
	case err != nil:
		logger.Debug("release check failed", zap.Error(err))
	case result.UpdateAvailable:
		logger.Info("update available",
			zap.String("current", result.CurrentVersion),
			zap.String("latest", result.LatestVersion),
			zap.String("release", result.ReleaseURL),
		)
	}
}
