// Quill: prose fluency tools for AI writing agents.
//
// Usage:
//
//	quill serve              # Start the MCP server (stdio transport)
//	quill analyze draft.md   # Score a draft from the terminal
//	quill history [key]      # Show recorded scores
//	quill version --check    # Compare with the latest release
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HendryAvila/quill/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Resolved in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Prose fluency tools for AI writing agents",
	Long: `Quill scores how smoothly Chinese and mixed-language prose reads.

It checks paragraph transitions, sentence length, information density,
paragraph length, interrogative sentences and poetic line breaks, and
reports a 1-5 score with located findings and prioritized suggestions.

Run "quill serve" to expose the tools to an AI agent over MCP, or
"quill analyze" to score a draft from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}

		logger, err = newLogger(cfg.Logging.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("config loaded", zap.String("path", path))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $QUILL_CONFIG or ~/.quill/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// newLogger builds a production logger on stderr so it never mixes with
// the stdio transport or report output on stdout.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
