package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/quill/internal/server"
	"github.com/HendryAvila/quill/internal/updater"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "quill v%s\n", server.Version)
		if !versionCheck {
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		result, err := updater.Check(ctx, server.Version)
		switch {
		case errors.Is(err, updater.ErrDevBuild):
			fmt.Fprintln(out, "Development build; no release to compare against.")
			return nil
		case err != nil:
			return err
		case result.UpdateAvailable:
			fmt.Fprintf(out, "Update available: v%s → v%s\n  %s\n", result.CurrentVersion, result.LatestVersion, result.ReleaseURL)
		default:
			fmt.Fprintf(out, "Up to date (latest v%s)\n", result.LatestVersion)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
