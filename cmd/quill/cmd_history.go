package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/quill/internal/history"
	"github.com/HendryAvila/quill/internal/server"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [key]",
	Short: "Show recorded fluency scores",
	Long: `Without a key, lists tracked documents. With a key (the file path
used by "quill analyze", or the document_key passed over MCP), lists
that document's recent runs and the latest trend.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum rows to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if !cfg.History.Enabled {
		return fmt.Errorf("score history is disabled (history.enabled or $QUILL_HISTORY)")
	}
	hs := server.OpenHistory(cfg, logger)
	if hs == nil {
		return fmt.Errorf("score history is unavailable; see the log for details")
	}
	defer func() { _ = hs.Close() }()

	if len(args) == 0 {
		return printDocuments(cmd.OutOrStdout(), hs, historyLimit, time.Now())
	}
	return printRuns(cmd.OutOrStdout(), hs, args[0], historyLimit, time.Now())
}

func printDocuments(w io.Writer, hs *history.Store, limit int, now time.Time) error {
	docs, err := hs.Documents(limit)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		_, err := fmt.Fprintln(w, "No fluency runs recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCUMENT\tRUNS\tSCORE\tLAST RUN")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%s\n", d.DocumentKey, d.Runs, d.LastScore, humanize.RelTime(d.Time(), now, "ago", "from now"))
	}
	return tw.Flush()
}

func printRuns(w io.Writer, hs *history.Store, key string, limit int, now time.Time) error {
	trend, err := hs.Trend(key)
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("no runs recorded for %q", key)
	}
	if err != nil {
		return err
	}
	runs, err := hs.Recent(key, limit)
	if err != nil {
		return err
	}

	if trend.Previous == nil {
		fmt.Fprintf(w, "%s: %.1f (first run)\n\n", key, trend.Latest.Score)
	} else {
		fmt.Fprintf(w, "%s: %s %.1f → %.1f (%+.1f) over %s runs\n", key, trend.Direction.Arrow(),
			trend.Previous.Score, trend.Latest.Score, trend.Delta, humanize.Comma(int64(trend.Runs)))
		for _, c := range trend.Changed {
			fmt.Fprintf(w, "  %s %+.1f\n", c.Dimension, c.Delta)
		}
		fmt.Fprintln(w)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSCORE\tFINDINGS\tCHARS\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%.1f\t%d\t%s\t%s\n",
			humanize.RelTime(r.Time(), now, "ago", "from now"), r.Score, r.Findings, humanize.Comma(int64(r.CharCount)), r.Source)
	}
	return tw.Flush()
}
