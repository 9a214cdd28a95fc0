package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/HendryAvila/quill/internal/fluency"
	"github.com/HendryAvila/quill/internal/history"
	"github.com/HendryAvila/quill/internal/server"
)

// SourceCLI tags history runs recorded by the analyze command.
const SourceCLI = "cli"

var (
	analyzeFormat   string
	analyzeLevel    string
	analyzeAudience string
	analyzeFocus    []string
	analyzeKey      string
	analyzeWatch    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Score the fluency of a draft",
	Long: `Analyzes a draft and prints the fluency report. Reads stdin when the
file is "-" or omitted.

Examples:
  quill analyze draft.md
  quill analyze --level deep --focus sentence_length draft.md
  cat draft.md | quill analyze --format json
  quill analyze --watch draft.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "markdown", "Output format (markdown, json)")
	analyzeCmd.Flags().StringVarP(&analyzeLevel, "level", "l", string(fluency.LevelStandard), "Report detail ("+strings.Join(fluency.LevelValues(), ", ")+")")
	analyzeCmd.Flags().StringVarP(&analyzeAudience, "audience", "a", fluency.DefaultAudience, "Target audience")
	analyzeCmd.Flags().StringSliceVar(&analyzeFocus, "focus", nil, "Focus areas ("+strings.Join(fluency.FocusAreaValues(), ", ")+")")
	analyzeCmd.Flags().StringVar(&analyzeKey, "key", "", "History key (default: the file path, or a content hash for stdin)")
	analyzeCmd.Flags().BoolVarP(&analyzeWatch, "watch", "w", false, "Re-analyze whenever the file is saved")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	if analyzeWatch && path == "-" {
		return fmt.Errorf("--watch needs a file path")
	}
	if analyzeFormat != "markdown" && analyzeFormat != "json" {
		return fmt.Errorf("unknown format %q (want markdown or json)", analyzeFormat)
	}

	analyzer, err := fluency.New(cfg.Standalone())
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	hs := server.OpenHistory(cfg, logger)
	if hs != nil {
		defer func() { _ = hs.Close() }()
	}

	a := &analysis{
		analyzer: analyzer,
		history:  hs,
		logger:   logger,
		out:      cmd.OutOrStdout(),
		in:       cmd.InOrStdin(),
		path:     path,
		key:      analyzeKey,
		format:   analyzeFormat,
		opts: fluency.Options{
			Level:    fluency.Level(analyzeLevel),
			Audience: analyzeAudience,
		},
	}
	for _, f := range analyzeFocus {
		a.opts.FocusAreas = append(a.opts.FocusAreas, fluency.FocusArea(strings.TrimSpace(f)))
	}

	if !analyzeWatch {
		return a.run(cmd.Context())
	}
	return watchFile(cmd.Context(), path, logger, a.run)
}

// analysis is one configured analyze invocation, re-runnable by watch.
type analysis struct {
	analyzer *fluency.Analyzer
	history  *history.Store // nullable
	logger   *zap.Logger
	out      io.Writer
	in       io.Reader
	path     string
	key      string
	format   string
	opts     fluency.Options
}

func (a *analysis) run(ctx context.Context) error {
	text, err := a.read()
	if err != nil {
		return err
	}

	report, err := a.analyzer.Analyze(ctx, text, a.opts)
	if err != nil {
		return err
	}
	a.record(text, report)
	return writeReport(a.out, report, a.format)
}

func (a *analysis) read() (string, error) {
	var (
		data []byte
		err  error
	)
	if a.path == "-" {
		data, err = io.ReadAll(a.in)
	} else {
		data, err = os.ReadFile(a.path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", a.path, err)
	}
	return string(data), nil
}

func (a *analysis) record(text string, report *fluency.Report) {
	if a.history == nil {
		return
	}
	key := a.key
	switch {
	case key != "":
	case a.path != "-":
		key = a.path
	default:
		key = history.DefaultKey(text)
	}
	run, err := a.history.Record(history.RecordParams{
		DocumentKey: key,
		Source:      SourceCLI,
		Text:        text,
		Report:      report,
	})
	if err != nil {
		a.logger.Warn("recording fluency run", zap.String("document_key", key), zap.Error(err))
		return
	}
	a.logger.Debug("fluency run recorded", zap.String("document_key", key), zap.String("id", run.ID))
}

// writeReport prints the report. Markdown is rendered with glamour when
// w is a terminal and printed raw otherwise.
func writeReport(w io.Writer, report *fluency.Report, format string) error {
	if format == "json" {
		data, err := report.JSON()
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	md := report.Markdown()
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if out, err := renderer.Render(md); err == nil {
				md = out
			}
		}
	}
	_, err := io.WriteString(w, md)
	return err
}
