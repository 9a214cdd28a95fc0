package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/quill/internal/fluency"
	"github.com/HendryAvila/quill/internal/history"
)

// SourceMCP tags history runs recorded through the MCP tools.
const SourceMCP = "mcp"

// FluencyTool handles the fluency_analyze MCP tool.
type FluencyTool struct {
	analyzer *fluency.Analyzer
	history  *history.Store // nullable; history may be disabled
	logger   *zap.Logger
}

// NewFluencyTool creates a FluencyTool. hs may be nil; logger may be nil.
func NewFluencyTool(analyzer *fluency.Analyzer, hs *history.Store, logger *zap.Logger) *FluencyTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FluencyTool{analyzer: analyzer, history: hs, logger: logger}
}

// Definition returns the MCP tool definition for registration.
func (t *FluencyTool) Definition() mcp.Tool {
	return mcp.NewTool("fluency_analyze",
		mcp.WithDescription(
			"Score the reading fluency of a Chinese or mixed-language draft. "+
				"Checks paragraph transitions, sentence length, information density, "+
				"paragraph length, interrogative sentences and poetic line breaks, "+
				"and returns a 1-5 score with located findings and prioritized suggestions. "+
				"Call it on the full draft, revise against the high-priority suggestions, "+
				"then call it again with the same document_key to see the trend.",
		),
		mcp.WithString("document_text",
			mcp.Required(),
			mcp.Description("The full draft text. Markdown headings (## ) delimit sections"),
		),
		mcp.WithString("optimization_level",
			mcp.Description("Detail of the report: basic, standard (default) or deep"),
			mcp.Enum(fluency.LevelValues()...),
		),
		mcp.WithString("target_audience",
			mcp.Description("Reader group, e.g. general (default), technical, academic, creative"),
		),
		mcp.WithArray("focus_areas",
			mcp.Description("Dimensions whose suggestions are ranked first (default: all)"),
			mcp.Items(map[string]any{
				"type": "string",
				"enum": fluency.FocusAreaValues(),
			}),
		),
		mcp.WithString("output_format",
			mcp.Description("markdown (default) or json"),
			mcp.Enum(formatMarkdown, formatJSON),
		),
		mcp.WithString("document_key",
			mcp.Description("Stable key for score history. Defaults to a hash of the text, so pass one to track revisions"),
		),
	)
}

// Handle processes the fluency_analyze tool call.
func (t *FluencyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, ok := requiredText(req, "document_text")
	if !ok {
		return mcp.NewToolResultError("'document_text' is required (it may be an empty string)"), nil
	}
	format, err := outputFormat(req)
	if err != nil {
		return inputError(err), nil
	}

	opts := fluency.Options{
		Level:    fluency.Level(strings.TrimSpace(req.GetString("optimization_level", ""))),
		Audience: req.GetString("target_audience", ""),
	}
	for _, f := range req.GetStringSlice("focus_areas", nil) {
		opts.FocusAreas = append(opts.FocusAreas, fluency.FocusArea(strings.TrimSpace(f)))
	}

	report, err := t.analyzer.Analyze(ctx, text, opts)
	if err != nil {
		if res := inputError(err); res != nil {
			return res, nil
		}
		return nil, fmt.Errorf("analyzing document: %w", err)
	}

	key := strings.TrimSpace(req.GetString("document_key", ""))
	if key == "" {
		key = history.DefaultKey(text)
	}
	trend := t.record(key, text, report)

	if format == formatJSON {
		return jsonResult(struct {
			*fluency.Report
			DocumentKey string         `json:"document_key"`
			Trend       *history.Trend `json:"trend,omitempty"`
		}{report, key, trend})
	}

	var sb strings.Builder
	sb.WriteString(report.Markdown())
	if trend != nil {
		sb.WriteString("\n")
		writeTrend(&sb, trend)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// record stores the run and returns the updated trend. History is
// best-effort: failures are logged and the analysis still succeeds.
func (t *FluencyTool) record(key, text string, report *fluency.Report) *history.Trend {
	if t.history == nil {
		return nil
	}
	if _, err := t.history.Record(history.RecordParams{
		DocumentKey: key,
		Source:      SourceMCP,
		Text:        text,
		Report:      report,
	}); err != nil {
		t.logger.Warn("recording fluency run", zap.String("document_key", key), zap.Error(err))
		return nil
	}
	trend, err := t.history.Trend(key)
	if err != nil {
		t.logger.Warn("loading fluency trend", zap.String("document_key", key), zap.Error(err))
		return nil
	}
	return trend
}

// writeTrend appends a short history section for the document.
func writeTrend(sb *strings.Builder, tr *history.Trend) {
	fmt.Fprintf(sb, "## History: `%s`\n\n", tr.DocumentKey)
	if tr.Previous == nil {
		fmt.Fprintf(sb, "First recorded run (score %.1f). Re-run with the same document_key after revising.\n", tr.Latest.Score)
		return
	}
	fmt.Fprintf(sb, "%s %.1f → %.1f (%+.1f) over %d runs\n", tr.Direction.Arrow(), tr.Previous.Score, tr.Latest.Score, tr.Delta, tr.Runs)
	for _, c := range tr.Changed {
		fmt.Fprintf(sb, "- %s: %.1f → %.1f (%+.1f)\n", c.Dimension, c.Previous, c.Latest, c.Delta)
	}
}
