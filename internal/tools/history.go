package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/quill/internal/history"
)

// HistoryTool handles the fluency_history MCP tool.
type HistoryTool struct {
	store *history.Store
	now   func() time.Time
}

// NewHistoryTool creates a HistoryTool with the given history store.
func NewHistoryTool(store *history.Store) *HistoryTool {
	return &HistoryTool{store: store, now: time.Now}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("fluency_history",
		mcp.WithDescription(
			"Show recorded fluency scores. With document_key, lists that document's recent runs "+
				"and the trend between the last two. Without it, lists tracked documents.",
		),
		mcp.WithString("document_key",
			mcp.Description("Key passed to fluency_analyze. Omit to list documents"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum rows to return (default: 10)"),
		),
		mcp.WithString("output_format",
			mcp.Description("markdown (default) or json"),
			mcp.Enum(formatMarkdown, formatJSON),
		),
	)
}

// Handle processes the fluency_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := outputFormat(req)
	if err != nil {
		return inputError(err), nil
	}
	limit := req.GetInt("limit", 10)
	if limit <= 0 {
		return mcp.NewToolResultError("'limit' must be positive"), nil
	}

	key := strings.TrimSpace(req.GetString("document_key", ""))
	if key == "" {
		return t.documents(limit, format)
	}

	trend, err := t.store.Trend(key)
	if errors.Is(err, history.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No runs recorded for %q. Run fluency_analyze with this document_key first.", key)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading trend: %w", err)
	}
	runs, err := t.store.Recent(key, limit)
	if err != nil {
		return nil, fmt.Errorf("loading runs: %w", err)
	}

	if format == formatJSON {
		return jsonResult(struct {
			Trend *history.Trend `json:"trend"`
			Runs  []history.Run  `json:"runs"`
		}{trend, runs})
	}

	var sb strings.Builder
	writeTrend(&sb, trend)
	sb.WriteString("\n| When | Score | Findings | Chars | Source |\n|---|---|---|---|---|\n")
	for _, r := range runs {
		fmt.Fprintf(&sb, "| %s | %.1f | %d | %s | %s |\n",
			t.ago(r.Time()), r.Score, r.Findings, humanize.Comma(int64(r.CharCount)), r.Source)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (t *HistoryTool) documents(limit int, format string) (*mcp.CallToolResult, error) {
	docs, err := t.store.Documents(limit)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	if format == formatJSON {
		if docs == nil {
			docs = []history.DocumentSummary{}
		}
		return jsonResult(docs)
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText("No fluency runs recorded yet."), nil
	}

	var sb strings.Builder
	sb.WriteString("# Tracked Documents\n\n| Document | Runs | Last score | Last run |\n|---|---|---|---|\n")
	for _, d := range docs {
		fmt.Fprintf(&sb, "| `%s` | %d | %.1f | %s |\n", d.DocumentKey, d.Runs, d.LastScore, t.ago(d.Time()))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (t *HistoryTool) ago(ts time.Time) string {
	if ts.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(ts, t.now(), "ago", "from now")
}
