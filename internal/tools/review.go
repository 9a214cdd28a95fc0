package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/quill/internal/review"
)

// ReviewTool handles the review_article MCP tool.
type ReviewTool struct {
	reviewer *review.Reviewer
}

// NewReviewTool creates a ReviewTool.
func NewReviewTool(reviewer *review.Reviewer) *ReviewTool {
	return &ReviewTool{reviewer: reviewer}
}

// Definition returns the MCP tool definition for registration.
func (t *ReviewTool) Definition() mcp.Tool {
	return mcp.NewTool("review_article",
		mcp.WithDescription(
			"Prepare a structured review of a finished article: AI-tone phrase scan, "+
				"Markdown structure outline, the four-pass checklist and an embedded fluency "+
				"analysis with stricter density thresholds. "+
				"Work through the checklist passes in order; passes 2 and 4 are the key ones.",
		),
		mcp.WithString("article_content",
			mcp.Required(),
			mcp.Description("The article in Markdown"),
		),
		mcp.WithString("review_level",
			mcp.Description("quick (basic), standard (default) or deep"),
			mcp.Enum(review.LevelValues()...),
		),
		mcp.WithString("workspace_type",
			mcp.Description("Adds focus guidelines for the kind of writing"),
			mcp.Enum(review.WorkspaceValues()...),
		),
		mcp.WithBoolean("enable_fluency_optimization",
			mcp.Description("Run the embedded fluency analysis (default: true)"),
		),
		mcp.WithBoolean("use_ai_tone_filter",
			mcp.Description("Scan for AI-tone phrases (default: true)"),
		),
		mcp.WithString("output_format",
			mcp.Description("markdown (default) or json"),
			mcp.Enum(formatMarkdown, formatJSON),
		),
	)
}

// Handle processes the review_article tool call.
func (t *ReviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, ok := requiredText(req, "article_content")
	if !ok {
		return mcp.NewToolResultError("'article_content' is required"), nil
	}
	format, err := outputFormat(req)
	if err != nil {
		return inputError(err), nil
	}

	level, err := review.ParseLevel(req.GetString("review_level", ""))
	if err != nil {
		return inputError(err), nil
	}
	opts := review.Options{
		Level:         level,
		Workspace:     review.Workspace(strings.ToLower(strings.TrimSpace(req.GetString("workspace_type", "")))),
		EnableFluency: req.GetBool("enable_fluency_optimization", true),
		ToneFilter:    req.GetBool("use_ai_tone_filter", true),
	}

	res, err := t.reviewer.Review(ctx, text, opts)
	if err != nil {
		if r := inputError(err); r != nil {
			return r, nil
		}
		return nil, fmt.Errorf("reviewing article: %w", err)
	}

	if format == formatJSON {
		return jsonResult(res)
	}
	return mcp.NewToolResultText(res.Markdown()), nil
}
