package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/quill/internal/preflight"
)

// PreflightTool handles the writing_preflight MCP tool.
// It is stateless: the agent reports what it has gathered.
type PreflightTool struct{}

// NewPreflightTool creates a PreflightTool.
func NewPreflightTool() *PreflightTool {
	return &PreflightTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *PreflightTool) Definition() mcp.Tool {
	return mcp.NewTool("writing_preflight",
		mcp.WithDescription(
			"Check writing prerequisites before a stage starts. "+
				"brief: personal materials are required, web research is advisory. "+
				"workflow: at least one personal material is required and the draft must use "+
				"at least 80% of them. A failed check explains what to gather before retrying.",
		),
		mcp.WithString("stage",
			mcp.Required(),
			mcp.Description("Stage about to start"),
			mcp.Enum(preflight.StageValues()...),
		),
		mcp.WithBoolean("has_research",
			mcp.Description("brief: web research has been done"),
		),
		mcp.WithBoolean("has_materials",
			mcp.Description("brief: personal materials have been found"),
		),
		mcp.WithArray("materials",
			mcp.Description("workflow: the personal materials found (3-5 is ideal)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithNumber("usage_rate",
			mcp.Description("workflow: share of materials used by the draft, 0 to 1"),
		),
	)
}

// Handle processes the writing_preflight tool call.
func (t *PreflightTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stage := preflight.Stage(strings.ToLower(strings.TrimSpace(req.GetString("stage", ""))))

	var (
		res *preflight.Result
		err error
	)
	switch stage {
	case preflight.StageBrief:
		res, err = preflight.CheckBrief(preflight.BriefInput{
			HasResearch:  req.GetBool("has_research", false),
			HasMaterials: req.GetBool("has_materials", false),
		})
	case preflight.StageWorkflow:
		res, err = preflight.CheckWorkflow(preflight.WorkflowInput{
			Materials: req.GetStringSlice("materials", nil),
			UsageRate: req.GetFloat("usage_rate", 0),
		})
	default:
		return mcp.NewToolResultError(fmt.Sprintf(
			"'stage' must be one of: %s", strings.Join(preflight.StageValues(), ", "),
		)), nil
	}

	if err != nil {
		var missing *preflight.MissingPrerequisiteError
		var ratio *preflight.InsufficientMaterialRatioError
		switch {
		case errors.As(err, &missing):
			return mcp.NewToolResultError(fmt.Sprintf(
				"⛔ %s blocked: missing %s.\n\nNext: %s.", missing.Stage, missing.Missing, missing.Remedy,
			)), nil
		case errors.As(err, &ratio):
			return mcp.NewToolResultError(fmt.Sprintf(
				"⛔ %s blocked: the draft uses %.0f%% of the materials, %.0f%% required.\n\n"+
					"Next: weave more of the gathered materials into the draft, then retry.",
				ratio.Stage, ratio.Rate*100, ratio.Required*100,
			)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Preflight passed for **%s**.\n", res.Stage)
	if len(res.Warnings) > 0 {
		sb.WriteString("\n**Warnings:**\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
