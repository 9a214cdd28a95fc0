package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ProgressPrompt handles the fluency-progress MCP prompt.
// It instructs the AI to summarize recorded score history.
type ProgressPrompt struct{}

// NewProgressPrompt creates a ProgressPrompt.
func NewProgressPrompt() *ProgressPrompt {
	return &ProgressPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ProgressPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("fluency-progress",
		mcp.WithPromptDescription(
			"Show how the fluency of your tracked drafts has changed across revisions.",
		),
	)
}

// Handle processes the fluency-progress prompt request.
func (p *ProgressPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Fluency Progress",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `fluency_history` without a document_key to list my tracked drafts.\n\n" +
						"Then:\n" +
						"1. For each draft, run `fluency_history` with its document_key\n" +
						"2. Show which drafts improved and which regressed\n" +
						"3. Point out the dimensions that changed the most\n" +
						"4. Suggest which draft to work on next",
				),
			},
		},
	}, nil
}
