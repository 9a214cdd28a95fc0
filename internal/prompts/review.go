// Package prompts implements MCP prompt handlers for Quill.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultTargetScore is the score the revision loop aims for.
const DefaultTargetScore = 4.0

// ReviewPrompt handles the fluency-review MCP prompt.
// It guides the AI through an analyze, revise, re-analyze loop.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("fluency-review",
		mcp.WithPromptDescription(
			"Improve the fluency of a draft. The AI analyzes it, revises it against "+
				"the high-priority suggestions, and re-runs the analysis until the "+
				"score reaches the target.",
		),
		mcp.WithArgument("document_key",
			mcp.ArgumentDescription("Name used to track this draft's scores across revisions, e.g. the file name"),
		),
		mcp.WithArgument("target_score",
			mcp.ArgumentDescription("Score to reach, between 1.0 and 5.0. Default: 4.0"),
		),
		mcp.WithArgument("target_audience",
			mcp.ArgumentDescription("Reader group: general, technical, academic or creative. Default: general"),
		),
	)
}

// Handle processes the fluency-review prompt request.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	key := "draft"
	target := DefaultTargetScore
	audience := "general"

	if args := req.Params.Arguments; args != nil {
		if k, ok := args["document_key"]; ok && k != "" {
			key = k
		}
		if s, ok := args["target_score"]; ok && s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v < 1 || v > 5 {
				return nil, fmt.Errorf("target_score must be a number between 1.0 and 5.0, got %q", s)
			}
			target = v
		}
		if a, ok := args["target_audience"]; ok && a != "" {
			audience = a
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Fluency review: %s", key),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to improve the fluency of my draft '%s' for a %s audience.\n\n"+
						"Please:\n"+
						"1. Ask me for the draft if I haven't shared it yet\n"+
						"2. Run `fluency_analyze` with document_key='%s' and target_audience='%s'\n"+
						"3. Revise the draft to address every high-priority suggestion; keep my voice and facts unchanged\n"+
						"4. Run `fluency_analyze` again with the same document_key\n"+
						"5. Repeat steps 3-4 until the score is at least %.1f, then show me the final draft\n"+
						"6. Finish with `fluency_history` for '%s' so I can see the trend\n\n"+
						"Change wording and structure only. If a suggestion would change the meaning, skip it and tell me why.",
					key, audience, key, audience, target, key,
				)),
			},
		},
	}, nil
}
