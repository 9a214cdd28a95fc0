// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/quill/internal/config"
	"github.com/HendryAvila/quill/internal/fluency"
	"github.com/HendryAvila/quill/internal/history"
	"github.com/HendryAvila/quill/internal/prompts"
	"github.com/HendryAvila/quill/internal/resources"
	"github.com/HendryAvila/quill/internal/review"
	"github.com/HendryAvila/quill/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the history store and must be
// called on shutdown (typically via defer). It is always non-nil and
// safe to call even if history is disabled.
func New(cfg *config.Config, logger *zap.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Create shared dependencies ---

	standalone, err := fluency.New(cfg.Standalone())
	if err != nil {
		return nil, noop, fmt.Errorf("creating analyzer: %w", err)
	}
	strict, err := fluency.New(cfg.Review())
	if err != nil {
		return nil, noop, fmt.Errorf("creating review analyzer: %w", err)
	}

	// History is an independent subsystem: if it fails to initialize,
	// analysis keeps working without it.
	cleanup := noop
	hs := OpenHistory(cfg, logger)
	if hs != nil {
		cleanup = func() {
			if err := hs.Close(); err != nil {
				logger.Warn("closing history store", zap.Error(err))
			}
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"quill",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	fluencyTool := tools.NewFluencyTool(standalone, hs, logger.Named("fluency"))
	s.AddTool(fluencyTool.Definition(), fluencyTool.Handle)

	reviewTool := tools.NewReviewTool(review.NewReviewer(strict, logger.Named("review")))
	s.AddTool(reviewTool.Definition(), reviewTool.Handle)

	preflightTool := tools.NewPreflightTool()
	s.AddTool(preflightTool.Definition(), preflightTool.Handle)

	if hs != nil {
		historyTool := tools.NewHistoryTool(hs)
		s.AddTool(historyTool.Definition(), historyTool.Handle)
	}

	// --- Register prompts ---

	reviewPrompt := prompts.NewReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	progressPrompt := prompts.NewProgressPrompt()
	s.AddPrompt(progressPrompt.Definition(), progressPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(cfg.Standalone(), cfg.Review(), hs)
	s.AddResource(resourceHandler.RubricResource(), resourceHandler.HandleRubric)
	s.AddResource(resourceHandler.DocumentsResource(), resourceHandler.HandleDocuments)

	logger.Info("server ready",
		zap.String("version", Version),
		zap.Bool("history", hs != nil),
	)
	return s, cleanup, nil
}

// OpenHistory opens the score history store described by cfg. It
// returns nil when history is disabled or cannot be opened; the
// failure is logged, never fatal.
func OpenHistory(cfg *config.Config, logger *zap.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	hs, err := history.New(history.Config{
		DataDir: cfg.History.DataDir,
		MaxRuns: cfg.History.MaxRuns,
	})
	if err != nil {
		logger.Warn("history subsystem disabled", zap.Error(err))
		return nil
	}
	return hs
}

// noop is the default cleanup when history is disabled.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use Quill effectively.
func serverInstructions() string {
	return `You have access to Quill, a prose fluency toolkit for Chinese and mixed-language writing.

## WHEN TO USE Quill

Use Quill when the user:
- Has a draft and asks whether it reads smoothly
- Asks you to polish, tighten or "de-AI" an article
- Is about to publish and wants a structured review

Do NOT use Quill for translation, fact-checking or code review.

## CRITICAL: How Tools Work

Quill tools are ANALYSIS tools, not writing tools. They measure the text
YOU or the user wrote and tell you where it breaks down. The revising is yours:

1. CALL fluency_analyze with the full draft and a stable document_key
2. READ the high-priority suggestions and the located findings
3. REVISE the draft yourself, one dimension at a time
4. CALL fluency_analyze again with the same document_key and compare the trend

Never paste the findings back to the user as a to-do list without revising.

## Tools

- fluency_analyze: 1-5 fluency score over six dimensions (transitions,
  sentence length, information density, paragraph length, interrogative
  sentences, poetic line breaks). focus_areas ranks suggestions; it never
  changes the score.
- review_article: full pre-publication review. AI-tone phrase scan, structure
  outline, four-pass checklist, embedded fluency analysis with stricter
  density thresholds. Work the checklist passes in order; passes 2 and 4 are key.
- writing_preflight: call before writing a brief (stage=brief) or running the
  writing workflow (stage=workflow). A blocked result tells you what to gather.
- fluency_history: recorded scores per document_key and the latest trend.
  Only available when history is enabled.

## Prompts and Resources

- fluency-review prompt: the analyze, revise, re-analyze loop to a target score.
- fluency-progress prompt: summarize a document's score history.
- quill://fluency/rubric: thresholds, penalty table and pass criteria.
- quill://history/documents: documents with recorded runs.

## Scoring

Each dimension starts at 5 and loses fixed penalties when its findings cross
a threshold (e.g. long sentences over 10%); only missing transitions cost
0.5 per section. No dimension drops below its floor. The penalty table is in
quill://fluency/rubric. The overall score is 5 minus the sum of every dimension's
deduction, clamped to 1-5. A score of 4.0 or higher reads well for most
audiences.`
}
