// Package review runs the article review flow: an AI-tone scan, a
// Markdown structure outline, the four-pass checklist and, optionally,
// an embedded fluency analysis with the review thresholds.
package review

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/HendryAvila/quill/internal/fluency"
)

// FluencyAnalyzer is the analysis contract the reviewer depends on.
// *fluency.Analyzer satisfies it.
type FluencyAnalyzer interface {
	Analyze(ctx context.Context, text string, opts fluency.Options) (*fluency.Report, error)
}

// Options tune one review.
type Options struct {
	Level         Level
	Workspace     Workspace // empty for none
	EnableFluency bool
	ToneFilter    bool
}

// DefaultOptions returns a standard review with every check on.
func DefaultOptions() Options {
	return Options{Level: LevelStandard, EnableFluency: true, ToneFilter: true}
}

// Result is the output of one review.
type Result struct {
	Status    string          `json:"status"`
	Level     LevelInfo       `json:"review_config"`
	Workspace *WorkspaceFocus `json:"workspace_guidelines,omitempty"`
	Tone      *ToneReport     `json:"ai_tone_detection,omitempty"`
	Outline   *Outline        `json:"outline"`
	Checklist []Pass          `json:"checklist"`
	Fluency   *fluency.Report `json:"fluency_optimization,omitempty"`
	FastTrack *FastTrack      `json:"fast_track,omitempty"`
	NextSteps []string        `json:"next_steps"`
	Notes     []string        `json:"important_notes"`
}

// StatusReady marks a review whose checklist is ready to execute.
const StatusReady = "ready_to_execute"

// Reviewer runs reviews. It is safe for concurrent use.
type Reviewer struct {
	analyzer FluencyAnalyzer
	logger   *zap.Logger
}

// NewReviewer creates a Reviewer. analyzer is required; logger may be nil.
func NewReviewer(analyzer FluencyAnalyzer, logger *zap.Logger) *Reviewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reviewer{analyzer: analyzer, logger: logger}
}

// Review checks text. Input errors wrap fluency.ErrInvalidInput.
func (r *Reviewer) Review(ctx context.Context, text string, opts Options) (*Result, error) {
	if !utf8.ValidString(text) {
		return nil, &fluency.InputError{Field: "article_content", Reason: "not valid UTF-8"}
	}
	if opts.Level == "" {
		opts.Level = LevelStandard
	}
	if _, ok := levels[opts.Level]; !ok {
		return nil, &fluency.InputError{Field: "review_level", Reason: fmt.Sprintf("unknown level %q", opts.Level)}
	}

	res := &Result{
		Status:    StatusReady,
		Level:     opts.Level.Info(),
		Outline:   ParseOutline([]byte(text)),
		Checklist: Checklist(),
		NextSteps: append([]string(nil), nextSteps...),
		Notes:     append([]string(nil), notes...),
	}

	if opts.Workspace != "" {
		focus, ok := opts.Workspace.Focus()
		if !ok {
			return nil, &fluency.InputError{Field: "workspace_type", Reason: fmt.Sprintf("unknown workspace %q", opts.Workspace)}
		}
		res.Workspace = &focus
	}

	if opts.ToneFilter {
		res.Tone = ScanTone(text)
	}

	if opts.EnableFluency {
		report, err := r.analyzer.Analyze(ctx, text, fluency.Options{Level: opts.Level.fluencyLevel()})
		if err != nil {
			return nil, fmt.Errorf("review: fluency analysis: %w", err)
		}
		res.Fluency = report
	}

	if opts.Level == LevelQuick {
		res.FastTrack = fastTrack()
	}

	r.logger.Debug("article reviewed",
		zap.String("level", string(opts.Level)),
		zap.String("workspace", string(opts.Workspace)),
		zap.Int("headings", len(res.Outline.Headings)),
		zap.Int("format_findings", len(res.Outline.Findings)),
		zap.Bool("fluency", res.Fluency != nil),
	)
	return res, nil
}

// Markdown renders the review for the agent.
func (res *Result) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Article Review: %s\n\n", res.Level.Name)
	fmt.Fprintf(&sb, "**Level**: %s (%s, %s)\n", res.Level.Level, res.Level.Depth, res.Level.Time)
	fmt.Fprintf(&sb, "**Focus**: %s\n\n", strings.Join(res.Level.Focus, "、"))

	if res.Workspace != nil {
		fmt.Fprintf(&sb, "## Workspace: %s\n\n", res.Workspace.Name)
		fmt.Fprintf(&sb, "- **Audience**: %s\n", res.Workspace.Audience)
		fmt.Fprintf(&sb, "- **Primary**: %s\n", strings.Join(res.Workspace.Primary, "、"))
		fmt.Fprintf(&sb, "- **Secondary**: %s\n\n", strings.Join(res.Workspace.Secondary, "、"))
	}

	if res.Tone != nil {
		status := "✅ PASS"
		if !res.Tone.Passed {
			status = "⚠️ NEED IMPROVEMENT"
		}
		fmt.Fprintf(&sb, "## AI Tone: %s%% %s\n\n", res.Tone.Ratio, status)
		if len(res.Tone.Hits) == 0 {
			sb.WriteString("_No AI-tone phrases found._\n\n")
		} else {
			for _, h := range res.Tone.Hits {
				fmt.Fprintf(&sb, "- line %d: **%s** (%s)\n", h.Line, h.Match, h.Category)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("## Structure\n\n")
	counts := make([]string, 0, 6)
	for level := 1; level <= 6; level++ {
		if n := res.Outline.HeadingCounts[level]; n > 0 {
			counts = append(counts, fmt.Sprintf("H%d×%d", level, n))
		}
	}
	if len(counts) == 0 {
		counts = append(counts, "none")
	}
	fmt.Fprintf(&sb, "Headings: %s | List items: %d | Code blocks: %d\n\n",
		strings.Join(counts, " "), res.Outline.ListItems, res.Outline.CodeBlocks)
	for _, f := range res.Outline.Findings {
		fmt.Fprintf(&sb, "- ⚠️ line %d: %s\n", f.Line, f.Issue)
	}
	if len(res.Outline.Findings) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString("## Checklist\n\n")
	for _, p := range res.Checklist {
		marker := ""
		if p.Key {
			marker = " ⭐"
		}
		fmt.Fprintf(&sb, "### Pass %d: %s%s (%s)\n\n", p.Number, p.Name, marker, p.ExpectedTime)
		for _, c := range p.Checks {
			fmt.Fprintf(&sb, "- [ ] **%s**: %s (%s)\n", c.Item, c.Description, c.Criteria)
		}
		sb.WriteString("\n")
	}

	if res.Fluency != nil {
		fmt.Fprintf(&sb, "## Fluency: %.1f / %.1f\n\n", res.Fluency.Score, fluency.MaxScore)
		for _, d := range res.Fluency.Dimensions {
			fmt.Fprintf(&sb, "- %s: %.1f %s\n", d.Title, d.Score, d.Status())
		}
		for _, s := range res.Fluency.Suggestions.High {
			fmt.Fprintf(&sb, "- 🔴 %s\n", s)
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("## Fluency\n\n_Disabled for this review._\n\n")
	}

	if res.FastTrack != nil {
		sb.WriteString("## Fast Track\n\n")
		fmt.Fprintf(&sb, "- Skips: %s\n", strings.Join(res.FastTrack.Skips, "、"))
		fmt.Fprintf(&sb, "- Keeps: %s\n", strings.Join(res.FastTrack.Keeps, "、"))
		fmt.Fprintf(&sb, "- Time saving: %s\n\n", res.FastTrack.TimeSaving)
	}

	sb.WriteString("## Next Steps\n\n")
	for _, s := range res.NextSteps {
		fmt.Fprintf(&sb, "%s\n", s)
	}
	sb.WriteString("\n## Notes\n\n")
	for _, n := range res.Notes {
		fmt.Fprintf(&sb, "- %s\n", n)
	}
	return sb.String()
}
