package fluency

import (
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Config holds the tunable thresholds. All lengths are in characters
// (grapheme clusters).
type Config struct {
	LongSentenceChars  int `yaml:"long_sentence_chars" json:"long_sentence_chars"`
	InfoPointChars     int `yaml:"info_point_chars" json:"info_point_chars"`
	DensityThreshold   int `yaml:"density_threshold" json:"density_threshold"`
	ParagraphMinChars  int `yaml:"paragraph_min_chars" json:"paragraph_min_chars"`
	ParagraphMaxChars  int `yaml:"paragraph_max_chars" json:"paragraph_max_chars"`
	ShortLineChars     int `yaml:"short_line_chars" json:"short_line_chars"`
	TransitionMinChars int `yaml:"transition_min_chars" json:"transition_min_chars"`
}

// DefaultConfig returns the thresholds for standalone analysis.
func DefaultConfig() Config {
	return Config{
		LongSentenceChars:  30,
		InfoPointChars:     10,
		DensityThreshold:   3,
		ParagraphMinChars:  200,
		ParagraphMaxChars:  500,
		ShortLineChars:     50,
		TransitionMinChars: 15,
	}
}

// ReviewConfig is DefaultConfig with the stricter density threshold used
// inside article review.
func ReviewConfig() Config {
	cfg := DefaultConfig()
	cfg.DensityThreshold = 2
	return cfg
}

// Validate rejects thresholds that would make a pass meaningless.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"long_sentence_chars", c.LongSentenceChars},
		{"info_point_chars", c.InfoPointChars},
		{"density_threshold", c.DensityThreshold},
		{"paragraph_min_chars", c.ParagraphMinChars},
		{"paragraph_max_chars", c.ParagraphMaxChars},
		{"short_line_chars", c.ShortLineChars},
		{"transition_min_chars", c.TransitionMinChars},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return &InputError{Field: f.name, Reason: fmt.Sprintf("must be positive, got %d", f.value)}
		}
	}
	if c.ParagraphMinChars >= c.ParagraphMaxChars {
		return &InputError{
			Field:  "paragraph_min_chars",
			Reason: fmt.Sprintf("must be below paragraph_max_chars (%d >= %d)", c.ParagraphMinChars, c.ParagraphMaxChars),
		}
	}
	return nil
}

// pass is one heuristic over a segmented document.
type pass func(doc *Document, cfg Config) metrics

var passes = map[Dimension]pass{
	DimTransition:      checkTransitions,
	DimSentenceLength:  checkSentenceLength,
	DimInfoDensity:     checkDensity,
	DimParagraphLength: checkParagraphLength,
	DimQuestion:        checkQuestions,
	DimLineBreak:       checkLineBreaks,
}

// Analyzer scores documents against a fixed Config. It is safe for
// concurrent use.
type Analyzer struct {
	cfg Config
}

// New validates cfg and returns an Analyzer bound to it.
func New(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("fluency: %w", err)
	}
	return &Analyzer{cfg: cfg}, nil
}

// Config returns the thresholds in use.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze scores text with DefaultConfig.
func Analyze(text string, opts Options) (*Report, error) {
	a := &Analyzer{cfg: DefaultConfig()}
	return a.Analyze(context.Background(), text, opts)
}

// Analyze segments text once and runs every pass over the shared
// document. Input errors are returned before any work starts.
func (a *Analyzer) Analyze(ctx context.Context, text string, opts Options) (*Report, error) {
	if !utf8.ValidString(text) {
		return nil, &InputError{Field: "document_text", Reason: "not valid UTF-8"}
	}
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	doc := Segment(text)

	results := make([]metrics, len(Dimensions))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range Dimensions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = passes[d](doc, a.cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fluency: analyze: %w", err)
	}

	all := make(map[Dimension]metrics, len(Dimensions))
	report := &Report{
		Status:     StatusComplete,
		Options:    opts,
		Dimensions: make([]DimensionResult, 0, len(Dimensions)),
	}
	for i, d := range Dimensions {
		m := results[i]
		all[d] = m
		report.Dimensions = append(report.Dimensions, buildResult(d, m, opts))
	}

	report.Score = composite(report.Dimensions)
	report.Suggestions = buildSuggestions(all, opts)
	report.AudienceNote = AudienceNote(opts.Audience)
	report.NextSteps = append([]string(nil), nextSteps...)
	return report, nil
}

func buildResult(d Dimension, m metrics, opts Options) DimensionResult {
	spec := specs[d]
	score, ded := dimensionScore(d, m)

	findings := m.findings
	if findings == nil {
		findings = []Finding{}
	}
	examples := m.examples
	if examples == nil {
		examples = []Finding{}
	}

	return DimensionResult{
		Dimension:  d,
		Title:      spec.title,
		Score:      score,
		Deduction:  ded,
		Passed:     spec.passed(m),
		Criteria:   spec.criteria,
		Focus:      opts.focused(d),
		Total:      m.total,
		Flagged:    m.flagged,
		Percentage: m.percent,
		Breakdown:  m.breakdown,
		Examples:   examples,
		Findings:   findings,
	}
}
