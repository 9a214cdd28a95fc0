// Package fluency scores the readability of Markdown prose.
//
// The analyzer decomposes a document into sections, paragraphs, sentences
// and lines, runs six independent heuristic passes over those segments,
// and folds the per-pass deductions into one composite score between 1.0
// and 5.0. It is a pure function of its input: no I/O, no shared state.
//
// The heuristics are tuned for Chinese technical prose (character counts
// instead of word counts, full-width punctuation) but work on any text.
package fluency

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dimension identifies one of the six analysis passes.
type Dimension string

const (
	DimTransition      Dimension = "paragraph_transition"
	DimSentenceLength  Dimension = "sentence_length"
	DimInfoDensity     Dimension = "info_density"
	DimParagraphLength Dimension = "chinese_paragraph_length"
	DimQuestion        Dimension = "question_check"
	DimLineBreak       Dimension = "poetic_line_break"
)

// Dimensions is the fixed report order.
var Dimensions = []Dimension{
	DimTransition,
	DimSentenceLength,
	DimInfoDensity,
	DimParagraphLength,
	DimQuestion,
	DimLineBreak,
}

// Level controls how much detail a rendered report carries.
type Level string

const (
	LevelBasic    Level = "basic"
	LevelStandard Level = "standard"
	LevelDeep     Level = "deep"
)

// LevelValues returns the accepted optimization levels, for tool enums.
func LevelValues() []string {
	return []string{string(LevelBasic), string(LevelStandard), string(LevelDeep)}
}

// FocusArea is a caller-facing grouping of dimensions.
type FocusArea string

const (
	FocusTransition     FocusArea = "paragraph_transition"
	FocusSentenceLength FocusArea = "sentence_length"
	FocusInfoDensity    FocusArea = "info_density"
	FocusRhythm         FocusArea = "rhythm_control"
)

// FocusAreaValues returns the accepted focus areas, for tool enums.
func FocusAreaValues() []string {
	return []string{
		string(FocusTransition),
		string(FocusSentenceLength),
		string(FocusInfoDensity),
		string(FocusRhythm),
	}
}

// dimensions maps a focus area onto the passes it covers.
func (f FocusArea) dimensions() []Dimension {
	switch f {
	case FocusTransition:
		return []Dimension{DimTransition}
	case FocusSentenceLength:
		return []Dimension{DimSentenceLength}
	case FocusInfoDensity:
		return []Dimension{DimInfoDensity}
	case FocusRhythm:
		return []Dimension{DimParagraphLength, DimQuestion, DimLineBreak}
	}
	return nil
}

// DefaultAudience is used when the caller names no target audience.
const DefaultAudience = "general"

// Options tune a single analysis call.
type Options struct {
	Level      Level       `json:"optimization_level"`
	Audience   string      `json:"target_audience"`
	FocusAreas []FocusArea `json:"focus_areas"`
}

// DefaultOptions returns standard level, general audience, every focus area.
func DefaultOptions() Options {
	return Options{
		Level:    LevelStandard,
		Audience: DefaultAudience,
		FocusAreas: []FocusArea{
			FocusTransition, FocusSentenceLength, FocusInfoDensity, FocusRhythm,
		},
	}
}

// normalize fills defaults and rejects unknown enum values.
func (o Options) normalize() (Options, error) {
	def := DefaultOptions()

	switch o.Level {
	case "":
		o.Level = def.Level
	case LevelBasic, LevelStandard, LevelDeep:
	default:
		return o, &InputError{Field: "optimization_level", Reason: fmt.Sprintf("unknown level %q", o.Level)}
	}

	o.Audience = strings.TrimSpace(o.Audience)
	if o.Audience == "" {
		o.Audience = def.Audience
	}

	if len(o.FocusAreas) == 0 {
		o.FocusAreas = def.FocusAreas
		return o, nil
	}
	seen := make(map[FocusArea]bool, len(o.FocusAreas))
	areas := make([]FocusArea, 0, len(o.FocusAreas))
	for _, f := range o.FocusAreas {
		if f.dimensions() == nil {
			return o, &InputError{Field: "focus_areas", Reason: fmt.Sprintf("unknown focus area %q", f)}
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		areas = append(areas, f)
	}
	o.FocusAreas = areas
	return o, nil
}

// focused reports whether d is covered by one of the focus areas.
func (o Options) focused(d Dimension) bool {
	for _, f := range o.FocusAreas {
		for _, fd := range f.dimensions() {
			if fd == d {
				return true
			}
		}
	}
	return false
}

// ErrInvalidInput is matched by every *InputError.
var ErrInvalidInput = errors.New("invalid input")

// InputError rejects a call before segmentation begins.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// Location points at the segment a finding came from. Indexes are
// 1-based; zero means "not applicable" for that unit.
type Location struct {
	Section   int    `json:"section,omitempty"`
	Title     string `json:"title,omitempty"`
	Paragraph int    `json:"paragraph,omitempty"`
	Sentence  int    `json:"sentence,omitempty"`
	Line      int    `json:"line,omitempty"`
}

// String renders the most specific unit set.
func (l Location) String() string {
	switch {
	case l.Section > 0 && l.Title != "":
		return fmt.Sprintf("section %d (%s)", l.Section, l.Title)
	case l.Section > 0:
		return fmt.Sprintf("section %d", l.Section)
	case l.Sentence > 0:
		return fmt.Sprintf("sentence %d", l.Sentence)
	case l.Paragraph > 0:
		return fmt.Sprintf("paragraph %d", l.Paragraph)
	case l.Line > 0:
		return fmt.Sprintf("line %d", l.Line)
	}
	return "document"
}

// Finding is one located issue produced by a pass.
type Finding struct {
	Dimension  Dimension `json:"dimension"`
	Location   Location  `json:"location"`
	Length     int       `json:"length,omitempty"`
	Excerpt    string    `json:"excerpt"`
	Issue      string    `json:"issue"`
	Suggestion string    `json:"suggestion"`
}

// Percent is a percentage rounded to one decimal place. It serializes as
// a fixed-point string ("12.5") so reports stay byte-stable.
type Percent float64

// PercentOf returns part/total as a percentage, 0 when total is 0.
func PercentOf(part, total int) Percent {
	if total <= 0 {
		return 0
	}
	return Percent(math.Round(float64(part)/float64(total)*1000) / 10)
}

func (p Percent) String() string {
	return strconv.FormatFloat(float64(p), 'f', 1, 64)
}

// MarshalJSON encodes the percentage as its one-decimal string.
func (p Percent) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts both the string form and a bare number.
func (p *Percent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("fluency: parse percent %q: %w", s, err)
		}
		*p = Percent(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("fluency: parse percent: %w", err)
	}
	*p = Percent(v)
	return nil
}

// DimensionResult is the outcome of one pass.
type DimensionResult struct {
	Dimension  Dimension      `json:"dimension"`
	Title      string         `json:"title"`
	Score      float64        `json:"score"`
	Deduction  float64        `json:"deduction"`
	Passed     bool           `json:"passed"`
	Criteria   string         `json:"pass_criteria"`
	Focus      bool           `json:"focus"`
	Total      int            `json:"total"`
	Flagged    int            `json:"flagged"`
	Percentage Percent        `json:"percentage"`
	Breakdown  map[string]int `json:"breakdown,omitempty"`
	Examples   []Finding      `json:"examples"`
	Findings   []Finding      `json:"findings"`
}

// Status returns the human-readable verdict label.
func (r DimensionResult) Status() string {
	if r.Passed {
		return "✅ PASS"
	}
	return "⚠️ NEED IMPROVEMENT"
}

// Suggestions are remediation hints bucketed by priority.
type Suggestions struct {
	High   []string `json:"high_priority"`
	Medium []string `json:"medium_priority"`
	Low    []string `json:"low_priority"`
}

// Report is the full output of one analysis.
type Report struct {
	Status       string            `json:"status"`
	Score        float64           `json:"fluency_score"`
	Options      Options           `json:"options"`
	Dimensions   []DimensionResult `json:"dimensions"`
	Suggestions  Suggestions       `json:"optimization_suggestions"`
	AudienceNote string            `json:"target_audience_note"`
	NextSteps    []string          `json:"next_steps"`
}

// StatusComplete marks a finished analysis.
const StatusComplete = "optimization_complete"

// Dimension returns the result for d, or nil if absent.
func (r *Report) Dimension(d Dimension) *DimensionResult {
	for i := range r.Dimensions {
		if r.Dimensions[i].Dimension == d {
			return &r.Dimensions[i]
		}
	}
	return nil
}

// Breakdown maps each dimension to its score.
func (r *Report) Breakdown() map[Dimension]float64 {
	out := make(map[Dimension]float64, len(r.Dimensions))
	for _, d := range r.Dimensions {
		out[d.Dimension] = d.Score
	}
	return out
}

// FindingCount totals findings across every dimension.
func (r *Report) FindingCount() int {
	n := 0
	for _, d := range r.Dimensions {
		n += len(d.Findings)
	}
	return n
}

// JSON encodes the report with two-space indentation.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
