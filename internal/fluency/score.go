package fluency

import "math"

// MaxScore and MinScore bound the composite.
const (
	MaxScore = 5.0
	MinScore = 1.0
)

// metrics is what a pass hands to scoring.
type metrics struct {
	total     int
	flagged   int
	percent   Percent
	breakdown map[string]int
	findings  []Finding
	examples  []Finding
}

func (m metrics) count(key string) int {
	return m.breakdown[key]
}

// Penalty is one row of the scoring table. The same table drives the
// per-dimension scores and the composite.
type Penalty struct {
	Dimension Dimension `json:"dimension"`
	When      string    `json:"when"`
	Amount    float64   `json:"amount"`
	PerUnit   bool      `json:"per_unit,omitempty"`

	// times returns how often the penalty applies (0 = not triggered).
	times func(m metrics) int
}

func once(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

var penalties = []Penalty{
	{
		Dimension: DimTransition, When: "each section opening without a transition",
		Amount: 0.5, PerUnit: true,
		times: func(m metrics) int { return m.flagged },
	},
	{
		Dimension: DimSentenceLength, When: "long sentences > 10%",
		Amount: 0.8,
		times:  func(m metrics) int { return once(m.percent > 10) },
	},
	{
		Dimension: DimSentenceLength, When: "long sentences > 20%",
		Amount: 1.0,
		times:  func(m metrics) int { return once(m.percent > 20) },
	},
	{
		Dimension: DimInfoDensity, When: "dense paragraphs > 30%",
		Amount: 0.7,
		times:  func(m metrics) int { return once(m.percent > 30) },
	},
	{
		Dimension: DimParagraphLength, When: "more than 2 short paragraphs",
		Amount: 0.8,
		times:  func(m metrics) int { return once(m.count(keyShort) > 2) },
	},
	{
		Dimension: DimParagraphLength, When: "any long paragraph",
		Amount: 0.5,
		times:  func(m metrics) int { return once(m.count(keyLong) > 0) },
	},
	{
		Dimension: DimQuestion, When: "questions > 1%",
		Amount: 0.8,
		times:  func(m metrics) int { return once(m.percent > 1) },
	},
	{
		Dimension: DimLineBreak, When: "more than 5 line-break findings",
		Amount: 0.5,
		times:  func(m metrics) int { return once(m.flagged > 5) },
	},
}

// Penalties returns a copy of the scoring table.
func Penalties() []Penalty {
	out := make([]Penalty, len(penalties))
	copy(out, penalties)
	return out
}

// dimensionSpec holds the fixed, per-dimension constants.
type dimensionSpec struct {
	title    string
	floor    float64
	criteria string
	passed   func(m metrics) bool
}

var specs = map[Dimension]dimensionSpec{
	DimTransition: {
		title:    "Paragraph transition",
		floor:    3.0,
		criteria: "every section opens with 2-3 transition sentences",
		passed:   func(m metrics) bool { return m.flagged == 0 },
	},
	DimSentenceLength: {
		title:    "Sentence length",
		floor:    2.0,
		criteria: "long sentences < 5%, average length < 25 characters",
		passed:   func(m metrics) bool { return m.percent < 5 },
	},
	DimInfoDensity: {
		title:    "Information density",
		floor:    2.0,
		criteria: "1-2 information points per paragraph (dense paragraphs < 20%)",
		passed:   func(m metrics) bool { return m.percent < 20 },
	},
	DimParagraphLength: {
		title:    "Paragraph length",
		floor:    2.0,
		criteria: "every paragraph within 200-500 characters",
		passed:   func(m metrics) bool { return m.count(keyShort) == 0 && m.count(keyLong) == 0 },
	},
	DimQuestion: {
		title:    "Questions",
		floor:    1.0,
		criteria: "questions ≤ 1% of sentences",
		passed:   func(m metrics) bool { return m.percent <= 1 },
	},
	DimLineBreak: {
		title:    "Poetic line breaks",
		floor:    3.0,
		criteria: "related short lines merged into paragraphs (fewer than 5 findings)",
		passed:   func(m metrics) bool { return m.flagged < 5 },
	},
}

// Floor returns the lowest score dimension d can reach.
func Floor(d Dimension) float64 {
	return specs[d].floor
}

// Criteria returns the pass criterion text for dimension d.
func Criteria(d Dimension) string {
	return specs[d].criteria
}

// deduction sums the triggered penalties for d before the floor applies.
func deduction(d Dimension, m metrics) float64 {
	var total float64
	for _, p := range penalties {
		if p.Dimension != d {
			continue
		}
		total += p.Amount * float64(p.times(m))
	}
	return total
}

// dimensionScore applies the floor; the effective deduction is what the
// composite subtracts for this dimension.
func dimensionScore(d Dimension, m metrics) (score, effective float64) {
	score = math.Max(specs[d].floor, MaxScore-deduction(d, m))
	return round1(score), round1(MaxScore - score)
}

// composite subtracts every effective deduction from MaxScore and clamps.
func composite(results []DimensionResult) float64 {
	score := MaxScore
	for _, r := range results {
		score -= r.Deduction
	}
	return round1(clamp(score, MinScore, MaxScore))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
