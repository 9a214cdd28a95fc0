package fluency

import "fmt"

// Breakdown keys for the paragraph-length pass.
const (
	keyShort = "short"
	keyLong  = "long"
)

func checkDensity(doc *Document, cfg Config) metrics {
	var findings []Finding
	for _, p := range doc.Paragraphs {
		points := infoPoints(p.Text, cfg.InfoPointChars)
		if points <= cfg.DensityThreshold {
			continue
		}
		findings = append(findings, Finding{
			Dimension:  DimInfoDensity,
			Location:   Location{Paragraph: p.Index},
			Length:     points,
			Excerpt:    truncate(p.Text, paragraphExcerptChars),
			Issue:      fmt.Sprintf("paragraph carries %d information points (limit %d)", points, cfg.DensityThreshold),
			Suggestion: "Split into two paragraphs or drop the non-core points",
		})
	}

	return metrics{
		total:    len(doc.Paragraphs),
		flagged:  len(findings),
		percent:  PercentOf(len(findings), len(doc.Paragraphs)),
		findings: findings,
		examples: head(findings, maxParagraphExamples),
	}
}

// infoPoints counts sentences long enough to carry a point of their own.
func infoPoints(paragraph string, minChars int) int {
	n := 0
	for _, s := range splitSentences(paragraph) {
		if charLen(s.Text) > minChars {
			n++
		}
	}
	return n
}

func checkParagraphLength(doc *Document, cfg Config) metrics {
	var short, long []Finding
	for _, p := range doc.Paragraphs {
		n := p.Length
		switch {
		case n < cfg.ParagraphMinChars:
			short = append(short, Finding{
				Dimension:  DimParagraphLength,
				Location:   Location{Paragraph: p.Index},
				Length:     n,
				Excerpt:    truncate(p.Text, paragraphExcerptChars),
				Issue:      fmt.Sprintf("short paragraph: %d characters (target %d-%d)", n, cfg.ParagraphMinChars, cfg.ParagraphMaxChars),
				Suggestion: fmt.Sprintf("Expand with detail or an example to at least %d characters", cfg.ParagraphMinChars),
			})
		case n > cfg.ParagraphMaxChars:
			long = append(long, Finding{
				Dimension:  DimParagraphLength,
				Location:   Location{Paragraph: p.Index},
				Length:     n,
				Excerpt:    truncate(p.Text, paragraphExcerptChars),
				Issue:      fmt.Sprintf("long paragraph: %d characters (target %d-%d)", n, cfg.ParagraphMinChars, cfg.ParagraphMaxChars),
				Suggestion: "Split into 2-3 paragraphs, each focused on one topic",
			})
		}
	}

	findings := make([]Finding, 0, len(short)+len(long))
	findings = append(findings, short...)
	findings = append(findings, long...)

	examples := head(short, maxParagraphExamples)
	examples = append(examples, head(long, maxParagraphExamples)...)

	return metrics{
		total:     len(doc.Paragraphs),
		flagged:   len(findings),
		percent:   PercentOf(len(findings), len(doc.Paragraphs)),
		breakdown: map[string]int{keyShort: len(short), keyLong: len(long)},
		findings:  findings,
		examples:  examples,
	}
}
