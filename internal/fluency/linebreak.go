package fluency

import "strings"

// checkLineBreaks flags every adjacent pair of short prose lines. A run
// of N such lines produces N-1 findings.
func checkLineBreaks(doc *Document, cfg Config) metrics {
	short := make([]bool, len(doc.Lines))
	for i, raw := range doc.Lines {
		line := strings.TrimSpace(raw)
		short[i] = line != "" && !isStructural(line) && charLen(line) < cfg.ShortLineChars
	}

	var findings []Finding
	for i := 0; i+1 < len(doc.Lines); i++ {
		if !short[i] || !short[i+1] {
			continue
		}
		line := strings.TrimSpace(doc.Lines[i])
		findings = append(findings, Finding{
			Dimension:  DimLineBreak,
			Location:   Location{Line: i + 1},
			Length:     charLen(line),
			Excerpt:    line,
			Issue:      "short line followed by another short line",
			Suggestion: "Merge related short lines into one continuous paragraph",
		})
	}

	return metrics{
		total:    len(doc.Lines),
		flagged:  len(findings),
		percent:  PercentOf(len(findings), len(doc.Lines)),
		findings: findings,
		examples: head(findings, maxSentenceExamples),
	}
}
