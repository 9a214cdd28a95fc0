package fluency

import (
	"fmt"
	"strings"
)

const (
	sentenceExcerptChars  = 50
	paragraphExcerptChars = 100
	maxSentenceExamples   = 5
	maxParagraphExamples  = 3
)

// interrogativeOpeners start a direct question.
var interrogativeOpeners = []string{
	"哪里", "什么", "为什么", "怎么", "如何", "是不是", "能不能", "要不要",
}

func checkSentenceLength(doc *Document, cfg Config) metrics {
	var findings []Finding
	for _, s := range doc.Sentences {
		n := charLen(s.Text)
		if n <= cfg.LongSentenceChars {
			continue
		}
		findings = append(findings, Finding{
			Dimension:  DimSentenceLength,
			Location:   Location{Sentence: s.Index},
			Length:     n,
			Excerpt:    truncate(s.Text, sentenceExcerptChars),
			Issue:      fmt.Sprintf("sentence has %d characters (limit %d)", n, cfg.LongSentenceChars),
			Suggestion: splitSuggestion(s.Text),
		})
	}

	return metrics{
		total:    len(doc.Sentences),
		flagged:  len(findings),
		percent:  PercentOf(len(findings), len(doc.Sentences)),
		findings: findings,
		examples: head(findings, maxSentenceExamples),
	}
}

// splitSuggestion picks advice from the sentence's structure, most
// specific cue first.
func splitSuggestion(s string) string {
	switch {
	case strings.Contains(s, "，") && len(strings.Split(s, "，")) > 2:
		return "Split the parallel clauses into separate sentences"
	case strings.Contains(s, "；"):
		return "Split into two sentences at the semicolon"
	case strings.Contains(s, "，并且") || strings.Contains(s, "，同时"):
		return `Split into two sentences at "并且/同时"`
	default:
		return "Split the long sentence into 2-3 short sentences"
	}
}

func checkQuestions(doc *Document, _ Config) metrics {
	var findings []Finding
	for _, s := range doc.Sentences {
		if !isQuestion(s) {
			continue
		}
		findings = append(findings, Finding{
			Dimension:  DimQuestion,
			Location:   Location{Sentence: s.Index},
			Length:     charLen(s.Text),
			Excerpt:    truncate(s.Text, sentenceExcerptChars),
			Issue:      fmt.Sprintf("direct question at sentence %d", s.Index),
			Suggestion: "Rewrite the question as a statement or a rhetorical question",
		})
	}

	return metrics{
		total:    len(doc.Sentences),
		flagged:  len(findings),
		percent:  PercentOf(len(findings), len(doc.Sentences)),
		findings: findings,
		examples: head(findings, maxSentenceExamples),
	}
}

// isQuestion checks the terminal, not the text: the question mark is
// consumed by splitting. Only the full-width mark counts.
func isQuestion(s Sentence) bool {
	return s.Terminal == "？" || hasAnyPrefix(s.Text, interrogativeOpeners)
}

// head returns at most n leading findings as a new slice.
func head(findings []Finding, n int) []Finding {
	if len(findings) < n {
		n = len(findings)
	}
	out := make([]Finding, n)
	copy(out, findings[:n])
	return out
}
