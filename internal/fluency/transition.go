package fluency

import "fmt"

// transitionMarkers open a section with a link to what came before:
// contrast, sequence, cause, reference and emphasis.
var transitionMarkers = []string{
	"但", "然而",
	"接下来", "基于", "从", "同时", "此外",
	"因此", "所以",
	"这", "那", "以上", "下面",
	"更重要的是", "除了",
}

const transitionSuggestion = `Open the section with a bridging sentence, e.g. "基于以上分析，接下来我们将..." or "但技术成熟只是第一步，真正的变革在于..."`

func checkTransitions(doc *Document, cfg Config) metrics {
	var findings []Finding
	for _, sec := range doc.Sections {
		line, lineNo, ok := sec.openingLine()
		if !ok || hasAnyPrefix(line, transitionMarkers) {
			continue
		}

		n := charLen(line)
		issue := "section opens without a transition from the previous one"
		if n < cfg.TransitionMinChars {
			issue = fmt.Sprintf("section opens abruptly: %d-character first line with no transition", n)
		}
		findings = append(findings, Finding{
			Dimension:  DimTransition,
			Location:   Location{Section: sec.Index, Title: sec.Title, Line: lineNo},
			Length:     n,
			Excerpt:    truncate(line, sentenceExcerptChars),
			Issue:      issue,
			Suggestion: transitionSuggestion,
		})
	}

	return metrics{
		total:    len(doc.Sections),
		flagged:  len(findings),
		percent:  PercentOf(len(findings), len(doc.Sections)),
		findings: findings,
		examples: head(findings, maxSentenceExamples),
	}
}
