package fluency

import (
	"fmt"
	"strings"
)

// Markdown renders the report for humans. The level it was produced with
// decides the detail: basic shows scores and suggestions, standard adds
// examples, deep lists every finding.
func (r *Report) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# Fluency Report\n\n")
	fmt.Fprintf(&sb, "**Score**: %.1f / %.1f\n", r.Score, MaxScore)
	fmt.Fprintf(&sb, "**Level**: %s | **Audience**: %s\n\n", r.Options.Level, r.Options.Audience)

	sb.WriteString("| Dimension | Score | Status | Flagged | Criteria |\n")
	sb.WriteString("|-----------|-------|--------|---------|----------|\n")
	for _, d := range r.Dimensions {
		title := d.Title
		if d.Focus {
			title += " *"
		}
		fmt.Fprintf(&sb, "| %s | %.1f | %s | %d/%d (%s%%) | %s |\n",
			title, d.Score, d.Status(), d.Flagged, d.Total, d.Percentage, d.Criteria)
	}
	sb.WriteString("\n_* focus area_\n\n")

	if r.Options.Level != LevelBasic {
		for _, d := range r.Dimensions {
			list := d.Examples
			heading := "Examples"
			if r.Options.Level == LevelDeep {
				list = d.Findings
				heading = "Findings"
			}
			if len(list) == 0 {
				continue
			}
			fmt.Fprintf(&sb, "## %s: %s\n\n", d.Title, heading)
			for _, f := range list {
				fmt.Fprintf(&sb, "- **%s**: %s\n", f.Location, f.Issue)
				if f.Excerpt != "" {
					fmt.Fprintf(&sb, "  > %s\n", f.Excerpt)
				}
				fmt.Fprintf(&sb, "  → %s\n", f.Suggestion)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("## Suggestions\n\n")
	writeBucket(&sb, "High priority", r.Suggestions.High)
	writeBucket(&sb, "Medium priority", r.Suggestions.Medium)
	writeBucket(&sb, "Low priority", r.Suggestions.Low)

	fmt.Fprintf(&sb, "**Audience note**: %s\n\n", r.AudienceNote)

	sb.WriteString("## Next Steps\n\n")
	for _, s := range r.NextSteps {
		fmt.Fprintf(&sb, "%s\n", s)
	}

	return sb.String()
}

func writeBucket(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "### %s\n\n", title)
	for _, s := range items {
		fmt.Fprintf(sb, "- %s\n", s)
	}
	sb.WriteString("\n")
}
