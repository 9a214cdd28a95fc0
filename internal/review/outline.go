package review

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one Markdown heading.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Line  int    `json:"line"`
}

// FormatFinding is a structural problem in the Markdown.
type FormatFinding struct {
	Line  int    `json:"line"`
	Issue string `json:"issue"`
}

// Outline is the document structure as parsed by goldmark.
type Outline struct {
	Headings      []Heading       `json:"headings"`
	HeadingCounts map[int]int     `json:"heading_counts"`
	ListItems     int             `json:"list_items"`
	CodeBlocks    int             `json:"code_blocks"`
	Findings      []FormatFinding `json:"format_findings"`
}

// ParseOutline walks the Markdown AST of src.
func ParseOutline(src []byte) *Outline {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	o := &Outline{
		Headings:      []Heading{},
		HeadingCounts: make(map[int]int),
		Findings:      []FormatFinding{},
	}

	prevLevel := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			h := Heading{
				Level: node.Level,
				Title: string(node.Text(src)),
				Line:  lineOf(node, src),
			}
			o.Headings = append(o.Headings, h)
			o.HeadingCounts[h.Level]++

			if prevLevel > 0 && h.Level > prevLevel+1 {
				o.Findings = append(o.Findings, FormatFinding{
					Line:  h.Line,
					Issue: fmt.Sprintf("heading level jumps from H%d to H%d (%q)", prevLevel, h.Level, h.Title),
				})
			}
			prevLevel = h.Level

		case *ast.ListItem:
			o.ListItems++

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			o.CodeBlocks++
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	if o.HeadingCounts[1] > 1 {
		o.Findings = append(o.Findings, FormatFinding{
			Line:  firstLine(o.Headings, 1, 2),
			Issue: fmt.Sprintf("%d top-level headings; an article should have one title", o.HeadingCounts[1]),
		})
	}
	return o
}

func lineOf(n ast.Node, src []byte) int {
	if n.Lines().Len() == 0 {
		return 0
	}
	seg := n.Lines().At(0)
	return bytes.Count(src[:seg.Start], []byte("\n")) + 1
}

// firstLine returns the line of the nth heading at level.
func firstLine(hs []Heading, level, nth int) int {
	seen := 0
	for _, h := range hs {
		if h.Level != level {
			continue
		}
		seen++
		if seen == nth {
			return h.Line
		}
	}
	return 0
}
