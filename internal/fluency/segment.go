package fluency

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// sentenceTerminals are the characters that end a sentence. Splitting on
// them also splits decimals and abbreviations; that is accepted.
const sentenceTerminals = "。！？.!?"

// Section is the text between two level-2 headings.
type Section struct {
	Index     int      // 1-based; the preamble before the first heading is not a section
	Title     string   // heading text without the "## " marker
	StartLine int      // 1-based line of the heading
	Body      []string // raw lines after the heading
}

// openingLine returns the first body line that is prose, with its
// 1-based line number in the document.
func (s Section) openingLine() (string, int, bool) {
	for i, raw := range s.Body {
		line := strings.TrimSpace(raw)
		if line == "" || isStructural(line) {
			continue
		}
		return line, s.StartLine + i + 1, true
	}
	return "", 0, false
}

// Paragraph is a blank-line separated block that is not a heading.
type Paragraph struct {
	Index  int    // 1-based among kept paragraphs
	Text   string // trimmed
	Length int    // characters of the untrimmed block
}

// Sentence is a trimmed fragment between terminal punctuation marks.
type Sentence struct {
	Index    int    // 1-based among kept sentences
	Text     string // without the terminal
	Terminal string // the mark that ended it, empty at end of text
}

// Document is the segmented form every pass reads. It is never mutated
// after Segment returns.
type Document struct {
	Sections   []Section
	Paragraphs []Paragraph
	Sentences  []Sentence
	Lines      []string
}

// Segment decomposes Markdown text into sections, paragraphs, sentences
// and lines. It never fails; empty input yields empty collections.
func Segment(text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	doc := &Document{}
	if text == "" {
		return doc
	}

	doc.Lines = strings.Split(text, "\n")
	doc.Sections = splitSections(doc.Lines)

	for _, raw := range strings.Split(text, "\n\n") {
		p := strings.TrimSpace(raw)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		doc.Paragraphs = append(doc.Paragraphs, Paragraph{Index: len(doc.Paragraphs) + 1, Text: p, Length: charLen(raw)})
	}

	for i, s := range splitSentences(text) {
		s.Index = i + 1
		doc.Sentences = append(doc.Sentences, s)
	}

	return doc
}

func splitSections(lines []string) []Section {
	var sections []Section
	for i, line := range lines {
		if strings.HasPrefix(line, "## ") {
			sections = append(sections, Section{
				Index:     len(sections) + 1,
				Title:     strings.TrimSpace(strings.TrimPrefix(line, "## ")),
				StartLine: i + 1,
			})
			continue
		}
		if len(sections) > 0 {
			cur := &sections[len(sections)-1]
			cur.Body = append(cur.Body, line)
		}
	}
	return sections
}

// splitSentences splits on terminal punctuation and drops fragments that
// are empty after trimming. Index is left for the caller.
func splitSentences(text string) []Sentence {
	var out []Sentence
	start := 0
	emit := func(end int, terminal string) {
		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, Sentence{Text: s, Terminal: terminal})
		}
	}
	for i, r := range text {
		if !strings.ContainsRune(sentenceTerminals, r) {
			continue
		}
		emit(i, string(r))
		start = i + utf8.RuneLen(r)
	}
	emit(len(text), "")
	return out
}

// isStructural reports whether a trimmed line is a heading or list item.
func isStructural(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "*")
}

// charLen counts user-perceived characters (grapheme clusters).
func charLen(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// truncate keeps the first max characters and appends "..." when it cut.
func truncate(s string, max int) string {
	if charLen(s) <= max {
		return s
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < max && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	b.WriteString("...")
	return b.String()
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
