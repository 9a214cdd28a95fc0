package review

import (
	"regexp"
	"strings"

	"github.com/HendryAvila/quill/internal/fluency"
)

// ToneCategory groups AI-sounding phrases by how they read.
type ToneCategory string

const (
	ToneTemplateOpening ToneCategory = "template_starts"
	ToneEmptyPhrase     ToneCategory = "empty_phrases"
	ToneAbsolute        ToneCategory = "absolute_statements"
	ToneSocialEnding    ToneCategory = "social_ending"
)

// MaxToneRatio is the passing AI-tone ratio, in percent of sentences.
const MaxToneRatio = 2.0

type tonePattern struct {
	category ToneCategory
	phrase   string // as shown to the writer
	re       *regexp.Regexp
}

func literal(c ToneCategory, phrases ...string) []tonePattern {
	out := make([]tonePattern, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, tonePattern{category: c, phrase: p, re: regexp.MustCompile(regexp.QuoteMeta(p))})
	}
	return out
}

var tonePatterns = func() []tonePattern {
	var all []tonePattern
	all = append(all, literal(ToneTemplateOpening, "在当今时代", "近年来", "我们可以看到", "众所周知")...)
	all = append(all, tonePattern{
		category: ToneTemplateOpening,
		phrase:   "随着...的快速发展",
		re:       regexp.MustCompile(`随着[^。！？\n]{1,20}的快速发展`),
	})
	all = append(all, literal(ToneEmptyPhrase, "赋能", "引领", "加速转型", "充分利用", "深度挖掘", "极致体验")...)
	all = append(all, literal(ToneAbsolute, "所有人都知道", "显而易见", "毫无疑问", "板上钉钉")...)
	all = append(all, literal(ToneSocialEnding, "让我们共同期待", "相信明天会更好", "未来可期", "一起加油")...)
	return all
}()

// TonePhrases returns the watched phrases per category.
func TonePhrases() map[ToneCategory][]string {
	out := make(map[ToneCategory][]string)
	for _, p := range tonePatterns {
		out[p.category] = append(out[p.category], p.phrase)
	}
	return out
}

// ToneHit is one AI-tone phrase occurrence.
type ToneHit struct {
	Category ToneCategory `json:"category"`
	Phrase   string       `json:"phrase"`
	Match    string       `json:"match"`
	Line     int          `json:"line"`
}

// ToneReport summarizes the AI-tone scan.
type ToneReport struct {
	Hits       []ToneHit            `json:"hits"`
	ByCategory map[ToneCategory]int `json:"by_category"`
	Sentences  int                  `json:"sentences"`
	Ratio      fluency.Percent      `json:"ai_tone_ratio"`
	Passed     bool                 `json:"passed"`
}

// ScanTone reports every AI-tone phrase with its 1-based line, in line
// order. The ratio is hits per sentence.
func ScanTone(text string) *ToneReport {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	rep := &ToneReport{
		Hits:       []ToneHit{},
		ByCategory: make(map[ToneCategory]int),
	}

	for i, line := range strings.Split(text, "\n") {
		for _, p := range tonePatterns {
			for _, m := range p.re.FindAllString(line, -1) {
				rep.Hits = append(rep.Hits, ToneHit{Category: p.category, Phrase: p.phrase, Match: m, Line: i + 1})
				rep.ByCategory[p.category]++
			}
		}
	}

	rep.Sentences = len(fluency.Segment(text).Sentences)
	rep.Ratio = fluency.PercentOf(len(rep.Hits), rep.Sentences)
	rep.Passed = float64(rep.Ratio) < MaxToneRatio
	return rep
}
