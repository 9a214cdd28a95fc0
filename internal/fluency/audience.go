package fluency

import "sort"

var audienceNotes = map[string]string{
	"general":   "保持简洁明了，避免过于复杂的句式",
	"technical": "可以容忍稍长的句子，但要注意逻辑清晰",
	"academic":  "重视严谨性，但需平衡可读性",
	"creative":  "鼓励多样化句式，但保持整体流畅",
}

const fallbackAudienceNote = "保持平衡的阅读体验"

// AudienceNote returns the guidance for audience, or the fallback.
func AudienceNote(audience string) string {
	if note, ok := audienceNotes[audience]; ok {
		return note
	}
	return fallbackAudienceNote
}

// Audiences lists the audiences with a dedicated note, sorted.
func Audiences() []string {
	out := make([]string, 0, len(audienceNotes))
	for a := range audienceNotes {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

var rhythmTips = []string{
	"在长段落后添加呼吸点（短段落或列表）",
	"使用过渡词汇连接句子",
	"控制每段的核心信息点数量",
	"保持句长适度变化（10字短句+30字中句+50字长句）",
}

var nextSteps = []string{
	"1. 根据分析结果进行修改",
	"2. 重新运行 fluency_analyze 验证",
	"3. 进行人工阅读检查",
	"4. 最终质量确认",
}

// suggestionRule emits text into a bucket when its trigger holds.
type suggestionRule struct {
	dimension Dimension
	priority  int // 0 high, 1 medium
	text      string
	trigger   func(m metrics) bool
}

var suggestionRules = []suggestionRule{
	{DimTransition, 0, "为缺少过渡的章节添加2-3句过渡句", func(m metrics) bool { return m.flagged > 0 }},
	{DimSentenceLength, 0, "拆分超过30字的长句", func(m metrics) bool { return m.percent > 10 }},
	{DimInfoDensity, 0, "拆分信息过密的段落", func(m metrics) bool { return m.percent > 30 }},
	{DimParagraphLength, 0, "扩展短段落至200字以上", func(m metrics) bool { return m.count(keyShort) > 0 }},
	{DimParagraphLength, 0, "将超长段落拆分为2-3个段落", func(m metrics) bool { return m.count(keyLong) > 0 }},
	{DimQuestion, 0, "将问句改为陈述句或反问句", func(m metrics) bool { return m.percent > 1 }},
	{DimLineBreak, 0, "合并诗式换行为连贯段落", func(m metrics) bool { return m.flagged > 0 }},
	{DimSentenceLength, 1, "优化句式结构，增加短句调节", func(m metrics) bool { return m.percent > 5 }},
	{DimQuestion, 1, "减少技术文章中的问句使用", func(m metrics) bool { return m.percent > 0.5 }},
}

// buildSuggestions buckets triggered rules; within a bucket, rules for
// focused dimensions come first and table order is otherwise kept.
func buildSuggestions(all map[Dimension]metrics, opts Options) Suggestions {
	var buckets [2][]suggestionRule
	for _, r := range suggestionRules {
		if r.trigger(all[r.dimension]) {
			buckets[r.priority] = append(buckets[r.priority], r)
		}
	}

	texts := func(rules []suggestionRule) []string {
		sort.SliceStable(rules, func(i, j int) bool {
			return opts.focused(rules[i].dimension) && !opts.focused(rules[j].dimension)
		})
		out := make([]string, 0, len(rules))
		for _, r := range rules {
			out = append(out, r.text)
		}
		return out
	}

	low := make([]string, len(rhythmTips))
	copy(low, rhythmTips)

	return Suggestions{
		High:   texts(buckets[0]),
		Medium: texts(buckets[1]),
		Low:    low,
	}
}
