package fluency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fourteen characters, above the info-point minimum
const infoSentence = "这是一个超过十个字符的句子啊。"

const sampleDoc = `# 标题

引言部分。

## 背景

但是这项技术仍有局限。这是一个相当长的句子，它包含了很多的内容，并且还在继续延伸下去直到超过三十个字符为止。

## 发布

新功能发布了。

为什么要这样做？

短行一
短行二
短行三
`

func mustAnalyze(t *testing.T, text string, opts Options) *Report {
	t.Helper()
	r, err := Analyze(text, opts)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func TestAnalyze_Deterministic(t *testing.T) {
	first := mustAnalyze(t, sampleDoc, DefaultOptions())
	second := mustAnalyze(t, sampleDoc, DefaultOptions())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reports differ (-first +second):\n%s", diff)
	}

	a, err := first.JSON()
	require.NoError(t, err)
	b, err := second.JSON()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestAnalyze_ScoreBounds(t *testing.T) {
	inputs := map[string]string{
		"empty":        "",
		"unpunctuated": strings.Repeat("字", 10000),
		"sample":       sampleDoc,
		"short lines":  strings.Repeat("短\n", 200),
		"questions":    strings.Repeat("为什么？", 100),
		"sections":     strings.Repeat("## 标题\n\n突然开始。\n\n", 50),
	}

	for name, text := range inputs {
		t.Run(name, func(t *testing.T) {
			r := mustAnalyze(t, text, DefaultOptions())
			assert.GreaterOrEqual(t, r.Score, MinScore)
			assert.LessOrEqual(t, r.Score, MaxScore)
			require.Len(t, r.Dimensions, len(Dimensions))
			for _, d := range r.Dimensions {
				assert.GreaterOrEqual(t, d.Score, Floor(d.Dimension), d.Dimension)
				assert.GreaterOrEqual(t, d.Score, MinScore, d.Dimension)
				assert.LessOrEqual(t, d.Score, MaxScore, d.Dimension)
			}
		})
	}
}

func TestAnalyze_CompositeClampsAtMinimum(t *testing.T) {
	question := "为什么" + strings.Repeat("长", 40) + "？"
	var b strings.Builder
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&b, "## 第%d节\n\n%s\n\n", i, strings.Repeat(question, 4))
	}
	b.WriteString(strings.Repeat("短行\n", 7))

	r := mustAnalyze(t, b.String(), DefaultOptions())

	want := map[Dimension]float64{
		DimTransition:      3.0, // six abrupt openings hit the floor
		DimSentenceLength:  3.2, // 0.8 + 1.0
		DimInfoDensity:     4.3,
		DimParagraphLength: 4.2,
		DimQuestion:        4.2,
		DimLineBreak:       4.5,
	}
	var total float64
	for _, d := range r.Dimensions {
		assert.Equal(t, want[d.Dimension], d.Score, d.Dimension)
		total += d.Deduction
	}
	assert.Equal(t, 6, r.Dimension(DimTransition).Flagged)
	assert.Equal(t, 6, r.Dimension(DimLineBreak).Flagged)
	assert.Greater(t, total, MaxScore-MinScore)
	assert.Equal(t, MinScore, r.Score)
}

func TestAnalyze_EmptyText(t *testing.T) {
	r := mustAnalyze(t, "", DefaultOptions())

	assert.Equal(t, StatusComplete, r.Status)
	assert.Equal(t, MaxScore, r.Score)
	assert.Zero(t, r.FindingCount())
	for _, d := range r.Dimensions {
		assert.Zero(t, d.Percentage, d.Dimension)
		assert.Zero(t, d.Total, d.Dimension)
		assert.NotNil(t, d.Findings, d.Dimension)
		assert.NotNil(t, d.Examples, d.Dimension)
	}
	assert.Empty(t, r.Suggestions.High)
	assert.Empty(t, r.Suggestions.Medium)
	assert.Len(t, r.Suggestions.Low, 4)
}

func TestAnalyze_LongSentence(t *testing.T) {
	r := mustAnalyze(t, strings.Repeat("A", 35)+"。"+"短。", DefaultOptions())

	d := r.Dimension(DimSentenceLength)
	require.NotNil(t, d)
	assert.Equal(t, 2, d.Total)
	assert.Equal(t, 1, d.Flagged)
	assert.Equal(t, "50.0", d.Percentage.String())
	require.Len(t, d.Findings, 1)
	assert.Equal(t, 35, d.Findings[0].Length)
	assert.Equal(t, 1, d.Findings[0].Location.Sentence)

	data, err := r.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"percentage": "50.0"`)
}

func TestSplitSuggestion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"parallel clauses", "一，二，三", "Split the parallel clauses into separate sentences"},
		{"semicolon", "前半句；后半句", "Split into two sentences at the semicolon"},
		{"connective", "前半句，并且后半句", `Split into two sentences at "并且/同时"`},
		{"generic", "没有任何标点的长句子", "Split the long sentence into 2-3 short sentences"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSuggestion(tt.in))
		})
	}
}

func TestAnalyze_Transitions(t *testing.T) {
	text := "## 背景\n\n但是这项技术仍有局限。\n\n## 发布\n\n新功能发布了。\n"
	r := mustAnalyze(t, text, DefaultOptions())

	d := r.Dimension(DimTransition)
	require.NotNil(t, d)
	assert.Equal(t, 2, d.Total)
	require.Len(t, d.Findings, 1)

	f := d.Findings[0]
	assert.Equal(t, 2, f.Location.Section)
	assert.Equal(t, "发布", f.Location.Title)
	assert.Equal(t, 7, f.Location.Line)
	assert.Contains(t, f.Issue, "opens abruptly")
	assert.False(t, d.Passed)
	assert.Equal(t, 4.5, d.Score)
}

func TestAnalyze_TransitionSkipsStructuralLines(t *testing.T) {
	text := "## 列表\n\n- 第一项\n- 第二项\n\n因此我们得出结论。\n"
	r := mustAnalyze(t, text, DefaultOptions())

	assert.Empty(t, r.Dimension(DimTransition).Findings)
}

func TestAnalyze_Density(t *testing.T) {
	dense := strings.Repeat(infoSentence, 4)
	sparse := strings.Repeat(infoSentence, 2)

	r := mustAnalyze(t, dense+"\n\n"+sparse, DefaultOptions())
	d := r.Dimension(DimInfoDensity)
	require.Len(t, d.Findings, 1)
	assert.Equal(t, 1, d.Findings[0].Location.Paragraph)
	assert.Equal(t, 4, d.Findings[0].Length)
	assert.Equal(t, "50.0", d.Percentage.String())
	assert.Equal(t, 4.3, d.Score)
}

func TestAnalyze_DensityThresholdPerCallSite(t *testing.T) {
	three := strings.Repeat(infoSentence, 3)

	standalone := mustAnalyze(t, three, DefaultOptions())
	assert.Empty(t, standalone.Dimension(DimInfoDensity).Findings)

	a, err := New(ReviewConfig())
	require.NoError(t, err)
	review, err := a.Analyze(context.Background(), three, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, review.Dimension(DimInfoDensity).Findings, 1)
}

func TestAnalyze_ParagraphLength(t *testing.T) {
	short := "短段落。"
	long := strings.Repeat("长", 600)
	ok := strings.Repeat("中", 300)

	r := mustAnalyze(t, strings.Join([]string{short, short, short, long, ok}, "\n\n"), DefaultOptions())
	d := r.Dimension(DimParagraphLength)

	assert.Equal(t, 5, d.Total)
	assert.Equal(t, 3, d.Breakdown["short"])
	assert.Equal(t, 1, d.Breakdown["long"])
	assert.Len(t, d.Examples, 4)
	assert.Equal(t, 3.7, d.Score)
	assert.False(t, d.Passed)
}

func TestAnalyze_ParagraphLengthCountsIndentation(t *testing.T) {
	indented := "  " + strings.Repeat("中", 198)
	ok := strings.Repeat("中", 300)

	r := mustAnalyze(t, indented+"\n\n"+ok, DefaultOptions())
	d := r.Dimension(DimParagraphLength)

	assert.Equal(t, 2, d.Total)
	assert.Zero(t, d.Breakdown["short"])
	assert.Empty(t, d.Findings)
	assert.True(t, d.Passed)
}

func TestAnalyze_Questions(t *testing.T) {
	r := mustAnalyze(t, "为什么会这样。这是陈述。你来吗?结尾是问号？", DefaultOptions())
	d := r.Dimension(DimQuestion)

	assert.Equal(t, 4, d.Total)
	assert.Equal(t, 2, d.Flagged)
	assert.Equal(t, "50.0", d.Percentage.String())
	assert.Equal(t, 4.2, d.Score)
}

func TestAnalyze_QuestionsIgnoreASCIIMark(t *testing.T) {
	r := mustAnalyze(t, "This is a statement. Is this a question?", DefaultOptions())
	d := r.Dimension(DimQuestion)

	assert.Equal(t, 2, d.Total)
	assert.Zero(t, d.Flagged)
	assert.Equal(t, MaxScore, d.Score)
	assert.True(t, d.Passed)
}

func TestAnalyze_PoeticBreaks(t *testing.T) {
	r := mustAnalyze(t, "第一行\n第二行\n第三行", DefaultOptions())
	d := r.Dimension(DimLineBreak)

	require.Len(t, d.Findings, 2)
	assert.Equal(t, 1, d.Findings[0].Location.Line)
	assert.Equal(t, 2, d.Findings[1].Location.Line)
	assert.True(t, d.Passed)
}

func TestAnalyze_PoeticBreaksIgnoreLists(t *testing.T) {
	r := mustAnalyze(t, "- 第一项\n- 第二项\n- 第三项", DefaultOptions())
	assert.Empty(t, r.Dimension(DimLineBreak).Findings)
}

func TestAnalyze_SentenceScoreMonotonic(t *testing.T) {
	long := strings.Repeat("长", 40) + "。"
	base := strings.Repeat("短句。", 20)

	prev := MaxScore + 1
	for k := 0; k <= 30; k++ {
		r := mustAnalyze(t, base+strings.Repeat(long, k), DefaultOptions())
		score := r.Dimension(DimSentenceLength).Score
		assert.LessOrEqual(t, score, prev, "k=%d", k)
		prev = score
	}
}

func TestAnalyze_CompositeUsesDimensionDeductions(t *testing.T) {
	r := mustAnalyze(t, sampleDoc, DefaultOptions())

	want := MaxScore
	for _, d := range r.Dimensions {
		assert.Equal(t, round1(MaxScore-d.Score), d.Deduction, d.Dimension)
		want -= d.Deduction
	}
	assert.Equal(t, round1(clamp(want, MinScore, MaxScore)), r.Score)
}

func TestAnalyze_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		opts  Options
		field string
	}{
		{"invalid utf8", "\xff\xfe", DefaultOptions(), "document_text"},
		{"unknown level", "正文。", Options{Level: "extreme"}, "optimization_level"},
		{"unknown focus", "正文。", Options{FocusAreas: []FocusArea{"tone"}}, "focus_areas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Analyze(tt.text, tt.opts)
			require.Error(t, err)
			assert.Nil(t, r)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var ie *InputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestAnalyze_OptionsNormalized(t *testing.T) {
	r := mustAnalyze(t, "正文。", Options{
		Audience:   "  ",
		FocusAreas: []FocusArea{FocusRhythm, FocusRhythm},
	})

	assert.Equal(t, LevelStandard, r.Options.Level)
	assert.Equal(t, DefaultAudience, r.Options.Audience)
	assert.Equal(t, []FocusArea{FocusRhythm}, r.Options.FocusAreas)
	assert.True(t, r.Dimension(DimLineBreak).Focus)
	assert.False(t, r.Dimension(DimTransition).Focus)
}

func TestAnalyze_FocusedSuggestionsFirst(t *testing.T) {
	text := "## 发布\n\n新功能发布了。\n\n短行一\n短行二\n"

	all := mustAnalyze(t, text, DefaultOptions())
	require.GreaterOrEqual(t, len(all.Suggestions.High), 2)
	assert.Equal(t, "为缺少过渡的章节添加2-3句过渡句", all.Suggestions.High[0])

	rhythm := mustAnalyze(t, text, Options{FocusAreas: []FocusArea{FocusRhythm}})
	require.Len(t, rhythm.Suggestions.High, len(all.Suggestions.High))
	assert.NotEqual(t, "为缺少过渡的章节添加2-3句过渡句", rhythm.Suggestions.High[0])
	assert.Equal(t, "为缺少过渡的章节添加2-3句过渡句", rhythm.Suggestions.High[len(rhythm.Suggestions.High)-1])
}

func TestAudienceNote(t *testing.T) {
	assert.Equal(t, "可以容忍稍长的句子，但要注意逻辑清晰", AudienceNote("technical"))
	assert.Equal(t, fallbackAudienceNote, AudienceNote("children"))
	assert.Equal(t, []string{"academic", "creative", "general", "technical"}, Audiences())
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, ReviewConfig().Validate())

	cfg := DefaultConfig()
	cfg.DensityThreshold = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)

	cfg = DefaultConfig()
	cfg.ParagraphMinChars = cfg.ParagraphMaxChars
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestAnalyzer_ConcurrentUse(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)

	want, err := a.Analyze(context.Background(), sampleDoc, DefaultOptions())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := a.Analyze(context.Background(), sampleDoc, DefaultOptions())
			if err != nil {
				errs <- err
				return
			}
			if diff := cmp.Diff(want, got); diff != "" {
				errs <- errors.New(diff)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestAnalyzer_CancelledContext(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := a.Analyze(ctx, sampleDoc, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, r)
}

func TestReport_MarkdownLevels(t *testing.T) {
	basic := mustAnalyze(t, sampleDoc, Options{Level: LevelBasic}).Markdown()
	standard := mustAnalyze(t, sampleDoc, Options{Level: LevelStandard}).Markdown()
	deep := mustAnalyze(t, sampleDoc, Options{Level: LevelDeep}).Markdown()

	for _, md := range []string{basic, standard, deep} {
		assert.Contains(t, md, "# Fluency Report")
		assert.Contains(t, md, "## Suggestions")
	}
	assert.NotContains(t, basic, ": Examples")
	assert.NotContains(t, basic, ": Findings")
	assert.Contains(t, standard, ": Examples")
	assert.Contains(t, deep, ": Findings")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "短", truncate("短", 5))
	assert.Equal(t, "一二三...", truncate("一二三四五", 3))
	assert.Equal(t, 3, charLen("👍🏽中a"))
}

func TestPercent_JSON(t *testing.T) {
	var p Percent
	require.NoError(t, p.UnmarshalJSON([]byte(`"12.5"`)))
	assert.Equal(t, Percent(12.5), p)
	require.NoError(t, p.UnmarshalJSON([]byte(`7`)))
	assert.Equal(t, Percent(7), p)
	assert.Equal(t, Percent(33.3), PercentOf(1, 3))
	assert.Equal(t, Percent(0), PercentOf(1, 0))
}
