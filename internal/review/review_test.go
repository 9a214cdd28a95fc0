package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/quill/internal/fluency"
)

const article = `# 标题

在当今时代，人工智能正在赋能各行各业。

## 背景

新技术发布了。

#### 细节

- 第一点
- 第二点

` + "```go\nfmt.Println(\"随着技术的快速发展\")\n```" + `

让我们共同期待未来可期的明天。
`

// recordingAnalyzer captures the options it was called with.
type recordingAnalyzer struct {
	calls int
	opts  fluency.Options
	err   error
}

func (a *recordingAnalyzer) Analyze(_ context.Context, text string, opts fluency.Options) (*fluency.Report, error) {
	a.calls++
	a.opts = opts
	if a.err != nil {
		return nil, a.err
	}
	return fluency.Analyze(text, opts)
}

func reviewConfigAnalyzer(t *testing.T) *fluency.Analyzer {
	t.Helper()
	a, err := fluency.New(fluency.ReviewConfig())
	require.NoError(t, err)
	return a
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"":         LevelStandard,
		"quick":    LevelQuick,
		"basic":    LevelQuick,
		" Deep ":   LevelDeep,
		"standard": LevelStandard,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("thorough")
	assert.ErrorIs(t, err, fluency.ErrInvalidInput)
}

func TestTablesReturnCopies(t *testing.T) {
	info := LevelQuick.Info()
	info.Focus[0] = "mutated"
	assert.NotEqual(t, "mutated", LevelQuick.Info().Focus[0])

	focus, ok := WorkspaceBlog.Focus()
	require.True(t, ok)
	focus.Primary[0] = "mutated"
	again, _ := WorkspaceBlog.Focus()
	assert.NotEqual(t, "mutated", again.Primary[0])

	list := Checklist()
	require.Len(t, list, 4)
	list[1].Checks[0].Item = "mutated"
	assert.NotEqual(t, "mutated", Checklist()[1].Checks[0].Item)

	_, ok = Workspace("newsletter").Focus()
	assert.False(t, ok)
}

func TestChecklist_KeyPasses(t *testing.T) {
	var key []int
	for _, p := range Checklist() {
		if p.Key {
			key = append(key, p.Number)
		}
	}
	assert.Equal(t, []int{2, 4}, key)
}

func TestScanTone(t *testing.T) {
	rep := ScanTone(article)

	var phrases []string
	for _, h := range rep.Hits {
		phrases = append(phrases, h.Match)
	}
	assert.Equal(t, []string{"在当今时代", "赋能", "随着技术的快速发展", "让我们共同期待", "未来可期"}, phrases)

	assert.Equal(t, 3, rep.Hits[0].Line)
	assert.Equal(t, ToneTemplateOpening, rep.Hits[0].Category)
	assert.Equal(t, 2, rep.ByCategory[ToneSocialEnding])
	assert.Equal(t, 1, rep.ByCategory[ToneEmptyPhrase])
	assert.False(t, rep.Passed)
	assert.Greater(t, float64(rep.Ratio), MaxToneRatio)
}

func TestScanTone_Clean(t *testing.T) {
	rep := ScanTone("这是一段普通的文字。没有任何模板。")
	assert.Empty(t, rep.Hits)
	assert.Equal(t, 2, rep.Sentences)
	assert.True(t, rep.Passed)

	empty := ScanTone("")
	assert.Zero(t, empty.Ratio)
	assert.True(t, empty.Passed)
}

func TestTonePhrases(t *testing.T) {
	phrases := TonePhrases()
	assert.Len(t, phrases, 4)
	assert.Contains(t, phrases[ToneTemplateOpening], "随着...的快速发展")
	assert.Len(t, phrases[ToneAbsolute], 4)
}

func TestParseOutline(t *testing.T) {
	o := ParseOutline([]byte(article))

	require.Len(t, o.Headings, 3)
	assert.Equal(t, Heading{Level: 1, Title: "标题", Line: 1}, o.Headings[0])
	assert.Equal(t, Heading{Level: 4, Title: "细节", Line: 9}, o.Headings[2])
	assert.Equal(t, map[int]int{1: 1, 2: 1, 4: 1}, o.HeadingCounts)
	assert.Equal(t, 2, o.ListItems)
	assert.Equal(t, 1, o.CodeBlocks)

	require.Len(t, o.Findings, 1)
	assert.Equal(t, 9, o.Findings[0].Line)
	assert.Contains(t, o.Findings[0].Issue, "H2 to H4")
}

func TestParseOutline_MultipleTitles(t *testing.T) {
	o := ParseOutline([]byte("# 一\n\n正文\n\n# 二\n"))
	require.Len(t, o.Findings, 1)
	assert.Equal(t, 5, o.Findings[0].Line)
	assert.Contains(t, o.Findings[0].Issue, "2 top-level headings")
}

func TestReview_Standard(t *testing.T) {
	r := NewReviewer(reviewConfigAnalyzer(t), nil)

	res, err := r.Review(context.Background(), article, Options{
		Level: LevelStandard, Workspace: WorkspaceTech, EnableFluency: true, ToneFilter: true,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusReady, res.Status)
	assert.Equal(t, "标准审校", res.Level.Name)
	require.NotNil(t, res.Workspace)
	assert.Equal(t, "科技写作", res.Workspace.Name)
	require.NotNil(t, res.Tone)
	require.NotNil(t, res.Fluency)
	assert.Equal(t, fluency.LevelStandard, res.Fluency.Options.Level)
	assert.Nil(t, res.FastTrack)
	assert.Len(t, res.Checklist, 4)

	md := res.Markdown()
	for _, want := range []string{"# Article Review: 标准审校", "## Workspace: 科技写作", "## AI Tone", "## Structure", "### Pass 4", "## Fluency:"} {
		assert.Contains(t, md, want)
	}
}

func TestReview_UsesReviewDensityThreshold(t *testing.T) {
	three := strings.Repeat("这是一个超过十个字符的句子啊。", 3)

	res, err := NewReviewer(reviewConfigAnalyzer(t), nil).Review(context.Background(), three, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.Fluency.Dimension(fluency.DimInfoDensity).Findings, 1)
}

func TestReview_QuickMapsToBasicAndFastTrack(t *testing.T) {
	a := &recordingAnalyzer{}
	res, err := NewReviewer(a, nil).Review(context.Background(), article, Options{Level: LevelQuick, EnableFluency: true})
	require.NoError(t, err)

	assert.Equal(t, 1, a.calls)
	assert.Equal(t, fluency.LevelBasic, a.opts.Level)
	require.NotNil(t, res.FastTrack)
	assert.Equal(t, "50%", res.FastTrack.TimeSaving)
	assert.Nil(t, res.Tone, "tone filter off")
	assert.Contains(t, res.Markdown(), "## Fast Track")
}

func TestReview_FluencyDisabled(t *testing.T) {
	a := &recordingAnalyzer{}
	res, err := NewReviewer(a, nil).Review(context.Background(), article, Options{Level: LevelDeep, ToneFilter: true})
	require.NoError(t, err)

	assert.Zero(t, a.calls)
	assert.Nil(t, res.Fluency)
	assert.Contains(t, res.Markdown(), "_Disabled for this review._")
}

func TestReview_Errors(t *testing.T) {
	r := NewReviewer(&recordingAnalyzer{}, nil)
	ctx := context.Background()

	_, err := r.Review(ctx, "\xff", DefaultOptions())
	assert.ErrorIs(t, err, fluency.ErrInvalidInput)

	_, err = r.Review(ctx, "正文。", Options{Level: "extreme"})
	assert.ErrorIs(t, err, fluency.ErrInvalidInput)

	_, err = r.Review(ctx, "正文。", Options{Workspace: "newsletter"})
	assert.ErrorIs(t, err, fluency.ErrInvalidInput)

	boom := errors.New("boom")
	_, err = NewReviewer(&recordingAnalyzer{err: boom}, nil).Review(ctx, "正文。", DefaultOptions())
	assert.ErrorIs(t, err, boom)
}
