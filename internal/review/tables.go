package review

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/quill/internal/fluency"
)

// Level is how thorough a review is.
type Level string

const (
	LevelQuick    Level = "quick"
	LevelStandard Level = "standard"
	LevelDeep     Level = "deep"
)

// LevelValues returns the accepted review levels, for tool enums.
// "basic" is accepted by ParseLevel as an alias of quick.
func LevelValues() []string {
	return []string{string(LevelQuick), string(LevelStandard), string(LevelDeep), "basic"}
}

// ParseLevel maps user input to a Level. Empty input means standard.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return LevelStandard, nil
	case "quick", "basic":
		return LevelQuick, nil
	case "standard":
		return LevelStandard, nil
	case "deep":
		return LevelDeep, nil
	}
	return "", &fluency.InputError{Field: "review_level", Reason: fmt.Sprintf("unknown level %q", s)}
}

// fluencyLevel is the report detail used for the embedded analysis.
func (l Level) fluencyLevel() fluency.Level {
	switch l {
	case LevelQuick:
		return fluency.LevelBasic
	case LevelDeep:
		return fluency.LevelDeep
	}
	return fluency.LevelStandard
}

// LevelInfo describes what a review level covers.
type LevelInfo struct {
	Level Level    `json:"level"`
	Name  string   `json:"name"`
	Time  string   `json:"time_estimate"`
	Depth string   `json:"depth"`
	Focus []string `json:"focus_areas"`
}

var levels = map[Level]LevelInfo{
	LevelQuick: {
		Level: LevelQuick,
		Name:  "快速审校",
		Time:  "10-15分钟",
		Depth: "surface",
		Focus: []string{"AI腔表达", "明显错误", "基本格式"},
	},
	LevelStandard: {
		Level: LevelStandard,
		Name:  "标准审校",
		Time:  "30-45分钟",
		Depth: "moderate",
		Focus: []string{"事实准确性", "逻辑连贯性", "风格一致性", "语言自然度"},
	},
	LevelDeep: {
		Level: LevelDeep,
		Name:  "深度审校",
		Time:  "60-90分钟",
		Depth: "thorough",
		Focus: []string{"技术细节", "引用规范", "结构优化", "读者体验", "内容深度"},
	},
}

// Info returns a copy of the description of l.
func (l Level) Info() LevelInfo {
	info := levels[l]
	info.Focus = append([]string(nil), info.Focus...)
	return info
}

// Workspace is the kind of publication being reviewed.
type Workspace string

const (
	WorkspaceTech      Workspace = "tech"
	WorkspaceBlog      Workspace = "blog"
	WorkspacePaper     Workspace = "paper"
	WorkspacePromptLab Workspace = "promptlab"
)

// WorkspaceValues returns the known workspaces, for tool enums.
func WorkspaceValues() []string {
	return []string{string(WorkspaceTech), string(WorkspaceBlog), string(WorkspacePaper), string(WorkspacePromptLab)}
}

// WorkspaceFocus lists what a workspace's reviewers care about most.
type WorkspaceFocus struct {
	Workspace Workspace `json:"workspace"`
	Name      string    `json:"name"`
	Audience  string    `json:"audience"`
	Primary   []string  `json:"primary_focus"`
	Secondary []string  `json:"secondary_focus"`
}

var workspaces = map[Workspace]WorkspaceFocus{
	WorkspaceTech: {
		Workspace: WorkspaceTech,
		Name:      "科技写作",
		Audience:  "技术工程师、研发人员",
		Primary:   []string{"技术准确性", "数据支撑", "实验验证"},
		Secondary: []string{"专业术语", "逻辑严密", "实操性"},
	},
	WorkspaceBlog: {
		Workspace: WorkspaceBlog,
		Name:      "公众号写作",
		Audience:  "科技爱好者、从业者",
		Primary:   []string{"可读性", "互动性", "金句设计"},
		Secondary: []string{"开头抓力", "故事性", "情感共鸣"},
	},
	WorkspacePaper: {
		Workspace: WorkspacePaper,
		Name:      "学术论文",
		Audience:  "研究人员、学者",
		Primary:   []string{"引用规范", "逻辑严谨", "方法透明"},
		Secondary: []string{"学术客观", "结构完整", "结论审慎"},
	},
	WorkspacePromptLab: {
		Workspace: WorkspacePromptLab,
		Name:      "Prompt工程",
		Audience:  "AI工程师、提示词工程师",
		Primary:   []string{"方法论", "可复现性", "实验设计"},
		Secondary: []string{"假设明确", "数据支撑", "结论有效"},
	},
}

// Focus returns a copy of the focus table for w, or false when unknown.
func (w Workspace) Focus() (WorkspaceFocus, bool) {
	f, ok := workspaces[w]
	if !ok {
		return WorkspaceFocus{}, false
	}
	f.Primary = append([]string(nil), f.Primary...)
	f.Secondary = append([]string(nil), f.Secondary...)
	return f, true
}

// Check is one item of a review pass.
type Check struct {
	Item        string `json:"item"`
	Description string `json:"description"`
	Criteria    string `json:"pass_criteria"`
}

// Pass is one round of the four-pass review.
type Pass struct {
	Number       int      `json:"number"`
	Name         string   `json:"name"`
	Key          bool     `json:"key,omitempty"`
	ExpectedTime string   `json:"expected_time"`
	Focus        []string `json:"focus_areas"`
	Checks       []Check  `json:"checks"`
	CommonIssues []string `json:"common_issues"`
}

var passes = []Pass{
	{
		Number:       1,
		Name:         "内容与逻辑审校",
		ExpectedTime: "15分钟",
		Focus: []string{
			"事实准确性：技术参数、数据来源",
			"逻辑连贯性：论证链条、因果关系",
			"结构完整性：各部分是否完整",
			"信息可验证：来源是否可靠",
		},
		Checks: []Check{
			{"技术参数验证", "所有技术数据是否有来源", "100%有来源标注"},
			{"逻辑连贯性", "论证是否环环相扣", "无逻辑跳跃或断层"},
			{"信息完整性", "是否遗漏关键信息", "核心观点有充分支撑"},
		},
		CommonIssues: []string{"数据来源不明确", "逻辑链条断裂", "技术细节错误", "信息过时"},
	},
	{
		Number:       2,
		Name:         "风格与语气审校",
		Key:          true,
		ExpectedTime: "20分钟",
		Focus: []string{
			"AI腔清理：模板化句式识别",
			"个人风格对齐：语言习惯、表达偏好",
			"语言自然度：流畅性、生动性",
			"真实感增强：个人色彩、真实细节",
		},
		Checks: []Check{
			{"AI腔表达检测", "识别并标记所有AI腔表达", "AI腔表达<2%"},
			{"风格一致性", "是否匹配个人写作风格", "风格匹配度≥4.5/5"},
			{"语言自然度", "语言是否流畅自然", "无明显机械感"},
			{"真实感", "是否体现个人特色", "至少1处真实素材"},
		},
		CommonIssues: []string{"模板化开头和结尾", "使用禁用词汇", "语气过于正式", "缺少个人色彩"},
	},
	{
		Number:       3,
		Name:         "细节与格式审校",
		ExpectedTime: "10-15分钟",
		Focus: []string{
			"术语一致性：专业词汇统一使用",
			"格式规范：标题、列表、引用格式",
			"标点符号：逗号、句号、分号使用",
			"数字与单位：数值格式、单位规范",
		},
		Checks: []Check{
			{"术语一致性", "专业术语是否统一", "无同义词混用"},
			{"格式规范", "是否符合写作规范", "100%符合规范"},
			{"标点准确", "标点使用是否正确", "无标点错误"},
			{"数字格式", "数值格式是否统一", "格式完全一致"},
		},
		CommonIssues: []string{"术语不统一", "中英文混排不规范", "标点中英文混用", "数字格式混乱"},
	},
	{
		Number:       4,
		Name:         "流畅度优化",
		Key:          true,
		ExpectedTime: "15分钟",
		Focus: []string{
			"段落过渡：章节间连接是否自然",
			"句子长度：避免过长句子",
			"节奏控制：信息密度是否适中",
			"阅读体验：整体流畅度优化",
		},
		Checks: []Check{
			{"段落过渡检查", "章节间是否有过渡句", "每章开头有2-3句过渡"},
			{"句子长度优化", "长句是否拆分为短句", "长句<5%，平均长度<25字"},
			{"信息密度控制", "段落信息点是否过多", "每段1-2个信息点"},
			{"流畅度评分", "整体阅读流畅度", "流畅度≥4.0/5"},
		},
		CommonIssues: []string{"段落间跳跃大", "句子过长（>30字）", "信息点过密", "缺少呼吸点"},
	},
}

// Checklist returns a deep copy of the four review passes.
func Checklist() []Pass {
	out := make([]Pass, len(passes))
	for i, p := range passes {
		p.Focus = append([]string(nil), p.Focus...)
		p.Checks = append([]Check(nil), p.Checks...)
		p.CommonIssues = append([]string(nil), p.CommonIssues...)
		out[i] = p
	}
	return out
}

// FastTrack is what a quick review skips and keeps.
type FastTrack struct {
	Skips      []string `json:"skips"`
	Keeps      []string `json:"keeps"`
	TimeSaving string   `json:"time_saving"`
}

func fastTrack() *FastTrack {
	return &FastTrack{
		Skips:      []string{"深度内容分析", "详细格式检查"},
		Keeps:      []string{"AI腔检测", "基本逻辑检查"},
		TimeSaving: "50%",
	}
}

var nextSteps = []string{
	"1. 开始第一遍审校：内容与逻辑",
	"2. 重点检查工作区特定要求",
	"3. 清理所有AI腔表达",
	"4. 确保格式完全规范",
	"5. 对照质量标准自查",
}

var notes = []string{
	"第二遍是降AI味的关键",
	"不要跳过任何一遍审校",
	"发现严重问题时回到第一步",
	"最终稿件需要用户确认",
}
