package scorer

import (
	"strings"
	"time"

	"oss-matchmaker/internal/adapter/analyzer"
	"oss-matchmaker/internal/domain"
)

// issue 匹配分的子项名
const (
	LanguageMatch   = "languageMatch"
	DifficultyScore = "difficultyScore"
	EngagementScore = "engagementScore"
	LabelScore      = "labelScore"
	PopularityScore = "popularityScore"
)

type labelTier struct {
	needles []string
	score   int
}

// difficultyTiers 按优先级排列，第一个命中的档位生效
var difficultyTiers = []labelTier{
	{[]string{"good first issue", "good-first-issue"}, 100},
	{[]string{"help wanted", "help-wanted"}, 85},
	{[]string{"documentation", "docs"}, 80},
	{[]string{"bug"}, 70},
	{[]string{"enhancement", "feature"}, 60},
}

var (
	positiveLabels = []string{
		"good first issue", "good-first-issue", "beginner", "starter",
		"help wanted", "help-wanted", "documentation", "docs",
		"easy", "low-hanging-fruit",
	}
	negativeLabels = []string{
		"wontfix", "duplicate", "invalid", "blocked",
		"architecture", "breaking-change", "security",
	}
)

// IssueScorer 计算用户与 issue 的匹配分
type IssueScorer struct {
	nowFunc func() time.Time
}

// NewIssueScorer 创建 issue 打分器
func NewIssueScorer() *IssueScorer {
	return &IssueScorer{nowFunc: time.Now}
}

// WithNow 替换时钟，测试用
func (s *IssueScorer) WithNow(now func() time.Time) *IssueScorer {
	s.nowFunc = now
	return s
}

// Score 返回总分和五个子项:
// languageMatch 0.30, difficultyScore 0.25, engagementScore 0.20, labelScore 0.15, popularityScore 0.10
func (s *IssueScorer) Score(profile *domain.Profile, issue *domain.Issue) domain.Score {
	labels := issue.LabelNames()
	return combine([]weighted{
		{LanguageMatch, 0.30, languageTier(profile, issue.Repository.Language)},
		{DifficultyScore, 0.25, difficulty(labels)},
		{EngagementScore, 0.20, engagement(issue, s.nowFunc())},
		{LabelScore, 0.15, labelRelevance(labels)},
		{PopularityScore, 0.10, repoPopularity(issue.Repository.Stars)},
	})
}

// ScoreAll 逐个打分，单个 issue 失败不影响其他 issue
func (s *IssueScorer) ScoreAll(profile *domain.Profile, issues []domain.Issue) []domain.ScoredIssue {
	scored := make([]domain.ScoredIssue, 0, len(issues))
	for i := range issues {
		issue := &issues[i]
		score, failure := safely(func() domain.Score { return s.Score(profile, issue) })
		scored = append(scored, domain.ScoredIssue{
			Issue:          *issue,
			MatchScore:     score.Total,
			ScoreBreakdown: score.Breakdown,
			ScoreError:     failure,
		})
	}
	return scored
}

func difficulty(labels []string) int {
	for _, tier := range difficultyTiers {
		if anyLabelContains(labels, tier.needles) {
			return tier.score
		}
	}
	return neutralScore
}

// engagement 按创建时间、更新时间和评论数调整。时间戳缺失时不做对应调整
func engagement(issue *domain.Issue, now time.Time) int {
	score := 50

	if !issue.CreatedAt.IsZero() {
		age := analyzer.DaysSince(issue.CreatedAt, now)
		switch {
		case age < 7:
			score += 30
		case age < 30:
			score += 20
		case age < 90:
			score += 10
		case age > 180:
			score -= 20
		}
	}

	if !issue.UpdatedAt.IsZero() {
		sinceUpdate := analyzer.DaysSince(issue.UpdatedAt, now)
		switch {
		case sinceUpdate < 7:
			score += 20
		case sinceUpdate > 60:
			score -= 10
		}
	}

	switch c := issue.Comments; {
	case c > 0 && c < 5:
		score += 15
	case c >= 5 && c < 15:
		score += 5
	case c > 20:
		score -= 10
	}

	return clamp(score)
}

// labelRelevance 每个标签最多加一次正分、扣一次负分
func labelRelevance(labels []string) int {
	score := 50
	for _, l := range labels {
		if containsAny(l, positiveLabels) {
			score += 15
		}
		if containsAny(l, negativeLabels) {
			score -= 30
		}
	}
	return clamp(score)
}

// repoPopularity 100-1000 star 最好，过冷或过热都降分
func repoPopularity(stars int) int {
	switch {
	case stars >= 100 && stars <= 1000:
		return 100
	case stars > 1000 && stars <= 5000:
		return 90
	case stars > 5000 && stars <= 10000:
		return 80
	case stars > 10000 && stars <= 50000:
		return 70
	case stars >= 50 && stars < 100:
		return 70
	case stars < 50:
		return 50
	default:
		return 60
	}
}

// anyLabelContains 任一标签包含任一关键字
func anyLabelContains(labels, needles []string) bool {
	for _, l := range labels {
		if containsAny(l, needles) {
			return true
		}
	}
	return false
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
