package scorer

import (
	"testing"
	"time"

	"oss-matchmaker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(names ...string) []domain.Label {
	out := make([]domain.Label, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Label{Name: n})
	}
	return out
}

func daysBefore(days float64) time.Time {
	return fixedNow.Add(-time.Duration(days * float64(24*time.Hour)))
}

func TestIssueScorer_Scenario(t *testing.T) {
	s := NewIssueScorer().WithNow(clock)
	issue := &domain.Issue{
		Labels:     labels("good first issue"),
		CreatedAt:  daysBefore(3),
		Comments:   0,
		Repository: domain.IssueRepo{Stars: 500},
	}

	got := s.Score(&domain.Profile{}, issue)

	assert.Equal(t, domain.Breakdown{
		LanguageMatch:   50,
		DifficultyScore: 100,
		EngagementScore: 80,
		LabelScore:      65,
		PopularityScore: 100,
	}, got.Breakdown)
	assert.Equal(t, 76, got.Total)
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   int
	}{
		{"good first issue", []string{"good first issue"}, 100},
		{"连字符写法", []string{"good-first-issue"}, 100},
		{"help wanted", []string{"help wanted"}, 85},
		{"文档", []string{"documentation"}, 80},
		{"文档优先于 bug", []string{"bug", "docs"}, 80},
		{"bug", []string{"type: bug"}, 70},
		{"feature", []string{"feature-request"}, 60},
		{"good first issue 优先于其他", []string{"enhancement", "bug", "good first issue"}, 100},
		{"没有标签", nil, 50},
		{"无关标签", []string{"question"}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, difficulty(tt.labels))
		})
	}
}

func TestEngagement(t *testing.T) {
	tests := []struct {
		name  string
		issue domain.Issue
		want  int
	}{
		{"时间缺失、无评论", domain.Issue{}, 50},
		{"新建且刚更新", domain.Issue{CreatedAt: daysBefore(1), UpdatedAt: daysBefore(1)}, 100},
		{"新建且刚更新并有少量评论，封顶", domain.Issue{CreatedAt: daysBefore(1), UpdatedAt: daysBefore(1), Comments: 2}, 100},
		{"20 天前创建", domain.Issue{CreatedAt: daysBefore(20), UpdatedAt: daysBefore(20)}, 70},
		{"60 天前创建，5 条评论", domain.Issue{CreatedAt: daysBefore(60), UpdatedAt: daysBefore(30), Comments: 5}, 65},
		{"120 天前创建不加分", domain.Issue{CreatedAt: daysBefore(120), UpdatedAt: daysBefore(30)}, 50},
		{"陈旧且讨论过多", domain.Issue{CreatedAt: daysBefore(400), UpdatedAt: daysBefore(100), Comments: 30}, 10},
		{"15 到 20 条评论不调整", domain.Issue{Comments: 18}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engagement(&tt.issue, fixedNow))
		})
	}
}

func TestLabelRelevance(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   int
	}{
		{"没有标签", nil, 50},
		{"一个正向标签", []string{"good first issue"}, 65},
		{"多个正向标签", []string{"easy", "docs", "help wanted"}, 95},
		{"正向标签封顶", []string{"easy", "docs", "starter", "beginner"}, 100},
		{"负向标签", []string{"wontfix"}, 20},
		{"负向标签下限", []string{"duplicate", "invalid", "blocked"}, 0},
		{"正负相抵", []string{"good first issue", "security"}, 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, labelRelevance(tt.labels))
		})
	}
}

func TestRepoPopularity(t *testing.T) {
	tests := []struct {
		stars int
		want  int
	}{
		{0, 50},
		{49, 50},
		{50, 70},
		{99, 70},
		{100, 100},
		{1000, 100},
		{1001, 90},
		{5000, 90},
		{10000, 80},
		{50000, 70},
		{50001, 60},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, repoPopularity(tt.stars), "stars=%d", tt.stars)
	}
}

func TestIssueScorer_Bounds(t *testing.T) {
	s := NewIssueScorer().WithNow(clock)
	issues := []domain.Issue{
		{},
		{Labels: labels("wontfix", "duplicate", "security", "blocked"), CreatedAt: daysBefore(900), UpdatedAt: daysBefore(900), Comments: 99},
		{Labels: labels("good first issue", "easy", "docs", "starter"), CreatedAt: fixedNow, UpdatedAt: fixedNow, Comments: 1, Repository: domain.IssueRepo{Language: "Go", Stars: 300}},
	}

	for _, p := range []*domain.Profile{{}, goProfile()} {
		for i := range issues {
			got := s.Score(p, &issues[i])
			assert.GreaterOrEqual(t, got.Total, 0)
			assert.LessOrEqual(t, got.Total, 100)
			for name, v := range got.Breakdown {
				assert.GreaterOrEqual(t, v, 0, name)
				assert.LessOrEqual(t, v, 100, name)
			}
		}
	}
}

func TestIssueScorer_ScoreAll(t *testing.T) {
	s := NewIssueScorer().WithNow(clock)
	issues := []domain.Issue{
		{Number: 1, Repository: domain.IssueRepo{Language: "go"}},
		{Number: 2},
	}

	scored := s.ScoreAll(goProfile(), issues)
	require.Len(t, scored, 2)
	assert.Equal(t, 1, scored[0].Number)
	assert.Equal(t, 100, scored[0].ScoreBreakdown[LanguageMatch])
	assert.Equal(t, 30, scored[1].ScoreBreakdown[LanguageMatch])

	failed := s.ScoreAll(nil, issues)
	require.Len(t, failed, 2)
	assert.Equal(t, 0, failed[1].MatchScore)
	assert.NotEmpty(t, failed[1].ScoreError)
}
